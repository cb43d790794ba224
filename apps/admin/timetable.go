package main

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	echoapi "github.com/trezcool/myday/apps/api/echo"
	"github.com/trezcool/myday/core/calendar"
	"github.com/trezcool/myday/core/timetable"
)

// printTimetable prints uname's timetable as viewer sees it, either the opening day or one navigated from date.
func (cli *commandLine) printTimetable(uname, viewerName, nav, date string) error {
	ctx := context.Background()
	svc, err := cli.newService()
	if err != nil {
		return err
	}
	if viewerName == "" {
		viewerName = uname
	}
	usr, err := cli.lookupUser(ctx, viewerName)
	if err != nil {
		return err
	}
	viewer := timetable.Viewer{Username: usr.Username, CampusRoles: usr.CampusRoles}

	var tt *timetable.DisplayTimetable
	if nav == "" {
		tt, err = svc.BuildInitialView(ctx, viewer, uname, 0)
	} else {
		dir, dErr := calendar.ParseDirection(nav)
		if dErr != nil {
			return dErr
		}
		day, dErr := calendar.ParseDate(date, svc.Location())
		if dErr != nil {
			return dErr
		}
		tt, err = svc.Navigate(ctx, viewer, uname, "", 0, dir, day)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cli.stdout())
	enc.SetIndent("", "  ")
	return enc.Encode(tt)
}

// printToken issues a token for uname; explicit roles skip the directory lookup.
func (cli *commandLine) printToken(uname string, roles []string) error {
	usr := timetable.User{Username: uname, CampusRoles: roles}
	if len(roles) == 0 {
		var err error
		if usr, err = cli.lookupUser(context.Background(), uname); err != nil {
			return err
		}
	}
	token, err := echoapi.GenerateToken(cli.conf.SecretKey, echoapi.NewClaims(cli.conf, usr))
	if err != nil {
		return err
	}
	_, err = cli.stdout().Write([]byte(token + "\n"))
	return err
}

func (cli *commandLine) lookupUser(ctx context.Context, uname string) (timetable.User, error) {
	dir, ok := cli.dir.(timetable.Directory)
	if !ok {
		return timetable.User{}, errors.New("directory cannot look users up")
	}
	usr, err := dir.GetUser(ctx, uname)
	if err != nil {
		return timetable.User{}, errors.Wrapf(err, "getting user %q", uname)
	}
	return usr, nil
}
