package main

import (
	"context"

	"github.com/trezcool/myday/core"
	"github.com/trezcool/myday/core/timetable"
)

// addUser updates or creates a directory user with the given campus roles.
func (cli *commandLine) addUser(uname, email, name string, roles []string) error {
	uname = core.CleanString(uname)
	if name == "" {
		name = uname
	}
	_, err := cli.dir.SaveUser(context.Background(), timetable.User{
		Username:    uname,
		Email:       core.CleanString(email, true /* lower */),
		FullName:    core.CleanString(name),
		CampusRoles: roles,
	})
	return err
}

func (cli *commandLine) addMentor(mentor, mentee string) error {
	return cli.dir.AddMentor(context.Background(), mentor, mentee)
}

func (cli *commandLine) addCourse(idNumber, name string) error {
	if name == "" {
		name = idNumber
	}
	_, err := cli.dir.SaveCourse(context.Background(), timetable.Course{
		IDNumber: core.CleanString(idNumber),
		FullName: core.CleanString(name),
	})
	return err
}
