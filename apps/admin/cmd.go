package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/myday/core"
	"github.com/trezcool/myday/core/timetable"
	"github.com/trezcool/myday/storage/database"
)

var (
	migrateFunc = database.Migrate // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf *core.Config
	db   *sqlx.DB
	dir  timetable.DirectoryAdmin
	// newService connects to the SIS on demand: only the timetable command needs it.
	newService func() (*timetable.Service, error)
	out        io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run database migrations (up, down, status, ...)")
	fmt.Println("  adduser -username USERNAME [-email EMAIL] [-name NAME] -roles ROLE[,ROLE] - register a user and their campus roles")
	fmt.Println("  addmentor -mentor USERNAME -mentee USERNAME - let a user see a mentee's timetable")
	fmt.Println("  addcourse -idnumber IDNUMBER -name NAME - register a course SIS classes map to")
	fmt.Println("  timetable -user USERNAME [-as VIEWER] [-nav -1|0|1 -date YYYY-MM-DD] - print a user's timetable as JSON")
	fmt.Println("  token -username USERNAME [-roles ROLE[,ROLE]] - print an API token for a user")
}

func (cli *commandLine) stdout() io.Writer {
	if cli.out == nil {
		return os.Stdout
	}
	return cli.out
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserUname := addUserCmd.String("username", "", "The user's username (SIS id).")
	addUserEmail := addUserCmd.String("email", "", "The user's email.")
	addUserName := addUserCmd.String("name", "", "The user's full name.")
	addUserRoles := addUserCmd.String("roles", "", "Comma separated campus roles, e.g. Students or Staff.")

	addMentorCmd := flag.NewFlagSet("addmentor", flag.ContinueOnError)
	addMentorMentor := addMentorCmd.String("mentor", "", "The mentor's username.")
	addMentorMentee := addMentorCmd.String("mentee", "", "The mentee's username.")

	addCourseCmd := flag.NewFlagSet("addcourse", flag.ContinueOnError)
	addCourseIDNumber := addCourseCmd.String("idnumber", "", "The course id-number SIS classes map to.")
	addCourseName := addCourseCmd.String("name", "", "The course full name.")

	timetableCmd := flag.NewFlagSet("timetable", flag.ContinueOnError)
	timetableUser := timetableCmd.String("user", "", "The user whose timetable is printed.")
	timetableNav := timetableCmd.String("nav", "", "Direction from -date: -1 (that day), 0 (backward) or 1 (forward).")
	timetableDate := timetableCmd.String("date", "", "The day navigated from (YYYY-MM-DD).")
	timetableAs := timetableCmd.String("as", "", "The viewer (defaults to -user).")

	tokenCmd := flag.NewFlagSet("token", flag.ContinueOnError)
	tokenUname := tokenCmd.String("username", "", "The user the token is issued for.")
	tokenRoles := tokenCmd.String("roles", "", "Comma separated campus roles (defaults to the user's directory roles).")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		roles := core.SplitCSV(*addUserRoles)
		if *addUserUname == "" || len(roles) == 0 {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserUname, *addUserEmail, *addUserName, roles)
	case "addmentor":
		if err := addMentorCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addMentorMentor == "" || *addMentorMentee == "" {
			addMentorCmd.Usage()
			return errHelp
		}
		return cli.addMentor(*addMentorMentor, *addMentorMentee)
	case "addcourse":
		if err := addCourseCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addCourseIDNumber == "" {
			addCourseCmd.Usage()
			return errHelp
		}
		return cli.addCourse(*addCourseIDNumber, *addCourseName)
	case "timetable":
		if err := timetableCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *timetableUser == "" || (*timetableNav != "" && *timetableDate == "") {
			timetableCmd.Usage()
			return errHelp
		}
		return cli.printTimetable(*timetableUser, *timetableAs, *timetableNav, *timetableDate)
	case "token":
		if err := tokenCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *tokenUname == "" {
			tokenCmd.Usage()
			return errHelp
		}
		return cli.printToken(*tokenUname, core.SplitCSV(*tokenRoles))
	default:
		cli.printUsage()
		return errHelp
	}
}
