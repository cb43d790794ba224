package timetable

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/myday/core/calendar"
)

// Roles
type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
)

// Progress statuses
const (
	ProgressUpcoming   = "upcoming"
	ProgressInProgress = "inprogress"
	ProgressComplete   = "complete"
)

const (
	PrefCollapsed       = "block_my_day_timetable_collapsed"
	DefaultCollapsed    = 1
	RawDateTimeLayout   = "2006-01-02 15:04:05"
	breakHTMLClass      = "break"
	freePeriodText      = "Free period"
	staffGapPeriodMatch = "Period"
)

var errInvalidRole = errors.New("role must be one of: student, staff")

func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleStudent, RoleStaff:
		return r, nil
	}
	return "", errInvalidRole
}

func (r Role) IsStaff() bool   { return r == RoleStaff }
func (r Role) IsStudent() bool { return r == RoleStudent }

type (
	// Request is a single "which day, whose timetable" lookup.
	Request struct {
		UserID     string
		Role       Role
		Date       time.Time
		Direction  calendar.Direction
		InstanceID int
	}

	// RawPeriod is one scheduled row as returned by the SIS for a user and date.
	RawPeriod struct {
		Period            string
		SortTime          time.Time
		EndTime           time.Time
		PeriodDescription string
		Room              string
		ClassDescription  string
		ClassCode         string
		StaffID           string
		DefinitionDay     string
	}

	TermWindow struct {
		Start        time.Time
		End          time.Time
		FileSemester string
	}

	// CourseMapping maps a SIS class code to the id-number of a host course.
	CourseMapping struct {
		ID             int
		ExtCode        string
		TargetIDNumber string
	}

	Course struct {
		ID       int    `json:"id" db:"id"`
		IDNumber string `json:"idnumber" db:"idnumber"`
		FullName string `json:"fullname" db:"fullname"`
	}

	User struct {
		ID          int      `json:"id" db:"id"`
		Username    string   `json:"username" db:"username"`
		Email       string   `json:"email" db:"email"`
		FullName    string   `json:"fullname" db:"fullname"`
		CampusRoles []string `json:"campus_roles" db:"campus_roles"`
	}

	// Viewer is the authenticated user asking for a timetable.
	Viewer struct {
		Username    string
		CampusRoles []string
	}

	DisplayPeriod struct {
		Period            string `json:"period"`
		SortTime          string `json:"sorttime"`
		EndDateTime       string `json:"timetabledatetimeto"`
		PeriodDescription string `json:"perioddescription"`
		Room              string `json:"room"`
		ClassDescription  string `json:"classdescription"`
		ClassCode         string `json:"classcode"`
		StaffID           string `json:"staffid"`
		ExtraHTMLClasses  string `json:"extrahtmlclasses"`
		AltDescription    string `json:"altdescription"`
		CourseLink        string `json:"courselink"`
		IsBreak           bool   `json:"isbreak"`
		TeacherPhoto      string `json:"teacherphoto"`
		StartTime         string `json:"starttime"`
		EndTime           string `json:"endtime"`
		ProgressStatus    string `json:"progressstatus"`
		ProgressAmount    int    `json:"progressamount"`
		ClassColor        string `json:"classcolor"`
	}

	DisplayTimetable struct {
		InstanceID      int             `json:"instanceid"`
		Role            Role            `json:"role"`
		ShowProgressBar int             `json:"showprogressbar"`
		User            string          `json:"user"`
		Date            string          `json:"date"`
		Hide            int             `json:"hide"`
		FromWS          bool            `json:"fromws"`
		Day             string          `json:"day"`
		TermNumber      string          `json:"termnumber"`
		TermWeek        string          `json:"termweek"`
		TermDay         string          `json:"termday"`
		TermFinished    bool            `json:"termfinished"`
		Periods         []DisplayPeriod `json:"periods"`
		Title           string          `json:"title"`
		NumPeriods      int             `json:"numperiods"`
		NumBreaks       int             `json:"numbreaks"`
		IsStaff         bool            `json:"isstaff"`
		IsStudent       bool            `json:"isstudent"`
	}
)

func (u User) PersonInfo() (id, username, email string) {
	return strconv.Itoa(u.ID), u.Username, u.Email
}

func (v Viewer) PersonInfo() (id, username, email string) {
	return v.Username, v.Username, ""
}
