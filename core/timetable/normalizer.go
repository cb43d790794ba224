package timetable

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/trezcool/myday/core/calendar"
)

type (
	NormalizeOptions struct {
		PeriodNames []string
		BreakNames  []string
		Colours     []ColourRule
		BaseURL     string // host site root, used for course links & teacher photos
	}

	// Lookups holds host data resolved ahead of normalization.
	Lookups struct {
		Mappings []CourseMapping
		Courses  map[string]Course // by id-number
		UserIDs  map[string]int    // by username
	}

	Normalized struct {
		Periods    []DisplayPeriod
		NumPeriods int
		NumBreaks  int
		IsStaff    bool
		IsStudent  bool
	}
)

// Normalize folds raw SIS rows into display periods, keeping the source order.
func Normalize(rows []RawPeriod, role Role, opts NormalizeOptions, lk Lookups, now time.Time) Normalized {
	periods := make([]DisplayPeriod, 0, len(rows))
	numBreaks := 0

	for _, row := range rows {
		if !isValidPeriod(row.PeriodDescription, opts.PeriodNames) {
			continue
		}

		// staff can teach 2 classes at the same time: fold the second class into the first
		if n := len(periods); n > 0 && periods[n-1].PeriodDescription == row.PeriodDescription {
			prev := &periods[n-1]
			if diff := wordDiff(row.ClassDescription, prev.ClassDescription); len(diff) > 0 {
				prev.ClassDescription += ", " + strings.Join(diff, " ")
			}
			continue
		}

		// empty periods are free periods for students but noise for staff
		if role == RoleStaff && strings.Contains(row.PeriodDescription, staffGapPeriodMatch) && row.ClassCode == "" {
			continue
		}

		p := enrich(row, opts, lk, now)
		if p.IsBreak {
			numBreaks++
		}
		periods = append(periods, p)
	}

	return Normalized{
		Periods:    periods,
		NumPeriods: len(periods),
		NumBreaks:  numBreaks,
		IsStaff:    role == RoleStaff,
		IsStudent:  role == RoleStudent,
	}
}

func isValidPeriod(desc string, names []string) bool {
	desc = strings.ToLower(desc)
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" && strings.Contains(desc, name) {
			return true
		}
	}
	return false
}

// wordDiff returns the words of a not found in b, in order.
func wordDiff(a, b string) []string {
	seen := make(map[string]struct{})
	for _, w := range strings.Split(b, " ") {
		seen[w] = struct{}{}
	}
	var diff []string
	for _, w := range strings.Split(a, " ") {
		if w == "" {
			continue
		}
		if _, ok := seen[w]; !ok {
			diff = append(diff, w)
		}
	}
	return diff
}

func enrich(row RawPeriod, opts NormalizeOptions, lk Lookups, now time.Time) DisplayPeriod {
	p := DisplayPeriod{
		Period:            row.Period,
		SortTime:          row.SortTime.Format(RawDateTimeLayout),
		EndDateTime:       row.EndTime.Format(RawDateTimeLayout),
		PeriodDescription: row.PeriodDescription,
		Room:              row.Room,
		ClassDescription:  row.ClassDescription,
		ClassCode:         row.ClassCode,
		StaffID:           row.StaffID,
		StartTime:         calendar.FormatClock(row.SortTime),
		EndTime:           calendar.FormatClock(row.EndTime),
	}

	if row.ClassDescription == "" {
		p.AltDescription = freePeriodText
	} else if course, ok := mappedCourse(row.ClassCode, lk); ok {
		p.AltDescription = course.FullName
		p.CourseLink = CourseURL(opts.BaseURL, course.ID)
	}

	if isBreak(row.ClassDescription, opts.BreakNames) {
		p.IsBreak = true
		p.ExtraHTMLClasses = breakHTMLClass
	}

	p.ProgressStatus, p.ProgressAmount = progress(row.SortTime, row.EndTime, now)
	p.ClassColor = matchColour(opts.Colours, row.ClassDescription)

	if row.StaffID != "" {
		if id, ok := lk.UserIDs[row.StaffID]; ok {
			p.TeacherPhoto = UserPictureURL(opts.BaseURL, id)
		}
	}
	return p
}

// mappedCourse resolves the first mapping of code with a target course known to the host.
func mappedCourse(code string, lk Lookups) (Course, bool) {
	if code == "" {
		return Course{}, false
	}
	for _, m := range lk.Mappings {
		if m.ExtCode != code || m.TargetIDNumber == "" {
			continue
		}
		if course, ok := lk.Courses[m.TargetIDNumber]; ok {
			return course, true
		}
	}
	return Course{}, false
}

func isBreak(desc string, names []string) bool {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return false
	}
	for _, name := range names {
		if strings.TrimSpace(name) == desc {
			return true
		}
	}
	return false
}

// progress is 0 before start, 100 from end onwards and linear (floored) in between.
func progress(start, end, now time.Time) (string, int) {
	switch {
	case !now.Before(end):
		return ProgressComplete, 100
	case now.Before(start):
		return ProgressUpcoming, 0
	}
	amount := int(now.Sub(start) * 100 / end.Sub(start))
	return ProgressInProgress, amount
}

func CourseURL(baseURL string, courseID int) string {
	return baseURL + "/course/view.php?" + url.Values{"id": {strconv.Itoa(courseID)}}.Encode()
}

func UserPictureURL(baseURL string, userID int) string {
	return fmt.Sprintf("%s/user/pix.php/%d/f2.jpg", baseURL, userID)
}
