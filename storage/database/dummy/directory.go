package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/myday/core"
	"github.com/trezcool/myday/core/timetable"
)

type directory struct {
	users   *userTable
	courses *courseTable
}

var (
	_ timetable.Directory      = (*directory)(nil) // interface compliance check
	_ timetable.DirectoryAdmin = (*directory)(nil)
)

func NewDirectory(db *DB) *directory {
	return &directory{users: db.user, courses: db.course}
}

func (repo *directory) queryUsers() []timetable.User {
	users := make([]timetable.User, 0, len(repo.users.table))
	for _, u := range repo.users.table {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

func (repo *directory) GetUser(_ context.Context, username string) (timetable.User, error) {
	repo.users.RLock()
	defer repo.users.RUnlock()

	for _, usr := range repo.queryUsers() {
		if strings.EqualFold(usr.Username, core.CleanString(username)) {
			return usr, nil
		}
	}
	return timetable.User{}, timetable.ErrNotFound
}

func (repo *directory) IsMentor(_ context.Context, mentor, mentee string) (bool, error) {
	repo.users.RLock()
	defer repo.users.RUnlock()

	_, ok := repo.users.mentors[strings.ToLower(mentor)][strings.ToLower(mentee)]
	return ok, nil
}

func (repo *directory) GetCoursesByIDNumber(_ context.Context, idNumbers []string) ([]timetable.Course, error) {
	repo.courses.RLock()
	defer repo.courses.RUnlock()

	wanted := make(map[string]struct{}, len(idNumbers))
	for _, id := range idNumbers {
		wanted[id] = struct{}{}
	}
	var courses []timetable.Course
	for _, c := range repo.courses.table {
		if _, ok := wanted[c.IDNumber]; ok {
			courses = append(courses, *c)
		}
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses, nil
}

func (repo *directory) GetUserIDs(_ context.Context, usernames []string) (map[string]int, error) {
	repo.users.RLock()
	defer repo.users.RUnlock()

	ids := make(map[string]int, len(usernames))
	for _, usr := range repo.queryUsers() {
		for _, uname := range usernames {
			if strings.EqualFold(usr.Username, uname) {
				ids[uname] = usr.ID
			}
		}
	}
	return ids, nil
}

func (repo *directory) SaveUser(_ context.Context, usr timetable.User) (timetable.User, error) {
	repo.users.Lock()
	defer repo.users.Unlock()

	usr.Username = core.CleanString(usr.Username)
	usr.Email = core.CleanString(usr.Email, true /* lower */)
	for _, existing := range repo.users.table {
		if existing.Username == usr.Username {
			usr.ID = existing.ID
			*existing = usr
			return usr, nil
		}
	}
	repo.users.pkCount++
	usr.ID = repo.users.pkCount
	repo.users.table[usr.ID] = &usr
	return usr, nil
}

func (repo *directory) AddMentor(_ context.Context, mentor, mentee string) error {
	repo.users.Lock()
	defer repo.users.Unlock()

	mentor, mentee = core.CleanString(mentor, true), core.CleanString(mentee, true)
	if repo.users.mentors[mentor] == nil {
		repo.users.mentors[mentor] = make(map[string]struct{})
	}
	repo.users.mentors[mentor][mentee] = struct{}{}
	return nil
}

func (repo *directory) SaveCourse(_ context.Context, course timetable.Course) (timetable.Course, error) {
	repo.courses.Lock()
	defer repo.courses.Unlock()

	for _, existing := range repo.courses.table {
		if existing.IDNumber == course.IDNumber {
			course.ID = existing.ID
			*existing = course
			return course, nil
		}
	}
	repo.courses.pkCount++
	course.ID = repo.courses.pkCount
	repo.courses.table[course.ID] = &course
	return course, nil
}
