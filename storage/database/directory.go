package database

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/myday/core"
	"github.com/trezcool/myday/core/timetable"
)

type directory struct {
	db core.DBExecutor
}

var (
	_ timetable.Directory      = (*directory)(nil) // interface compliance check
	_ timetable.DirectoryAdmin = (*directory)(nil)
)

// NewDirectory returns the host directory backed by the users, mentors and courses tables.
func NewDirectory(db core.DBExecutor) *directory {
	return &directory{db: db}
}

type userRow struct {
	ID          int            `db:"id"`
	Username    string         `db:"username"`
	Email       string         `db:"email"`
	FullName    string         `db:"fullname"`
	CampusRoles pq.StringArray `db:"campus_roles"`
}

func (r userRow) user() timetable.User {
	return timetable.User{
		ID:          r.ID,
		Username:    r.Username,
		Email:       r.Email,
		FullName:    r.FullName,
		CampusRoles: []string(r.CampusRoles),
	}
}

func (repo *directory) GetUser(ctx context.Context, username string) (timetable.User, error) {
	var row userRow
	err := repo.db.GetContext(
		ctx, &row,
		`SELECT id, username, email, fullname, campus_roles FROM users WHERE lower(username) = lower($1)`,
		core.CleanString(username),
	)
	if err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return timetable.User{}, timetable.ErrNotFound
		}
		return timetable.User{}, errors.Wrap(err, "selecting user")
	}
	return row.user(), nil
}

func (repo *directory) IsMentor(ctx context.Context, mentor, mentee string) (bool, error) {
	var count int
	err := repo.db.GetContext(
		ctx, &count,
		`SELECT COUNT(*) FROM mentors WHERE lower(mentor) = lower($1) AND lower(mentee) = lower($2)`,
		mentor, mentee,
	)
	if err != nil {
		return false, errors.Wrap(err, "selecting mentor")
	}
	return count > 0, nil
}

func (repo *directory) GetCoursesByIDNumber(ctx context.Context, idNumbers []string) ([]timetable.Course, error) {
	if len(idNumbers) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT id, idnumber, fullname FROM courses WHERE idnumber IN (?)`, idNumbers)
	if err != nil {
		return nil, errors.Wrap(err, "building courses query")
	}
	var courses []timetable.Course
	if err = repo.db.SelectContext(ctx, &courses, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "selecting courses")
	}
	return courses, nil
}

func (repo *directory) GetUserIDs(ctx context.Context, usernames []string) (map[string]int, error) {
	if len(usernames) == 0 {
		return make(map[string]int), nil
	}
	lowered := make([]string, 0, len(usernames))
	for _, uname := range usernames {
		lowered = append(lowered, strings.ToLower(uname))
	}
	query, args, err := sqlx.In(`SELECT id, username FROM users WHERE lower(username) IN (?)`, lowered)
	if err != nil {
		return nil, errors.Wrap(err, "building users query")
	}
	var rows []userID
	if err = repo.db.SelectContext(ctx, &rows, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "selecting user ids")
	}
	return matchUserIDs(usernames, rows), nil
}

type userID struct {
	ID       int    `db:"id"`
	Username string `db:"username"`
}

// matchUserIDs keys the found ids by the usernames as requested, ignoring case.
func matchUserIDs(usernames []string, rows []userID) map[string]int {
	byLower := make(map[string]int, len(rows))
	for _, r := range rows {
		byLower[strings.ToLower(r.Username)] = r.ID
	}
	ids := make(map[string]int, len(usernames))
	for _, uname := range usernames {
		if id, ok := byLower[strings.ToLower(uname)]; ok {
			ids[uname] = id
		}
	}
	return ids
}

// SaveUser inserts the user, or updates it when the username is already taken.
func (repo *directory) SaveUser(ctx context.Context, usr timetable.User) (timetable.User, error) {
	row := userRow{
		Username:    core.CleanString(usr.Username),
		Email:       core.CleanString(usr.Email, true /* lower */),
		FullName:    core.CleanString(usr.FullName),
		CampusRoles: pq.StringArray(usr.CampusRoles),
	}
	if row.CampusRoles == nil {
		row.CampusRoles = pq.StringArray{}
	}
	query, args, err := sqlx.Named(`
		INSERT INTO users (username, email, fullname, campus_roles)
		VALUES (:username, :email, :fullname, :campus_roles)
		ON CONFLICT (username) DO UPDATE
		SET email = EXCLUDED.email, fullname = EXCLUDED.fullname, campus_roles = EXCLUDED.campus_roles
		RETURNING id`, row)
	if err != nil {
		return timetable.User{}, errors.Wrap(err, "building user upsert")
	}
	if err = repo.db.GetContext(ctx, &row.ID, repo.db.Rebind(query), args...); err != nil {
		return timetable.User{}, errors.Wrap(err, "upserting user")
	}
	return row.user(), nil
}

func (repo *directory) AddMentor(ctx context.Context, mentor, mentee string) error {
	_, err := repo.db.ExecContext(
		ctx,
		`INSERT INTO mentors (mentor, mentee) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		core.CleanString(mentor), core.CleanString(mentee),
	)
	return errors.Wrap(err, "inserting mentor")
}

func (repo *directory) SaveCourse(ctx context.Context, course timetable.Course) (timetable.Course, error) {
	course.IDNumber = core.CleanString(course.IDNumber)
	course.FullName = core.CleanString(course.FullName)
	err := repo.db.GetContext(
		ctx, &course.ID,
		`INSERT INTO courses (idnumber, fullname) VALUES ($1, $2)
		ON CONFLICT (idnumber) DO UPDATE SET fullname = EXCLUDED.fullname
		RETURNING id`,
		course.IDNumber, course.FullName,
	)
	if err != nil {
		return timetable.Course{}, errors.Wrap(err, "upserting course")
	}
	return course, nil
}
