package database

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/trezcool/myday/core"
	"github.com/trezcool/myday/core/timetable"
)

type preferenceStore struct {
	db core.DBExecutor
}

var _ timetable.PreferenceStore = (*preferenceStore)(nil) // interface compliance check

func NewPreferenceStore(db core.DBExecutor) *preferenceStore {
	return &preferenceStore{db: db}
}

func (repo *preferenceStore) GetPreference(ctx context.Context, userID, name string) (int, error) {
	var value int
	err := repo.db.GetContext(
		ctx, &value,
		`SELECT value FROM user_preferences WHERE user_id = $1 AND name = $2`,
		userID, name,
	)
	if err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return 0, timetable.ErrNotFound
		}
		return 0, errors.Wrap(err, "selecting preference")
	}
	return value, nil
}

// SetPreference upserts in a single statement; concurrent writers resolve as last write wins.
func (repo *preferenceStore) SetPreference(ctx context.Context, userID, name string, value int) error {
	_, err := repo.db.ExecContext(
		ctx,
		`INSERT INTO user_preferences (user_id, name, value, updated_at) VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id, name) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		userID, name, value,
	)
	return errors.Wrap(err, "upserting preference")
}
