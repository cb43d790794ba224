package dummydb

import (
	"context"

	"github.com/trezcool/myday/core/timetable"
)

type preferenceStore struct {
	db *preferenceTable
}

var _ timetable.PreferenceStore = (*preferenceStore)(nil) // interface compliance check

func NewPreferenceStore(db *DB) *preferenceStore {
	return &preferenceStore{db: db.preference}
}

func (repo *preferenceStore) GetPreference(_ context.Context, userID, name string) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if v, ok := repo.db.table[userID+"/"+name]; ok {
		return v, nil
	}
	return 0, timetable.ErrNotFound
}

func (repo *preferenceStore) SetPreference(_ context.Context, userID, name string, value int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[userID+"/"+name] = value
	return nil
}
