// Package redisdb keeps user preferences in redis when it is configured.
package redisdb

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/myday/core"
	"github.com/trezcool/myday/core/timetable"
)

const prefKeyPrefix = "myday:pref:"

type preferenceStore struct {
	rdb *redis.Client
}

var _ timetable.PreferenceStore = (*preferenceStore)(nil) // interface compliance check

// Open connects to redis and pings it.
func Open(ctx context.Context, conf core.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrap(err, "pinging redis")
	}
	return rdb, nil
}

func NewPreferenceStore(rdb *redis.Client) *preferenceStore {
	return &preferenceStore{rdb: rdb}
}

func prefKey(userID, name string) string {
	return prefKeyPrefix + userID + ":" + name
}

func (s *preferenceStore) GetPreference(ctx context.Context, userID, name string) (int, error) {
	raw, err := s.rdb.Get(ctx, prefKey(userID, name)).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, timetable.ErrNotFound
		}
		return 0, errors.Wrap(err, "getting preference")
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing preference %q", raw)
	}
	return v, nil
}

func (s *preferenceStore) SetPreference(ctx context.Context, userID, name string, value int) error {
	err := s.rdb.Set(ctx, prefKey(userID, name), strconv.Itoa(value), 0).Err()
	return errors.Wrap(err, "setting preference")
}
