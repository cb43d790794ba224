package redisdb

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/myday/core"
	"github.com/trezcool/myday/core/timetable"
)

func Test_prefKey(t *testing.T) {
	if got, want := prefKey("hero", timetable.PrefCollapsed), "myday:pref:hero:block_my_day_timetable_collapsed"; got != want {
		t.Errorf("failed! prefKey() = %v; want %v", got, want)
	}
}

// runs against a live server only: TEST_REDIS_ADDR=localhost:6379
func TestPreferenceStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()

	rdb, err := Open(ctx, core.RedisConfig{Addr: addr, DB: 15})
	require.NoError(t, err)
	defer rdb.Close()
	defer rdb.FlushDB(ctx)

	store := NewPreferenceStore(rdb)

	_, err = store.GetPreference(ctx, "hero", timetable.PrefCollapsed)
	assert.Equal(t, timetable.ErrNotFound, err)

	require.NoError(t, store.SetPreference(ctx, "hero", timetable.PrefCollapsed, 0))
	require.NoError(t, store.SetPreference(ctx, "hero", timetable.PrefCollapsed, 1))

	v, err := store.GetPreference(ctx, "hero", timetable.PrefCollapsed)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}
