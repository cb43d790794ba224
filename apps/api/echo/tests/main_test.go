package tests

import (
	"fmt"
	"io"
	"log"
	"os"
	"testing"
	"time"

	. "github.com/trezcool/myday/apps/api/echo"
	"github.com/trezcool/myday/core"
	"github.com/trezcool/myday/core/timetable"
	"github.com/trezcool/myday/services/logger"
	"github.com/trezcool/myday/services/metrics"
	"github.com/trezcool/myday/storage/database/dummy"
)

var (
	conf *core.Config
	app  Server
	dir  timetable.DirectoryAdmin
	src  *dummydb.Source
	mtr  *metrics.Metrics

	// Wednesday, mid-morning
	today = time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)
	now   = time.Date(2024, 3, 6, 10, 30, 0, 0, time.UTC)

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

func TestMain(m *testing.M) {
	conf = core.NewConfig()
	conf.TestMode = true
	conf.Server.BaseURL = "https://lms.test.cd"
	conf.Timetable.StudentRoles = []string{"Students"}
	conf.Timetable.StaffRoles = []string{"Staff"}
	conf.Timetable.Colours = `"math":"#547384","science":"#8A439C",`
	conf.Timetable.Timezone = "UTC"

	opts, err := timetable.NewOptions(conf)
	if err != nil {
		fmt.Printf("timetable.NewOptions(): %v", err)
		os.Exit(1)
	}
	timetable.NowFunc = func() time.Time { return now }

	// set up DB & repos
	db, _ := dummydb.Open()
	directory := dummydb.NewDirectory(db)
	dir = directory
	src = dummydb.NewSource(db)

	// set up services
	lgr := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	mtr = metrics.New()
	svc := timetable.NewService(
		mtr.InstrumentSource(src),
		directory,
		dummydb.NewPreferenceStore(db),
		lgr,
		opts,
	)

	// set up server
	app = NewServer(&Options{
		DisableReqLogs: true,
		Conf:           conf,
		Logger:         lgr,
		TimetableSvc:   svc,
		Metrics:        mtr,
	})

	os.Exit(m.Run())
}
