package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/trezcool/myday/core"
	"github.com/trezcool/myday/core/timetable"
	logsvc "github.com/trezcool/myday/services/logger"
	"github.com/trezcool/myday/storage/database"
	"github.com/trezcool/myday/storage/sis"
)

var logger *logsvc.RollbarLogger

func main() {
	conf := core.NewConfig()
	logger = logsvc.NewRollbarLogger(log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// set up DB
	db, err := database.Open(ctx, conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(database.Ping(ctx, db))

	dir := database.NewDirectory(db)

	// start CLI
	cli := commandLine{
		conf: conf,
		db:   db,
		dir:  dir,
		newService: func() (*timetable.Service, error) {
			if err := conf.Validate(); err != nil {
				return nil, err
			}
			opts, err := timetable.NewOptions(conf)
			if err != nil {
				return nil, err
			}
			src, err := sis.Open(context.Background(), conf.SIS, opts.Location)
			if err != nil {
				return nil, err
			}
			return timetable.NewService(src, dir, database.NewPreferenceStore(db), logger, opts), nil
		},
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("command failed", err)
		}
		db.Close()
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal("admin setup failed", err)
	}
}
