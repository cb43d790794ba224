package core

import (
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // timezone names resolve on hosts without zoneinfo

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          string
		User          string
		Password      string
		Name          string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	// SISConfig holds the external student-information-system connection and the names of the
	// stored procedures and mapping table queried through it.
	SISConfig struct {
		Driver     string `validate:"required,oneof=postgres sqlserver"`
		Host       string `validate:"required"`
		Port       string
		User       string `validate:"required"`
		Password   string `validate:"required"`
		Name       string `validate:"required"`
		DisableTLS bool

		StudentProc string `validate:"required,sqlident"`
		StaffProc   string `validate:"required,sqlident"`
		TermProc    string `validate:"omitempty,sqlident"`

		MappingTable        string `validate:"omitempty,sqlident"`
		MappingTableID      string `validate:"required_with=MappingTable,omitempty,sqlident"`
		MappingTableExtCode string `validate:"required_with=MappingTable,omitempty,sqlident"`
		MappingTableMooCode string `validate:"required_with=MappingTable,omitempty,sqlident"`
	}

	RedisConfig struct {
		Addr     string
		Password string
		DB       int
	}

	ServerConfig struct {
		Address            string
		Host               string
		BaseURL            string // host LMS url used for course links and user pictures
		JWTExpirationDelta time.Duration
	}

	TimetableConfig struct {
		Title           string
		PeriodNames     []string `validate:"min=1"`
		BreakNames      []string
		Colours         string // "math":"#547384","science":"#8A439C",
		StudentRoles    []string `validate:"min=1"`
		StaffRoles      []string `validate:"min=1"`
		EndOfDay        string   `validate:"hhmm"`
		ShowProgressBar bool
		MaxProbeDays    int `validate:"min=1"`
		Timezone        string
	}

	Config struct {
		Env          string
		Build        string
		AppName      string
		Debug        bool
		TestMode     bool
		SecretKey    string
		RollbarToken string
		WorkDir      string

		Server    ServerConfig
		Database  DatabaseConfig
		SIS       SISConfig
		Redis     RedisConfig
		Timetable TimetableConfig
	}
)

// Address returns the host DB "host:port".
func (c DatabaseConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// DSN builds the connection string understood by the configured SIS driver.
func (c SISConfig) DSN() string {
	u := url.URL{
		User: url.UserPassword(c.User, c.Password),
		Host: c.Host,
	}
	if c.Port != "" {
		u.Host = net.JoinHostPort(c.Host, c.Port)
	}
	q := make(url.Values)

	switch c.Driver {
	case "sqlserver":
		u.Scheme = "sqlserver"
		q.Set("database", c.Name)
		if c.DisableTLS {
			q.Set("encrypt", "disable")
		}
	default:
		u.Scheme = "postgres"
		u.Path = c.Name
		sslMode := "require"
		if c.DisableTLS {
			sslMode = "disable"
		}
		q.Set("sslmode", sslMode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Location returns the timezone timetable dates are computed in.
// Validate rejects unknown zones, so the fallback only covers unvalidated configs.
func (c TimetableConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// NewConfig loads the configuration for the current ENV (DEV, TEST, QA or PROD)
// from the environment and an optional `config/.env.<env>` file.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "My Day Timetable")
	v.SetDefault("secretKey", "wu7@c!0pz^l2k$a9x=qf3h)v(8m-e&n4r+yd1b*t5o_s6gj")
	v.SetDefault("build", "dev")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.baseURL", "http://localhost")
	v.SetDefault("server.jwtExpirationDelta", 8*time.Hour)
	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "myday")
	v.SetDefault("database.disableTLS", true)
	v.SetDefault("sis.driver", "sqlserver")
	v.SetDefault("timetable.title", "My Day (Timetable)")
	v.SetDefault("timetable.periodNames", "Period,Session,Pastoral")
	v.SetDefault("timetable.breakNames", "Recess,Lunch")
	v.SetDefault("timetable.endOfDay", "1530")
	v.SetDefault("timetable.showProgressBar", true)
	v.SetDefault("timetable.maxProbeDays", 30)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	if env == "TEST" {
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	workDir := Getwd()
	dotEnvPath := filepath.Join(workDir, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Env:          env,
		Build:        v.GetString("build"),
		AppName:      v.GetString("appName"),
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		SecretKey:    v.GetString("secretKey"),
		RollbarToken: v.GetString("rollbarToken"),
		WorkDir:      workDir,
		Server: ServerConfig{
			Address:            v.GetString("server.address"),
			Host:               v.GetString("server.host"),
			BaseURL:            strings.TrimRight(v.GetString("server.baseURL"), "/"),
			JWTExpirationDelta: v.GetDuration("server.jwtExpirationDelta"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("database.engine"),
			Host:          v.GetString("database.host"),
			Port:          v.GetString("database.port"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			Name:          v.GetString("database.name"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			DisableTLS:    v.GetBool("database.disableTLS"),
		},
		SIS: SISConfig{
			Driver:              v.GetString("sis.driver"),
			Host:                v.GetString("sis.host"),
			Port:                v.GetString("sis.port"),
			User:                v.GetString("sis.user"),
			Password:            v.GetString("sis.password"),
			Name:                v.GetString("sis.name"),
			DisableTLS:          v.GetBool("sis.disableTLS"),
			StudentProc:         v.GetString("sis.studentProc"),
			StaffProc:           v.GetString("sis.staffProc"),
			TermProc:            v.GetString("sis.termProc"),
			MappingTable:        v.GetString("sis.mappingTable"),
			MappingTableID:      v.GetString("sis.mappingTableID"),
			MappingTableExtCode: v.GetString("sis.mappingTableExtCode"),
			MappingTableMooCode: v.GetString("sis.mappingTableMooCode"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Timetable: TimetableConfig{
			Title:           v.GetString("timetable.title"),
			PeriodNames:     SplitCSV(v.GetString("timetable.periodNames")),
			BreakNames:      SplitCSV(v.GetString("timetable.breakNames")),
			Colours:         v.GetString("timetable.colours"),
			StudentRoles:    SplitCSV(v.GetString("timetable.studentRoles")),
			StaffRoles:      SplitCSV(v.GetString("timetable.staffRoles")),
			EndOfDay:        v.GetString("timetable.endOfDay"),
			ShowProgressBar: v.GetBool("timetable.showProgressBar"),
			MaxProbeDays:    v.GetInt("timetable.maxProbeDays"),
			Timezone:        v.GetString("timetable.timezone"),
		},
	}
}

// Validate checks that every setting needed before the first SIS fetch is present.
func (c *Config) Validate() error {
	if err := Validate.Struct(c.SIS); err != nil {
		return NewConfigError("sis", err)
	}
	if err := Validate.Struct(c.Timetable); err != nil {
		return NewConfigError("timetable", err)
	}
	if c.Timetable.Timezone != "" {
		if _, err := time.LoadLocation(c.Timetable.Timezone); err != nil {
			cfgErr := &ConfigError{Section: "timetable", Err: err}
			cfgErr.Fields = []FieldError{{Field: "timetable.Timezone", Error: "Timezone must be an IANA time zone name"}}
			return cfgErr
		}
	}
	return nil
}

// ConfigString renders the config safely (secrets are masked) for start-up logs.
func (c *Config) ConfigString() string {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "***"
	}
	return fmt.Sprintf(
		"env=%s build=%s debug=%s sis=%s://%s@%s/%s students=%s staff=%s",
		c.Env, c.Build, strconv.FormatBool(c.Debug),
		c.SIS.Driver, c.SIS.User+":"+mask(c.SIS.Password), c.SIS.Host, c.SIS.Name,
		c.SIS.StudentProc, c.SIS.StaffProc,
	)
}
