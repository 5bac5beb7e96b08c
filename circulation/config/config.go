package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/Astemirdum/library-circulation/pkg/kafka"
	"github.com/Astemirdum/library-circulation/pkg/logger"
	"github.com/Astemirdum/library-circulation/pkg/postgres"
	"github.com/Astemirdum/library-circulation/pkg/sqlite"
	"github.com/Astemirdum/library-circulation/pkg/validate"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"HTTP_HOST"`
	Port         string        `yaml:"port" envconfig:"HTTP_PORT" validate:"required"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ"`
	WriteTimeout time.Duration `yaml:"writeTimeout" envconfig:"HTTP_WRITE"`
}

type Database struct {
	Driver   string      `yaml:"driver" envconfig:"DB_DRIVER" validate:"oneof=postgres sqlite"`
	Postgres postgres.DB `yaml:"postgres"`
	SQLite   sqlite.DB   `yaml:"sqlite"`
}

// Policy holds the lending rules.
type Policy struct {
	MaxActiveBorrows int           `yaml:"maxActiveBorrows" envconfig:"POLICY_MAX_ACTIVE_BORROWS" validate:"gte=1"`
	LoanPeriod       time.Duration `yaml:"loanPeriod" envconfig:"POLICY_LOAN_PERIOD" validate:"gt=0"`
	HoldPeriod       time.Duration `yaml:"holdPeriod" envconfig:"POLICY_HOLD_PERIOD" validate:"gt=0"`
	PickupWindow     time.Duration `yaml:"pickupWindow" envconfig:"POLICY_PICKUP_WINDOW" validate:"gt=0"`
}

type Sweep struct {
	// Interval between background sweeps; zero disables them.
	Interval       time.Duration `yaml:"interval" envconfig:"SWEEP_INTERVAL" validate:"gte=0"`
	OverdueMinDays int           `yaml:"overdueMinDays" envconfig:"SWEEP_OVERDUE_MIN_DAYS" validate:"gte=0"`
}

type Config struct {
	Server   HTTPServer   `yaml:"server"`
	Database Database     `yaml:"database"`
	Kafka    kafka.Config `yaml:"kafka"`
	Log      logger.Log   `yaml:"log"`
	Policy   Policy       `yaml:"policy"`
	Sweep    Sweep        `yaml:"sweep"`

	file string
}

func Default() Config {
	return Config{
		Server: HTTPServer{
			Host:         "0.0.0.0",
			Port:         "8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: Database{
			Driver: DriverSQLite,
			Postgres: postgres.DB{
				Host:    "localhost",
				Port:    "5432",
				SSLMode: "disable",
			},
			SQLite: sqlite.DB{Path: "circulation.db"},
		},
		Log: logger.Log{LogLevel: zapcore.InfoLevel},
		Policy: Policy{
			MaxActiveBorrows: 3,
			LoanPeriod:       14 * 24 * time.Hour,
			HoldPeriod:       14 * 24 * time.Hour,
			PickupWindow:     7 * 24 * time.Hour,
		},
		Sweep: Sweep{Interval: 5 * time.Minute},
	}
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig builds the config once per process: defaults, then options, then
// the YAML file if one was given, then the environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		c, err := Load(ops...)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = c
		printConfig(*cfg)
	})
	return cfg
}

func Load(ops ...Option) (*Config, error) {
	c := Default()
	for _, op := range ops {
		op(&c)
	}
	if c.file != "" {
		data, err := os.ReadFile(c.file)
		if err != nil {
			return nil, errors.Wrap(err, "read config file")
		}
		if err = yaml.Unmarshal(data, &c); err != nil {
			return nil, errors.Wrapf(err, "parse %s", c.file)
		}
	}
	if err := envconfig.Process("", &c); err != nil {
		return nil, errors.Wrap(err, "envconfig")
	}
	if err := validate.NewCustomValidator().Validate(c); err != nil {
		return nil, errors.Wrap(err, "validate config")
	}
	return &c, nil
}

func printConfig(cfg Config) {
	cfg.Database.Postgres.Password = "***"
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
