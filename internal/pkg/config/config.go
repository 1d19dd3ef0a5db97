package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between deployments (clinic dimensions, capacity)
// - default: Values common across all environments (ports, intervals, file paths)
// -----------------------------------------------------------------------------

type Config struct {
	Server Server
	Clinic Clinic
	Files  Files
	Verify Verify
	Log    Log
}

type Server struct {
	Port          string        `envconfig:"PORT" default:"8080"`
	MaxWorkers    int           `envconfig:"MAX_WORKERS" default:"8"`
	ShutdownAfter time.Duration `envconfig:"SHUTDOWN_AFTER" default:"3m"`
}

type Clinic struct {
	Locations     int   `envconfig:"LOCATIONS" required:"true"`
	Treatments    int   `envconfig:"TREATMENTS" required:"true"`
	TreatmentCost []int `envconfig:"TREATMENT_COSTS" required:"true"`
	DurationMin   []int `envconfig:"TREATMENT_DURATIONS" required:"true"`
	// Capacity row for location 0; rows for the remaining locations are
	// derived from it (base[t] * location).
	BaseCapacity []int `envconfig:"BASE_CAPACITY" required:"true"`
}

type Files struct {
	BookingPath string `envconfig:"BOOKING_LOG_PATH" default:"program_data.txt"`
	PaymentPath string `envconfig:"PAYMENT_LOG_PATH" default:"payment_data.txt"`
	ReportPath  string `envconfig:"VERIFY_LOG_PATH" default:"verify_data.txt"`
}

type Verify struct {
	Interval time.Duration `envconfig:"VERIFY_INTERVAL" default:"5s"`
}

type Log struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: Server{
			Port:          "18889", // Test port
			MaxWorkers:    4,
			ShutdownAfter: time.Minute,
		},
		Clinic: Clinic{
			Locations:     2,
			Treatments:    2,
			TreatmentCost: []int{100, 250},
			DurationMin:   []int{30, 60},
			BaseCapacity:  []int{1, 2},
		},
		Files: Files{
			BookingPath: "program_data.txt",
			PaymentPath: "payment_data.txt",
			ReportPath:  "verify_data.txt",
		},
		Verify: Verify{
			Interval: 5 * time.Second,
		},
		Log: Log{
			Level: "error", // Error level only for tests
		},
	}
}
