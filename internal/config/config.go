package config

import (
	"encoding/json"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-term/internal/mines"
)

type LogConfig struct {
	Level      string `json:"level"`
	File       string `json:"file"`
	MaxSize    int    `json:"max_size"` // megabytes
	MaxBackups int    `json:"max_backups"`
	MaxAge     int    `json:"max_age"` // days
}

type Config struct {
	Mode      string    `json:"mode"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	MineCount int       `json:"mine_count"`
	Seed      *uint64   `json:"seed,omitempty"`
	Log       LogConfig `json:"log"`
	Postgres  *Database `json:"postgres,omitempty"`
}

func Default() *Config {
	return &Config{
		Mode: "production",
		Log: LogConfig{
			Level:      "warn",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		},
	}
}

func ReadConfig(path string, config *Config) error {
	if b, err := os.ReadFile(path); err != nil {
		return err
	} else {
		return json.Unmarshal(b, config)
	}
}

// Load starts from [Default], applies the file at path if path is not empty
// and then the environment.
func Load(path string) (*Config, error) {
	config := Default()
	if path != "" {
		if err := ReadConfig(path, config); err != nil {
			return nil, err
		}
	}
	config.applyEnv()
	return config, nil
}

func (c *Config) applyEnv() {
	if Development() {
		c.Mode = "development"
	}
	if file, ok := os.LookupEnv("MINES_LOG_FILE"); ok {
		c.Log.File = file
	}
	if level, ok := os.LookupEnv("MINES_LOG_LEVEL"); ok {
		c.Log.Level = level
	}
}

func (c Config) Production() bool {
	return c.Mode == "production"
}

func (c Config) Development() bool {
	return c.Mode != "production"
}

// GameParams reports the board size to start with; ok is false when the
// dimensions are left for the player to enter.
func (c Config) GameParams() (params mines.GameParams, ok bool) {
	params = mines.GameParams{
		Width:     c.Width,
		Height:    c.Height,
		MineCount: c.MineCount,
	}
	return params, c.Width != 0 && c.Height != 0
}

func (c Config) Fields() logrus.Fields {
	fields := logrus.Fields{
		"mode":           c.Mode,
		"width":          c.Width,
		"height":         c.Height,
		"mine_count":     c.MineCount,
		"log_level":      c.Log.Level,
		"log_file":       c.Log.File,
		"log_max_size":   c.Log.MaxSize,
		"log_max_backup": c.Log.MaxBackups,
		"log_max_age":    c.Log.MaxAge,
	}
	if c.Seed != nil {
		fields["seed"] = *c.Seed
	}
	if c.Postgres != nil {
		fields["pg_host"] = c.Postgres.Host
		fields["pg_port"] = c.Postgres.Port
		fields["pg_user"] = c.Postgres.Username
		fields["pg_db_name"] = c.Postgres.DBName
	}
	return fields
}
