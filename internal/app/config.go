package app

import (
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/pelletier/go-toml/v2"

	"github.com/shrimpsizemoose/trekker/logger"
)

type HeaderConfig struct {
	Name  string `toml:"name"`
	Value string `toml:"value"`
}

type Config struct {
	Server struct {
		Port       string `toml:"port"`
		EnableAuth bool   `toml:"enable_auth"`
	} `toml:"server"`

	Auth struct {
		RedisURL         string `toml:"redis_url"`
		TokenHeader      string `toml:"token_header"`
		TokenKeyTemplate string `toml:"token_key_template"`
	} `toml:"auth"`

	API struct {
		TeacherIDHeader string         `toml:"teacher_id_header"`
		RequiredHeaders []HeaderConfig `toml:"required_headers"`
	} `toml:"api"`

	Database struct {
		DSN string `toml:"dsn"`
	} `toml:"database"`

	Schedule struct {
		Timezone string `toml:"timezone"`
	} `toml:"schedule"`

	location *time.Location
}

// Location is the timezone used to decide what "today" is.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	return ParseConfig(path, data)
}

func ParseConfig(path string, data []byte) (*Config, error) {
	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf(
			"error reading config file %s\n> Error: %w\n> Content:\n%s",
			path,
			err,
			string(data),
		)
	}

	if config.Server.Port == "" {
		return nil, fmt.Errorf("Server port is not specified in config, use a value like :9999")
	}
	if config.Database.DSN == "" {
		return nil, fmt.Errorf("Database dsn is not specified in config")
	}

	if config.API.TeacherIDHeader == "" {
		config.API.TeacherIDHeader = "X-Teacher-ID"
	}
	if config.Auth.TokenHeader == "" {
		config.Auth.TokenHeader = "Authorization"
	}
	if config.Auth.TokenKeyTemplate == "" {
		config.Auth.TokenKeyTemplate = defaultAuthKeyTemplate
	}

	if config.Schedule.Timezone == "" {
		config.Schedule.Timezone = "UTC"
	}
	loc, err := time.LoadLocation(config.Schedule.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown schedule timezone %q: %w", config.Schedule.Timezone, err)
	}
	config.location = loc

	logger.Debug.Printf("Loaded schedule config: %+v", config.Schedule)

	return &config, nil
}
