package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
)

const (
	defaultCollection = "items"
	defaultRate       = 5.0
)

type HomeBox struct {
	URL   string
	Token string
	Rate  float64 // requests per second
}

type Hearth struct {
	UserID      string
	ProjectID   string
	Credentials string
	Collection  string
}

type Log struct {
	Level  string
	Format string
}

type Config struct {
	HomeBox HomeBox
	Hearth  Hearth
	Log     Log
}

// LoadEnv loads .env from the working directory if it exists.
func LoadEnv() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load reads the ini file at path, falling back to environment variables for
// keys it leaves empty. An empty path reads the environment only.
func Load(path string) (*Config, error) {
	cfg := ini.Empty()
	if path != "" {
		var err error
		cfg, err = ini.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	hb := cfg.Section("homebox")
	hearth := cfg.Section("hearth")
	lg := cfg.Section("log")

	c := &Config{
		HomeBox: HomeBox{
			URL:   strings.TrimRight(value(hb, "url", "HOMEBOX_URL"), "/"),
			Token: value(hb, "token", "HOMEBOX_TOKEN"),
			Rate:  hb.Key("rate").MustFloat64(defaultRate),
		},
		Hearth: Hearth{
			UserID:      value(hearth, "user_id", "HEARTH_USER_ID"),
			ProjectID:   value(hearth, "project_id", "FIREBASE_PROJECT_ID"),
			Credentials: value(hearth, "credentials", "FIREBASE_SERVICE_ACCOUNT_KEY"),
			Collection:  hearth.Key("collection").MustString(defaultCollection),
		},
		Log: Log{
			Level:  value(lg, "level", "LOG_LEVEL"),
			Format: value(lg, "format", "LOG_FORMAT"),
		},
	}
	if c.HomeBox.Rate <= 0 {
		c.HomeBox.Rate = defaultRate
	}
	return c, nil
}

func value(sec *ini.Section, key, env string) string {
	if v := strings.TrimSpace(sec.Key(key).String()); v != "" {
		return v
	}
	return strings.TrimSpace(os.Getenv(env))
}

// Validate reports every missing required key. The Hearth user id is only
// required when needHearth is set.
func (c *Config) Validate(needHearth bool) error {
	var missing []string
	if c.HomeBox.URL == "" {
		missing = append(missing, "homebox.url")
	}
	if c.HomeBox.Token == "" {
		missing = append(missing, "homebox.token")
	}
	if needHearth && c.Hearth.UserID == "" {
		missing = append(missing, "hearth.user_id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing config: %s", strings.Join(missing, ", "))
	}
	return nil
}
