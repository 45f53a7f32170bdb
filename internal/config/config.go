// Package config resolves tripcal settings from defaults, an optional
// .tripcal.yaml file, TRIPCAL_* environment variables and command flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/lululau/tripcal/internal/calendar"
	"github.com/lululau/tripcal/internal/picker"
)

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "TRIPCAL"

// Keys understood by Decode.
const (
	KeyHorizonDays   = "horizon-days"
	KeyDepartMonths  = "depart.months"
	KeyDepartDay     = "depart.day"
	KeyReturnMonths  = "return.months"
	KeyReturnDay     = "return.day"
	KeyRenderTimeout = "render-timeout"
	KeyPollInterval  = "poll-interval"
	KeyLunar         = "lunar"
	KeyNoColor       = "no-color"
	KeyPlain         = "plain"
	KeyHolidaysFile  = "holidays-file"
	KeyLogLevel      = "log-level"
	KeyLogFile       = "log-file"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the resolved configuration of one run.
type Config struct {
	HorizonDays   int
	Depart        picker.Offset
	Return        picker.Offset
	RenderTimeout time.Duration
	PollInterval  time.Duration
	Lunar         bool
	NoColor       bool
	Plain         bool
	HolidaysFile  string
	LogLevel      string
	LogFile       string
}

// New returns a viper instance with defaults, config file search paths and
// environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigName(".tripcal")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv(EnvPrefix + "_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath(".")
	return v
}

// SetDefaults installs the default value of every key.
func SetDefaults(v *viper.Viper) {
	defaults := picker.DefaultConfig()
	v.SetDefault(KeyHorizonDays, calendar.DefaultHorizonDays)
	v.SetDefault(KeyDepartMonths, defaults.DefaultDepart.Months)
	v.SetDefault(KeyDepartDay, defaults.DefaultDepart.Day)
	v.SetDefault(KeyReturnMonths, defaults.DefaultReturn.Months)
	v.SetDefault(KeyReturnDay, defaults.DefaultReturn.Day)
	v.SetDefault(KeyRenderTimeout, picker.DefaultRenderTimeout)
	v.SetDefault(KeyPollInterval, picker.DefaultPollInterval)
	v.SetDefault(KeyLunar, true)
	v.SetDefault(KeyNoColor, false)
	v.SetDefault(KeyPlain, false)
	v.SetDefault(KeyHolidaysFile, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "")
}

// Load reads the config file, if any, and decodes the result.
func Load(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return Decode(v)
}

// Decode builds and validates a Config from v.
func Decode(v *viper.Viper) (Config, error) {
	cfg := Config{
		HorizonDays:   v.GetInt(KeyHorizonDays),
		Depart:        picker.Offset{Months: v.GetInt(KeyDepartMonths), Day: v.GetInt(KeyDepartDay)},
		Return:        picker.Offset{Months: v.GetInt(KeyReturnMonths), Day: v.GetInt(KeyReturnDay)},
		RenderTimeout: v.GetDuration(KeyRenderTimeout),
		PollInterval:  v.GetDuration(KeyPollInterval),
		Lunar:         v.GetBool(KeyLunar),
		NoColor:       v.GetBool(KeyNoColor),
		Plain:         v.GetBool(KeyPlain),
		LogLevel:      strings.ToLower(v.GetString(KeyLogLevel)),
	}

	var err error
	if cfg.HolidaysFile, err = homedir.Expand(v.GetString(KeyHolidaysFile)); err != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", ErrInvalid, KeyHolidaysFile, err)
	}
	if cfg.LogFile, err = homedir.Expand(v.GetString(KeyLogFile)); err != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", ErrInvalid, KeyLogFile, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch {
	case c.HorizonDays < 0:
		return fmt.Errorf("%w: %s must not be negative (got %d)", ErrInvalid, KeyHorizonDays, c.HorizonDays)
	case c.RenderTimeout <= 0:
		return fmt.Errorf("%w: %s must be positive", ErrInvalid, KeyRenderTimeout)
	case c.PollInterval <= 0 || c.PollInterval > c.RenderTimeout:
		return fmt.Errorf("%w: %s must be positive and at most %s", ErrInvalid, KeyPollInterval, KeyRenderTimeout)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Picker returns the session configuration for clock.
func (c Config) Picker(clock calendar.Clock) picker.Config {
	return picker.Config{
		Clock:         clock,
		HorizonDays:   c.HorizonDays,
		DefaultDepart: c.Depart,
		DefaultReturn: c.Return,
	}
}

// PickerOptions returns the widget options derived from c.
func (c Config) PickerOptions() []picker.Option {
	return []picker.Option{
		picker.WithRenderTimeout(c.RenderTimeout),
		picker.WithPollInterval(c.PollInterval),
	}
}
