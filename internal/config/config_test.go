package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lululau/tripcal/internal/calendar"
	"github.com/lululau/tripcal/internal/picker"
)

func defaults() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestDecodeDefaults(t *testing.T) {
	cfg, err := Decode(defaults())
	require.NoError(t, err)
	assert.Equal(t, 365, cfg.HorizonDays)
	assert.Equal(t, picker.Offset{Months: 1, Day: 10}, cfg.Depart)
	assert.Equal(t, picker.Offset{Months: 1, Day: 17}, cfg.Return)
	assert.Equal(t, 2*time.Second, cfg.RenderTimeout)
	assert.True(t, cfg.Lunar)
	assert.Equal(t, "info", cfg.LogLevel)

	today := calendar.NewDate(2024, time.June, 10)
	pc := cfg.Picker(calendar.FixedClock(today))
	assert.Equal(t, today, pc.Clock.Today())
	assert.Len(t, cfg.PickerOptions(), 2)
}

func TestDecodeValidation(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{"negative horizon", KeyHorizonDays, -1},
		{"zero timeout", KeyRenderTimeout, "0s"},
		{"poll longer than timeout", KeyPollInterval, "5s"},
		{"unknown log level", KeyLogLevel, "verbose"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := defaults()
			v.Set(tt.key, tt.val)
			_, err := Decode(v)
			require.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "horizon-days: 180\ndepart:\n  months: 2\n  day: 3\nlog-level: DEBUG\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".tripcal.yaml"), []byte(yaml), 0o644))

	v := defaults()
	v.SetConfigName(".tripcal")
	v.AddConfigPath(dir)
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 180, cfg.HorizonDays)
	assert.Equal(t, picker.Offset{Months: 2, Day: 3}, cfg.Depart)
	assert.Equal(t, picker.Offset{Months: 1, Day: 17}, cfg.Return)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadWithoutConfigFile(t *testing.T) {
	v := defaults()
	v.SetConfigName(".tripcal")
	v.AddConfigPath(t.TempDir())
	_, err := Load(v)
	require.NoError(t, err)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("TRIPCAL_HORIZON_DAYS", "90")
	t.Setenv("TRIPCAL_RETURN_DAY", "21")
	cfg, err := Decode(New())
	require.NoError(t, err)
	assert.Equal(t, 90, cfg.HorizonDays)
	assert.Equal(t, 21, cfg.Return.Day)
}

func TestNewLoggerWritesFile(t *testing.T) {
	cfg, err := Decode(defaults())
	require.NoError(t, err)
	cfg.LogFile = filepath.Join(t.TempDir(), "logs", "tripcal.log")
	cfg.LogLevel = "debug"

	logger, closer, err := cfg.NewLogger()
	require.NoError(t, err)
	logger.Debug("hello", "widget", "depart")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(data, []byte("widget=depart")), string(data))
}

func TestNewLoggerDiscardsWithoutFile(t *testing.T) {
	cfg, err := Decode(defaults())
	require.NoError(t, err)
	logger, closer, err := cfg.NewLogger()
	require.NoError(t, err)
	logger.Info("dropped")
	require.NoError(t, closer.Close())
	assert.Empty(t, cfg.LogFile)
}
