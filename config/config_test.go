package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Setenv("HOLD_TTL_MINUTES", "10")
	t.Setenv("TIMEZONE", "Europe/Paris")

	LoadConfig()

	assert.Equal(t, "8080", AppConfig.AppPort)
	assert.Equal(t, 24, AppConfig.LeadTimeHours)
	assert.InDelta(t, 0.15, AppConfig.PlatformFeeRate, 1e-9)
	assert.Equal(t, 10*time.Minute, HoldTTL())
	assert.Equal(t, 24*time.Hour, LeadTime())

	loc := Location()
	require.NotNil(t, loc)
	assert.Equal(t, "Europe/Paris", loc.String())
}

func TestLocationFallsBackToUTC(t *testing.T) {
	AppConfig.Timezone = "Mars/Olympus"
	assert.Equal(t, time.UTC, Location())

	AppConfig.Timezone = ""
	assert.Equal(t, time.UTC, Location())
}
