package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "http://localhost:5555", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 10, cfg.PerPage)
	assert.Equal(t, 0.5, cfg.BreakerFailureRatio)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://shop.example.com")
	t.Setenv("PRODUCTS_PER_PAGE", "20")
	t.Setenv("HTTP_TIMEOUT", "10s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://shop.example.com", cfg.APIBaseURL)
	assert.Equal(t, 20, cfg.PerPage)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
}

func TestLoad_InvalidBaseURL(t *testing.T) {
	t.Setenv("API_BASE_URL", "not a url")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidPerPage(t *testing.T) {
	t.Setenv("PRODUCTS_PER_PAGE", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidBreakerRatio(t *testing.T) {
	t.Setenv("BREAKER_FAILURE_RATIO", "1.5")

	_, err := Load()
	assert.Error(t, err)
}
