package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketfin/account-engine/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "./account.db", cfg.DBPath)
	assert.Equal(t, config.SeedModeBlank, cfg.SeedMode)
	assert.Equal(t, int64(10_000), cfg.BlankBalance)
	assert.Equal(t, int64(1_000_000), cfg.SampleBalance)
	assert.Equal(t, 10, cfg.SampleBeneficiaries)
	assert.Equal(t, "Nguyen", cfg.UserFirstName)
	assert.Equal(t, "Nam", cfg.UserLastName)

	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_PATH", "/tmp/test.db")
	t.Setenv("SEED_MODE", "sample")
	t.Setenv("BLANK_BALANCE", "500")
	t.Setenv("SAMPLE_BENEFICIARIES", "3")
	t.Setenv("USER_FIRST_NAME", "Ada")

	cfg := config.Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, config.SeedModeSample, cfg.SeedMode)
	assert.Equal(t, int64(500), cfg.BlankBalance)
	assert.Equal(t, 3, cfg.SampleBeneficiaries)
	assert.Equal(t, "Ada", cfg.UserFirstName)
}

func TestLoad_MalformedNumbersFallBack(t *testing.T) {
	t.Setenv("BLANK_BALANCE", "lots")
	t.Setenv("SAMPLE_BENEFICIARIES", "ten")

	cfg := config.Load()

	assert.Equal(t, int64(10_000), cfg.BlankBalance)
	assert.Equal(t, 10, cfg.SampleBeneficiaries)
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	cfg := config.Load()
	cfg.Port = "not-a-port"
	cfg.DBPath = ""
	cfg.SeedMode = "chaos"
	cfg.SampleBeneficiaries = 0

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port")
	assert.Contains(t, err.Error(), "database path")
	assert.Contains(t, err.Error(), "invalid seed mode")
	assert.Contains(t, err.Error(), "sample beneficiary count")
}

func TestValidate_PortRange(t *testing.T) {
	cfg := config.Load()

	cfg.Port = "0"
	assert.Error(t, cfg.Validate())

	cfg.Port = "65536"
	assert.Error(t, cfg.Validate())

	cfg.Port = "65535"
	assert.NoError(t, cfg.Validate())
}
