package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "staging")
	t.Setenv("CASHBILL_SHOP_ID", "shop.example.com")
	t.Setenv("CASHBILL_SECRET_KEY", "secret")
	t.Setenv("JWT_SECRET", "jwt")
	t.Setenv("DB_URL", "file::memory:")

	cfg := &Config{}
	require.NoError(t, env.Parse(cfg))
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "staging", cfg.Environment.Name)
	assert.Equal(t, "mysql", cfg.DB.Driver)
	assert.Equal(t, 20*time.Second, cfg.Cashbill.Timeout)
	assert.Equal(t, "PLN", cfg.Cashbill.Currency)
	assert.Equal(t, "PL", cfg.Cashbill.LanguageCode)
	assert.Equal(t, time.Hour, cfg.Redis.ProductsTTL)
	assert.Equal(t, 2*time.Hour, cfg.Redis.CategoriesTTL)
	assert.Equal(t, "8080", cfg.HTTP.Port)
}

func TestValidate_ReportsEveryMissingField(t *testing.T) {
	err := (&Config{}).Validate()
	require.Error(t, err)
	for _, name := range []string{"CASHBILL_SHOP_ID", "CASHBILL_SECRET_KEY", "JWT_SECRET", "DB_URL"} {
		assert.Contains(t, err.Error(), name)
	}
}
