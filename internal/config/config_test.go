package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TEAM_ADDRESSES", " a , b,,c ")
	t.Setenv("REFERRAL_TIER_DEPTH", "not-a-number")
	t.Setenv("REFRESH_COOLDOWN", "10s")

	cfg := LoadConfig()
	assert.Equal(t, []string{"a", "b", "c"}, cfg.TeamAddresses)
	assert.Equal(t, "ref_", cfg.ReferralPrefix)
	assert.Equal(t, 2, cfg.TierDepth)
	assert.Equal(t, 10*time.Second, cfg.RefreshCooldown)
	assert.False(t, cfg.AuditEnabled())
	require.NoError(t, cfg.Validate())

	direct, indirect, err := cfg.Credits()
	require.NoError(t, err)
	assert.Equal(t, "0.01", direct.String())
	assert.Equal(t, "0.005", indirect.String())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			BotToken:       "t",
			TeamAddresses:  []string{"a"},
			ReferralPrefix: "ref_",
			DirectCredit:   "1",
			IndirectCredit: "0.5",
			TierDepth:      2,
		}
	}

	cases := map[string]func(*Config){
		"no token":          func(c *Config) { c.BotToken = "" },
		"empty pool":        func(c *Config) { c.TeamAddresses = nil },
		"empty prefix":      func(c *Config) { c.ReferralPrefix = "" },
		"zero depth":        func(c *Config) { c.TierDepth = 0 },
		"bad credit":        func(c *Config) { c.DirectCredit = "lots" },
		"negative credit":   func(c *Config) { c.IndirectCredit = "-1" },
		"direct < indirect": func(c *Config) { c.DirectCredit = "0.1" },
	}
	require.NoError(t, valid().Validate())
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
