package cli

import (
	"testing"

	"github.com/pagepulse/pagepulse/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestSetConfigValue(t *testing.T) {
	cfg := &config.Config{
		Global: config.GlobalConfig{
			APIKey:        "old-key",
			Concurrency:   3,
			Strategy:      "mobile",
			CacheTTLHours: 1,
		},
		Insights: config.InsightsConfig{
			ThirdParties: config.SectionConfig{Enabled: true},
			LCP:          config.SectionConfig{Enabled: true},
		},
	}

	tests := []struct {
		name      string
		key       string
		val       string
		wantErr   bool
		validator func(*config.Config) bool
	}{
		{
			name: "Set Global String",
			key:  "global.api_key",
			val:  "new-key",
			validator: func(c *config.Config) bool {
				return c.Global.APIKey == "new-key"
			},
		},
		{
			name: "Set Global Int",
			key:  "global.concurrency",
			val:  "8",
			validator: func(c *config.Config) bool {
				return c.Global.Concurrency == 8
			},
		},
		{
			name: "Set Strategy",
			key:  "global.strategy",
			val:  "desktop",
			validator: func(c *config.Config) bool {
				return c.Global.Strategy == "desktop"
			},
		},
		{
			name: "Set Cache TTL",
			key:  "global.cache_ttl_hours",
			val:  "24",
			validator: func(c *config.Config) bool {
				return c.Global.CacheTTLHours == 24
			},
		},
		{
			name: "Set Nested Bool",
			key:  "insights.third_parties.enabled",
			val:  "false",
			validator: func(c *config.Config) bool {
				return c.Insights.ThirdParties.Enabled == false
			},
		},
		{
			name: "Set Another Nested Bool",
			key:  "insights.lcp.enabled",
			val:  "false",
			validator: func(c *config.Config) bool {
				return c.Insights.LCP.Enabled == false
			},
		},
		{
			name:    "Invalid Key",
			key:     "global.unknown_field",
			val:     "foo",
			wantErr: true,
		},
		{
			name:    "Invalid Type Match (Int expected)",
			key:     "global.concurrency",
			val:     "not-an-int",
			wantErr: true,
		},
		{
			name:    "Invalid Type Match (Bool expected)",
			key:     "insights.lcp.enabled",
			val:     "maybe",
			wantErr: true,
		},
		{
			name:    "Part is not a struct",
			key:     "global.concurrency.subfield",
			val:     "10",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := setConfigValue(cfg, tt.key, tt.val)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				if tt.validator != nil {
					assert.True(t, tt.validator(cfg))
				}
			}
		})
	}
}
