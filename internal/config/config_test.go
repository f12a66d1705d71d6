package config

import (
	"os"
	"testing"
	"time"
)

var configEnvVars = []string{
	"TELEGRAM_BOT_TOKEN", "G2B_SERVICE_KEY", "G2B_TIMEOUT_SEC", "G2B_NUM_OF_ROWS",
	"SEARCH_LOOKBACK_DAYS", "G2B_ENDPOINTS_FILE", "DATABASE_URL", "LOG_LEVEL",
	"CACHE_TYPE", "CACHE_TTL_SEC", "REDIS_URL", "RATE_LIMIT_PER_MINUTE",
	"METRICS_ADDR", "DEFAULT_MODE",
}

func clearEnvVars() {
	for _, key := range configEnvVars {
		os.Unsetenv(key)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr error
	}{
		{
			name: "valid config",
			envVars: map[string]string{
				"TELEGRAM_BOT_TOKEN": "test_token",
				"G2B_SERVICE_KEY":    "test_key",
			},
			wantErr: nil,
		},
		{
			name: "missing telegram token",
			envVars: map[string]string{
				"G2B_SERVICE_KEY": "test_key",
			},
			wantErr: ErrMissingToken,
		},
		{
			name: "missing service key",
			envVars: map[string]string{
				"TELEGRAM_BOT_TOKEN": "test_token",
			},
			wantErr: ErrMissingServiceKey,
		},
		{
			name: "invalid default mode",
			envVars: map[string]string{
				"TELEGRAM_BOT_TOKEN": "test_token",
				"G2B_SERVICE_KEY":    "test_key",
				"DEFAULT_MODE":       "contract",
			},
			wantErr: ErrInvalidMode,
		},
		{
			name: "rows out of range",
			envVars: map[string]string{
				"TELEGRAM_BOT_TOKEN": "test_token",
				"G2B_SERVICE_KEY":    "test_key",
				"G2B_NUM_OF_ROWS":    "5000",
			},
			wantErr: ErrInvalidRows,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars()

			for k, v := range tt.envVars {
				os.Setenv(k, v)
			}
			defer clearEnvVars()

			cfg, err := Load()

			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("Load() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Errorf("Load() unexpected error = %v", err)
				return
			}

			if cfg == nil {
				t.Error("Load() returned nil config")
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	clearEnvVars()
	os.Setenv("TELEGRAM_BOT_TOKEN", "test_token")
	os.Setenv("G2B_SERVICE_KEY", "test_key")
	defer clearEnvVars()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error = %v", err)
	}

	if cfg.G2B.Timeout != 15*time.Second {
		t.Errorf("G2B.Timeout = %v, want 15s", cfg.G2B.Timeout)
	}
	if cfg.G2B.Rows != 30 {
		t.Errorf("G2B.Rows = %d, want 30", cfg.G2B.Rows)
	}
	if cfg.G2B.LookbackDays != 7 {
		t.Errorf("G2B.LookbackDays = %d, want 7", cfg.G2B.LookbackDays)
	}
	if cfg.Cache.Type != "memory" {
		t.Errorf("Cache.Type = %s, want memory", cfg.Cache.Type)
	}
	if cfg.Cache.TTL != 10*time.Minute {
		t.Errorf("Cache.TTL = %v, want 10m", cfg.Cache.TTL)
	}
	if cfg.DefaultMode != "bid" {
		t.Errorf("DefaultMode = %s, want bid", cfg.DefaultMode)
	}
	if cfg.RateLimit.RequestsPerMinute != 10 {
		t.Errorf("RateLimit.RequestsPerMinute = %d, want 10", cfg.RateLimit.RequestsPerMinute)
	}
}
