package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const validConfig = `
[server]
http_port = 8080

[database]
host = "localhost"
port = 5432
user = "postgres"
password = "postgres"
dbname = "holds"
sslmode = "disable"

[holds]
signing_deadline_minutes = 1440
payment_deadline_minutes = 2880
expiry_minutes = 4320
signing_link_base_url = "https://sign.example.com/s"

[sweeper]
enabled = true
interval_seconds = 60
batch_size = 100
`

func TestLoad_Valid(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 1440, cfg.Holds.SigningDeadlineMinutes)
	assert.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=holds sslmode=disable", cfg.Database.DSN())
}

func TestLoad_DeadlineOrdering(t *testing.T) {
	tests := []struct {
		name    string
		signing int
		payment int
		expiry  int
		wantErr bool
	}{
		{"valid ordering", 1440, 2880, 4320, false},
		{"payment equals expiry", 1440, 2880, 2880, false},
		{"zero signing", 0, 2880, 4320, true},
		{"payment before signing", 2880, 1440, 4320, true},
		{"payment equals signing", 1440, 1440, 4320, true},
		{"expiry before payment", 1440, 2880, 2000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.Server.HTTPPort = 8080
			cfg.Database.Host = "localhost"
			cfg.Holds.SigningLinkBaseURL = "https://sign.example.com/s"
			cfg.Holds.SigningDeadlineMinutes = tt.signing
			cfg.Holds.PaymentDeadlineMinutes = tt.payment
			cfg.Holds.ExpiryMinutes = tt.expiry

			err := cfg.validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_SweeperIntervalRequiredWhenEnabled(t *testing.T) {
	cfg := &Config{}
	cfg.Server.HTTPPort = 8080
	cfg.Database.Host = "localhost"
	cfg.Holds.SigningDeadlineMinutes = 1440
	cfg.Holds.PaymentDeadlineMinutes = 2880
	cfg.Holds.ExpiryMinutes = 4320
	cfg.Holds.SigningLinkBaseURL = "https://sign.example.com/s"
	cfg.Sweeper.Enabled = true
	cfg.Sweeper.IntervalSeconds = 0

	assert.Error(t, cfg.validate())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
