package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "database:\n  dbname: rank\n")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "rank", cfg.Database.DBName)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 15*time.Second, cfg.Scrape.Timeout)
	assert.Equal(t, 100, cfg.Scrape.KeywordWindow)
	assert.Equal(t, "Asia/Seoul", cfg.Schedule.Timezone)
	assert.Equal(t, "09:00", cfg.Schedule.CheckAt)
	assert.Equal(t, 5*time.Minute, cfg.Manual.NowTolerance)
	assert.Equal(t, []string{"weekly-best/foreign-language"}, cfg.Manual.KnownCategories)
	assert.Equal(t, 7, cfg.Report.Days)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Scrape.Enabled)
	assert.False(t, cfg.RabbitMQ.Enabled)
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("RANKWATCH_DB_PASSWORD", "s3cret")
	path := writeFile(t, t.TempDir(), "config.yaml", `
database:
  password: ${RANKWATCH_DB_PASSWORD}
scrape:
  enabled: true
  url: https://example.com/product/1
  timeout: 10s
schedule:
  timezone: UTC
  check_at: "07:30"
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.True(t, cfg.Scrape.Enabled)
	assert.Equal(t, 10*time.Second, cfg.Scrape.Timeout)
	assert.Equal(t, "07:30", cfg.Schedule.CheckAt)

	loc, err := cfg.Schedule.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoad_LocalOverride(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
database:
  driver: postgres
  host: db.internal
log_level: info
`)
	writeFile(t, dir, "config.local.yaml", `
database:
  driver: sqlite
  path: /tmp/rank.db
log_level: debug
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/rank.db", cfg.Database.Path)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, dir, "bad.yaml", "database: [\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, dir, "driver.yaml", "database:\n  driver: mysql\n"))
	assert.ErrorContains(t, err, "unknown database driver")

	_, err = Load(writeFile(t, dir, "scrape.yaml", "scrape:\n  enabled: true\n"))
	assert.ErrorContains(t, err, "scrape.url")

	_, err = Load(writeFile(t, dir, "tz.yaml", "schedule:\n  timezone: Mars/Olympus\n"))
	assert.Error(t, err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: 1, User: "u", Password: "p", DBName: "d", SSLMode: "disable"}
	assert.Equal(t, "host=h port=1 user=u password=p dbname=d sslmode=disable", d.DSN())
}
