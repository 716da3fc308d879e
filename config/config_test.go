package config

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laskinner/dag-tui/store"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMemoryConfig(t *testing.T) {
	path := writeConfig(t, "dagtui.yaml", `
store:
  backend: memory
logging:
  level: debug
  format: text
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadFromDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dagtui.yaml"), []byte(`
store:
  backend: sqlite
  sqlite:
    path: /tmp/entities.db
`), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	require.NotNil(t, cfg.Store.SQLite)
	assert.Equal(t, "/tmp/entities.db", cfg.Store.SQLite.Path)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadDirectoryWithoutConfig(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "dagtui.yaml", "store: [not a mapping")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"empty defaults to memory", Config{}, false},
		{"unknown backend", Config{Store: StoreConfig{Backend: "mongo"}}, true},
		{"etcd without endpoints", Config{Store: StoreConfig{Backend: BackendEtcd}}, true},
		{"etcd with endpoints", Config{Store: StoreConfig{
			Backend: BackendEtcd,
			Etcd:    &EtcdConfig{Endpoints: []string{"localhost:2379"}},
		}}, false},
		{"sqlite without path", Config{Store: StoreConfig{Backend: BackendSQLite}}, true},
		{"bad logging level", Config{Logging: LoggingConfig{Level: "verbose"}}, true},
		{"bad logging format", Config{Logging: LoggingConfig{Format: "xml"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBackendIsValid(t *testing.T) {
	for _, b := range []Backend{BackendMemory, BackendRedis, BackendEtcd, BackendSQLite} {
		assert.True(t, b.IsValid(), b.String())
	}
	assert.False(t, Backend("mongo").IsValid())
	assert.False(t, Backend("").IsValid())
}

func TestRedisConnectTimeout(t *testing.T) {
	var nilCfg *RedisConfig
	assert.Equal(t, 5*time.Second, nilCfg.GetConnectTimeout())
	assert.Equal(t, 5*time.Second, (&RedisConfig{ConnectTimeout: "bogus"}).GetConnectTimeout())
	assert.Equal(t, 2*time.Second, (&RedisConfig{ConnectTimeout: "2s"}).GetConnectTimeout())
}

func TestEtcdDialTimeout(t *testing.T) {
	var nilCfg *EtcdConfig
	assert.Equal(t, 5*time.Second, nilCfg.GetDialTimeout())
	assert.Equal(t, 10*time.Second, (&EtcdConfig{DialTimeout: "10s"}).GetDialTimeout())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LoggingConfig{Level: "warn", Format: "text"}.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")

	buf.Reset()
	jsonLogger := LoggingConfig{}.NewLogger(&buf)
	jsonLogger.Info("event", slog.String("k", "v"))
	assert.Contains(t, buf.String(), `"k":"v"`)
}

func TestOpenStoreMemory(t *testing.T) {
	cfg := Config{}
	st, closer, err := cfg.OpenStore()
	require.NoError(t, err)
	defer closer.Close()

	require.NoError(t, st.Append(context.Background(), store.KindCause, store.Record{"id": "c1"}))
	records, err := st.ReadAll(context.Background(), store.KindCause)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestOpenStoreRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := Config{Store: StoreConfig{
		Backend: BackendRedis,
		Redis:   &RedisConfig{URL: "redis://" + mr.Addr()},
	}}
	st, closer, err := cfg.OpenStore()
	require.NoError(t, err)
	defer closer.Close()

	require.NoError(t, st.Append(context.Background(), store.KindOutcome, store.Record{"id": "o1"}))
	records, err := st.ReadAll(context.Background(), store.KindOutcome)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestOpenStoreSQLite(t *testing.T) {
	cfg := Config{Store: StoreConfig{
		Backend: BackendSQLite,
		SQLite:  &SQLiteConfig{Path: filepath.Join(t.TempDir(), "entities.db")},
	}}
	st, closer, err := cfg.OpenStore()
	require.NoError(t, err)
	defer closer.Close()

	require.NoError(t, st.Append(context.Background(), store.KindCause, store.Record{"id": "c1"}))
	records, err := st.ReadAll(context.Background(), store.KindCause)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestOpenStoreUnknownBackend(t *testing.T) {
	cfg := Config{Store: StoreConfig{Backend: "mongo"}}
	_, _, err := cfg.OpenStore()
	assert.Error(t, err)
}
