package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	var cfg Config
	cfg.App.Port = 38572
	cfg.Polling.ProcessSeconds = 60
	cfg.Polling.BatchSize = 10
	cfg.Polling.Concurrency = 3
	cfg.LLM.Primary = PoolConfig{
		Models:             []string{"some/model"},
		CredentialAccounts: []string{"jobsift:llm:key-1"},
		MaxRetries:         3,
	}
	return cfg
}

func TestValidateAcceptsDefaults(t *testing.T) {
	require.NoError(t, Validate(validConfig()))
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := validConfig()
	cfg.App.Port = 0
	err := Validate(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "app.port")

	cfg = validConfig()
	cfg.LLM.Primary.CredentialAccounts = nil
	err = Validate(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "credential_accounts")

	cfg = validConfig()
	cfg.Email.Enabled = true
	err = Validate(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "imap_host")
}

func TestValidateSkipsEmptyPool(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.Fallback = PoolConfig{} // no models configured at all
	require.NoError(t, Validate(cfg))
}

func TestSaveAtomicRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")

	cfg := validConfig()
	cfg.Relevance.HighAny = []string{"software", "engineer"}
	require.NoError(t, SaveAtomic(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)

	// a second save keeps the previous file as .bak
	cfg.App.Port = 40000
	require.NoError(t, SaveAtomic(path, cfg))
	_, err = os.Stat(path + ".bak")
	require.NoError(t, err)

	loaded, err = Load(path)
	require.NoError(t, err)
	require.Equal(t, 40000, loaded.App.Port)
}

func TestSaveAtomicRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")

	cfg := validConfig()
	cfg.Polling.BatchSize = 0
	require.Error(t, SaveAtomic(path, cfg))
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err), "invalid config is never written")
}

func TestEnsureUserConfigCopiesDefault(t *testing.T) {
	dir := t.TempDir()
	defaultPath := filepath.Join(dir, "default.yml")
	require.NoError(t, os.WriteFile(defaultPath, []byte("app:\n  port: 38572\n"), 0o644))

	dataDir := filepath.Join(dir, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))

	userPath, err := EnsureUserConfig(dataDir, defaultPath)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dataDir, "config.yml"), userPath)

	// user edits survive: a second bootstrap does not re-copy
	require.NoError(t, os.WriteFile(userPath, []byte("app:\n  port: 40000\n"), 0o644))
	again, err := EnsureUserConfig(dataDir, defaultPath)
	require.NoError(t, err)
	require.Equal(t, userPath, again)

	cfg, err := Load(userPath)
	require.NoError(t, err)
	require.Equal(t, 40000, cfg.App.Port)
}
