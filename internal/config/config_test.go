package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "mongodb", cfg.Storage.Type)
	assert.Equal(t, "localhost", cfg.Storage.Host)
	assert.Equal(t, 27017, cfg.Storage.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "admin", cfg.Access.AdminID)
	assert.Equal(t, "anonymous", cfg.Access.AnonymousID)
}

func TestLoadFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `
storage:
  host: db.internal
  port: 27018
  database: prod
logging:
  level: debug
access:
  admin_id: root
  manager_ids:
    - m1
    - m2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Storage.Host)
	assert.Equal(t, 27018, cfg.Storage.Port)
	assert.Equal(t, "prod", cfg.Storage.Database)
	assert.Equal(t, "mongodb", cfg.Storage.Type, "unset fields keep defaults")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "root", cfg.Access.AdminID)
	assert.Equal(t, []string{"m1", "m2"}, cfg.Access.ManagerIDs)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("storage: [broken"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("STORAGE_HOST", "env-host")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "env-host", cfg.Storage.Host)
}

func TestLoadValidatesStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  port: -1\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
