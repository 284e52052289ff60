package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSpellServer_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadSpellServer(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSpellServer(), cfg)
	assert.NoError(t, cfg.Validate())
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoadSpellServer_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spellserver.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
definition_source: database
spell_exhaustion_time: 1500ms
combat_exhaustion_time: 3s
require_spells: true
database:
  host: db
  port: 6543
redis:
  addr: redis:6379
  db: 2
`), 0o600))

	cfg, err := LoadSpellServer(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, SourceDatabase, cfg.DefinitionSource)
	assert.Equal(t, 1500*time.Millisecond, cfg.SpellExhaustionTime)
	assert.Equal(t, 3*time.Second, cfg.CombatExhaustionTime)
	assert.Equal(t, 6*time.Second, cfg.SpellInFightTime, "unset keys keep defaults")
	assert.True(t, cfg.RequireSpells)
	assert.Equal(t, "postgres://otspells:otspells@db:6543/otspells?sslmode=disable", cfg.Database.DSN())
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.NoError(t, cfg.Validate())
}

func TestLoadSpellServer_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: [debug"), 0o600))

	_, err := LoadSpellServer(path)
	assert.Error(t, err)
}

func TestSpellServer_Validate(t *testing.T) {
	cfg := DefaultSpellServer()
	cfg.DefinitionSource = "ldap"
	cfg.TickInterval = 0
	cfg.SpellInFightTime = -time.Second

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ldap")
	assert.Contains(t, err.Error(), "tick_interval")
	assert.Contains(t, err.Error(), "negative")

	cfg = DefaultSpellServer()
	cfg.SpellsPath = ""
	assert.Error(t, cfg.Validate())
}
