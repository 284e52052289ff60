package data

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/otspells/internal/spell"
)

const sampleSpells = `
spells:
  - name: Light Healing
    words: exura
    level: 9
    mana: 20
    cooldown: 1500ms
    vocation_names: [druid, sorcerer]
    script: LightHealing
  - kind: rune
    name: Sudden Death
    rune_id: 2268
    charges: true
    range: 7
    need_target: true
    aggressive: true
    vocations: [1]
    combat:
      type: death
      min: 150
      max: 300
      distance_effect: 11
  - kind: conjure
    name: Conjure Arrow
    words: exevo con
    soul: 1
    conjure_id: 2544
    conjure_count: 10
    enabled: false
`

func TestParseSpellDefinitions(t *testing.T) {
	defs, err := ParseSpellDefinitions([]byte(sampleSpells))
	require.NoError(t, err)
	require.Len(t, defs, 3)

	heal := defs[0]
	assert.Equal(t, "Light Healing", heal.Name)
	assert.Equal(t, "exura", heal.Words)
	assert.Equal(t, 1500*time.Millisecond, heal.Cooldown)
	assert.Equal(t, []int32{VocationDruid, VocationElderDruid, VocationSorcerer, VocationMasterSorc}, heal.Vocations, "each name is followed by its promotion")
	assert.Equal(t, "LightHealing", heal.Script)

	sd := defs[1]
	assert.Equal(t, "rune", sd.Kind)
	assert.Equal(t, int32(2268), sd.RuneID)
	assert.True(t, sd.Charges)
	require.NotNil(t, sd.Combat)
	assert.Equal(t, spell.CombatDescriptor{Type: "death", MinValue: 150, MaxValue: 300, DistanceEffect: 11}, *sd.Combat)
	assert.Equal(t, []int32{1}, sd.Vocations)

	arrow := defs[2]
	require.NotNil(t, arrow.Enabled)
	assert.False(t, *arrow.Enabled)
	assert.Nil(t, arrow.Exhaustion)

	for _, def := range defs {
		_, err := spell.Configure(def, KnownVocation)
		assert.NoError(t, err, def.Name)
	}
}

func TestParseSpellDefinitions_UnknownVocation(t *testing.T) {
	_, err := ParseSpellDefinitions([]byte(`
spells:
  - name: Haste
    words: utani hur
    vocation_names: [necromancer]
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "necromancer")
}

func TestParseSpellDefinitions_Malformed(t *testing.T) {
	_, err := ParseSpellDefinitions([]byte("spells: [name: x"))
	assert.Error(t, err)
}

func TestLoadSpellDefinitions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spells.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleSpells), 0o600))

	defs, err := LoadSpellDefinitions(path)
	require.NoError(t, err)
	assert.Len(t, defs, 3)

	_, err = LoadSpellDefinitions(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestShippedSpellDefinitions(t *testing.T) {
	defs, err := LoadSpellDefinitions(filepath.Join("..", "..", "data", "spells.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, defs)

	names := make(map[string]bool, len(defs))
	for _, def := range defs {
		_, err := spell.Configure(def, KnownVocation)
		assert.NoError(t, err, def.Name)
		assert.False(t, names[def.Name], "duplicate %q", def.Name)
		names[def.Name] = true
	}
}
