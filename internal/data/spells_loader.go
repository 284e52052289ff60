package data

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/otspells/internal/spell"
)

// spellFile is the on-disk layout of a definitions file.
type spellFile struct {
	Spells []spellRecord `yaml:"spells"`
}

// spellRecord extends a definition with vocations given by name.
// Named vocations also admit their promotions.
type spellRecord struct {
	spell.Definition `yaml:",inline"`

	VocationNames []string `yaml:"vocation_names"`
}

// LoadSpellDefinitions reads ability definitions from a YAML file.
// Record order is preserved.
func LoadSpellDefinitions(path string) ([]spell.Definition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spells %s: %w", path, err)
	}

	defs, err := ParseSpellDefinitions(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing spells %s: %w", path, err)
	}

	slog.Info("read spell definitions", "path", path, "count", len(defs))
	return defs, nil
}

// ParseSpellDefinitions decodes a definitions document.
// An unknown vocation name fails the whole document.
func ParseSpellDefinitions(raw []byte) ([]spell.Definition, error) {
	var f spellFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, err
	}

	defs := make([]spell.Definition, 0, len(f.Spells))
	var errs []error
	for i, rec := range f.Spells {
		def := rec.Definition
		for _, name := range rec.VocationNames {
			id, ok := VocationByName(name)
			if !ok {
				errs = append(errs, fmt.Errorf("spell #%d %q: unknown vocation %q", i, def.Name, name))
				continue
			}
			for _, v := range WithPromotions(id) {
				if !slices.Contains(def.Vocations, v) {
					def.Vocations = append(def.Vocations, v)
				}
			}
		}
		defs = append(defs, def)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return defs, nil
}
