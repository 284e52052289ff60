package main

import (
	"log/slog"

	"github.com/udisondev/otspells/internal/model"
	"github.com/udisondev/otspells/internal/spell"
)

// logCombat stands in for the combat engine: it records what would be applied.
type logCombat struct{}

func (logCombat) ApplyCombat(d *spell.CombatDescriptor, caster, target model.Creature, pos model.Position) bool {
	attrs := []any{
		"caster", caster.Name(),
		"type", d.Type,
		"min", d.MinValue,
		"max", d.MaxValue,
		"pos", pos,
	}
	if target != nil {
		attrs = append(attrs, "target", target.Name())
	}
	if d.Area != "" {
		attrs = append(attrs, "area", d.Area)
	}
	slog.Info("combat applied", attrs...)
	return true
}
