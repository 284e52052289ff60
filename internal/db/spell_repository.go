package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/otspells/internal/spell"
)

// SpellRepository хранит определения заклинаний.
// Порядок строк по id задаёт порядок загрузки в реестр.
type SpellRepository struct {
	db *pgxpool.Pool
}

// NewSpellRepository создаёт новый SpellRepository.
func NewSpellRepository(db *pgxpool.Pool) *SpellRepository {
	return &SpellRepository{db: db}
}

const spellColumns = `kind, name, words, level, magic_level, mana, mana_percent, soul, range_tiles,
	cooldown_ms, enabled, exhaustion, premium, learnable, aggressive, need_target,
	need_weapon, self_target, blocking_solid, blocking_creature, params,
	check_line_of_sight, caster_target_or_direction, need_direction,
	conjure_id, conjure_count, reagent_id, rune_id, charges, native, script, combat`

// LoadAll загружает все определения в порядке id.
func (r *SpellRepository) LoadAll(ctx context.Context) ([]spell.Definition, error) {
	query := `
		SELECT ` + spellColumns + `,
			COALESCE(
				(SELECT array_agg(v.vocation ORDER BY v.vocation)
				 FROM spell_vocations v WHERE v.spell_id = s.id),
				'{}'
			)
		FROM spells s
		ORDER BY s.id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying spells: %w", err)
	}
	defer rows.Close()

	defs := make([]spell.Definition, 0, 64)
	for rows.Next() {
		var (
			d          spell.Definition
			cooldownMs int64
			enabled    bool
			exhaustion bool
		)
		if err := rows.Scan(
			&d.Kind, &d.Name, &d.Words, &d.Level, &d.MagicLevel, &d.Mana, &d.ManaPercent, &d.Soul, &d.Range,
			&cooldownMs, &enabled, &exhaustion, &d.Premium, &d.Learnable, &d.Aggressive, &d.NeedTarget,
			&d.NeedWeapon, &d.SelfTarget, &d.BlockingSolid, &d.BlockingCreature, &d.HasParam,
			&d.CheckLineOfSight, &d.CasterTargetOrDirection, &d.NeedDirection,
			&d.ConjureID, &d.ConjureCount, &d.ReagentID, &d.RuneID, &d.Charges, &d.Native, &d.Script, &d.Combat,
			&d.Vocations,
		); err != nil {
			return nil, fmt.Errorf("scanning spell row: %w", err)
		}
		d.Cooldown = time.Duration(cooldownMs) * time.Millisecond
		d.Enabled = &enabled
		d.Exhaustion = &exhaustion
		defs = append(defs, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating spell rows: %w", err)
	}

	return defs, nil
}

// ReplaceAll заменяет все определения (полная перезапись в одной транзакции).
func (r *SpellRepository) ReplaceAll(ctx context.Context, defs []spell.Definition) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx) // no-op after commit
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM spells`); err != nil {
		return fmt.Errorf("deleting spells: %w", err)
	}

	for _, d := range defs {
		var id int32
		err := tx.QueryRow(ctx,
			`INSERT INTO spells (`+spellColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			         $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32)
			 RETURNING id`,
			kindOrDefault(d.Kind), d.Name, d.Words, d.Level, d.MagicLevel, d.Mana, d.ManaPercent, d.Soul, d.Range,
			d.Cooldown.Milliseconds(), flag(d.Enabled), flag(d.Exhaustion), d.Premium, d.Learnable, d.Aggressive, d.NeedTarget,
			d.NeedWeapon, d.SelfTarget, d.BlockingSolid, d.BlockingCreature, d.HasParam,
			d.CheckLineOfSight, d.CasterTargetOrDirection, d.NeedDirection,
			d.ConjureID, d.ConjureCount, d.ReagentID, d.RuneID, d.Charges, d.Native, d.Script, d.Combat,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("inserting spell %q: %w", d.Name, err)
		}

		for _, v := range d.Vocations {
			if _, err := tx.Exec(ctx,
				`INSERT INTO spell_vocations (spell_id, vocation) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
				id, v,
			); err != nil {
				return fmt.Errorf("inserting vocation %d for spell %q: %w", v, d.Name, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func kindOrDefault(kind string) string {
	if kind == "" {
		return "instant"
	}
	return kind
}

// flag resolves an optional switch that defaults to on.
func flag(b *bool) bool {
	return b == nil || *b
}
