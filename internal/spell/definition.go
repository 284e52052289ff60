package spell

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Definition is one declarative ability record as read from a definition source.
type Definition struct {
	Kind  string `yaml:"kind"`
	Name  string `yaml:"name"`
	Words string `yaml:"words"`

	Level       int32         `yaml:"level"`
	MagicLevel  int32         `yaml:"magic_level"`
	Mana        int32         `yaml:"mana"`
	ManaPercent int32         `yaml:"mana_percent"`
	Soul        int32         `yaml:"soul"`
	Range       int32         `yaml:"range"`
	Vocations   []int32       `yaml:"vocations"`
	Cooldown    time.Duration `yaml:"cooldown"`

	Enabled          *bool `yaml:"enabled"`
	Exhaustion       *bool `yaml:"exhaustion"`
	Premium          bool  `yaml:"premium"`
	Learnable        bool  `yaml:"learnable"`
	Aggressive       bool  `yaml:"aggressive"`
	NeedTarget       bool  `yaml:"need_target"`
	NeedWeapon       bool  `yaml:"need_weapon"`
	SelfTarget       bool  `yaml:"self_target"`
	BlockingSolid    bool  `yaml:"blocking_solid"`
	BlockingCreature bool  `yaml:"blocking_creature"`

	// Instant
	HasParam                bool `yaml:"params"`
	CheckLineOfSight        bool `yaml:"check_line_of_sight"`
	CasterTargetOrDirection bool `yaml:"caster_target_or_direction"`
	NeedDirection           bool `yaml:"need_direction"`

	// Conjure
	ConjureID    int32 `yaml:"conjure_id"`
	ConjureCount int32 `yaml:"conjure_count"`
	ReagentID    int32 `yaml:"reagent_id"`

	// Rune
	RuneID  int32 `yaml:"rune_id"`
	Charges bool  `yaml:"charges"`

	// Effect binding: exactly one of Native or Script.
	Native string            `yaml:"native"`
	Script string            `yaml:"script"`
	Combat *CombatDescriptor `yaml:"combat"`
}

var (
	errRequired = errors.New("required")
	errNegative = errors.New("must not be negative")
)

func parseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "instant":
		return KindInstant, nil
	case "conjure":
		return KindConjure, nil
	case "rune":
		return KindRune, nil
	case "combat":
		return KindCombat, nil
	default:
		return 0, fmt.Errorf("unknown kind %q", s)
	}
}

// Configure builds an ability from a definition.
// knownVocation reports whether a vocation id exists; nil accepts every id.
// Returns *ConfigError when the definition is malformed.
func Configure(def Definition, knownVocation func(int32) bool) (Ability, error) {
	name := strings.TrimSpace(def.Name)
	cfgErr := func(field string, err error) error {
		return &ConfigError{Spell: name, Field: field, Err: err}
	}

	if name == "" {
		return nil, cfgErr("name", errRequired)
	}
	kind, err := parseKind(def.Kind)
	if err != nil {
		return nil, cfgErr("kind", err)
	}

	handler, err := configureHandler(def, kind)
	if err != nil {
		return nil, cfgErr("handler", err)
	}

	if kind == KindCombat {
		return &CombatSpell{
			name:          name,
			enabled:       def.Enabled == nil || *def.Enabled,
			needTarget:    def.NeedTarget,
			needDirection: def.NeedDirection,
			combat:        def.Combat,
			handler:       handler,
		}, nil
	}

	base, err := configureSpell(def, name, handler, knownVocation)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindInstant, KindConjure:
		words := strings.TrimSpace(def.Words)
		if words == "" {
			return nil, cfgErr("words", errRequired)
		}
		instant := InstantSpell{
			Spell:                   base,
			Phrase:                  Phrase{Words: words, HasParam: def.HasParam},
			checkLineOfSight:        def.CheckLineOfSight,
			casterTargetOrDirection: def.CasterTargetOrDirection,
			needDirection:           def.NeedDirection,
		}
		if kind == KindInstant {
			return &instant, nil
		}

		if def.ConjureID <= 0 && handler.Native != NativeConjureFood {
			return nil, cfgErr("conjure_id", errRequired)
		}
		if def.ConjureCount <= 0 {
			return nil, cfgErr("conjure_count", errors.New("must be positive"))
		}
		if def.ReagentID < 0 {
			return nil, cfgErr("reagent_id", errNegative)
		}
		return &ConjureSpell{
			InstantSpell: instant,
			conjureID:    def.ConjureID,
			conjureCount: def.ConjureCount,
			reagentID:    def.ReagentID,
		}, nil

	default: // KindRune
		if def.RuneID <= 0 {
			return nil, cfgErr("rune_id", errRequired)
		}
		return &RuneSpell{
			Spell:       base,
			RuneTrigger: RuneTrigger{RuneID: def.RuneID, HasCharges: def.Charges},
		}, nil
	}
}

func configureSpell(def Definition, name string, handler Handler, knownVocation func(int32) bool) (Spell, error) {
	cfgErr := func(field string, err error) error {
		return &ConfigError{Spell: name, Field: field, Err: err}
	}

	for field, v := range map[string]int64{
		"level":        int64(def.Level),
		"magic_level":  int64(def.MagicLevel),
		"mana":         int64(def.Mana),
		"mana_percent": int64(def.ManaPercent),
		"soul":         int64(def.Soul),
		"range":        int64(def.Range),
		"cooldown":     int64(def.Cooldown),
	} {
		if v < 0 {
			return Spell{}, cfgErr(field, errNegative)
		}
	}
	if def.ManaPercent > 100 {
		return Spell{}, cfgErr("mana_percent", fmt.Errorf("%d exceeds 100", def.ManaPercent))
	}
	if def.Mana > 0 && def.ManaPercent > 0 {
		return Spell{}, cfgErr("mana_percent", errors.New("cannot be combined with mana"))
	}
	if def.NeedTarget && def.SelfTarget {
		return Spell{}, cfgErr("need_target", errors.New("cannot be combined with self_target"))
	}
	if def.NeedTarget && def.CasterTargetOrDirection {
		return Spell{}, cfgErr("caster_target_or_direction", errors.New("cannot be combined with need_target"))
	}

	vocations := make([]int32, 0, len(def.Vocations))
	for _, v := range def.Vocations {
		if knownVocation != nil && !knownVocation(v) {
			return Spell{}, cfgErr("vocations", fmt.Errorf("unknown vocation %d", v))
		}
		if !slices.Contains(vocations, v) {
			vocations = append(vocations, v)
		}
	}

	return Spell{
		name:             name,
		level:            def.Level,
		magicLevel:       def.MagicLevel,
		mana:             def.Mana,
		manaPercent:      def.ManaPercent,
		soul:             def.Soul,
		rangeTiles:       def.Range,
		vocations:        vocations,
		enabled:          def.Enabled == nil || *def.Enabled,
		exhaustion:       def.Exhaustion == nil || *def.Exhaustion,
		premium:          def.Premium,
		learnable:        def.Learnable,
		aggressive:       def.Aggressive,
		needTarget:       def.NeedTarget,
		needWeapon:       def.NeedWeapon,
		selfTarget:       def.SelfTarget,
		blockingSolid:    def.BlockingSolid,
		blockingCreature: def.BlockingCreature,
		cooldown:         def.Cooldown,
		handler:          handler,
		combat:           def.Combat,
	}, nil
}

// configureHandler resolves the effect binding. Conjure spells default to
// conjure-item; any kind with a combat block defaults to the combat native.
func configureHandler(def Definition, kind Kind) (Handler, error) {
	native := strings.TrimSpace(def.Native)
	entry := strings.TrimSpace(def.Script)

	if native != "" && entry != "" {
		return Handler{}, errors.New("native and script are mutually exclusive")
	}
	if entry != "" {
		return ScriptedHandler(entry), nil
	}
	if native == "" {
		switch {
		case kind == KindConjure:
			native = nativeNames[NativeConjureItem]
		case def.Combat != nil:
			native = nativeNames[NativeCombat]
		default:
			return Handler{}, errors.New("native or script is required")
		}
	}

	id, err := ParseNative(native, kind)
	if err != nil {
		return Handler{}, err
	}
	if id == NativeCombat && def.Combat == nil {
		return Handler{}, errors.New("combat native requires a combat block")
	}
	if def.Combat != nil && def.Combat.Type == "" {
		return Handler{}, errors.New("combat block requires a type")
	}
	return NativeHandler(id), nil
}
