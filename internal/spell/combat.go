package spell

import "github.com/udisondev/otspells/internal/model"

// CombatDescriptor is prepared at load time and passed unchanged to the
// combat engine. The engine owns its meaning.
type CombatDescriptor struct {
	Type           string `yaml:"type" json:"type"`
	MinValue       int32  `yaml:"min" json:"min"`
	MaxValue       int32  `yaml:"max" json:"max"`
	Effect         int32  `yaml:"effect" json:"effect,omitempty"`
	DistanceEffect int32  `yaml:"distance_effect" json:"distance_effect,omitempty"`
	Area           string `yaml:"area" json:"area,omitempty"`
	Condition      string `yaml:"condition" json:"condition,omitempty"`
}

// CombatEngine applies damage, conditions and area effects.
type CombatEngine interface {
	// ApplyCombat applies d from caster to target (may be nil) at pos.
	ApplyCombat(d *CombatDescriptor, caster, target model.Creature, pos model.Position) bool
}

// CombatSpell is the bridge into the combat engine for non-player actors.
// It carries no costs or restrictions.
type CombatSpell struct {
	name          string
	enabled       bool
	needTarget    bool
	needDirection bool
	combat        *CombatDescriptor
	handler       Handler
}

func (s *CombatSpell) Kind() Kind       { return KindCombat }
func (s *CombatSpell) Name() string     { return s.name }
func (s *CombatSpell) IsInstant() bool  { return false }
func (s *CombatSpell) Handler() Handler { return s.handler }

func (s *CombatSpell) IsEnabled() bool           { return s.enabled }
func (s *CombatSpell) NeedTarget() bool          { return s.needTarget }
func (s *CombatSpell) NeedDirection() bool       { return s.needDirection }
func (s *CombatSpell) Combat() *CombatDescriptor { return s.combat }
