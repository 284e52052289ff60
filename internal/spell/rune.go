package spell

import "github.com/udisondev/otspells/internal/model"

// RuneTrigger binds an ability to the use of an item type.
type RuneTrigger struct {
	RuneID     int32
	HasCharges bool
}

// Accepts reports whether item can back a cast: it is the rune, present,
// and has a charge left when charges are counted.
func (t RuneTrigger) Accepts(item *model.Item) Reason {
	if item == nil || item.ID() != t.RuneID || item.Count() <= 0 {
		return ReasonNoItem
	}
	if t.HasCharges && item.Charges() <= 0 {
		return ReasonNoCharges
	}
	return ReasonNone
}

// RuneSpell is triggered by using a rune item on a position.
type RuneSpell struct {
	Spell
	RuneTrigger
}

func (s *RuneSpell) Kind() Kind      { return KindRune }
func (s *RuneSpell) IsInstant() bool { return false }
