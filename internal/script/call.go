package script

// Call is the argument of every scripted entry point.
// Scripts see it as spellapi.Call.
type Call struct {
	CastID string
	Spell  string

	CasterID   uint32
	CasterName string
	Level      int32
	MagicLevel int32
	Mana       int32
	MaxMana    int32
	Soul       int32
	Vocation   int32

	// TargetID is zero when the cast has no creature target.
	TargetID   uint32
	TargetName string

	// X, Y, Z is the resolved position the effect applies to.
	X, Y, Z int32

	Param string

	// Say sends a text message to the caster.
	Say func(text string)
	// Cast makes the caster say words as a new cast. Nested casts by the same
	// caster are rejected and fail the calling cast.
	Cast func(words string) bool
}
