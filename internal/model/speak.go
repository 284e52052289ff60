package model

// SpeakClass is the channel an utterance was sent on.
type SpeakClass uint8

const (
	SpeakSay SpeakClass = iota + 1
	SpeakWhisper
	SpeakYell
	SpeakPrivate
	SpeakChannel
	SpeakBroadcast
)

// IsLocal reports whether the utterance is heard on the caster's screen.
func (s SpeakClass) IsLocal() bool {
	return s == SpeakSay || s == SpeakWhisper || s == SpeakYell
}

// Outfit describes how a creature looks.
// LookTypeEx is non-zero when the creature is displayed as an item.
type Outfit struct {
	LookType   int32
	LookTypeEx int32
	Head       uint8
	Body       uint8
	Legs       uint8
	Feet       uint8
}

// Creature is the minimal view of any living thing in the world.
type Creature interface {
	ObjectID() uint32
	Name() string
	Position() Position
	Direction() Direction
}
