package spell

import "fmt"

// HandlerKind selects how a validated ability's effect is executed.
type HandlerKind uint8

const (
	HandlerNone HandlerKind = iota
	HandlerNative
	HandlerScripted
)

// NativeID names a built-in effect.
type NativeID uint8

const (
	NativeInvalid NativeID = iota
	NativeSearchPlayer
	NativeSummonCreature
	NativeLevitate
	NativeIllusion
	NativeConjureItem
	NativeConjureFood
	NativeRuneIllusion
	NativeConvince
	NativeCombat
)

// Handler is the effect bound to an ability, resolved once at load time:
// either a native effect or a scripted entry point.
type Handler struct {
	Kind   HandlerKind
	Native NativeID
	Entry  string
}

// NativeHandler binds a built-in effect.
func NativeHandler(id NativeID) Handler {
	return Handler{Kind: HandlerNative, Native: id}
}

// ScriptedHandler binds a scripted entry point.
func ScriptedHandler(entry string) Handler {
	return Handler{Kind: HandlerScripted, Entry: entry}
}

func (h Handler) String() string {
	switch h.Kind {
	case HandlerNative:
		return "native:" + nativeNames[h.Native]
	case HandlerScripted:
		return "script:" + h.Entry
	default:
		return "none"
	}
}

var nativeNames = map[NativeID]string{
	NativeSearchPlayer:   "search-player",
	NativeSummonCreature: "summon-creature",
	NativeLevitate:       "levitate",
	NativeIllusion:       "illusion",
	NativeConjureItem:    "conjure-item",
	NativeConjureFood:    "conjure-food",
	NativeRuneIllusion:   "rune-illusion",
	NativeConvince:       "convince",
	NativeCombat:         "combat",
}

// nativeKinds lists which ability kinds may bind each native effect.
var nativeKinds = map[NativeID][]Kind{
	NativeSearchPlayer:   {KindInstant},
	NativeSummonCreature: {KindInstant},
	NativeLevitate:       {KindInstant},
	NativeIllusion:       {KindInstant},
	NativeConjureItem:    {KindConjure},
	NativeConjureFood:    {KindConjure},
	NativeRuneIllusion:   {KindRune},
	NativeConvince:       {KindRune},
	NativeCombat:         {KindInstant, KindRune, KindCombat},
}

// ParseNative resolves a configured native name for an ability kind.
func ParseNative(name string, kind Kind) (NativeID, error) {
	for id, n := range nativeNames {
		if n != name {
			continue
		}
		for _, k := range nativeKinds[id] {
			if k == kind {
				return id, nil
			}
		}
		return NativeInvalid, fmt.Errorf("native %q cannot be bound to %s spells", name, kind)
	}
	return NativeInvalid, fmt.Errorf("unknown native %q", name)
}
