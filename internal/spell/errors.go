package spell

import (
	"errors"
	"fmt"
)

// Reason is why a cast did not pass validation.
type Reason uint8

const (
	ReasonNone Reason = iota
	ReasonDisabled
	ReasonLevel
	ReasonMagicLevel
	ReasonVocation
	ReasonPremium
	ReasonExhausted
	ReasonNotEnoughMana
	ReasonNotEnoughSoul
	ReasonNotLearned
	ReasonNeedWeapon
	ReasonNeedTarget
	ReasonOutOfRange
	ReasonSightBlocked
	ReasonTileBlocked
	ReasonCreatureBlocking
	ReasonSelfOnly
	ReasonNoItem
	ReasonNoCharges
	ReasonMissingReagent
	ReasonNoRoom
)

var reasonMessages = map[Reason]string{
	ReasonDisabled:         "This spell is currently not available.",
	ReasonLevel:            "You do not have enough level.",
	ReasonMagicLevel:       "You do not have enough magic level.",
	ReasonVocation:         "Your vocation cannot use this spell.",
	ReasonPremium:          "You need a premium account to use this spell.",
	ReasonExhausted:        "You are exhausted.",
	ReasonNotEnoughMana:    "You do not have enough mana.",
	ReasonNotEnoughSoul:    "You do not have enough soul.",
	ReasonNotLearned:       "You need to learn this spell first.",
	ReasonNeedWeapon:       "You need to equip a weapon to use this spell.",
	ReasonNeedTarget:       "You can only use this spell on creatures.",
	ReasonOutOfRange:       "Destination is out of range.",
	ReasonSightBlocked:     "You cannot throw there.",
	ReasonTileBlocked:      "There is not enough room.",
	ReasonCreatureBlocking: "There is a creature in the way.",
	ReasonSelfOnly:         "You can only use this rune on yourself.",
	ReasonNoItem:           "You do not have the required rune.",
	ReasonNoCharges:        "This rune has no charges left.",
	ReasonMissingReagent:   "You need a magic item to cast this spell.",
	ReasonNoRoom:           "You do not have enough room.",
}

// Message returns the text shown to the caster.
func (r Reason) Message() string {
	if m, ok := reasonMessages[r]; ok {
		return m
	}
	return "Sorry, not possible."
}

// ValidationError is a failed precondition. No side effect has happened.
type ValidationError struct {
	Spell  string
	Reason Reason
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("spell %q: %s", e.Spell, e.Reason.Message())
}

// ConfigError is a malformed ability definition. Only that ability is skipped.
type ConfigError struct {
	Spell string
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("configuring spell %q: %v", e.Spell, e.Err)
	}
	return fmt.Sprintf("configuring spell %q: %s: %v", e.Spell, e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// DispatchError means the effect reported failure after validation passed.
type DispatchError struct {
	Spell string
	Err   error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("casting %q: %v", e.Spell, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

var (
	// ErrReentrantCast is returned when a caster casts again while one of
	// its casts is being dispatched.
	ErrReentrantCast = errors.New("recursive cast by the same caster")
	// ErrEffectFailed is the cause of a DispatchError when the handler returned false.
	ErrEffectFailed = errors.New("effect failed")
	// ErrNoSpells is returned by Load when nothing loaded and spells are required.
	ErrNoSpells = errors.New("no spells loaded")
)

// Outcome classifies the result of an utterance or rune use.
type Outcome uint8

const (
	// NotASpell means the utterance matched no ability and is ordinary chat.
	NotASpell Outcome = iota
	Success
	Failed
)

func (o Outcome) String() string {
	switch o {
	case NotASpell:
		return "not-a-spell"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// CastResult is returned to the chat and item-use layers.
// Err is *ValidationError, *DispatchError or wraps ErrReentrantCast when Outcome is Failed.
type CastResult struct {
	Outcome Outcome
	Err     error
}

// Reason returns the validation reason, or ReasonNone if the cast did not fail validation.
func (r CastResult) Reason() Reason {
	var ve *ValidationError
	if errors.As(r.Err, &ve) {
		return ve.Reason
	}
	return ReasonNone
}

func succeeded() CastResult { return CastResult{Outcome: Success} }

func failed(err error) CastResult { return CastResult{Outcome: Failed, Err: err} }
