package spell

import "strings"

// Phrase is the speech trigger of an instant ability.
type Phrase struct {
	Words    string
	HasParam bool
}

// Match checks an utterance against the phrase, case-insensitively.
// An exact match yields an empty parameter. When HasParam is set, the words
// followed by a space and free text also match; the text is the parameter.
func (p Phrase) Match(utterance string) (param string, exact, ok bool) {
	u := strings.TrimSpace(utterance)
	if strings.EqualFold(u, p.Words) {
		return "", true, true
	}
	if !p.HasParam || len(u) <= len(p.Words) {
		return "", false, false
	}
	if u[len(p.Words)] != ' ' || !strings.EqualFold(u[:len(p.Words)], p.Words) {
		return "", false, false
	}
	return parseParam(u[len(p.Words):]), false, true
}

// parseParam trims the parameter and strips one pair of surrounding quotes.
// A leading quote alone is dropped too: `exiva "Bubble` says Bubble.
func parseParam(raw string) string {
	p := strings.TrimSpace(raw)
	if strings.HasPrefix(p, `"`) {
		p = strings.TrimPrefix(p, `"`)
		p = strings.TrimSuffix(p, `"`)
	}
	return strings.TrimSpace(p)
}

// InstantSpell is triggered by speech.
type InstantSpell struct {
	Spell
	Phrase

	checkLineOfSight        bool
	casterTargetOrDirection bool
	needDirection           bool
}

func (s *InstantSpell) Kind() Kind      { return KindInstant }
func (s *InstantSpell) IsInstant() bool { return true }

// Instant returns the speech-triggered part of the ability.
func (s *InstantSpell) Instant() *InstantSpell { return s }

func (s *InstantSpell) CheckLineOfSight() bool        { return s.checkLineOfSight }
func (s *InstantSpell) CasterTargetOrDirection() bool { return s.casterTargetOrDirection }
func (s *InstantSpell) NeedDirection() bool           { return s.needDirection }

// Instant is implemented by *InstantSpell and *ConjureSpell.
type Instant interface {
	Ability
	Instant() *InstantSpell
}

// ConjureSpell is an instant ability that creates items, optionally
// consuming a reagent.
type ConjureSpell struct {
	InstantSpell

	conjureID    int32
	conjureCount int32
	reagentID    int32
}

func (s *ConjureSpell) Kind() Kind { return KindConjure }

func (s *ConjureSpell) ConjureID() int32    { return s.conjureID }
func (s *ConjureSpell) ConjureCount() int32 { return s.conjureCount }

// ReagentID returns the item consumed per cast, 0 when none is needed.
func (s *ConjureSpell) ReagentID() int32 { return s.reagentID }
