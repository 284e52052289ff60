package spell

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/udisondev/otspells/internal/model"
	"github.com/udisondev/otspells/internal/script"
)

// Settings are the process-wide knobs of the ability engine.
type Settings struct {
	// SpellExhaustion is the default duration of CategoryInstant.
	SpellExhaustion time.Duration
	// CombatExhaustion is the default duration of CategoryCombat.
	CombatExhaustion time.Duration
	// InFightTime marks casters of aggressive spells as in combat.
	InFightTime time.Duration
	// RequireSpells makes Load fail when no ability loads.
	RequireSpells bool
	// KnownVocation validates vocation ids at load time. nil accepts all.
	KnownVocation func(int32) bool
}

// Deps are the external collaborators. Any of them may be nil; abilities
// needing a missing collaborator fail at dispatch.
type Deps struct {
	World   World
	Combat  CombatEngine
	Scripts ScriptRuntime
	Notify  Notifier
	Store   CooldownStore
	// Intn returns a random number in [0, n). Defaults to math/rand/v2.
	Intn func(n int) int
}

// LoadReport summarizes a Load.
type LoadReport struct {
	Instants int
	Runes    int
	Combats  int
	Disabled int
	Rejected int
	Errors   []error
}

// index is an immutable snapshot of all loaded abilities.
type index struct {
	instants     map[string]Instant // lower-case words
	instantNames map[string]Instant
	runes        map[int32]*RuneSpell
	runeNames    map[string]*RuneSpell
	combats      map[string]*CombatSpell
	byName       map[string]Ability

	// scripts is the runtime the scripted handlers were resolved against.
	scripts ScriptRuntime

	// built by finish
	paramPhrases []Instant // HasParam only, longest words first
	sorted       []Instant // by name
}

func newIndex(scripts ScriptRuntime) *index {
	return &index{
		scripts:      scripts,
		instants:     make(map[string]Instant),
		instantNames: make(map[string]Instant),
		runes:        make(map[int32]*RuneSpell),
		runeNames:    make(map[string]*RuneSpell),
		combats:      make(map[string]*CombatSpell),
		byName:       make(map[string]Ability),
	}
}

func (idx *index) add(a Ability) {
	name := strings.ToLower(a.Name())

	switch v := a.(type) {
	case Instant:
		words := strings.ToLower(v.Instant().Words)
		if prev, ok := idx.instants[words]; ok {
			slog.Warn("duplicate spell words, last definition wins",
				"words", words,
				"previous", prev.Name(),
				"spell", v.Name())
			delete(idx.instantNames, strings.ToLower(prev.Name()))
			delete(idx.byName, strings.ToLower(prev.Name()))
		}
		idx.instants[words] = v
		idx.instantNames[name] = v
	case *RuneSpell:
		if prev, ok := idx.runes[v.RuneID]; ok {
			slog.Warn("duplicate rune id, last definition wins",
				"rune", v.RuneID,
				"previous", prev.Name(),
				"spell", v.Name())
			delete(idx.runeNames, strings.ToLower(prev.Name()))
			delete(idx.byName, strings.ToLower(prev.Name()))
		}
		idx.runes[v.RuneID] = v
		idx.runeNames[name] = v
	case *CombatSpell:
		if _, ok := idx.combats[name]; ok {
			slog.Warn("duplicate combat spell, last definition wins", "spell", v.Name())
		}
		idx.combats[name] = v
		return
	}

	if prev, ok := idx.byName[name]; ok && prev != a {
		slog.Warn("duplicate spell name, last definition wins", "spell", a.Name())
	}
	idx.byName[name] = a
}

func (idx *index) finish() {
	for _, sp := range idx.instants {
		idx.sorted = append(idx.sorted, sp)
		if sp.Instant().HasParam {
			idx.paramPhrases = append(idx.paramPhrases, sp)
		}
	}
	slices.SortFunc(idx.paramPhrases, func(a, b Instant) int {
		wa, wb := a.Instant().Words, b.Instant().Words
		if c := cmp.Compare(len(wb), len(wa)); c != 0 {
			return c
		}
		return strings.Compare(strings.ToLower(wa), strings.ToLower(wb))
	})
	slices.SortFunc(idx.sorted, func(a, b Instant) int {
		return strings.Compare(strings.ToLower(a.Name()), strings.ToLower(b.Name()))
	})
}

// match resolves an utterance. The whole utterance matching a phrase exactly
// wins; otherwise the longest parameter-taking phrase followed by a space.
func (idx *index) match(utterance string) (Instant, string, bool) {
	u := strings.TrimSpace(utterance)
	if sp, ok := idx.instants[strings.ToLower(u)]; ok {
		return sp, "", true
	}
	for _, sp := range idx.paramPhrases {
		if param, _, ok := sp.Instant().Match(u); ok {
			return sp, param, true
		}
	}
	return nil, "", false
}

// Spells is the ability registry. It owns the ability index, the exhaustion
// tracker and the dispatcher.
type Spells struct {
	settings   Settings
	idx        atomic.Pointer[index]
	cooldowns  *Tracker
	guard      *guard
	dispatcher *Dispatcher
}

// New creates an empty registry.
func New(settings Settings, deps Deps) *Spells {
	s := &Spells{
		settings:  settings,
		cooldowns: NewTracker(settings.SpellExhaustion, settings.CombatExhaustion),
		guard:     newGuard(),
	}
	if deps.Store != nil {
		s.cooldowns.SetStore(deps.Store)
	}

	intn := deps.Intn
	if intn == nil {
		intn = rand.IntN
	}
	s.dispatcher = &Dispatcher{
		world:  deps.World,
		combat: deps.Combat,
		notify: deps.Notify,
		intn:   intn,
		recast: s.recast,
	}
	s.idx.Store(newIndex(deps.Scripts))
	return s
}

// Cooldowns returns the exhaustion tracker.
func (s *Spells) Cooldowns() *Tracker {
	return s.cooldowns
}

// Load configures every definition in order and atomically replaces the
// index. A malformed definition or an unresolvable script only affects that
// ability. With RequireSpells and nothing loadable, the current index is kept
// and ErrNoSpells is returned. Calling Load again is a reload; it must run
// between ticks. Scripts resolve against the runtime currently in use.
func (s *Spells) Load(defs []Definition) (LoadReport, error) {
	return s.LoadWithScripts(defs, s.idx.Load().scripts)
}

// LoadWithScripts is Load with a new script runtime. The runtime is
// published together with the index, so a failed load keeps both the old
// abilities and the runtime they were resolved against.
func (s *Spells) LoadWithScripts(defs []Definition, scripts ScriptRuntime) (LoadReport, error) {
	var report LoadReport
	idx := newIndex(scripts)

	for _, def := range defs {
		a, err := Configure(def, s.settings.KnownVocation)
		if err != nil {
			slog.Warn("spell rejected", "spell", def.Name, "error", err)
			report.Rejected++
			report.Errors = append(report.Errors, err)
			continue
		}

		if h := a.Handler(); h.Kind == HandlerScripted {
			if err := resolveScript(scripts, h.Entry); err != nil {
				disable(a)
				slog.Warn("spell disabled", "spell", a.Name(), "error", err)
				report.Disabled++
				report.Errors = append(report.Errors, err)
			}
		}
		idx.add(a)
	}
	idx.finish()

	report.Instants = len(idx.instants)
	report.Runes = len(idx.runes)
	report.Combats = len(idx.combats)

	if s.settings.RequireSpells && report.Instants+report.Runes+report.Combats == 0 {
		return report, fmt.Errorf("loading %d definitions: %w", len(defs), ErrNoSpells)
	}

	s.idx.Store(idx)
	slog.Info("loaded spells",
		"instants", report.Instants,
		"runes", report.Runes,
		"combats", report.Combats,
		"disabled", report.Disabled,
		"rejected", report.Rejected)
	return report, nil
}

// Clear drops every ability. The script runtime is kept.
func (s *Spells) Clear() {
	s.idx.Store(newIndex(s.idx.Load().scripts))
}

func resolveScript(scripts ScriptRuntime, entry string) error {
	if scripts == nil {
		return &script.LoadError{Entry: entry, Err: errors.New("script runtime not configured")}
	}
	return scripts.Resolve(entry)
}

func disable(a Ability) {
	switch v := a.(type) {
	case castable:
		v.spellBase().enabled = false
	case *CombatSpell:
		v.enabled = false
	}
}

// GetInstantSpell returns the instant ability triggered by exactly these words.
func (s *Spells) GetInstantSpell(words string) Instant {
	return s.idx.Load().instants[strings.ToLower(strings.TrimSpace(words))]
}

// GetInstantSpellByName returns an instant ability by name.
func (s *Spells) GetInstantSpellByName(name string) Instant {
	return s.idx.Load().instantNames[strings.ToLower(name)]
}

// GetRuneSpell returns the rune ability backed by item id.
func (s *Spells) GetRuneSpell(id int32) *RuneSpell {
	return s.idx.Load().runes[id]
}

// GetRuneSpellByName returns a rune ability by name.
func (s *Spells) GetRuneSpellByName(name string) *RuneSpell {
	return s.idx.Load().runeNames[strings.ToLower(name)]
}

// GetSpellByName returns an instant or rune ability by name.
func (s *Spells) GetSpellByName(name string) Ability {
	return s.idx.Load().byName[strings.ToLower(name)]
}

// GetCombatSpell returns a combat spell by name.
func (s *Spells) GetCombatSpell(name string) *CombatSpell {
	return s.idx.Load().combats[strings.ToLower(name)]
}

// InstantSpellCount returns how many instant abilities c can cast.
func (s *Spells) InstantSpellCount(c Caster) int {
	n := 0
	for _, sp := range s.idx.Load().sorted {
		if canCast(c, sp.Instant()) {
			n++
		}
	}
	return n
}

// InstantSpellByIndex returns the i-th castable instant ability of c, ordered by name.
func (s *Spells) InstantSpellByIndex(c Caster, i int) Instant {
	n := 0
	for _, sp := range s.idx.Load().sorted {
		if !canCast(c, sp.Instant()) {
			continue
		}
		if n == i {
			return sp
		}
		n++
	}
	return nil
}

// canCast reports whether the spell belongs in the caster's spell book:
// vocation allowed and, for learnable spells, learned.
func canCast(c Caster, sp *InstantSpell) bool {
	if !sp.AllowsVocation(c.Vocation()) {
		return false
	}
	return !sp.learnable || c.HasLearned(sp.Name())
}

// PlayerSaySpell routes an utterance. Words matching no ability yield
// NotASpell and are ordinary chat.
func (s *Spells) PlayerSaySpell(ctx context.Context, c Caster, speak model.SpeakClass, words string) CastResult {
	if !speak.IsLocal() {
		return CastResult{Outcome: NotASpell}
	}
	idx := s.idx.Load()
	sp, param, ok := idx.match(words)
	if !ok {
		return CastResult{Outcome: NotASpell}
	}
	return s.castInstant(ctx, c, idx.scripts, sp, param)
}

func (s *Spells) castInstant(ctx context.Context, c Caster, scripts ScriptRuntime, sp Instant, param string) CastResult {
	f, err := s.guard.enter(c.ObjectID())
	if err != nil {
		slog.Warn("cast rejected", "caster", c.Name(), "spell", sp.Name(), "error", err)
		return failed(err)
	}
	defer s.guard.leave(c.ObjectID())

	in := sp.Instant()
	if r := s.checkCommon(c, &in.Spell, CategoryInstant); r != ReasonNone {
		return s.reject(c, &in.Spell, r)
	}
	conj, _ := sp.(*ConjureSpell)
	target, pos, r := s.checkInstant(c, in, conj, param)
	if r != ReasonNone {
		return s.reject(c, &in.Spell, r)
	}

	manaCost, soulCost := in.ManaCost(c), in.SoulCost(c)
	cc := &CastContext{
		ID:       uuid.NewString(),
		Ability:  sp,
		Caster:   c,
		Target:   target,
		Position: pos,
		Param:    param,
		From:     c.Position(),
		ctx:      ctx,
		scripts:  scripts,
	}
	if conj != nil {
		cc.ConjureID = conj.conjureID
		cc.ConjureCount = conj.conjureCount
	}

	if res, ok := s.dispatch(f, in.handler, cc); !ok {
		return res
	}

	s.postCast(ctx, c, &in.Spell, CategoryInstant, manaCost, soulCost)
	if conj != nil {
		s.conjure(c, conj, cc)
	}

	slog.Debug("spell cast",
		"cast", cc.ID,
		"caster", c.Name(),
		"spell", sp.Name(),
		"param", param,
		"mana", manaCost)
	return succeeded()
}

// ExecuteRune casts the rune ability backed by item at to. Items that back
// no rune ability yield NotASpell.
func (s *Spells) ExecuteRune(ctx context.Context, c Caster, item *model.Item, from, to model.Position) CastResult {
	if item == nil {
		return failed(&ValidationError{Reason: ReasonNoItem})
	}
	idx := s.idx.Load()
	sp := idx.runes[item.ID()]
	if sp == nil {
		return CastResult{Outcome: NotASpell}
	}

	f, err := s.guard.enter(c.ObjectID())
	if err != nil {
		slog.Warn("rune rejected", "caster", c.Name(), "spell", sp.Name(), "error", err)
		return failed(err)
	}
	defer s.guard.leave(c.ObjectID())

	if r := s.checkCommon(c, &sp.Spell, CategoryCombat); r != ReasonNone {
		return s.reject(c, &sp.Spell, r)
	}
	target, r := s.checkRune(c, sp, item, to)
	if r != ReasonNone {
		return s.reject(c, &sp.Spell, r)
	}

	manaCost, soulCost := sp.ManaCost(c), sp.SoulCost(c)
	cc := &CastContext{
		ID:       uuid.NewString(),
		Ability:  sp,
		Caster:   c,
		Target:   target,
		Position: to,
		Item:     item,
		From:     from,
		ctx:      ctx,
		scripts:  idx.scripts,
	}

	if res, ok := s.dispatch(f, sp.handler, cc); !ok {
		return res
	}

	s.postCast(ctx, c, &sp.Spell, CategoryCombat, manaCost, soulCost)
	if sp.HasCharges {
		item.UseCharge()
	}

	slog.Debug("rune used",
		"cast", cc.ID,
		"caster", c.Name(),
		"spell", sp.Name(),
		"to", to,
		"charges", item.Charges())
	return succeeded()
}

// CastCombat casts a combat spell for a non-player actor. target may be nil.
func (s *Spells) CastCombat(ctx context.Context, cs *CombatSpell, caster, target model.Creature) error {
	if !cs.enabled {
		return &ValidationError{Spell: cs.name, Reason: ReasonDisabled}
	}
	f, err := s.guard.enter(caster.ObjectID())
	if err != nil {
		return err
	}
	defer s.guard.leave(caster.ObjectID())

	if cs.needTarget && target == nil {
		return &ValidationError{Spell: cs.name, Reason: ReasonNeedTarget}
	}

	pos := caster.Position()
	switch {
	case cs.needDirection:
		pos = CasterPosition(pos, caster.Direction())
	case target != nil:
		pos = target.Position()
	}

	cc := &CastContext{
		ID:       uuid.NewString(),
		Ability:  cs,
		Caster:   caster,
		Target:   target,
		Position: pos,
		From:     caster.Position(),
		ctx:      ctx,
		scripts:  s.idx.Load().scripts,
	}
	if res, ok := s.dispatch(f, cs.handler, cc); !ok {
		return res.Err
	}
	return nil
}

// dispatch invokes the handler and maps its outcome.
func (s *Spells) dispatch(f *frame, h Handler, cc *CastContext) (CastResult, bool) {
	err := s.dispatcher.Invoke(h, cc)
	if f.reentered {
		err = fmt.Errorf("casting %q: %w", cc.Ability.Name(), ErrReentrantCast)
		slog.Warn("recursive cast", "cast", cc.ID, "caster", cc.Caster.Name(), "spell", cc.Ability.Name())
		s.dispatcher.tell(cc.Caster, ReasonNone.Message())
		return failed(err), false
	}
	if err != nil {
		slog.Warn("spell effect failed",
			"cast", cc.ID,
			"caster", cc.Caster.Name(),
			"spell", cc.Ability.Name(),
			"handler", h,
			"error", err)
		s.dispatcher.tell(cc.Caster, ReasonNone.Message())
		return failed(&DispatchError{Spell: cc.Ability.Name(), Err: err}), false
	}
	return CastResult{}, true
}

func (s *Spells) reject(c Caster, sp *Spell, r Reason) CastResult {
	s.dispatcher.tell(c, r.Message())
	return failed(&ValidationError{Spell: sp.name, Reason: r})
}

// postCast charges the costs computed during validation and arms exhaustion.
func (s *Spells) postCast(ctx context.Context, c Caster, sp *Spell, cat Category, mana, soul int32) {
	if mana > 0 {
		c.ChangeMana(-mana)
	}
	if soul > 0 {
		c.ChangeSoul(-soul)
	}
	if sp.exhaustion {
		s.cooldowns.Arm(ctx, CooldownOwner(c), cat, sp.cooldown)
	}
	if sp.aggressive && s.settings.InFightTime > 0 {
		c.SetInFight(s.settings.InFightTime)
	}
}

// conjure consumes the reagent and grants the conjured items.
func (s *Spells) conjure(c Caster, sp *ConjureSpell, cc *CastContext) {
	inv := c.Inventory()
	if sp.reagentID != 0 && !inv.Remove(sp.reagentID, 1) {
		slog.Warn("reagent vanished during cast", "caster", c.Name(), "spell", sp.Name(), "reagent", sp.reagentID)
		return
	}
	if err := inv.Add(cc.ConjureID, cc.ConjureCount); err != nil {
		slog.Warn("granting conjured items", "caster", c.Name(), "spell", sp.Name(), "error", err)
	}
}

// recast serves nested casts requested by scripts.
func (s *Spells) recast(ctx context.Context, cr model.Creature, words string) bool {
	c, ok := cr.(Caster)
	if !ok {
		return false
	}
	return s.PlayerSaySpell(ctx, c, model.SpeakSay, words).Outcome == Success
}
