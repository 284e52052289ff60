package spell_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/udisondev/otspells/internal/geo"
	"github.com/udisondev/otspells/internal/model"
	"github.com/udisondev/otspells/internal/script"
	"github.com/udisondev/otspells/internal/spell"
	mockspell "github.com/udisondev/otspells/internal/spell/mock"
	"github.com/udisondev/otspells/internal/world"
)

const (
	sorcerer int32 = 1
	druid    int32 = 2
	paladin  int32 = 3
	knight   int32 = 4
)

var start = model.Pos(100, 100, 7)

type harness struct {
	spells  *spell.Spells
	world   *world.World
	combat  *mockspell.MockCombatEngine
	scripts *mockspell.MockScriptRuntime
	said    map[uint32][]string
	now     time.Time
}

func newHarness(t *testing.T, defs ...spell.Definition) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	h := &harness{
		world:   world.New(geo.NewGrid()),
		combat:  mockspell.NewMockCombatEngine(ctrl),
		scripts: mockspell.NewMockScriptRuntime(ctrl),
		said:    make(map[uint32][]string),
		now:     epoch,
	}
	h.scripts.EXPECT().Resolve(gomock.Any()).Return(nil).AnyTimes()

	h.spells = spell.New(spell.Settings{
		SpellExhaustion:  time.Second,
		CombatExhaustion: 2 * time.Second,
		InFightTime:      6 * time.Second,
	}, spell.Deps{
		World:   h.world,
		Combat:  h.combat,
		Scripts: h.scripts,
		Notify: func(c model.Creature, msg string) {
			h.said[c.ObjectID()] = append(h.said[c.ObjectID()], msg)
		},
		Intn: func(int) int { return 0 },
	})
	h.spells.Cooldowns().SetClock(func() time.Time { return h.now })

	if len(defs) > 0 {
		_, err := h.spells.Load(defs)
		require.NoError(t, err)
	}
	return h
}

func (h *harness) player(t *testing.T, name string, vocation, maxMana int32, pos model.Position) *model.Player {
	t.Helper()
	p, err := model.NewPlayer(h.world.IDs().NextPlayerID(), name, vocation, 50, 30, maxMana)
	require.NoError(t, err)
	p.SetPosition(pos)
	require.NoError(t, h.world.AddPlayer(p))
	return p
}

func (h *harness) say(p *model.Player, words string) spell.CastResult {
	return h.spells.PlayerSaySpell(context.Background(), p, model.SpeakSay, words)
}

func (h *harness) lastMessage(p *model.Player) string {
	msgs := h.said[p.ObjectID()]
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1]
}

func (h *harness) advance(d time.Duration) {
	h.now = h.now.Add(d)
}

var (
	lightHealing = spell.Definition{
		Name:      "Light Healing",
		Words:     "exura",
		Level:     9,
		Mana:      20,
		Vocations: []int32{sorcerer, druid, paladin},
		Script:    "LightHealing",
	}
	heavyMagicMissile = spell.Definition{
		Kind:       "rune",
		Name:       "Heavy Magic Missile",
		RuneID:     2311,
		Charges:    true,
		Range:      7,
		NeedTarget: true,
		Aggressive: true,
		Combat:     &spell.CombatDescriptor{Type: "energy", MinValue: 20, MaxValue: 40},
	}
	dragonBreath = spell.Definition{
		Kind:       "combat",
		Name:       "Dragon Breath",
		NeedTarget: true,
		Combat:     &spell.CombatDescriptor{Type: "fire", Area: "cone"},
	}
)

func TestSpells_Lookups(t *testing.T) {
	h := newHarness(t, lightHealing, heavyMagicMissile, dragonBreath)

	sp := h.spells.GetInstantSpell("EXURA")
	require.NotNil(t, sp)
	assert.Equal(t, "Light Healing", sp.Name())
	assert.Same(t, sp, h.spells.GetInstantSpell("exura"), "lookups are idempotent")
	assert.Same(t, sp, h.spells.GetInstantSpellByName("light healing"))
	assert.Nil(t, h.spells.GetInstantSpell("exura vita"))

	r := h.spells.GetRuneSpell(2311)
	require.NotNil(t, r)
	assert.Same(t, r, h.spells.GetRuneSpellByName("Heavy Magic Missile"))
	assert.Nil(t, h.spells.GetRuneSpell(2268))

	assert.Equal(t, spell.Ability(r), h.spells.GetSpellByName("heavy magic missile"))
	assert.Equal(t, spell.Ability(sp), h.spells.GetSpellByName("Light Healing"))
	assert.Nil(t, h.spells.GetSpellByName("Dragon Breath"), "combat spells are looked up separately")

	cs := h.spells.GetCombatSpell("dragon breath")
	require.NotNil(t, cs)
	assert.Equal(t, spell.KindCombat, cs.Kind())
}

func TestSpells_LoadReport(t *testing.T) {
	h := newHarness(t)

	report, err := h.spells.Load([]spell.Definition{
		lightHealing,
		{Name: "Broken", Words: "exura broken"},
		heavyMagicMissile,
		dragonBreath,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Instants)
	assert.Equal(t, 1, report.Runes)
	assert.Equal(t, 1, report.Combats)
	assert.Equal(t, 1, report.Rejected)
	require.Len(t, report.Errors, 1)

	var cfgErr *spell.ConfigError
	assert.True(t, errors.As(report.Errors[0], &cfgErr))
	assert.Nil(t, h.spells.GetInstantSpell("exura broken"))
}

func TestSpells_DuplicateWordsLastWins(t *testing.T) {
	second := lightHealing
	second.Name = "Light Healing II"
	second.Mana = 5

	h := newHarness(t, lightHealing, second)

	sp := h.spells.GetInstantSpell("exura")
	require.NotNil(t, sp)
	assert.Equal(t, "Light Healing II", sp.Name())
	assert.Nil(t, h.spells.GetInstantSpellByName("Light Healing"))
}

func TestSpells_ReloadRoundTrip(t *testing.T) {
	h := newHarness(t, lightHealing, heavyMagicMissile)
	before := h.spells.GetInstantSpell("exura")

	_, err := h.spells.Load([]spell.Definition{heavyMagicMissile})
	require.NoError(t, err)
	assert.Nil(t, h.spells.GetInstantSpell("exura"))
	assert.NotNil(t, h.spells.GetRuneSpell(2311))

	_, err = h.spells.Load([]spell.Definition{lightHealing, heavyMagicMissile})
	require.NoError(t, err)
	after := h.spells.GetInstantSpell("exura")
	require.NotNil(t, after)
	assert.Equal(t, before.Name(), after.Name())
	assert.Equal(t, before.Instant().Mana(), after.Instant().Mana())

	h.spells.Clear()
	assert.Nil(t, h.spells.GetInstantSpell("exura"))
}

func TestSpells_RequireSpells(t *testing.T) {
	s := spell.New(spell.Settings{RequireSpells: true}, spell.Deps{})
	_, err := s.Load([]spell.Definition{{Name: "Broken"}})
	require.ErrorIs(t, err, spell.ErrNoSpells)

	_, err = s.Load([]spell.Definition{{Name: "Light", Words: "utevo lux", Native: "illusion"}})
	require.NoError(t, err)

	_, err = s.Load(nil)
	require.ErrorIs(t, err, spell.ErrNoSpells)
	assert.NotNil(t, s.GetInstantSpell("utevo lux"), "failed load keeps the previous index")
}

func TestSpells_UnresolvableScriptDisables(t *testing.T) {
	ctrl := gomock.NewController(t)
	scripts := mockspell.NewMockScriptRuntime(ctrl)
	scripts.EXPECT().Resolve("LightHealing").Return(&script.LoadError{Entry: "LightHealing", Err: script.ErrEntryNotFound})

	s := spell.New(spell.Settings{}, spell.Deps{Scripts: scripts})
	report, err := s.Load([]spell.Definition{lightHealing})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Disabled)

	sp := s.GetInstantSpell("exura")
	require.NotNil(t, sp, "disabled spells stay registered")
	assert.False(t, sp.Instant().IsEnabled())

	p, err := model.NewPlayer(1, "Bubble", sorcerer, 50, 30, 500)
	require.NoError(t, err)
	res := s.PlayerSaySpell(context.Background(), p, model.SpeakSay, "exura")
	assert.Equal(t, spell.Failed, res.Outcome)
	assert.Equal(t, spell.ReasonDisabled, res.Reason())
}

func TestSpells_NotASpell(t *testing.T) {
	h := newHarness(t, lightHealing)
	p := h.player(t, "Bubble", sorcerer, 500, start)

	assert.Equal(t, spell.NotASpell, h.say(p, "hello there").Outcome)
	assert.Equal(t, spell.NotASpell, h.say(p, "exura vita").Outcome, "exura takes no parameter")

	res := h.spells.PlayerSaySpell(context.Background(), p, model.SpeakPrivate, "exura")
	assert.Equal(t, spell.NotASpell, res.Outcome, "private messages never cast")
	assert.Equal(t, int32(500), p.Mana())
}

func TestSpells_InstantSuccessAndExhaustion(t *testing.T) {
	h := newHarness(t, lightHealing)
	p := h.player(t, "Bubble", sorcerer, 500, start)

	h.scripts.EXPECT().
		Invoke("LightHealing", gomock.Any()).
		DoAndReturn(func(_ string, call script.Call) (bool, error) {
			assert.Equal(t, "Light Healing", call.Spell)
			assert.Equal(t, p.ObjectID(), call.CasterID)
			assert.Equal(t, int32(500), call.Mana, "costs are charged after the effect")
			assert.NotEmpty(t, call.CastID)
			return true, nil
		})

	res := h.say(p, "exura")
	require.Equal(t, spell.Success, res.Outcome)
	require.NoError(t, res.Err)
	assert.Equal(t, int32(480), p.Mana())
	assert.True(t, h.spells.Cooldowns().IsExhausted(spell.CooldownOwner(p), spell.CategoryInstant))

	res = h.say(p, "exura")
	assert.Equal(t, spell.Failed, res.Outcome)
	assert.Equal(t, spell.ReasonExhausted, res.Reason())
	assert.Equal(t, int32(480), p.Mana(), "exhausted cast deducts nothing")
	assert.Equal(t, "You are exhausted.", h.lastMessage(p))

	h.advance(time.Second)
	h.scripts.EXPECT().Invoke("LightHealing", gomock.Any()).Return(true, nil)
	assert.Equal(t, spell.Success, h.say(p, "exura").Outcome)
	assert.Equal(t, int32(460), p.Mana())
}

func TestSpells_ManaPercent(t *testing.T) {
	h := newHarness(t, spell.Definition{
		Name:        "Ultimate Light",
		Words:       "utevo vis lux",
		ManaPercent: 50,
		Script:      "UltimateLight",
	})
	p := h.player(t, "Bubble", druid, 200, start)

	p.SetMana(99)
	res := h.say(p, "utevo vis lux")
	assert.Equal(t, spell.ReasonNotEnoughMana, res.Reason())
	assert.Equal(t, int32(99), p.Mana())

	p.SetMana(100)
	h.scripts.EXPECT().Invoke("UltimateLight", gomock.Any()).Return(true, nil)
	res = h.say(p, "utevo vis lux")
	require.Equal(t, spell.Success, res.Outcome)
	assert.Zero(t, p.Mana())
}

func TestSpells_Preconditions(t *testing.T) {
	tests := []struct {
		name   string
		def    spell.Definition
		setup  func(p *model.Player)
		reason spell.Reason
	}{
		{
			name:   "vocation",
			def:    spell.Definition{Name: "Mass Healing", Words: "exura gran mas res", Vocations: []int32{druid, paladin}, Script: "S"},
			reason: spell.ReasonVocation,
		},
		{
			name:   "level",
			def:    spell.Definition{Name: "Haste", Words: "utani hur", Level: 51, Script: "S"},
			reason: spell.ReasonLevel,
		},
		{
			name:   "magic level",
			def:    spell.Definition{Name: "Haste", Words: "utani hur", MagicLevel: 31, Script: "S"},
			reason: spell.ReasonMagicLevel,
		},
		{
			name:   "premium",
			def:    spell.Definition{Name: "Haste", Words: "utani hur", Premium: true, Script: "S"},
			reason: spell.ReasonPremium,
		},
		{
			name:   "soul",
			def:    spell.Definition{Name: "Haste", Words: "utani hur", Soul: 3, Script: "S"},
			setup:  func(p *model.Player) { p.SetSoul(2) },
			reason: spell.ReasonNotEnoughSoul,
		},
		{
			name:   "not learned",
			def:    spell.Definition{Name: "Haste", Words: "utani hur", Learnable: true, Script: "S"},
			reason: spell.ReasonNotLearned,
		},
		{
			name:   "weapon",
			def:    spell.Definition{Name: "Berserk", Words: "exori", NeedWeapon: true, Script: "S"},
			reason: spell.ReasonNeedWeapon,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.def)
			p := h.player(t, "Bubble", sorcerer, 500, start)
			if tt.setup != nil {
				tt.setup(p)
			}

			res := h.say(p, tt.def.Words)
			assert.Equal(t, spell.Failed, res.Outcome)
			assert.Equal(t, tt.reason, res.Reason())
			assert.Equal(t, tt.reason.Message(), h.lastMessage(p))
			assert.Equal(t, int32(500), p.Mana())
			assert.False(t, h.spells.Cooldowns().IsExhausted(spell.CooldownOwner(p), spell.CategoryInstant))
		})
	}
}

func TestSpells_DispatchFailure(t *testing.T) {
	h := newHarness(t, lightHealing)
	p := h.player(t, "Bubble", sorcerer, 500, start)

	h.scripts.EXPECT().Invoke("LightHealing", gomock.Any()).Return(false, nil)
	res := h.say(p, "exura")
	assert.Equal(t, spell.Failed, res.Outcome)
	assert.ErrorIs(t, res.Err, spell.ErrEffectFailed)

	var dispErr *spell.DispatchError
	assert.ErrorAs(t, res.Err, &dispErr)
	assert.Equal(t, int32(500), p.Mana(), "failed effect deducts nothing")
	assert.False(t, h.spells.Cooldowns().IsExhausted(spell.CooldownOwner(p), spell.CategoryInstant))
	assert.Equal(t, "Sorry, not possible.", h.lastMessage(p))

	h.scripts.EXPECT().Invoke("LightHealing", gomock.Any()).Return(false, errors.New("script panicked"))
	res = h.say(p, "exura")
	assert.ErrorAs(t, res.Err, &dispErr)
	assert.Equal(t, spell.ReasonNone, res.Reason())
}

func TestSpells_ReentrantCast(t *testing.T) {
	h := newHarness(t, lightHealing, spell.Definition{
		Name:   "Chain",
		Words:  "utevo chain",
		Mana:   10,
		Script: "Chain",
	})
	p := h.player(t, "Bubble", sorcerer, 500, start)

	var nested bool
	h.scripts.EXPECT().
		Invoke("Chain", gomock.Any()).
		DoAndReturn(func(_ string, call script.Call) (bool, error) {
			nested = call.Cast("exura")
			return true, nil
		})

	res := h.say(p, "utevo chain")
	assert.False(t, nested, "nested cast must be rejected")
	assert.Equal(t, spell.Failed, res.Outcome)
	assert.ErrorIs(t, res.Err, spell.ErrReentrantCast)
	assert.Equal(t, int32(500), p.Mana())

	h.scripts.EXPECT().Invoke("LightHealing", gomock.Any()).Return(true, nil)
	assert.Equal(t, spell.Success, h.say(p, "exura").Outcome, "guard is released after the cast")
}

func TestSpells_PhraseResolution(t *testing.T) {
	h := newHarness(t,
		spell.Definition{Name: "Summon Creature", Words: "utevo res", HasParam: true, Native: "summon-creature"},
		spell.Definition{Name: "Creature Illusion", Words: "utevo res ina", HasParam: true, Native: "illusion"},
	)
	h.world.RegisterCreatureType("rat", model.Outfit{LookType: 21})
	p := h.player(t, "Bubble", druid, 500, start)

	res := h.say(p, "utevo res ina rat")
	require.Equal(t, spell.Success, res.Outcome, "longest phrase wins")
	assert.Equal(t, model.Outfit{LookType: 21}, p.Outfit())
	assert.Empty(t, h.world.Summons(p.ObjectID()))

	h.advance(time.Second)
	res = h.say(p, `UTEVO RES "Rat"`)
	require.Equal(t, spell.Success, res.Outcome)
	summons := h.world.Summons(p.ObjectID())
	require.Len(t, summons, 1)
	assert.Equal(t, start.Step(model.North), summons[0].Position())
}

func TestSpells_ExactPhraseWinsOverParameter(t *testing.T) {
	h := newHarness(t,
		spell.Definition{Name: "Find Person", Words: "exiva", HasParam: true, Native: "search-player"},
		spell.Definition{Name: "Great Search", Words: "exiva gran", Script: "GreatSearch"},
	)
	p := h.player(t, "Bubble", knight, 500, start)

	h.scripts.EXPECT().Invoke("GreatSearch", gomock.Any()).Return(true, nil)
	require.Equal(t, spell.Success, h.say(p, "exiva gran").Outcome)
	assert.Empty(t, h.said[p.ObjectID()], "not read as exiva with parameter gran")

	// Without a parameter slot, extra words fall through to the shorter phrase.
	h.advance(time.Second)
	res := h.say(p, "exiva gran bubble")
	assert.ErrorIs(t, res.Err, spell.ErrEffectFailed)
	assert.Equal(t, "A player with this name is not online.", h.lastMessage(p))
}

func TestSpells_TargetResolution(t *testing.T) {
	h := newHarness(t, spell.Definition{
		Name:       "Heal Friend",
		Words:      "exura sio",
		HasParam:   true,
		NeedTarget: true,
		Range:      7,
		Script:     "HealFriend",
	})
	p := h.player(t, "Bubble", druid, 500, start)
	friend := h.player(t, "Cachero", knight, 100, model.Pos(103, 100, 7))
	h.player(t, "Faraway", knight, 100, model.Pos(120, 100, 7))

	assert.Equal(t, spell.ReasonNeedTarget, h.say(p, "exura sio").Reason())
	assert.Equal(t, spell.ReasonNeedTarget, h.say(p, "exura sio Nobody").Reason())
	assert.Equal(t, spell.ReasonOutOfRange, h.say(p, "exura sio Faraway").Reason())

	h.scripts.EXPECT().
		Invoke("HealFriend", gomock.Any()).
		DoAndReturn(func(_ string, call script.Call) (bool, error) {
			assert.Equal(t, friend.ObjectID(), call.TargetID)
			assert.Equal(t, "Cachero", call.TargetName)
			assert.Equal(t, int32(103), call.X)
			return true, nil
		})
	assert.Equal(t, spell.Success, h.say(p, `exura sio "cachero"`).Outcome)

	enemy := world.NewMonster(h.world.IDs().NextMonsterID(), "Enemy", model.Pos(102, 100, 7), model.Outfit{})
	require.NoError(t, h.world.AddCreature(enemy))
	p.SetTarget(enemy)

	// The named player wins over the creature being attacked.
	h.advance(time.Second)
	h.scripts.EXPECT().
		Invoke("HealFriend", gomock.Any()).
		DoAndReturn(func(_ string, call script.Call) (bool, error) {
			assert.Equal(t, friend.ObjectID(), call.TargetID)
			return true, nil
		})
	assert.Equal(t, spell.Success, h.say(p, `exura sio "Cachero"`).Outcome)

	h.advance(time.Second)
	assert.Equal(t, spell.ReasonNeedTarget, h.say(p, "exura sio Nobody").Reason(), "unknown name does not fall back to the target")

	h.advance(time.Second)
	h.scripts.EXPECT().
		Invoke("HealFriend", gomock.Any()).
		DoAndReturn(func(_ string, call script.Call) (bool, error) {
			assert.Equal(t, enemy.ObjectID(), call.TargetID)
			return true, nil
		})
	assert.Equal(t, spell.Success, h.say(p, "exura sio").Outcome)
}

func TestSpells_UntargetedSpellsIgnoreTarget(t *testing.T) {
	h := newHarness(t,
		spell.Definition{Name: "Find Person", Words: "exiva", HasParam: true, Native: "search-player"},
		spell.Definition{Name: "Berserk", Words: "exori", Aggressive: true, Combat: &spell.CombatDescriptor{Type: "physical"}},
	)
	p := h.player(t, "Bubble", knight, 500, start)
	h.player(t, "Cachero", knight, 100, model.Pos(100, 110, 7))

	upstairs := world.NewMonster(h.world.IDs().NextMonsterID(), "Rat", model.Pos(100, 100, 6), model.Outfit{})
	require.NoError(t, h.world.AddCreature(upstairs))
	p.SetTarget(upstairs)

	res := h.say(p, "exiva Cachero")
	require.Equal(t, spell.Success, res.Outcome, "target on another floor does not matter")
	assert.Equal(t, "Cachero is to the south.", h.lastMessage(p))

	h.advance(time.Second)
	h.combat.EXPECT().ApplyCombat(gomock.Any(), p, gomock.Nil(), start).Return(true)
	assert.Equal(t, spell.Success, h.say(p, "exori").Outcome, "area spells stay on the caster")
}

func TestSpells_TargetOrDirection(t *testing.T) {
	h := newHarness(t, spell.Definition{
		Name:                    "Energy Strike",
		Words:                   "exori vis",
		Range:                   3,
		CasterTargetOrDirection: true,
		Aggressive:              true,
		Combat:                  &spell.CombatDescriptor{Type: "energy"},
	})
	p := h.player(t, "Bubble", sorcerer, 500, start)
	p.SetDirection(model.East)

	h.combat.EXPECT().ApplyCombat(gomock.Any(), p, gomock.Nil(), model.Pos(101, 100, 7)).Return(true)
	require.Equal(t, spell.Success, h.say(p, "exori vis").Outcome)

	rat := world.NewMonster(h.world.IDs().NextMonsterID(), "Rat", model.Pos(100, 102, 7), model.Outfit{})
	require.NoError(t, h.world.AddCreature(rat))
	p.SetTarget(rat)

	h.advance(time.Second)
	h.combat.EXPECT().ApplyCombat(gomock.Any(), p, rat, rat.Position()).Return(true)
	require.Equal(t, spell.Success, h.say(p, "exori vis").Outcome)
}

func TestSpells_LineOfSight(t *testing.T) {
	h := newHarness(t, spell.Definition{
		Name:             "Energy Strike",
		Words:            "exori vis",
		NeedTarget:       true,
		CheckLineOfSight: true,
		Range:            3,
		Aggressive:       true,
		Combat:           &spell.CombatDescriptor{Type: "energy"},
	})
	p := h.player(t, "Bubble", sorcerer, 500, start)
	rat := world.NewMonster(h.world.IDs().NextMonsterID(), "Rat", model.Pos(103, 100, 7), model.Outfit{})
	require.NoError(t, h.world.AddCreature(rat))
	p.SetTarget(rat)

	h.world.Grid().Set(model.Pos(101, 100, 7), geo.BlockProjectile)
	res := h.say(p, "exori vis")
	assert.Equal(t, spell.ReasonSightBlocked, res.Reason())
	assert.Equal(t, int32(500), p.Mana())
	assert.False(t, p.InFight())

	h.world.Grid().Set(model.Pos(101, 100, 7), 0)
	h.combat.EXPECT().ApplyCombat(gomock.Any(), p, rat, rat.Position()).Return(true)
	require.Equal(t, spell.Success, h.say(p, "exori vis").Outcome)
	assert.True(t, p.InFight(), "aggressive casts mark the caster")

	h.advance(time.Second)
	rat.SetPosition(model.Pos(104, 100, 7))
	assert.Equal(t, spell.ReasonOutOfRange, h.say(p, "exori vis").Reason())
}

func TestSpells_Conjure(t *testing.T) {
	h := newHarness(t, spell.Definition{
		Kind:         "conjure",
		Name:         "Heavy Magic Missile",
		Words:        "adori vis",
		Mana:         70,
		Soul:         2,
		ConjureID:    2311,
		ConjureCount: 10,
		ReagentID:    2260,
	})
	p := h.player(t, "Bubble", sorcerer, 500, start)
	inv := p.Inventory()

	res := h.say(p, "adori vis")
	assert.Equal(t, spell.ReasonMissingReagent, res.Reason())
	assert.Zero(t, inv.Count(2311))

	require.NoError(t, inv.Add(2260, 1))
	res = h.say(p, "adori vis")
	require.Equal(t, spell.Success, res.Outcome)
	assert.Zero(t, inv.Count(2260), "reagent consumed")
	assert.Equal(t, int32(10), inv.Count(2311))
	assert.Equal(t, int32(430), p.Mana())
	assert.Equal(t, int32(98), p.Soul())
}

func TestSpells_ConjureNoRoom(t *testing.T) {
	h := newHarness(t, spell.Definition{
		Kind:         "conjure",
		Name:         "Conjure Arrow",
		Words:        "exevo con",
		ConjureID:    2544,
		ConjureCount: 10,
	})
	p := h.player(t, "Bubble", paladin, 500, start)
	p.Inventory().SetCapacity(5)

	res := h.say(p, "exevo con")
	assert.Equal(t, spell.ReasonNoRoom, res.Reason())
	assert.Zero(t, p.Inventory().Count(2544))
}

func TestSpells_ConjureFood(t *testing.T) {
	h := newHarness(t, spell.Definition{
		Kind:         "conjure",
		Name:         "Food",
		Words:        "exevo pan",
		ConjureCount: 1,
		Native:       "conjure-food",
	})
	p := h.player(t, "Bubble", druid, 500, start)

	require.Equal(t, spell.Success, h.say(p, "exevo pan").Outcome)
	assert.Equal(t, int32(1), p.Inventory().Count(2666))
}

func TestSpells_SearchPlayer(t *testing.T) {
	h := newHarness(t, spell.Definition{Name: "Find Person", Words: "exiva", HasParam: true, Native: "search-player"})
	p := h.player(t, "Bubble", knight, 500, start)
	h.player(t, "Cachero", knight, 100, model.Pos(150, 100, 7))

	require.Equal(t, spell.Success, h.say(p, `exiva "Cachero"`).Outcome)
	assert.Equal(t, "Cachero is to the east.", h.lastMessage(p))

	h.advance(time.Second)
	res := h.say(p, "exiva Nobody")
	assert.Equal(t, spell.Failed, res.Outcome)
	assert.ErrorIs(t, res.Err, spell.ErrEffectFailed)
	assert.Contains(t, h.said[p.ObjectID()], "A player with this name is not online.")
}

func TestSpells_Levitate(t *testing.T) {
	h := newHarness(t, spell.Definition{Name: "Magic Rope", Words: "exani hur", HasParam: true, Native: "levitate"})
	p := h.player(t, "Bubble", knight, 500, start)

	require.Equal(t, spell.Success, h.say(p, "exani hur up").Outcome)
	assert.Equal(t, model.Pos(100, 99, 6), p.Position())

	h.advance(time.Second)
	res := h.say(p, "exani hur sideways")
	assert.Equal(t, spell.Failed, res.Outcome)
	assert.Equal(t, model.Pos(100, 99, 6), p.Position())
}

func TestSpells_RuneCharges(t *testing.T) {
	h := newHarness(t, heavyMagicMissile)
	p := h.player(t, "Bubble", sorcerer, 500, start)
	rat := world.NewMonster(h.world.IDs().NextMonsterID(), "Rat", model.Pos(103, 100, 7), model.Outfit{})
	require.NoError(t, h.world.AddCreature(rat))

	item := model.NewChargedItem(2311, 2)
	h.combat.EXPECT().ApplyCombat(gomock.Any(), p, rat, rat.Position()).Return(true).Times(2)

	for want := int32(1); want >= 0; want-- {
		res := h.spells.ExecuteRune(context.Background(), p, item, p.Position(), rat.Position())
		require.Equal(t, spell.Success, res.Outcome)
		assert.Equal(t, want, item.Charges())
		assert.True(t, h.spells.Cooldowns().IsExhausted(spell.CooldownOwner(p), spell.CategoryCombat))
		assert.False(t, h.spells.Cooldowns().IsExhausted(spell.CooldownOwner(p), spell.CategoryInstant))
		h.advance(2 * time.Second)
	}

	res := h.spells.ExecuteRune(context.Background(), p, item, p.Position(), rat.Position())
	assert.Equal(t, spell.ReasonNoCharges, res.Reason())
	assert.Equal(t, int32(1), item.Count(), "spent runes are kept")
}

func TestSpells_RuneValidation(t *testing.T) {
	h := newHarness(t, heavyMagicMissile)
	p := h.player(t, "Bubble", sorcerer, 500, start)
	ctx := context.Background()

	res := h.spells.ExecuteRune(ctx, p, model.NewItem(2160, 1), start, start)
	assert.Equal(t, spell.NotASpell, res.Outcome, "items without a rune spell are not spells")

	item := model.NewChargedItem(2311, 5)

	res = h.spells.ExecuteRune(ctx, p, item, start, model.Pos(103, 100, 7))
	assert.Equal(t, spell.ReasonNeedTarget, res.Reason())

	res = h.spells.ExecuteRune(ctx, p, item, start, model.Pos(110, 100, 7))
	assert.Equal(t, spell.ReasonOutOfRange, res.Reason())

	res = h.spells.ExecuteRune(ctx, p, item, start, model.Pos(101, 100, 6))
	assert.Equal(t, spell.ReasonOutOfRange, res.Reason(), "other floor")

	h.world.Grid().Set(model.Pos(102, 100, 7), geo.BlockProjectile)
	res = h.spells.ExecuteRune(ctx, p, item, start, model.Pos(104, 100, 7))
	assert.Equal(t, spell.ReasonSightBlocked, res.Reason())

	assert.Equal(t, int32(5), item.Charges())
}

func TestSpells_RuneConvince(t *testing.T) {
	h := newHarness(t, spell.Definition{
		Kind:       "rune",
		Name:       "Convince Creature",
		RuneID:     2290,
		Charges:    true,
		NeedTarget: true,
		Range:      1,
		Native:     "convince",
	})
	p := h.player(t, "Bubble", druid, 500, start)
	rat := world.NewMonster(h.world.IDs().NextMonsterID(), "Rat", model.Pos(101, 100, 7), model.Outfit{})
	require.NoError(t, h.world.AddCreature(rat))

	res := h.spells.ExecuteRune(context.Background(), p, model.NewChargedItem(2290, 1), start, rat.Position())
	require.Equal(t, spell.Success, res.Outcome)
	assert.Equal(t, p.ObjectID(), rat.Master())
}

func TestSpells_Spellbook(t *testing.T) {
	h := newHarness(t,
		lightHealing,
		spell.Definition{Name: "Berserk", Words: "exori", Vocations: []int32{knight}, Script: "S"},
		spell.Definition{Name: "Apprentice's Strike", Words: "exori min flam", Learnable: true, Script: "S"},
	)
	p := h.player(t, "Bubble", sorcerer, 500, start)

	assert.Equal(t, 1, h.spells.InstantSpellCount(p))
	assert.Equal(t, "Light Healing", h.spells.InstantSpellByIndex(p, 0).Name())
	assert.Nil(t, h.spells.InstantSpellByIndex(p, 1))

	p.Learn("Apprentice's Strike")
	assert.Equal(t, 2, h.spells.InstantSpellCount(p))
	assert.Equal(t, "Apprentice's Strike", h.spells.InstantSpellByIndex(p, 0).Name())
	assert.Equal(t, "Light Healing", h.spells.InstantSpellByIndex(p, 1).Name())
}

func TestSpells_CastCombat(t *testing.T) {
	h := newHarness(t, dragonBreath)
	p := h.player(t, "Bubble", knight, 500, start)
	dragon := world.NewMonster(h.world.IDs().NextMonsterID(), "Dragon", model.Pos(102, 100, 7), model.Outfit{})
	ctx := context.Background()

	cs := h.spells.GetCombatSpell("Dragon Breath")
	require.NotNil(t, cs)

	h.combat.EXPECT().ApplyCombat(cs.Combat(), dragon, p, p.Position()).Return(true)
	require.NoError(t, h.spells.CastCombat(ctx, cs, dragon, p))

	h.combat.EXPECT().ApplyCombat(gomock.Any(), dragon, p, gomock.Any()).Return(false)
	assert.ErrorIs(t, h.spells.CastCombat(ctx, cs, dragon, p), spell.ErrEffectFailed)

	var ve *spell.ValidationError
	require.ErrorAs(t, h.spells.CastCombat(ctx, cs, dragon, nil), &ve)
	assert.Equal(t, spell.ReasonNeedTarget, ve.Reason)
}
