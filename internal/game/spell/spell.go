// Package spell defines spells and the Vancian memorization model: a spell
// occupies a slot until cast, after which it must be re-memorized by resting.
package spell

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the memorization model.
var (
	// ErrNoSlots is returned when no empty slot of sufficient level exists.
	ErrNoSlots = errors.New("no open spell slot of sufficient level")
	// ErrNotMemorized is returned when no matching unused slot holds the spell.
	ErrNotMemorized = errors.New("spell not memorized")
	// ErrUnknownSpell is returned when the caster does not know the spell.
	ErrUnknownSpell = errors.New("spell not known")
)

// Spell is the static definition of a single spell.
type Spell struct {
	Name        string `json:"name"`
	Level       int    `json:"level"` // 1-9
	School      string `json:"school"`
	Range       string `json:"range"`
	Duration    string `json:"duration"`
	Area        string `json:"area"`
	SavingThrow string `json:"saving_throw"` // "none", "negates", "half", ...
	Components  string `json:"components"`
	Description string `json:"description"`
	// Effect identifies the handler that resolves the spell when cast.
	Effect string `json:"effect"`
}

// Slot is one memorized-spell slot.
//
// Invariant: when Spell is non-nil, Slot.Level >= Spell.Level.
type Slot struct {
	Level int    `json:"level"`
	Spell *Spell `json:"spell,omitempty"`
	Used  bool   `json:"used,omitempty"`
}

// Book tracks a caster's known spells and memorized slots. Slot order is the
// memorization order and is preserved across serialization.
type Book struct {
	Known []*Spell `json:"known,omitempty"`
	Slots []*Slot  `json:"slots,omitempty"`
}

// Knows returns the known spell matching name (case-insensitive).
func (b *Book) Knows(name string) (*Spell, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, sp := range b.Known {
		if strings.ToLower(sp.Name) == want {
			return sp, true
		}
	}
	return nil, false
}

// Learn adds sp to the known list if not already present.
func (b *Book) Learn(sp *Spell) {
	if _, ok := b.Knows(sp.Name); ok {
		return
	}
	b.Known = append(b.Known, sp)
}

// Memorize places a known spell into the first empty slot whose level is at
// least the spell's level.
//
// Precondition: the spell must be known.
// Postcondition: on success the chosen slot holds sp and Used is false; on
// failure the error wraps ErrUnknownSpell or ErrNoSlots and no slot changes.
func (b *Book) Memorize(name string) (*Spell, error) {
	sp, ok := b.Knows(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSpell, name)
	}
	for _, slot := range b.Slots {
		if slot.Spell == nil && slot.Level >= sp.Level {
			slot.Spell = sp
			slot.Used = false
			return sp, nil
		}
	}
	return nil, fmt.Errorf("%w: %q needs level %d", ErrNoSlots, sp.Name, sp.Level)
}

// UseSlot finds an unused memorized slot holding the named spell, marks it
// used, and returns the spell.
//
// Postcondition: on success exactly one slot flips Used to true.
func (b *Book) UseSlot(name string) (*Spell, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, slot := range b.Slots {
		if slot.Spell == nil || slot.Used {
			continue
		}
		if strings.ToLower(slot.Spell.Name) == want {
			slot.Used = true
			return slot.Spell, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNotMemorized, name)
}

// MemorizedNames returns the names of unused memorized spells in slot order,
// with duplicates preserved.
func (b *Book) MemorizedNames() []string {
	var names []string
	for _, slot := range b.Slots {
		if slot.Spell != nil && !slot.Used {
			names = append(names, slot.Spell.Name)
		}
	}
	return names
}

// RestoreAll clears the used flag on every slot; memorized spells remain.
// A full night's rest calls this.
//
// Postcondition: no slot has Used == true.
func (b *Book) RestoreAll() {
	for _, slot := range b.Slots {
		slot.Used = false
	}
}

// SetSlotLevels rebuilds the slot list to match the given per-spell-level
// counts (counts[0] = number of level-1 slots, and so on). Memorized spells
// that still fit a slot of sufficient level are re-seated in order; any
// overflow is forgotten.
//
// Postcondition: len(Slots) == sum(counts); every retained spell sits in a
// slot with Level >= Spell.Level.
func (b *Book) SetSlotLevels(counts []int) {
	var memorized []*Spell
	for _, slot := range b.Slots {
		if slot.Spell != nil && !slot.Used {
			memorized = append(memorized, slot.Spell)
		}
	}

	b.Slots = nil
	for lvl, n := range counts {
		for i := 0; i < n; i++ {
			b.Slots = append(b.Slots, &Slot{Level: lvl + 1})
		}
	}

	for _, sp := range memorized {
		for _, slot := range b.Slots {
			if slot.Spell == nil && slot.Level >= sp.Level {
				slot.Spell = sp
				break
			}
		}
	}
}

// Validate checks the slot-level invariant.
func (b *Book) Validate() error {
	for i, slot := range b.Slots {
		if slot.Spell != nil && slot.Level < slot.Spell.Level {
			return fmt.Errorf("slot %d (level %d) holds level-%d spell %q",
				i, slot.Level, slot.Spell.Level, slot.Spell.Name)
		}
	}
	return nil
}

// beneficialKeywords identify spells that may only target party members.
var beneficialKeywords = []string{"cure", "heal", "bless", "protection", "shield", "aid"}

// IsBeneficial reports whether the named spell targets allies.
func IsBeneficial(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range beneficialKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
