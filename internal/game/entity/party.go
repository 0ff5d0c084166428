package entity

import (
	"errors"
	"strings"

	"github.com/tgibson/underdark/internal/game/dice"
	"github.com/tgibson/underdark/internal/game/rules"
)

// MaxPartySize is the most members a party can field.
const MaxPartySize = 6

// ErrPartyFull is returned when adding a seventh member.
var ErrPartyFull = errors.New("party already has six members")

// ErrNoAward is returned for an experience award of zero or less.
var ErrNoAward = errors.New("experience award must be positive")

// Party is the adventuring party, 1 to 6 members. Slice order is the
// marching order; the member in slot 0 leads.
type Party struct {
	Members []*PlayerCharacter `json:"members"`
}

// Bind attaches the rules tables to every member after deserialization.
func (p *Party) Bind(ctx *rules.Ctx) {
	for _, pc := range p.Members {
		pc.Bind(ctx)
	}
}

// Add appends a member and repairs the formation.
func (p *Party) Add(pc *PlayerCharacter) error {
	if len(p.Members) >= MaxPartySize {
		return ErrPartyFull
	}
	p.Members = append(p.Members, pc)
	p.RepairFormation()
	return nil
}

// Leader returns the member in slot 0, or nil for an empty party.
func (p *Party) Leader() *PlayerCharacter {
	if len(p.Members) == 0 {
		return nil
	}
	return p.Members[0]
}

// Alive returns the living members in marching order.
func (p *Party) Alive() []*PlayerCharacter {
	var out []*PlayerCharacter
	for _, pc := range p.Members {
		if pc.IsAlive() {
			out = append(out, pc)
		}
	}
	return out
}

// Wiped reports whether no member remains alive.
func (p *Party) Wiped() bool {
	return len(p.Alive()) == 0
}

// Find returns the member matching name, exact first then prefix, both
// case-insensitive.
func (p *Party) Find(name string) (*PlayerCharacter, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, pc := range p.Members {
		if strings.ToLower(pc.Name) == want {
			return pc, true
		}
	}
	for _, pc := range p.Members {
		if strings.HasPrefix(strings.ToLower(pc.Name), want) {
			return pc, true
		}
	}
	return nil, false
}

// RepairFormation keeps the line fightable: if no living member holds the
// front row, every living member moves forward.
func (p *Party) RepairFormation() {
	frontHeld := false
	for _, pc := range p.Alive() {
		if pc.Row == RowFront {
			frontHeld = true
			break
		}
	}
	if frontHeld {
		return
	}
	for _, pc := range p.Alive() {
		pc.Row = RowFront
	}
}

// SplitXP divides an experience award evenly among living members. The
// integer remainder is discarded; nobody pockets the odd point. Level-ups
// are applied per member.
func (p *Party) SplitXP(roller *dice.Roller, total int) (map[string][]LevelUp, error) {
	alive := p.Alive()
	if len(alive) == 0 {
		return nil, nil
	}
	if total <= 0 {
		return nil, ErrNoAward
	}
	share := total / len(alive)
	if share == 0 {
		return nil, nil
	}

	ups := make(map[string][]LevelUp)
	for _, pc := range alive {
		gained, err := pc.GainXP(roller, share)
		if err != nil {
			return ups, err
		}
		if len(gained) > 0 {
			ups[pc.Name] = gained
		}
	}
	return ups, nil
}

// AwardGold gives coins to the leader's purse.
func (p *Party) AwardGold(amount int) {
	if leader := p.Leader(); leader != nil && amount > 0 {
		leader.Gold += amount
	}
}

// TotalGold sums every member's purse.
func (p *Party) TotalGold() int {
	total := 0
	for _, pc := range p.Members {
		total += pc.Gold
	}
	return total
}
