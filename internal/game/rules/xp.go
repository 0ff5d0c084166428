package rules

// XPRow is one band of the monster experience table: monsters whose
// effective hit dice fall at or below MaxHD award Base experience plus
// PerHP per hit point, with SpecialBonus added once per special ability.
type XPRow struct {
	MaxHD        float64 `json:"max_hd"`
	Base         int     `json:"base"`
	PerHP        int     `json:"per_hp"`
	SpecialBonus int     `json:"special_bonus"`
}

// XPForMonster computes the experience award for defeating a monster with
// the given effective hit dice, maximum hit points, and count of special
// abilities. Hit dice beyond the table use the last row.
//
// Postcondition: Returns >= 0.
func XPForMonster(table []XPRow, hitDice float64, maxHP, specials int) int {
	if len(table) == 0 {
		return 0
	}
	row := table[len(table)-1]
	for _, r := range table {
		if hitDice <= r.MaxHD {
			row = r
			break
		}
	}
	xp := row.Base + row.PerHP*maxHP + row.SpecialBonus*specials
	if xp < 0 {
		xp = 0
	}
	return xp
}
