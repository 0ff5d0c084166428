package rules

// CoinEntry describes one coin denomination in a treasure type: a percent
// chance the coins are present and a dice expression for the amount, scaled
// by Multiplier (1000 for lair hoards listed in thousands).
type CoinEntry struct {
	Chance     int    `json:"chance"`
	Amount     string `json:"amount"`
	Multiplier int    `json:"multiplier,omitempty"`
}

// CountEntry describes gems, jewelry, or magic items: a percent chance and a
// dice expression for how many.
type CountEntry struct {
	Chance int    `json:"chance"`
	Count  string `json:"count"`
	// Kinds restricts magic items to the listed kinds; empty means any.
	Kinds []string `json:"kinds,omitempty"`
}

// TreasureType is one lettered row of the treasure table (A through Z plus
// individual types J-N).
type TreasureType struct {
	Copper   *CoinEntry  `json:"copper,omitempty"`
	Silver   *CoinEntry  `json:"silver,omitempty"`
	Electrum *CoinEntry  `json:"electrum,omitempty"`
	Gold     *CoinEntry  `json:"gold,omitempty"`
	Platinum *CoinEntry  `json:"platinum,omitempty"`
	Gems     *CountEntry `json:"gems,omitempty"`
	Jewelry  *CountEntry `json:"jewelry,omitempty"`
	Magic    *CountEntry `json:"magic,omitempty"`
}

// ValueRow maps a d100 band to a base value and example descriptions for
// gems and jewelry.
type ValueRow struct {
	Min   int `json:"min"`
	Max   int `json:"max"`
	Value int `json:"value"`
	// Names lists example stones or pieces in this value band.
	Names []string `json:"names"`
}

// ValueFor returns the row matching a d100 roll. Out-of-range rolls use the
// nearest band.
func ValueFor(rows []ValueRow, roll int) ValueRow {
	if len(rows) == 0 {
		return ValueRow{}
	}
	for _, row := range rows {
		if roll >= row.Min && roll <= row.Max {
			return row
		}
	}
	if roll < rows[0].Min {
		return rows[0]
	}
	return rows[len(rows)-1]
}
