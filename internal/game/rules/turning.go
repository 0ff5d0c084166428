package rules

import "strconv"

// Turning matrix cell outcomes.
const (
	TurnImpossible = "-"  // the cleric cannot affect this undead
	TurnAutomatic  = "T"  // turned automatically, no roll
	TurnDestroy    = "D"  // destroyed automatically
	TurnDestroyAll = "D*" // destroyed automatically, extra dice affected
)

// TurningRow is one cleric-level band of the turning matrix. Cells map
// undead type to "-", "T", "D", "D*", or a d20 target number as a string.
type TurningRow struct {
	MaxLevel int               `json:"max_level"`
	Cells    map[string]string `json:"cells"`
}

// TurningTable is the cleric turning-undead matrix.
type TurningTable struct {
	// UndeadTypes orders the columns from weakest to strongest.
	UndeadTypes []string     `json:"undead_types"`
	Rows        []TurningRow `json:"rows"`
}

// Cell returns the matrix cell for an effective cleric level against an
// undead type. Unknown undead types cannot be turned.
func (t *TurningTable) Cell(clericLevel int, undeadType string) string {
	var row *TurningRow
	for i := range t.Rows {
		if clericLevel <= t.Rows[i].MaxLevel {
			row = &t.Rows[i]
			break
		}
	}
	if row == nil && len(t.Rows) > 0 {
		row = &t.Rows[len(t.Rows)-1]
	}
	if row == nil {
		return TurnImpossible
	}
	cell, ok := row.Cells[undeadType]
	if !ok {
		return TurnImpossible
	}
	return cell
}

// Target parses a cell into a d20 target number. The second return is false
// for the symbolic cells where no roll is made.
func Target(cell string) (int, bool) {
	n, err := strconv.Atoi(cell)
	if err != nil {
		return 0, false
	}
	return n, true
}
