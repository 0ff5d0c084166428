// Package dice provides the core randomness abstraction and roll-result types
// for the Underdark rules engine.
package dice

import "fmt"

// Die-face constants shared by every rules table.
const (
	// D20Faces is the face count of the attack and saving-throw die.
	D20Faces = 20
	// CriticalHit is the natural d20 value that always hits.
	CriticalHit = 20
	// CriticalMiss is the natural d20 value that always misses.
	CriticalMiss = 1
	// InitiativeFaces is the face count of the initiative die.
	InitiativeFaces = 6
)

// RollResult holds the full audit trail for a single dice roll evaluation.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string // original expression string, e.g. "2d6+3"
	Dice       []int  // individual die results before modifier
	Modifier   int    // flat modifier (may be negative)
}

// Total returns the sum of all die results plus the modifier.
//
// Postcondition: return value == sum(r.Dice) + r.Modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// Natural returns the raw value of the first die, used for critical detection
// on attack and saving-throw rolls.
//
// Postcondition: Returns 0 when the expression contained no dice (flat constant).
func (r RollResult) Natural() int {
	if len(r.Dice) == 0 {
		return 0
	}
	return r.Dice[0]
}

// String returns a human-readable audit string in the format:
//
//	"2d6+3 → [4 5] +3 = 12"
//
// Precondition: r.Expression is non-empty.
func (r RollResult) String() string {
	if r.Expression == "" {
		panic("dice: RollResult.String() precondition violated: Expression must be non-empty")
	}
	diceStr := fmt.Sprintf("%v", r.Dice)
	modStr := fmt.Sprintf("%+d", r.Modifier)
	return fmt.Sprintf("%s → %s %s = %d", r.Expression, diceStr, modStr, r.Total())
}

// Source is the randomness provider for dice rolls. It is the only permitted
// source of non-determinism in the engine; every rules function takes one as
// a parameter so a seeded source yields fully reproducible play.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Roll evaluates an Expression using the given Source and returns a RollResult.
//
// Precondition: expr must come from Parse; src must be non-nil.
// Postcondition: len(result.Dice) == expr.Count and
// result.Total() == sum(result.Dice) + result.Modifier.
func Roll(expr Expression, src Source) RollResult {
	rolled := make([]int, expr.Count)
	for i := range rolled {
		rolled[i] = src.Intn(expr.Sides) + 1
	}
	return RollResult{
		Expression: expr.Raw,
		Dice:       rolled,
		Modifier:   expr.Modifier,
	}
}

// RollExpr parses expr and rolls it using src in a single call.
//
// Precondition: expr must be a valid dice expression string; src must be non-nil.
// Postcondition: Returns a RollResult or a parse error wrapping ErrInvalidNotation.
func RollExpr(expr string, src Source) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return Roll(e, src), nil
}

// D20 rolls a single natural d20.
//
// Postcondition: Returns a value in [1, 20].
func D20(src Source) int {
	return src.Intn(D20Faces) + 1
}

// D6 rolls a single d6.
//
// Postcondition: Returns a value in [1, 6].
func D6(src Source) int {
	return src.Intn(6) + 1
}

// Percentile rolls a d100.
//
// Postcondition: Returns a value in [1, 100].
func Percentile(src Source) int {
	return src.Intn(100) + 1
}

// MustParse parses expr and panics on error. Useful for package-level constants.
//
// Precondition: expr must be a valid dice expression.
func MustParse(expr string) Expression {
	e, err := Parse(expr)
	if err != nil {
		panic("dice: MustParse failed for expression " + expr + ": " + err.Error())
	}
	return e
}
