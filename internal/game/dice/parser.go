package dice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidNotation is returned when a dice expression cannot be parsed.
// Errors wrapping it always include the offending source string.
var ErrInvalidNotation = errors.New("invalid dice notation")

// HitDieFaces is the die assumed by hit-dice shorthand: "4+1" means 4d8+1.
const HitDieFaces = 8

// Expression represents a parsed dice expression ready to be rolled.
// Invariant: after a successful Parse, either Count >= 1 and Sides >= 2,
// or Count == 0 and the expression is a flat constant.
type Expression struct {
	Raw      string // original input string
	Count    int    // number of dice; 0 for a flat constant
	Sides    int    // faces per die; 0 for a flat constant
	Modifier int    // flat modifier (may be negative)
}

// Parse parses a dice expression string into an Expression.
// Supported forms:
//
//	"d20", "2d6", "2d6+3", "4d8-2"   standard notation
//	"4+1", "4-1"                     hit-dice shorthand: 4d8+1, 4d8-1
//	"3", "-2"                        flat constant
//
// Precondition: expr must be a non-empty string.
// Postcondition: Returns a valid Expression or an error wrapping ErrInvalidNotation.
func Parse(expr string) (Expression, error) {
	raw := expr
	s := strings.ToLower(strings.TrimSpace(expr))
	if s == "" {
		return Expression{}, fmt.Errorf("%w: empty expression", ErrInvalidNotation)
	}

	dIdx := strings.Index(s, "d")
	if dIdx < 0 {
		return parseNoDie(raw, s)
	}

	// Parse count (the part before 'd'); defaults to 1 when omitted.
	count := 1
	if countStr := s[:dIdx]; countStr != "" {
		n, err := strconv.Atoi(countStr)
		if err != nil || n <= 0 {
			return Expression{}, fmt.Errorf("%w: bad die count in %q", ErrInvalidNotation, raw)
		}
		count = n
	}

	// Parse sides and optional modifier from the rest.
	rest := s[dIdx+1:]
	sidesStr, modStr := splitModifier(rest)

	sides, err := strconv.Atoi(sidesStr)
	if err != nil || sides < 2 {
		return Expression{}, fmt.Errorf("%w: bad die sides in %q", ErrInvalidNotation, raw)
	}

	modifier := 0
	if modStr != "" {
		modifier, err = strconv.Atoi(modStr)
		if err != nil {
			return Expression{}, fmt.Errorf("%w: bad modifier in %q", ErrInvalidNotation, raw)
		}
	}

	return Expression{Raw: raw, Count: count, Sides: sides, Modifier: modifier}, nil
}

// parseNoDie handles expressions with no 'd': hit-dice shorthand "N±M" and
// flat integer constants.
func parseNoDie(raw, s string) (Expression, error) {
	numStr, modStr := splitModifier(s)

	if modStr != "" {
		// Hit-dice shorthand: "4+1" is 4 hit dice plus 1.
		count, err := strconv.Atoi(numStr)
		if err != nil || count <= 0 {
			return Expression{}, fmt.Errorf("%w: bad hit-dice count in %q", ErrInvalidNotation, raw)
		}
		modifier, err := strconv.Atoi(modStr)
		if err != nil {
			return Expression{}, fmt.Errorf("%w: bad modifier in %q", ErrInvalidNotation, raw)
		}
		return Expression{Raw: raw, Count: count, Sides: HitDieFaces, Modifier: modifier}, nil
	}

	n, err := strconv.Atoi(numStr)
	if err != nil {
		return Expression{}, fmt.Errorf("%w: %q", ErrInvalidNotation, raw)
	}
	return Expression{Raw: raw, Modifier: n}, nil
}

// ParseHitDice parses a monster hit-dice string. It accepts everything Parse
// accepts, but promotes a bare integer "N" to N hit dice (Nd8) rather than a
// flat constant.
//
// Postcondition: Returns an Expression with Count >= 1, or an error wrapping
// ErrInvalidNotation.
func ParseHitDice(expr string) (Expression, error) {
	e, err := Parse(expr)
	if err != nil {
		return Expression{}, err
	}
	if e.Count == 0 {
		if e.Modifier <= 0 {
			return Expression{}, fmt.Errorf("%w: hit dice %q must be positive", ErrInvalidNotation, expr)
		}
		return Expression{Raw: e.Raw, Count: e.Modifier, Sides: HitDieFaces}, nil
	}
	return e, nil
}

// splitModifier splits s at the first '+' or '-' that is not at position 0
// (a leading sign belongs to the number itself).
func splitModifier(s string) (head, mod string) {
	for i := 1; i < len(s); i++ {
		if s[i] == '+' || s[i] == '-' {
			return s[:i], s[i:]
		}
	}
	return s, ""
}
