package startups

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrInvalidEquitySplit   = errors.New("equity split must total exactly 100%")
	ErrInvalidEquityRow     = errors.New("invalid equity row")
	ErrMissingFounderEquity = errors.New("every founder needs a founder equity row")
	ErrNoFounders           = errors.New("at least one founder is required")
)

// basisPoints converts a percentage to hundredths of a percent. It reports false
// when p carries more than two decimals.
func basisPoints(p float64) (int64, bool) {
	scaled := p * 100
	bp := math.Round(scaled)
	return int64(bp), math.Abs(scaled-bp) < 1e-6
}

func (f Founder) owns(h EquityHolder) bool {
	if h.Type != HolderFounder {
		return false
	}
	if f.UserID != "" {
		return h.UserID == f.UserID
	}
	return strings.EqualFold(strings.TrimSpace(h.Name), strings.TrimSpace(f.Name))
}

func founderRow(founders []Founder, split []EquityHolder) func(Founder) bool {
	return func(f Founder) bool {
		for _, h := range split {
			if f.owns(h) {
				return true
			}
		}
		return false
	}
}

// ValidateEquitySplit checks the cap table against the founder list. Each percentage
// is given to at most two decimals and the rows must sum to exactly 100.00, so
// 33.33+33.33+33.34 passes while 99.99 and 33.333+33.333+33.334 do not.
func ValidateEquitySplit(founders []Founder, split []EquityHolder) error {
	var total int64
	for i, h := range split {
		switch h.Type {
		case HolderFounder, HolderInvestor, HolderEmployee, HolderOther:
		default:
			return fmt.Errorf("%w: row %d has unknown type %q", ErrInvalidEquityRow, i, h.Type)
		}
		if strings.TrimSpace(h.Name) == "" {
			return fmt.Errorf("%w: row %d has no name", ErrInvalidEquityRow, i)
		}
		if h.EquityPercentage < 0 || h.EquityPercentage > 100 {
			return fmt.Errorf("%w: row %d percentage out of range", ErrInvalidEquityRow, i)
		}
		bp, ok := basisPoints(h.EquityPercentage)
		if !ok {
			return fmt.Errorf("%w: row %d has more than two decimals", ErrInvalidEquityRow, i)
		}
		total += bp
	}
	if total != 10000 {
		return fmt.Errorf("%w (got %.2f%%)", ErrInvalidEquitySplit, float64(total)/100)
	}

	hasRow := founderRow(founders, split)
	for _, f := range founders {
		if !hasRow(f) {
			return fmt.Errorf("%w: %s", ErrMissingFounderEquity, f.Name)
		}
	}
	return nil
}

// SyncFounderRows appends a zero-percent founder row for every founder that lacks one
// and drops founder rows whose founder is no longer listed. Other rows are untouched.
func SyncFounderRows(founders []Founder, split []EquityHolder) []EquityHolder {
	out := make([]EquityHolder, 0, len(split)+len(founders))
	for _, h := range split {
		if h.Type != HolderFounder {
			out = append(out, h)
			continue
		}
		for _, f := range founders {
			if f.owns(h) {
				out = append(out, h)
				break
			}
		}
	}

	hasRow := founderRow(founders, out)
	for _, f := range founders {
		if !hasRow(f) {
			out = append(out, EquityHolder{Type: HolderFounder, Name: f.Name, UserID: f.UserID})
		}
	}
	return out
}

// RemoveEquityRow deletes row i unless it is the founder row of a still-listed founder.
func RemoveEquityRow(founders []Founder, split []EquityHolder, i int) ([]EquityHolder, error) {
	if i < 0 || i >= len(split) {
		return split, fmt.Errorf("%w: index %d", ErrInvalidEquityRow, i)
	}
	for _, f := range founders {
		if f.owns(split[i]) {
			return split, fmt.Errorf("%w: %s is still listed", ErrMissingFounderEquity, f.Name)
		}
	}
	out := make([]EquityHolder, 0, len(split)-1)
	out = append(out, split[:i]...)
	return append(out, split[i+1:]...), nil
}
