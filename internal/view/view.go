package view

import (
	"math"
	"sort"
	"strings"

	"gitlab.lucky-team.pro/luckyads/go.cert-dashboard/internal/entities"
)

// SortKey selects the attribute the projection is ordered by.
type SortKey string

// Available sort keys.
const (
	SortByDomain   SortKey = "domain"
	SortByDaysLeft SortKey = "days_left"
)

// Direction selects ascending or descending order.
type Direction bool

// Directions.
const (
	Ascending  Direction = false
	Descending Direction = true
)

// Search holds the filter input. The live text changes on every
// keystroke; the committed term, the one the projection actually
// filters by, only advances on Commit.
type Search struct {
	live      string
	committed string
}

// SetInput updates the live text without touching the committed term.
func (s *Search) SetInput(text string) {
	s.live = text
}

// Input returns the live text.
func (s *Search) Input() string {
	return s.live
}

// Commit promotes the live text to the committed term.
func (s *Search) Commit() {
	s.committed = s.live
}

// Term returns the committed term.
func (s *Search) Term() string {
	return s.committed
}

// Project derives the sequence the display renders: records whose
// domain contains the committed term (case-insensitive), ordered by
// the sort key and direction. The input slice is not modified and the
// store is never touched.
func Project(certs []entities.Certificate, term string, key SortKey, dir Direction) []entities.Certificate {
	needle := strings.ToLower(term)

	out := make([]entities.Certificate, 0, len(certs))
	for _, cert := range certs {
		if needle == "" || strings.Contains(strings.ToLower(cert.Domain), needle) {
			out = append(out, cert)
		}
	}

	switch key {
	case SortByDaysLeft:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := daysLeftRank(out[i], dir), daysLeftRank(out[j], dir)
			if dir == Descending {
				return a > b
			}
			return a < b
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			if dir == Descending {
				return out[i].Domain > out[j].Domain
			}
			return out[i].Domain < out[j].Domain
		})
	}

	return out
}

// daysLeftRank maps a record to its sort rank. Records without a
// days-left value (Error, Pending) rank as +inf ascending and -inf
// descending, so they group at the far end either way instead of
// interleaving.
func daysLeftRank(cert entities.Certificate, dir Direction) int64 {
	if cert.DaysLeft == nil {
		if dir == Descending {
			return math.MinInt64
		}
		return math.MaxInt64
	}

	return int64(*cert.DaysLeft)
}
