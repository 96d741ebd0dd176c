// Package feed filters and orders the public suggestion list.
//
// Everything here works on the already-cached approved list, so applying a
// filter never costs a database round trip.
package feed

import (
	"sort"
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/lucasmenke/suggestion-app/internal/domain/models"
)

// All is the filter value that disables a category or status filter.
const All = "All"

// Sort selects the feed order.
type Sort int

const (
	// ByVotes orders by vote count, then newest first. It is the default.
	ByVotes Sort = iota
	// ByNewest orders by creation time, newest first.
	ByNewest
)

// Filter describes what the reader asked to see. Empty Category or Status
// behave like All.
type Filter struct {
	Category string
	Status   string
	Search   string
	Sort     Sort
}

// Apply returns the suggestions matching f in the requested order. in is
// not modified.
func Apply(in []models.Suggestion, f Filter) []models.Suggestion {
	needle := text.Fold(strings.TrimSpace(f.Search))

	out := make([]models.Suggestion, 0, len(in))
	for _, s := range in {
		if !matchName(f.Category, s.Category.Name) {
			continue
		}
		if !matchStatus(f.Status, s.Status) {
			continue
		}
		if needle != "" && !contains(s, needle) {
			continue
		}
		out = append(out, s)
	}

	switch f.Sort {
	case ByNewest:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			vi, vj := len(out[i].UserVotes), len(out[j].UserVotes)
			if vi != vj {
				return vi > vj
			}
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}
	return out
}

func matchName(want, got string) bool {
	return want == "" || want == All || want == got
}

func matchStatus(want string, st *models.Status) bool {
	if want == "" || want == All {
		return true
	}
	return st != nil && st.Name == want
}

func contains(s models.Suggestion, needle string) bool {
	return strings.Contains(text.Fold(s.Title), needle) ||
		strings.Contains(text.Fold(s.Description), needle)
}
