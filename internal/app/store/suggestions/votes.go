package suggestionstore

import (
	"github.com/lucasmenke/suggestion-app/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// toggleVoter flips userID's membership in votes. The result never holds
// duplicates, even if the input did.
func toggleVoter(votes []primitive.ObjectID, userID primitive.ObjectID) ([]primitive.ObjectID, bool) {
	out := make([]primitive.ObjectID, 0, len(votes)+1)
	found := false
	seen := make(map[primitive.ObjectID]struct{}, len(votes))
	for _, v := range votes {
		if v == userID {
			found = true
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if found {
		return out, false
	}
	return append(out, userID), true
}

// addRef appends ref unless a reference with the same id is already there.
func addRef(refs []models.SuggestionRef, ref models.SuggestionRef) []models.SuggestionRef {
	for _, r := range refs {
		if r.ID == ref.ID {
			return refs
		}
	}
	return append(refs, ref)
}

// removeRef drops every reference to id. Missing references are not an error.
func removeRef(refs []models.SuggestionRef, id primitive.ObjectID) []models.SuggestionRef {
	out := make([]models.SuggestionRef, 0, len(refs))
	for _, r := range refs {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}

// filter copies the matching suggestions into a new slice so callers never
// share the cached backing array.
func filter(in []models.Suggestion, keep func(models.Suggestion) bool) []models.Suggestion {
	out := make([]models.Suggestion, 0, len(in))
	for _, sg := range in {
		if keep(sg) {
			out = append(out, sg)
		}
	}
	return out
}
