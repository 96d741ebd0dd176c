package suggestionstore

import (
	"testing"

	"github.com/lucasmenke/suggestion-app/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestToggleVoter(t *testing.T) {
	u1 := primitive.NewObjectID()
	u2 := primitive.NewObjectID()

	tests := []struct {
		name      string
		votes     []primitive.ObjectID
		user      primitive.ObjectID
		want      []primitive.ObjectID
		wantAdded bool
	}{
		{"add to empty", nil, u1, []primitive.ObjectID{u1}, true},
		{"add to existing", []primitive.ObjectID{u2}, u1, []primitive.ObjectID{u2, u1}, true},
		{"remove present", []primitive.ObjectID{u2, u1}, u1, []primitive.ObjectID{u2}, false},
		{"remove duplicated entries", []primitive.ObjectID{u1, u2, u1}, u1, []primitive.ObjectID{u2}, false},
		{"collapses other duplicates", []primitive.ObjectID{u2, u2}, u1, []primitive.ObjectID{u2, u1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, added := toggleVoter(tt.votes, tt.user)
			assert.Equal(t, tt.wantAdded, added)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToggleVoter_TwiceRestoresSet(t *testing.T) {
	u1 := primitive.NewObjectID()
	u2 := primitive.NewObjectID()
	start := []primitive.ObjectID{u2}

	once, added := toggleVoter(start, u1)
	assert.True(t, added)
	twice, added := toggleVoter(once, u1)
	assert.False(t, added)
	assert.ElementsMatch(t, start, twice)
}

func TestToggleVoter_DoesNotMutateInput(t *testing.T) {
	u1 := primitive.NewObjectID()
	u2 := primitive.NewObjectID()
	in := []primitive.ObjectID{u1, u2}

	toggleVoter(in, u1)
	assert.Equal(t, []primitive.ObjectID{u1, u2}, in)
}

func TestAddRef(t *testing.T) {
	a := models.SuggestionRef{ID: primitive.NewObjectID(), Title: "A"}
	b := models.SuggestionRef{ID: primitive.NewObjectID(), Title: "B"}

	got := addRef(nil, a)
	assert.Equal(t, []models.SuggestionRef{a}, got)

	got = addRef(got, b)
	assert.Equal(t, []models.SuggestionRef{a, b}, got)

	// Same id with a different title is still the same suggestion.
	got = addRef(got, models.SuggestionRef{ID: a.ID, Title: "renamed"})
	assert.Len(t, got, 2)
}

func TestRemoveRef(t *testing.T) {
	a := models.SuggestionRef{ID: primitive.NewObjectID(), Title: "A"}
	b := models.SuggestionRef{ID: primitive.NewObjectID(), Title: "B"}

	assert.Equal(t, []models.SuggestionRef{b}, removeRef([]models.SuggestionRef{a, b, a}, a.ID))
	assert.Equal(t, []models.SuggestionRef{a, b}, removeRef([]models.SuggestionRef{a, b}, primitive.NewObjectID()))
	assert.Empty(t, removeRef(nil, a.ID))
}

func TestFilter_CopiesBackingArray(t *testing.T) {
	in := []models.Suggestion{{Title: "one"}, {Title: "two"}}

	out := filter(in, func(models.Suggestion) bool { return true })
	out[0].Title = "changed"

	assert.Equal(t, "one", in[0].Title)
}
