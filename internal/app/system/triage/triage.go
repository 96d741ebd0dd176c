// Package triage holds the admin-side state changes on a suggestion.
// Nothing here touches the database; callers save the result with
// UpdateSuggestion.
package triage

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/lucasmenke/suggestion-app/internal/app/system/htmlsanitize"
	"github.com/lucasmenke/suggestion-app/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status keys accepted by SetStatus. Each matches a status name
// case-insensitively.
const (
	Completed = "completed"
	Watching  = "watching"
	Upcoming  = "upcoming"
	Dismissed = "dismissed"
)

// DefaultStatuses are the statuses seeded into an empty database.
var DefaultStatuses = []models.Status{
	{Name: "Completed", Description: "The suggestion was accepted and the corresponding item was created."},
	{Name: "Watching", Description: "The suggestion is interesting. We are watching to see how much interest there is in it."},
	{Name: "Upcoming", Description: "The suggestion was accepted and it will be released soon."},
	{Name: "Dismissed", Description: "The suggestion was not something that we are going to undertake."},
}

// DefaultCategories are the categories seeded into an empty database.
var DefaultCategories = []models.Category{
	{Name: "Courses", Description: "Full paid courses."},
	{Name: "Dev Questions", Description: "Advice on a particular development topic."},
	{Name: "In-Depth Tutorial", Description: "A deep-dive video on how to use a topic."},
	{Name: "10-Minute Training", Description: "A quick \"How do I use this?\" video."},
	{Name: "Other", Description: "Not sure which category this fits in."},
}

var (
	ErrUnknownStatus      = errors.New("unknown status")
	ErrResourceURLMissing = errors.New("a resource url is required to complete a suggestion")
	ErrResourceURLInvalid = errors.New("resource url must be an absolute http(s) url")
	ErrStatusNotFound     = errors.New("status is not configured")
)

var cannedNotes = map[string]string{
	Watching:  "The topic needs some more traction to be addressed.",
	Upcoming:  "We have a resource in our pipeline.",
	Dismissed: "Your idea doesn't fit.",
}

// SetStatus assigns the status named by key and the matching owner note.
// Completing a suggestion requires the URL of the finished resource, which
// is embedded as a sanitized link. On error s is left unchanged.
func SetStatus(s *models.Suggestion, statuses []models.Status, key, resourceURL string) error {
	key = strings.ToLower(strings.TrimSpace(key))

	var note string
	switch key {
	case Completed:
		link, err := resourceLink(resourceURL)
		if err != nil {
			return err
		}
		note = "Here is our finished resource about it: " + link
	case Watching, Upcoming, Dismissed:
		note = cannedNotes[key]
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStatus, key)
	}

	st, ok := findStatus(statuses, key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrStatusNotFound, key)
	}

	s.Status = &st
	s.OwnerNotes = note
	return nil
}

func findStatus(statuses []models.Status, key string) (models.Status, bool) {
	for _, st := range statuses {
		if strings.EqualFold(st.Name, key) {
			return st, true
		}
	}
	return models.Status{}, false
}

func resourceLink(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrResourceURLMissing
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", ErrResourceURLInvalid
	}
	return htmlsanitize.Link(u.String(), "", "color-darkgreen"), nil
}

// Approve publishes s to the public feed.
func Approve(s *models.Suggestion) {
	s.ApprovedForRelease = true
	s.Rejected = false
}

// Reject takes s out of the approval queue without publishing it.
func Reject(s *models.Suggestion) {
	s.Rejected = true
	s.ApprovedForRelease = false
}

// Archive hides s from every list.
func Archive(s *models.Suggestion) {
	s.Archived = true
}

// CanVote reports whether userID may vote on s. Authors cannot vote on
// their own suggestions and anonymous visitors cannot vote at all.
func CanVote(s models.Suggestion, userID primitive.ObjectID) bool {
	return !userID.IsZero() && s.Author.ID != userID
}
