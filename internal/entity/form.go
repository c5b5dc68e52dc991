// Package entity defines the core data structures used throughout the
// application: forms, their elements, users and workspaces.
package entity

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FormStatus is the publish state of a form.
type FormStatus string

const (
	StatusDraft     FormStatus = "draft"
	StatusPublished FormStatus = "published"
)

const linkSuffixLen = 9

type (
	// FormSettings are the per-form presentation options.
	FormSettings struct {
		Theme                    string `json:"theme" bson:"theme"`
		ShowProgressBar          bool   `json:"showProgressBar" bson:"show_progress_bar"`
		EnableKeyboardNavigation bool   `json:"enableKeyboardNavigation" bson:"enable_keyboard_navigation"`
	}

	// Form is an ordered collection of elements plus metadata and
	// publish status. ID is the application-level identifier,
	// independent of the document store's internal one. ShareableLink
	// is minted exactly once at creation and never rewritten.
	Form struct {
		ID            string       `json:"id" bson:"id"`
		OwnerID       string       `json:"-" bson:"owner_id"`
		Workspace     string       `json:"workspace,omitempty" bson:"workspace,omitempty"`
		Title         string       `json:"title" bson:"title"`
		Description   string       `json:"description" bson:"description"`
		Elements      []Element    `json:"elements" bson:"elements"`
		Settings      FormSettings `json:"settings" bson:"settings"`
		Status        FormStatus   `json:"status" bson:"status"`
		ShareableLink string       `json:"shareableLink" bson:"shareable_link"`
		CreatedAt     time.Time    `json:"createdAt" bson:"created_at"`
		UpdatedAt     time.Time    `json:"updatedAt" bson:"updated_at"`
	}
)

// DefaultSettings are the settings every new form starts with.
func DefaultSettings() FormSettings {
	return FormSettings{
		Theme:                    "default",
		ShowProgressBar:          true,
		EnableKeyboardNavigation: true,
	}
}

// NewForm creates a draft form in the given workspace with a fresh
// unique id, an empty element list, default settings and a freshly
// minted shareable link.
func NewForm(ownerID, workspace string) *Form {
	id := uuid.New().String()
	now := time.Now().UTC()

	return &Form{
		ID:            id,
		OwnerID:       ownerID,
		Workspace:     workspace,
		Title:         "Untitled Form",
		Description:   "",
		Elements:      []Element{},
		Settings:      DefaultSettings(),
		Status:        StatusDraft,
		ShareableLink: NewShareableLink(id),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (f *Form) Validate() error {
	if f.ID == "" {
		return errors.New("form ID can not be empty")
	}
	if f.OwnerID == "" {
		return errors.New("owner ID can not be empty")
	}

	seen := make(map[string]struct{}, len(f.Elements))
	for i := range f.Elements {
		el := &f.Elements[i]

		if err := el.Validate(); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
		if _, dup := seen[el.ID]; dup {
			return fmt.Errorf("duplicate element ID %q", el.ID)
		}
		seen[el.ID] = struct{}{}
	}

	return nil
}

// PublishViolations returns the ids of required elements whose
// question text is blank. Publishing is allowed iff the result is
// empty.
func (f *Form) PublishViolations() []string {
	var violations []string

	for i := range f.Elements {
		el := &f.Elements[i]
		if el.Required && strings.TrimSpace(el.Question) == "" {
			violations = append(violations, el.ID)
		}
	}

	return violations
}

// Duplicate returns a deep copy with a fresh id and shareable link,
// " (Copy)" appended to the title and status forced back to draft.
func (f *Form) Duplicate() *Form {
	id := uuid.New().String()
	now := time.Now().UTC()

	dup := *f
	dup.ID = id
	dup.Title = f.Title + " (Copy)"
	dup.Status = StatusDraft
	dup.ShareableLink = NewShareableLink(id)
	dup.CreatedAt = now
	dup.UpdatedAt = now

	dup.Elements = make([]Element, len(f.Elements))
	for i, el := range f.Elements {
		dup.Elements[i] = cloneElement(el)
	}

	return &dup
}

func cloneElement(el Element) Element {
	if el.Options != nil {
		el.Options = append([]string(nil), el.Options...)
	}
	if el.Settings != nil {
		settings := make(map[string]any, len(el.Settings))
		for k, v := range el.Settings {
			settings[k] = v
		}
		el.Settings = settings
	}

	return el
}

// newID returns a short random identifier for embedded documents
// (elements, workspaces).
func newID() string {
	return newLinkSuffix()
}

// NewShareableLink mints the public link for a form id:
// the id followed by a random base36 suffix.
func NewShareableLink(formID string) string {
	return fmt.Sprintf("%s-%s", formID, newLinkSuffix())
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// newLinkSuffix returns linkSuffixLen random base36 characters, the
// suffix format of shareable links.
func newLinkSuffix() string {
	buf := make([]byte, linkSuffixLen)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the platform is broken; fall back
		// to a uuid-derived suffix rather than panic.
		return strings.ReplaceAll(uuid.New().String(), "-", "")[:linkSuffixLen]
	}

	for i, b := range buf {
		buf[i] = base36[int(b)%len(base36)]
	}

	return string(buf)
}
