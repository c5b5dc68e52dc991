// Package renderer derives the visible input affordance of a form
// element for a given mode and validates forms ahead of publishing.
// Everything here is pure: views are re-derived from the document
// model after each mutation.
package renderer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/formforge/form-service/internal/entity"
)

// Mode selects which affordance of an element is rendered.
type Mode string

const (
	// ModeEdit allows structural changes (question text, options).
	ModeEdit Mode = "edit"
	// ModeFill collects a respondent's answer keyed by element id.
	ModeFill Mode = "fill"
	// ModeReadonly shows disabled controls for previewing.
	ModeReadonly Mode = "readonly"
)

// Control is the input control family a view is rendered with.
type Control string

const (
	ControlInput    Control = "input"
	ControlTextarea Control = "textarea"
	ControlOptions  Control = "optionList"
	ControlSelect   Control = "select"
	ControlBinary   Control = "binary"
	ControlScale    Control = "scale"
	ControlStars    Control = "stars"
	ControlGrid     Control = "grid"
	ControlMedia    Control = "media"
)

var (
	ErrUnknownMode      = errors.New("unknown render mode")
	ErrOptionOutOfRange = errors.New("option index out of range")
)

// View is the renderable description of one element in one mode.
type View struct {
	ElementID   string             `json:"elementId"`
	Type        entity.ElementType `json:"type"`
	Label       string             `json:"label"`
	Icon        string             `json:"icon"`
	Question    string             `json:"question"`
	Description string             `json:"description,omitempty"`
	Required    bool               `json:"required"`
	Control     Control            `json:"control"`
	Options     []string           `json:"options,omitempty"`
	// Editable reports whether structural changes (option add/remove)
	// are allowed for this view.
	Editable bool `json:"editable"`
	// AnswerKey is the key a respondent's answer is collected under;
	// set only in fill mode.
	AnswerKey string `json:"answerKey,omitempty"`
	Disabled  bool   `json:"disabled"`
}

// Render produces the input affordance for el in the given mode.
func Render(el *entity.Element, mode Mode) (*View, error) {
	meta, ok := entity.Lookup(el.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %s", entity.ErrUnknownElementType, el.Type)
	}

	view := &View{
		ElementID:   el.ID,
		Type:        el.Type,
		Label:       meta.Label,
		Icon:        meta.Icon,
		Question:    el.Question,
		Description: el.Description,
		Required:    el.Required,
		Control:     controlFor(el.Type),
	}

	if el.Type.SupportsOptions() {
		view.Options = append([]string(nil), el.Options...)
	}

	switch mode {
	case ModeEdit:
		view.Editable = el.Type.SupportsOptions()
	case ModeFill:
		view.AnswerKey = el.ID
	case ModeReadonly:
		view.Disabled = true
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMode, mode)
	}

	return view, nil
}

func controlFor(t entity.ElementType) Control {
	switch t {
	case entity.TypeShortText, entity.TypeEmail, entity.TypePhone, entity.TypeWebsite:
		return ControlInput
	case entity.TypeLongText, entity.TypeAddress:
		return ControlTextarea
	case entity.TypeMultipleChoice, entity.TypePictureChoice, entity.TypeRanking:
		return ControlOptions
	case entity.TypeDropdown:
		return ControlSelect
	case entity.TypeYesNo, entity.TypeLegal:
		return ControlBinary
	case entity.TypeNPS, entity.TypeOpinionScale:
		return ControlScale
	case entity.TypeRating:
		return ControlStars
	case entity.TypeMatrix:
		return ControlGrid
	default:
		return ControlMedia
	}
}

// RenderForm renders every element of form in order.
func RenderForm(form *entity.Form, mode Mode) ([]*View, error) {
	views := make([]*View, len(form.Elements))

	for i := range form.Elements {
		view, err := Render(&form.Elements[i], mode)
		if err != nil {
			return nil, err
		}
		views[i] = view
	}

	return views, nil
}

// AddOption appends a trimmed option label to a choice-type element.
// Blank labels are ignored; returns whether the option was added.
func AddOption(el *entity.Element, label string) bool {
	label = strings.TrimSpace(label)
	if label == "" || !el.Type.SupportsOptions() {
		return false
	}

	el.Options = append(el.Options, label)
	return true
}

// RemoveOption deletes the option at index, preserving the order of
// the rest.
func RemoveOption(el *entity.Element, index int) error {
	if index < 0 || index >= len(el.Options) {
		return ErrOptionOutOfRange
	}

	el.Options = append(el.Options[:index], el.Options[index+1:]...)
	return nil
}

// PublishError rejects a publish attempt, naming the elements whose
// required question text is blank.
type PublishError struct {
	ElementIDs []string
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("please fill required fields: %s", strings.Join(e.ElementIDs, ", "))
}

// ValidateForPublish checks that every required element of form has
// non-blank question text.
func ValidateForPublish(form *entity.Form) error {
	if violations := form.PublishViolations(); len(violations) > 0 {
		return &PublishError{ElementIDs: violations}
	}

	return nil
}
