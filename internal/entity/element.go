package entity

import "errors"

// ElementType identifies one of the fixed question element kinds a
// form can be composed of.
type ElementType string

const (
	TypeShortText      ElementType = "shortText"
	TypeLongText       ElementType = "longText"
	TypeEmail          ElementType = "email"
	TypePhone          ElementType = "phone"
	TypeAddress        ElementType = "address"
	TypeWebsite        ElementType = "website"
	TypeMultipleChoice ElementType = "multipleChoice"
	TypeDropdown       ElementType = "dropdown"
	TypePictureChoice  ElementType = "pictureChoice"
	TypeYesNo          ElementType = "yesNo"
	TypeLegal          ElementType = "legal"
	TypeNPS            ElementType = "nps"
	TypeOpinionScale   ElementType = "opinionScale"
	TypeRating         ElementType = "rating"
	TypeRanking        ElementType = "ranking"
	TypeMatrix         ElementType = "matrix"
	TypeVideo          ElementType = "video"
)

var ErrUnknownElementType = errors.New("unknown element type")

// Element is a single question/input unit within a form. Options are
// only meaningful for choice-like kinds; a nil slice is treated as
// empty everywhere.
type Element struct {
	ID          string         `json:"id" bson:"id"`
	Type        ElementType    `json:"type" bson:"type"`
	Question    string         `json:"question" bson:"question"`
	Description string         `json:"description,omitempty" bson:"description,omitempty"`
	Required    bool           `json:"required" bson:"required"`
	Options     []string       `json:"options,omitempty" bson:"options,omitempty"`
	Settings    map[string]any `json:"settings,omitempty" bson:"settings,omitempty"`
}

// NewElement creates an element of the given kind with the defaults a
// freshly placed palette item carries.
func NewElement(elementType ElementType) Element {
	return Element{
		ID:       newID(),
		Type:     elementType,
		Question: "New Question",
		Required: false,
	}
}

func (e *Element) Validate() error {
	if e.ID == "" {
		return errors.New("element ID can not be empty")
	}
	if !e.Type.Valid() {
		return ErrUnknownElementType
	}

	return nil
}

// Valid reports whether t is one of the fixed element kinds.
func (t ElementType) Valid() bool {
	_, ok := registry[t]
	return ok
}

// SupportsOptions reports whether elements of this kind carry an
// option list (choice, ranking and matrix style kinds).
func (t ElementType) SupportsOptions() bool {
	switch t {
	case TypeMultipleChoice, TypeDropdown, TypePictureChoice, TypeYesNo,
		TypeLegal, TypeRanking, TypeMatrix:
		return true
	default:
		return false
	}
}
