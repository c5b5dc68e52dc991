package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allTypes = []ElementType{
	TypeShortText, TypeLongText, TypeEmail, TypePhone, TypeAddress,
	TypeWebsite, TypeMultipleChoice, TypeDropdown, TypePictureChoice,
	TypeYesNo, TypeLegal, TypeNPS, TypeOpinionScale, TypeRating,
	TypeRanking, TypeMatrix, TypeVideo,
}

func TestLookup_ExhaustiveOverAllKinds(t *testing.T) {
	require.Len(t, allTypes, 17)

	for _, elementType := range allTypes {
		meta, ok := Lookup(elementType)
		assert.True(t, ok, "missing registry entry for %s", elementType)
		assert.NotEmpty(t, meta.Label)
		assert.NotEmpty(t, meta.Category)
		assert.NotEmpty(t, meta.Icon)
	}
}

func TestLookup_UnknownKind(t *testing.T) {
	_, ok := Lookup("hologram")
	assert.False(t, ok)
}

func TestPalette_FourFixedCategories(t *testing.T) {
	palette := Palette()

	require.Len(t, palette, 4)
	assert.Equal(t, CategoryContactInfo, palette[0].Category)
	assert.Equal(t, CategoryChoice, palette[1].Category)
	assert.Equal(t, CategoryRatingRanking, palette[2].Category)
	assert.Equal(t, CategoryTextVideo, palette[3].Category)

	total := 0
	for _, category := range palette {
		total += len(category.Items)
	}
	assert.Equal(t, len(allTypes), total)
}

func TestElementType_SupportsOptions(t *testing.T) {
	assert.True(t, TypeMultipleChoice.SupportsOptions())
	assert.True(t, TypeDropdown.SupportsOptions())
	assert.True(t, TypeRanking.SupportsOptions())
	assert.True(t, TypeMatrix.SupportsOptions())
	assert.False(t, TypeShortText.SupportsOptions())
	assert.False(t, TypeVideo.SupportsOptions())
	assert.False(t, TypeNPS.SupportsOptions())
}

func TestNewElement_Defaults(t *testing.T) {
	el := NewElement(TypeShortText)

	assert.NotEmpty(t, el.ID)
	assert.Equal(t, TypeShortText, el.Type)
	assert.Equal(t, "New Question", el.Question)
	assert.False(t, el.Required)
	assert.NoError(t, el.Validate())
}
