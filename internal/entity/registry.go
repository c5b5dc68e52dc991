package entity

import "sort"

// Element palette categories.
const (
	CategoryContactInfo   = "Contact Info"
	CategoryChoice        = "Choice"
	CategoryRatingRanking = "Rating & Ranking"
	CategoryTextVideo     = "Text & Video"
)

// ElementMeta is the display metadata of one element kind as shown in
// the builder palette.
type ElementMeta struct {
	Label    string `json:"label"`
	Category string `json:"category"`
	Icon     string `json:"icon"`
}

// registry is the exhaustive catalog over all element kinds. An entry
// missing here is a configuration error, not a runtime condition.
var registry = map[ElementType]ElementMeta{
	TypeEmail:          {Label: "Email", Category: CategoryContactInfo, Icon: "mail"},
	TypePhone:          {Label: "Phone Number", Category: CategoryContactInfo, Icon: "phone"},
	TypeAddress:        {Label: "Address", Category: CategoryContactInfo, Icon: "map-pin"},
	TypeWebsite:        {Label: "Website", Category: CategoryContactInfo, Icon: "globe"},
	TypeMultipleChoice: {Label: "Multiple Choice", Category: CategoryChoice, Icon: "list"},
	TypeDropdown:       {Label: "Dropdown", Category: CategoryChoice, Icon: "chevron-down"},
	TypePictureChoice:  {Label: "Picture Choice", Category: CategoryChoice, Icon: "image"},
	TypeYesNo:          {Label: "Yes/No", Category: CategoryChoice, Icon: "check"},
	TypeLegal:          {Label: "Legal", Category: CategoryChoice, Icon: "file-text"},
	TypeNPS:            {Label: "Net Promoter Score®", Category: CategoryRatingRanking, Icon: "scale"},
	TypeOpinionScale:   {Label: "Opinion Scale", Category: CategoryRatingRanking, Icon: "bar-chart"},
	TypeRating:         {Label: "Rating", Category: CategoryRatingRanking, Icon: "star"},
	TypeRanking:        {Label: "Ranking", Category: CategoryRatingRanking, Icon: "list-ordered"},
	TypeMatrix:         {Label: "Matrix", Category: CategoryRatingRanking, Icon: "grid"},
	TypeShortText:      {Label: "Short Text", Category: CategoryTextVideo, Icon: "type"},
	TypeLongText:       {Label: "Long Text", Category: CategoryTextVideo, Icon: "message-square"},
	TypeVideo:          {Label: "Video", Category: CategoryTextVideo, Icon: "video"},
}

// Categories in palette display order.
var paletteOrder = []string{
	CategoryContactInfo,
	CategoryChoice,
	CategoryRatingRanking,
	CategoryTextVideo,
}

// Lookup returns the display metadata for an element kind.
func Lookup(t ElementType) (ElementMeta, bool) {
	meta, ok := registry[t]
	return meta, ok
}

// PaletteCategory groups the element kinds of one palette section.
type PaletteCategory struct {
	Category string        `json:"category"`
	Items    []PaletteItem `json:"items"`
}

type PaletteItem struct {
	Type  ElementType `json:"type"`
	Label string      `json:"label"`
	Icon  string      `json:"icon"`
}

// Palette returns the catalog grouped into its four fixed categories,
// in display order, for palette rendering.
func Palette() []PaletteCategory {
	byCategory := make(map[string][]PaletteItem, len(paletteOrder))

	for t, meta := range registry {
		byCategory[meta.Category] = append(byCategory[meta.Category], PaletteItem{
			Type:  t,
			Label: meta.Label,
			Icon:  meta.Icon,
		})
	}

	out := make([]PaletteCategory, 0, len(paletteOrder))
	for _, category := range paletteOrder {
		items := byCategory[category]
		// Map iteration order would leak into responses otherwise.
		sort.Slice(items, func(i, j int) bool { return items[i].Label < items[j].Label })
		out = append(out, PaletteCategory{Category: category, Items: items})
	}

	return out
}
