package delta

import "reflect"

// Recognized attribute keys.
//
// Boolean toggles: bold, italic. Underline and strikethrough accept either
// a boolean or a map {color?, style?}. String-valued: fontSize, fontFamily,
// fontWeight, fontStyle, lineHeight, color. Enumerations: verticalAlign
// (baseline, super, sub) and align (left, center, right, justify).
// Unknown keys pass through untouched.
const (
	AttrBold          = "bold"
	AttrItalic        = "italic"
	AttrUnderline     = "underline"
	AttrStrikethrough = "strikethrough"
	AttrFontSize      = "fontSize"
	AttrFontFamily    = "fontFamily"
	AttrFontWeight    = "fontWeight"
	AttrFontStyle     = "fontStyle"
	AttrLineHeight    = "lineHeight"
	AttrColor         = "color"
	AttrVerticalAlign = "verticalAlign"
	AttrAlign         = "align"
)

// Attributes is a formatting map attached to delta entries and carried by
// retain overlays. All keys are optional; the empty map is the default.
//
// An explicit false is meaningful: {bold: false} turns bold off, it does
// not mean "delete the key". Equality is structural.
type Attributes map[string]interface{}

// IsEmpty returns true if the map carries no keys.
func (a Attributes) IsEmpty() bool {
	return len(a) == 0
}

// Clone returns a shallow copy of the attribute map.
// A nil map clones to nil.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Equal reports structural equality. Nil and empty maps compare equal.
func (a Attributes) Equal(b Attributes) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}

// Merge returns a ∪ overlay with overlay winning on conflicts. Explicit
// values in the overlay are preserved as-is, including false. Neither
// input is mutated.
func (a Attributes) Merge(overlay Attributes) Attributes {
	if len(overlay) == 0 {
		return a.Clone()
	}
	out := make(Attributes, len(a)+len(overlay))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}
