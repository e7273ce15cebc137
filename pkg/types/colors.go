package types

import "math/rand/v2"

// glassPalette holds the bottle glass tints. Sea greens and blues read
// well against the ocean surface at any camera angle.
var glassPalette = []string{
	"#2E8B57",
	"#3CB371",
	"#20B2AA",
	"#5F9EA0",
	"#4682B4",
	"#66CDAA",
	"#008B8B",
	"#6B8E23",
}

// RandomColor picks a bottle color from the glass palette. The choice
// is made once at message acceptance and fixed thereafter.
func RandomColor() string {
	return glassPalette[rand.IntN(len(glassPalette))]
}
