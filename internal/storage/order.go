package storage

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"wedding-registry/internal/models"
)

// SortByName orders guests by name the way a reader expects, not by byte
// value. Names the collator treats as equal fall back to byte order.
func SortByName(guests []models.Guest) {
	// a Collator keeps internal buffers and must not be shared across goroutines
	c := collate.New(language.English)
	slices.SortStableFunc(guests, func(a, b models.Guest) int {
		if r := c.CompareString(a.Name, b.Name); r != 0 {
			return r
		}
		return strings.Compare(a.Name, b.Name)
	})
}
