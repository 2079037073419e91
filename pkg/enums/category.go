package enums

import "fmt"

// Category is one of the fixed product departments.
type Category string

const (
	CategoryProduce      Category = "Produce"
	CategoryDairy        Category = "Dairy"
	CategoryBeverages    Category = "Beverages"
	CategoryBakery       Category = "Bakery"
	CategoryMeat         Category = "Meat"
	CategoryFrozen       Category = "Frozen"
	CategoryPantry       Category = "Pantry"
	CategorySnacks       Category = "Snacks"
	CategoryHealthBeauty Category = "Health & Beauty"
	CategoryHousehold    Category = "Household"
)

const defaultCategoryGlyph = "📦"

var validCategories = []Category{
	CategoryProduce,
	CategoryDairy,
	CategoryBeverages,
	CategoryBakery,
	CategoryMeat,
	CategoryFrozen,
	CategoryPantry,
	CategorySnacks,
	CategoryHealthBeauty,
	CategoryHousehold,
}

var categoryGlyphs = map[Category]string{
	CategoryProduce:      "🥬",
	CategoryDairy:        "🥛",
	CategoryBeverages:    "🥤",
	CategoryBakery:       "🍞",
	CategoryMeat:         "🥩",
	CategoryFrozen:       "🧊",
	CategoryPantry:       "🥫",
	CategorySnacks:       "🍿",
	CategoryHealthBeauty: "🧴",
	CategoryHousehold:    "🧽",
}

// Categories returns the category set in display order.
func Categories() []Category {
	out := make([]Category, len(validCategories))
	copy(out, validCategories)
	return out
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}

// IsValid reports whether the value is a known Category.
func (c Category) IsValid() bool {
	for _, candidate := range validCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// Glyph returns the display glyph for the category, or the generic box when
// the category is unknown.
func (c Category) Glyph() string {
	if g, ok := categoryGlyphs[c]; ok {
		return g
	}
	return defaultCategoryGlyph
}

// ParseCategory converts raw input into a Category.
func ParseCategory(value string) (Category, error) {
	for _, candidate := range validCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid category %q", value)
}
