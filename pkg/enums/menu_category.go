package enums

import "fmt"

// MenuCategory buckets menu items into storefront sections.
type MenuCategory string

const (
	MenuCategoryBiryani  MenuCategory = "biryani"
	MenuCategoryPizza    MenuCategory = "pizza"
	MenuCategoryChinese  MenuCategory = "chinese"
	MenuCategoryTiffin   MenuCategory = "tiffin"
	MenuCategoryCake     MenuCategory = "cake"
	MenuCategoryIcecream MenuCategory = "icecream"
	MenuCategoryBeverage MenuCategory = "beverage"
)

var validMenuCategories = []MenuCategory{
	MenuCategoryBiryani,
	MenuCategoryPizza,
	MenuCategoryChinese,
	MenuCategoryTiffin,
	MenuCategoryCake,
	MenuCategoryIcecream,
	MenuCategoryBeverage,
}

// String implements fmt.Stringer.
func (m MenuCategory) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MenuCategory.
func (m MenuCategory) IsValid() bool {
	for _, candidate := range validMenuCategories {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMenuCategory converts raw input into a MenuCategory.
func ParseMenuCategory(value string) (MenuCategory, error) {
	for _, candidate := range validMenuCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid menu category %q", value)
}
