package catalog

import (
	"fmt"
	"strings"

	"github.com/shaymaabd/AMPA/internal/domain"
)

const (
	AllCategories = "All Categories"
	AnyCondition  = "Any"
)

type Category struct {
	Name          string   `json:"name"`
	Subcategories []string `json:"subcategories"`
}

var Categories = []Category{
	{Name: AllCategories},
	{Name: "Electronics", Subcategories: []string{"Computers & Tablets", "Cell Phones & Accessories", "Cameras & Photo", "TV & Audio", "Networking"}},
	{Name: "Office Supplies", Subcategories: []string{"Office Furniture", "Printers & Scanners", "Paper & Stationery", "Desk Accessories"}},
	{Name: "Industrial", Subcategories: []string{"Tools & Equipment", "Safety Gear", "Electrical Supplies", "Packaging & Shipping"}},
	{Name: "Home & Garden", Subcategories: []string{"Furniture", "Kitchen & Dining", "Lighting", "Cleaning Supplies"}},
	{Name: "Health & Beauty", Subcategories: []string{"Medical Supplies", "Personal Care", "Vitamins & Supplements"}},
}

// ConditionFilter maps a user-facing condition choice onto a marketplace filter.
type ConditionFilter struct {
	Label  string `json:"label"`
	Filter string `json:"-"`
}

var ConditionFilters = []ConditionFilter{
	{Label: AnyCondition},
	{Label: "New", Filter: "conditions:{NEW}"},
	{Label: "Used", Filter: "conditions:{USED}"},
	{Label: "Refurbished", Filter: "conditionIds:{2000|2010|2020|2030|2500}"},
	{Label: "For parts or not working", Filter: "conditionIds:{7000}"},
}

func findCategory(name string) (Category, bool) {
	for _, c := range Categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// ValidateCategory checks the category and, outside "All Categories", the
// subcategory against the fixed taxonomy.
func ValidateCategory(category, subcategory string) error {
	c, ok := findCategory(category)
	if !ok {
		return fmt.Errorf("%w: invalid category %q", domain.ErrValidation, category)
	}
	if subcategory == "" || category == AllCategories {
		return nil
	}
	for _, s := range c.Subcategories {
		if s == subcategory {
			return nil
		}
	}
	return fmt.Errorf("%w: invalid subcategory %q for category %q", domain.ErrValidation, subcategory, category)
}

// BuildQuery joins category, subcategory and free-text term. "All Categories"
// searches by the term alone.
func BuildQuery(category, subcategory, term string) string {
	term = strings.TrimSpace(term)
	if category == "" || category == AllCategories {
		return term
	}
	parts := []string{category}
	if subcategory != "" {
		parts = append(parts, subcategory)
	}
	if term != "" {
		parts = append(parts, term)
	}
	return strings.Join(parts, " ")
}

// BuildFilters returns the marketplace filter expressions for a condition and
// maximum price. A price of zero or at/above ceiling applies no price filter.
func BuildFilters(condition string, maxPrice, ceiling int) ([]string, error) {
	var filters []string
	if condition != "" && condition != AnyCondition {
		found := false
		for _, cf := range ConditionFilters {
			if cf.Label == condition {
				filters = append(filters, cf.Filter)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: unknown condition %q", domain.ErrValidation, condition)
		}
	}
	if maxPrice < 0 {
		return nil, fmt.Errorf("%w: negative max price %d", domain.ErrValidation, maxPrice)
	}
	if maxPrice > 0 && maxPrice < ceiling {
		filters = append(filters, fmt.Sprintf("price:[..%d]", maxPrice), "priceCurrency:USD")
	}
	return filters, nil
}
