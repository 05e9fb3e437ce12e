package models

// Category is a relief assistance category. The set is closed.
type Category string

const (
	CategoryFood           Category = "FOOD"
	CategoryMedical        Category = "MEDICAL"
	CategoryShelter        Category = "SHELTER"
	CategoryCash           Category = "CASH"
	CategoryTransportation Category = "TRANSPORTATION"
)

// Categories lists every known relief category.
func Categories() []Category {
	return []Category{
		CategoryFood,
		CategoryMedical,
		CategoryShelter,
		CategoryCash,
		CategoryTransportation,
	}
}

// ParseCategory maps a stored string to a Category.
// The second return value is false for unknown values.
func ParseCategory(s string) (Category, bool) {
	switch Category(s) {
	case CategoryFood, CategoryMedical, CategoryShelter, CategoryCash, CategoryTransportation:
		return Category(s), true
	}
	return "", false
}

// ReliefItem tags content with the kind of relief it discusses.
// It is a classification tag, not an inventory record.
type ReliefItem struct {
	Category    Category
	Description string
	Priority    int
}

// NewReliefItem constructs a ReliefItem tag.
func NewReliefItem(category Category, description string, priority int) *ReliefItem {
	return &ReliefItem{Category: category, Description: description, Priority: priority}
}
