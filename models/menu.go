package models

// Category tags a recipe and selects which add-on table prices its extras.
type Category string

const (
	CategoryPizza  Category = "Pizza"
	CategoryBurger Category = "Burger"
)

// AddOnLabel is the plural add-on name used in item descriptions.
func (c Category) AddOnLabel() string {
	switch c {
	case CategoryPizza:
		return "Toppings"
	case CategoryBurger:
		return "Garnishes"
	default:
		return "Extras"
	}
}

// Recipe is a named base item as listed on the menu.
type Recipe struct {
	Category    Category
	Name        string
	Ingredients []string
	Price       int64 // minor units (pence)
}
