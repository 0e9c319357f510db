package services

import (
	"fmt"
	"slices"
	"strings"

	"food-console/models"
)

// UnknownRecipeError is returned by NewLineItemStrict when the catalog has no such recipe.
type UnknownRecipeError struct {
	Category models.Category
	Name     string
}

func (e *UnknownRecipeError) Error() string {
	return fmt.Sprintf("unknown %s recipe %q", strings.ToLower(string(e.Category)), e.Name)
}

// LineItem is one customized pizza or burger in an order.
// Add-on unit prices are captured when the item is built, so pricing needs no catalog.
type LineItem struct {
	category  models.Category
	name      string
	base      []string
	added     []string
	removed   []string
	basePrice int64
	unit      map[string]int64
}

// NewLineItem builds a line item from a recipe name and customizations. An unknown recipe
// is not an error: the item keeps the given name, has no base ingredients and a base price of 0.
// Added names missing from the category's add-on table are recorded but cost nothing.
// Removed names are kept verbatim and never change the price.
func NewLineItem(c *Catalog, category models.Category, name string, added, removed []string) LineItem {
	item := LineItem{
		category: category,
		name:     name,
		added:    slices.Clone(added),
		removed:  slices.Clone(removed),
		unit:     make(map[string]int64),
	}
	if r, ok := c.FindRecipe(category, name); ok {
		item.name = r.Name
		item.base = r.Ingredients
		item.basePrice = r.Price
	}
	table := c.AddOns(category)
	for _, a := range item.added {
		if table.Has(a) {
			item.unit[a] = table.Price(a)
		}
	}
	return item
}

// NewLineItemStrict is NewLineItem that refuses unknown recipe names.
func NewLineItemStrict(c *Catalog, category models.Category, name string, added, removed []string) (LineItem, error) {
	if _, ok := c.FindRecipe(category, name); !ok {
		return LineItem{}, &UnknownRecipeError{Category: category, Name: name}
	}
	return NewLineItem(c, category, name, added, removed), nil
}

func (li LineItem) Category() models.Category { return li.category }
func (li LineItem) Name() string              { return li.name }
func (li LineItem) BasePrice() int64          { return li.basePrice }

func (li LineItem) BaseIngredients() []string { return slices.Clone(li.base) }
func (li LineItem) Added() []string           { return slices.Clone(li.added) }
func (li LineItem) Removed() []string         { return slices.Clone(li.removed) }

// Price is the base price plus every priced add-on, counted once per occurrence.
func (li LineItem) Price() int64 {
	price := li.basePrice
	for _, a := range li.added {
		price += li.unit[a]
	}
	return price
}

// String renders e.g. "Pizza: Margherita, Extra Toppings: ExtraCheese, Price: £6.00".
func (li LineItem) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", li.category, li.name)
	label := li.category.AddOnLabel()
	if len(li.added) > 0 {
		fmt.Fprintf(&b, ", Extra %s: %s", label, strings.Join(li.added, ", "))
	}
	if len(li.removed) > 0 {
		fmt.Fprintf(&b, ", Removed %s: %s", label, strings.Join(li.removed, ", "))
	}
	fmt.Fprintf(&b, ", Price: %s", FormatPrice(li.Price()))
	return b.String()
}
