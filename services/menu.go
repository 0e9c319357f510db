package services

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"food-console/models"
)

// MalformedMenuError reports menu text that cannot be turned into a catalog.
// Line is the 0-based line index, or -1 when the input is not tied to a menu line.
type MalformedMenuError struct {
	Line   int
	Reason string
}

func (e *MalformedMenuError) Error() string {
	if e.Line < 0 {
		return "malformed menu: " + e.Reason
	}
	return fmt.Sprintf("malformed menu at line %d: %s", e.Line, e.Reason)
}

// PriceTable maps add-on names to unit prices, keeping menu order for display.
type PriceTable struct {
	names  []string
	prices map[string]int64
}

func newPriceTable() *PriceTable {
	return &PriceTable{prices: make(map[string]int64)}
}

// set records a price. A repeated name keeps its first position and takes the later price.
func (t *PriceTable) set(name string, price int64) {
	if _, ok := t.prices[name]; !ok {
		t.names = append(t.names, name)
	}
	t.prices[name] = price
}

// Price returns the unit price of name, or 0 when the table does not list it.
func (t *PriceTable) Price(name string) int64 {
	if t == nil {
		return 0
	}
	return t.prices[name]
}

func (t *PriceTable) Has(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.prices[name]
	return ok
}

// Names returns the add-on names in menu order.
func (t *PriceTable) Names() []string {
	if t == nil {
		return nil
	}
	return slices.Clone(t.names)
}

func (t *PriceTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}

// Prices returns a copy of the table as a plain map.
func (t *PriceTable) Prices() map[string]int64 {
	out := make(map[string]int64, t.Len())
	if t == nil {
		return out
	}
	for k, v := range t.prices {
		out[k] = v
	}
	return out
}

// Catalog is the parsed menu. It is never modified after LoadCatalog returns,
// so one value can be shared by any number of orders.
type Catalog struct {
	MenuName  string
	toppings  *PriceTable
	garnishes *PriceTable
	pizzas    []models.Recipe
	burgers   []models.Recipe
}

// LoadCatalogFile reads a menu file and parses it with LoadCatalog.
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read menu file %s: %w", path, err)
	}
	return LoadCatalog(string(data))
}

// LoadCatalog parses menu text: three header lines (menu name, toppings, garnishes)
// followed by Pizza:/Burger: recipe lines. The first malformed line aborts the load.
func LoadCatalog(text string) (*Catalog, error) {
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}

	headers := []string{"menu name", "toppings", "garnishes"}
	values := make([]string, len(headers))
	for i, h := range headers {
		if i >= len(lines) {
			return nil, &MalformedMenuError{Line: i, Reason: "missing " + h + " header"}
		}
		if isRecipeLine(strings.TrimSpace(lines[i])) {
			return nil, &MalformedMenuError{Line: i, Reason: "missing " + h + " header"}
		}
		v, ok := headerValue(lines[i])
		if !ok {
			return nil, &MalformedMenuError{Line: i, Reason: fmt.Sprintf("missing %s header label in %q", h, lines[i])}
		}
		// add-on headers hold <name,price> pairs or nothing
		if i > 0 && strings.TrimSpace(v) != "" && !strings.Contains(v, "<") {
			return nil, &MalformedMenuError{Line: i, Reason: fmt.Sprintf("missing %s header: no <name,price> pairs in %q", h, lines[i])}
		}
		values[i] = v
	}

	c := &Catalog{MenuName: strings.TrimSpace(values[0])}
	var err error
	if c.toppings, err = parseItems(values[1]); err != nil {
		return nil, &MalformedMenuError{Line: 1, Reason: err.Error()}
	}
	if c.garnishes, err = parseItems(values[2]); err != nil {
		return nil, &MalformedMenuError{Line: 2, Reason: err.Error()}
	}

	for i := len(headers); i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		var category models.Category
		switch {
		case strings.HasPrefix(line, "Pizza:"):
			category = models.CategoryPizza
		case strings.HasPrefix(line, "Burger:"):
			category = models.CategoryBurger
		default:
			continue
		}
		r, err := parseRecipe(category, line)
		if err != nil {
			return nil, &MalformedMenuError{Line: i, Reason: err.Error()}
		}
		if _, dup := c.FindRecipe(category, r.Name); dup {
			return nil, &MalformedMenuError{Line: i, Reason: fmt.Sprintf("duplicate %s recipe %q", strings.ToLower(string(category)), r.Name)}
		}
		if category == models.CategoryPizza {
			c.pizzas = append(c.pizzas, r)
		} else {
			c.burgers = append(c.burgers, r)
		}
	}
	return c, nil
}

func isRecipeLine(line string) bool {
	return strings.HasPrefix(line, "Pizza:") || strings.HasPrefix(line, "Burger:")
}

func headerValue(line string) (string, bool) {
	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return "", false
	}
	return line[idx+1:], true
}

// ParseItems extracts <name,price> pairs, e.g. "<Cheese,100>,<Mushroom,80>".
func ParseItems(text string) (*PriceTable, error) {
	t, err := parseItems(text)
	if err != nil {
		return nil, &MalformedMenuError{Line: -1, Reason: err.Error()}
	}
	return t, nil
}

func parseItems(text string) (*PriceTable, error) {
	t := newPriceTable()
	for pos := 0; pos < len(text); {
		rel := strings.IndexAny(text[pos:], "<>")
		if rel < 0 {
			break
		}
		open := pos + rel
		if text[open] == '>' {
			return nil, fmt.Errorf("unexpected '>' at column %d", open)
		}
		rel = strings.IndexAny(text[open+1:], "<>")
		if rel < 0 || text[open+1+rel] == '<' {
			return nil, fmt.Errorf("unclosed '<' at column %d", open)
		}
		end := open + 1 + rel

		pair := text[open+1 : end]
		comma := strings.IndexByte(pair, ',')
		if comma < 0 {
			return nil, fmt.Errorf("missing price in <%s>", pair)
		}
		name := strings.TrimSpace(pair[:comma])
		price, err := parsePrice(pair[comma+1:])
		if err != nil {
			return nil, fmt.Errorf("item %q: %w", name, err)
		}
		t.set(name, price)
		pos = end + 1
	}
	return t, nil
}

var errNoPrice = errors.New("missing price")

// maxPrice bounds every menu price so item and order sums stay well inside int64.
const maxPrice = 1_000_000_000_000

// parsePrice accepts only unsigned decimal digits up to maxPrice.
func parsePrice(tok string) (int64, error) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return 0, errNoPrice
	}
	for _, r := range tok {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("non-numeric price %q", tok)
		}
	}
	p, err := strconv.ParseInt(tok, 10, 64)
	if err != nil || p > maxPrice {
		return 0, fmt.Errorf("price %q out of range", tok)
	}
	return p, nil
}

// parseRecipe reads Name:, Toppings:[...] or Garnishes:[...], and Price: from one line.
// The fields may appear in any order but all three are required.
func parseRecipe(category models.Category, line string) (models.Recipe, error) {
	if strings.Count(line, "[") != strings.Count(line, "]") {
		return models.Recipe{}, errors.New("unbalanced '[' ']'")
	}

	name, ok := scalarField(line, "Name:")
	if !ok {
		return models.Recipe{}, errors.New("missing Name: field")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Recipe{}, errors.New("empty recipe name")
	}

	listKey := category.AddOnLabel() + ":"
	ingredients, err := listField(line, listKey)
	if err != nil {
		return models.Recipe{}, err
	}

	priceTok, ok := scalarField(line, "Price:")
	if !ok {
		return models.Recipe{}, errors.New("missing Price: field")
	}
	price, err := parsePrice(priceTok)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("recipe %q: %w", name, err)
	}

	return models.Recipe{
		Category:    category,
		Name:        name,
		Ingredients: ingredients,
		Price:       price,
	}, nil
}

// scalarField returns the text after key up to the next comma or the end of the line.
func scalarField(line, key string) (string, bool) {
	idx := strings.Index(line, key)
	if idx < 0 {
		return "", false
	}
	rest := line[idx+len(key):]
	if end := strings.IndexByte(rest, ','); end >= 0 {
		rest = rest[:end]
	}
	return rest, true
}

// listField splits the bracketed list after key on commas. "[]" yields one empty name.
func listField(line, key string) ([]string, error) {
	idx := strings.Index(line, key)
	if idx < 0 {
		return nil, fmt.Errorf("missing %s[...] field", key)
	}
	rest := strings.TrimLeft(line[idx+len(key):], " ")
	if !strings.HasPrefix(rest, "[") {
		return nil, fmt.Errorf("expected '[' after %s", key)
	}
	end := strings.IndexAny(rest[1:], "[]")
	if end < 0 || rest[1+end] == '[' {
		return nil, fmt.Errorf("unclosed '[' after %s", key)
	}
	parts := strings.Split(rest[1:1+end], ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, nil
}

func (c *Catalog) Toppings() *PriceTable  { return c.toppings }
func (c *Catalog) Garnishes() *PriceTable { return c.garnishes }

// AddOns returns the table that prices extras for the category.
func (c *Catalog) AddOns(category models.Category) *PriceTable {
	switch category {
	case models.CategoryPizza:
		return c.toppings
	case models.CategoryBurger:
		return c.garnishes
	default:
		return nil
	}
}

// Recipes returns the category's recipes in menu order.
func (c *Catalog) Recipes(category models.Category) []models.Recipe {
	var src []models.Recipe
	switch category {
	case models.CategoryPizza:
		src = c.pizzas
	case models.CategoryBurger:
		src = c.burgers
	}
	out := make([]models.Recipe, len(src))
	for i, r := range src {
		out[i] = cloneRecipe(r)
	}
	return out
}

// FindRecipe looks a recipe up by name, ignoring case.
func (c *Catalog) FindRecipe(category models.Category, name string) (models.Recipe, bool) {
	var src []models.Recipe
	switch category {
	case models.CategoryPizza:
		src = c.pizzas
	case models.CategoryBurger:
		src = c.burgers
	}
	for _, r := range src {
		if strings.EqualFold(r.Name, name) {
			return cloneRecipe(r), true
		}
	}
	return models.Recipe{}, false
}

func (c *Catalog) ToppingPrice(name string) int64 { return c.toppings.Price(name) }
func (c *Catalog) GarnishPrice(name string) int64 { return c.garnishes.Price(name) }

func cloneRecipe(r models.Recipe) models.Recipe {
	r.Ingredients = slices.Clone(r.Ingredients)
	return r
}
