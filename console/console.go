// Package console runs the interactive ordering session on a line-oriented terminal.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"food-console/config"
	"food-console/logger"
	"food-console/models"
	"food-console/services"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
)

// Notifier is told about every order that was saved successfully.
type Notifier interface {
	NotifyOrderSaved(ctx context.Context, rec models.SavedOrder) error
}

type Option func(*Console)

func WithNotifier(n Notifier) Option {
	return func(c *Console) { c.notifier = n }
}

func WithDelivery(d config.DeliveryConfig) Option {
	return func(c *Console) { c.delivery = d }
}

// WithClock replaces time.Now for save timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Console) { c.now = now }
}

type Console struct {
	in       *bufio.Scanner
	lines    chan string
	readErr  error // set before lines is closed
	out      io.Writer
	catalog  *services.Catalog
	store    services.OrderStore
	notifier Notifier
	delivery config.DeliveryConfig
	now      func() time.Time

	titleStyle   lipgloss.Style
	errorStyle   lipgloss.Style
	successStyle lipgloss.Style
}

func New(in io.Reader, out io.Writer, catalog *services.Catalog, store services.OrderStore, opts ...Option) *Console {
	r := lipgloss.NewRenderer(out)
	c := &Console{
		in:      bufio.NewScanner(in),
		lines:   make(chan string),
		out:     out,
		catalog: catalog,
		store:   store,
		now:     time.Now,

		titleStyle:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		errorStyle:   r.NewStyle().Foreground(lipgloss.Color("#ff453a")),
		successStyle: r.NewStyle().Foreground(lipgloss.Color("#30d158")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run shows the main menu until the user exits, input ends or ctx is canceled.
// A Console runs at most once.
func (c *Console) Run(ctx context.Context) error {
	go c.readLines(ctx)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.send(c.titleStyle.Render(fmt.Sprintf("Welcome to %s! Brought to you by JustNom!", c.catalog.MenuName)))
		c.send("1. View Saves")
		c.send("2. Place Order")
		c.send("3. Exit")
		choice, ok := c.prompt(ctx, "Enter your choice: ")
		if !ok {
			return c.stopErr(ctx)
		}

		switch choice {
		case "1":
			c.handleViewSaves(ctx)
		case "2":
			if !c.handlePlaceOrder(ctx) {
				return c.stopErr(ctx)
			}
		case "3":
			return nil
		default:
			c.sendError("Invalid choice. Please try again.")
		}
	}
}

func (c *Console) send(text string) {
	fmt.Fprintln(c.out, text)
}

func (c *Console) sendError(text string) {
	c.send(c.errorStyle.Render(text))
}

// readLines feeds scanned input lines to prompt until input ends or ctx is canceled.
func (c *Console) readLines(ctx context.Context) {
	defer close(c.lines)
	for c.in.Scan() {
		select {
		case c.lines <- c.in.Text():
		case <-ctx.Done():
			return
		}
	}
	c.readErr = c.in.Err()
}

// prompt writes label and waits for one trimmed line. ok is false once input is
// exhausted or ctx is canceled.
func (c *Console) prompt(ctx context.Context, label string) (string, bool) {
	if label != "" {
		fmt.Fprint(c.out, label)
	}
	select {
	case line, ok := <-c.lines:
		if !ok {
			return "", false
		}
		return strings.TrimSpace(line), true
	case <-ctx.Done():
		return "", false
	}
}

// stopErr explains why prompt gave up: cancellation, a read error, or nil for EOF.
func (c *Console) stopErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.readErr
}

func (c *Console) handleViewSaves(ctx context.Context) {
	saves, err := c.store.LoadSaves(ctx)
	if err != nil {
		logger.Log.WithError(err).Error("load saved orders")
		c.sendError("Could not load saved orders: " + err.Error())
		return
	}
	if saves == "" {
		c.send("No saved orders.")
		return
	}
	c.send("Saved Orders:")
	fmt.Fprint(c.out, saves)
}

// handlePlaceOrder returns false when input ended before the order was finished.
func (c *Console) handlePlaceOrder(ctx context.Context) bool {
	c.send(fmt.Sprintf("Place your order here at %s!", c.catalog.MenuName))

	name, ok := c.prompt(ctx, "Please enter your name: ")
	if !ok {
		return false
	}
	answer, ok := c.prompt(ctx, "Is this order for delivery (yes/no)? ")
	if !ok {
		return false
	}
	isDelivery := strings.EqualFold(answer, "yes")
	var address string
	if isDelivery {
		if address, ok = c.prompt(ctx, "Please enter your address: "); !ok {
			return false
		}
	}

	order := services.NewOrder(name, isDelivery, address)
	order.Delivery = c.delivery

	for adding := true; adding; {
		c.send("Please select an item to add to your order:")
		c.send("1. Pizza")
		c.send("2. Burger")
		c.send("3. Finish adding items")
		choice, ok := c.prompt(ctx, "Enter your choice: ")
		if !ok {
			return false
		}
		switch choice {
		case "1":
			ok = c.addItem(ctx, order, models.CategoryPizza)
		case "2":
			ok = c.addItem(ctx, order, models.CategoryBurger)
		case "3":
			if order.Len() == 0 {
				c.sendError("You cannot complete the order without selecting any items. Please add at least one item.")
			} else {
				adding = false
			}
		default:
			c.sendError("Invalid selection. Please try again.")
		}
		if !ok {
			return false
		}
	}

	c.send(order.Summary())
	answer, ok = c.prompt(ctx, "Do you want to save this order (yes/no)? ")
	if !ok {
		return false
	}
	if strings.EqualFold(answer, "yes") {
		c.saveOrder(ctx, order)
	}
	return true
}

// addItem walks the user through one pizza or burger. It returns false when input ended.
func (c *Console) addItem(ctx context.Context, order *services.Order, category models.Category) bool {
	noun := strings.ToLower(string(category))
	addOnNoun := strings.ToLower(category.AddOnLabel())

	c.send(fmt.Sprintf("Available %ss:", category))
	for _, r := range c.catalog.Recipes(category) {
		c.send(fmt.Sprintf("%s - %s", r.Name, services.FormatPrice(r.Price)))
	}
	name, ok := c.prompt(ctx, fmt.Sprintf("Enter the name of the %s you'd like to order: ", noun))
	if !ok {
		return false
	}
	recipe, found := c.catalog.FindRecipe(category, name)
	if !found {
		c.sendError(fmt.Sprintf("%s not found. Please try again.", category))
		return true
	}

	var added, removed []string
	c.send(fmt.Sprintf("Do you want to add or remove %s, or keep the %s as is? (add/remove/keep)", addOnNoun, noun))
	decision, ok := c.prompt(ctx, "")
	if !ok {
		return false
	}
	switch strings.ToLower(decision) {
	case "add":
		table := c.catalog.AddOns(category)
		c.send(fmt.Sprintf("Available %s:", category.AddOnLabel()))
		for _, n := range table.Names() {
			c.send(fmt.Sprintf("%s - %s", n, services.FormatPrice(table.Price(n))))
		}
		line, ok := c.prompt(ctx, fmt.Sprintf("Enter the %s you'd like to add (separated by commas): ", addOnNoun))
		if !ok {
			return false
		}
		var unknown []string
		for _, a := range splitList(line) {
			if table.Has(a) {
				added = append(added, a)
			} else {
				unknown = append(unknown, a)
			}
		}
		if len(unknown) > 0 {
			c.sendError(fmt.Sprintf("Ignored unknown %s: %s", addOnNoun, strings.Join(unknown, ", ")))
		}
	case "remove":
		c.send(fmt.Sprintf("Current %s on %s: %s", addOnNoun, recipe.Name, strings.Join(recipe.Ingredients, ", ")))
		line, ok := c.prompt(ctx, fmt.Sprintf("Enter the %s you'd like to remove (separated by commas): ", addOnNoun))
		if !ok {
			return false
		}
		removed = splitList(line)
	case "keep":
	default:
		c.sendError("Invalid selection. Please try again.")
	}

	item := services.NewLineItem(c.catalog, category, recipe.Name, added, removed)
	order.AddItem(item)
	c.send("Added " + item.String())
	return true
}

func (c *Console) saveOrder(ctx context.Context, order *services.Order) {
	rec := services.NewSavedOrder(order, c.now())
	if err := c.store.SaveOrder(ctx, rec); err != nil {
		logger.Log.WithError(err).Error("save order")
		c.sendError("Could not save the order: " + err.Error())
		return
	}
	logger.Log.WithFields(logrus.Fields{
		"ref":      rec.Ref,
		"customer": rec.CustomerName,
		"total":    rec.GrandTotal,
	}).Info("order saved")

	if c.notifier != nil {
		if err := c.notifier.NotifyOrderSaved(ctx, rec); err != nil {
			logger.Log.WithError(err).WithField("ref", rec.Ref).Warn("notify admin")
		}
	}
	c.send(c.successStyle.Render("Order saved successfully."))
}

// splitList splits comma separated input, dropping blanks.
func splitList(line string) []string {
	var out []string
	for _, p := range strings.Split(line, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
