// Package view holds the two representations of every rendered recipe, a
// summary card and a detail overlay, and keeps their saved state in step.
package view

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pageza/recipe-finder/internal/click"
)

var (
	// ErrDetached is returned when a view from a replaced result set is activated
	ErrDetached = errors.New("view is detached")
	// ErrUnknownRecipe is returned for ids that are not rendered
	ErrUnknownRecipe = errors.New("recipe is not rendered")
)

// Icon is the bookmark glyph shown on a save control
type Icon string

const (
	IconUnsaved Icon = "unsaved-icon"
	IconSaved   Icon = "saved-icon"
)

// ButtonStyle is the visual style of a save control
type ButtonStyle string

const (
	StyleOutline ButtonStyle = "btn-outline-danger"
	StyleFilled  ButtonStyle = "btn-danger"
)

// SaveControl is the displayed state of one save button. Icon and style are
// both derived from the same flag so they cannot disagree.
type SaveControl struct {
	Saved bool
}

// Icon returns the glyph for the current state
func (s SaveControl) Icon() Icon {
	if s.Saved {
		return IconSaved
	}
	return IconUnsaved
}

// Style returns the button style for the current state
func (s SaveControl) Style() ButtonStyle {
	if s.Saved {
		return StyleFilled
	}
	return StyleOutline
}

func (s SaveControl) String() string {
	return fmt.Sprintf("%s/%s", s.Icon(), s.Style())
}

// Card is the compact summary of a recipe in the results list
type Card struct {
	RecipeID string
	Label    string
	ImageURL string
	Summary  string
	URL      string

	pair    *Pair
	clicks  *click.Disambiguator
	save    SaveControl
	handler Handlers
}

// Detail is the expanded overlay for a recipe. Ingredients and health labels
// only live here.
type Detail struct {
	RecipeID     string
	Label        string
	ImageURL     string
	CuisineType  string
	MealType     string
	Calories     float64
	Ingredients  []string
	HealthLabels []string
	URL          string

	pair    *Pair
	save    SaveControl
	handler Handlers
}

// Pair binds the card and detail views of one recipe
type Pair struct {
	Card   *Card
	Detail *Detail

	reg        *Registry
	generation uuid.UUID
	detached   bool
}

// Handlers are the actions bound to every rendered pair
type Handlers struct {
	// OpenDetail shows the detail overlay for the recipe
	OpenDetail func(recipeID string)
	// Save runs the save toggle workflow for the recipe
	Save func(ctx context.Context, recipeID string) error
	// Navigate opens the external recipe page
	Navigate func(url string)
}

// EmptyState is the placeholder rendered for a search without results
type EmptyState struct {
	Query string
}

// Message is the placeholder text
func (e EmptyState) Message() string {
	return fmt.Sprintf("No results for %q", e.Query)
}

// SaveControl returns the card's displayed save state
func (c *Card) SaveControl() SaveControl {
	c.pair.reg.mu.RLock()
	defer c.pair.reg.mu.RUnlock()
	return c.save
}

// Attached reports whether the card belongs to the current result set
func (c *Card) Attached() bool {
	return c.pair.attached()
}

// Press forwards a pointer press on the card surface
func (c *Card) Press(ev click.Event) {
	if !c.Attached() {
		return
	}
	c.clicks.Press(ev)
}

// Release forwards a pointer release and reports whether the detail opened
func (c *Card) Release(ev click.Event) bool {
	if !c.Attached() {
		c.clicks.Cancel()
		return false
	}
	return c.clicks.Release(ev)
}

// Leave cancels a pending press when the pointer leaves the card
func (c *Card) Leave() {
	c.clicks.Cancel()
}

// ActivateSave runs the save control. It never opens the detail overlay.
func (c *Card) ActivateSave(ctx context.Context) error {
	return c.pair.activateSave(ctx, c.handler)
}

// ActivateGoto navigates to the recipe page without activating the card
func (c *Card) ActivateGoto() error {
	return c.pair.activateGoto(c.handler, c.URL)
}

// SaveControl returns the overlay's displayed save state
func (d *Detail) SaveControl() SaveControl {
	d.pair.reg.mu.RLock()
	defer d.pair.reg.mu.RUnlock()
	return d.save
}

// Attached reports whether the overlay belongs to the current result set
func (d *Detail) Attached() bool {
	return d.pair.attached()
}

// ActivateSave runs the save control from the overlay
func (d *Detail) ActivateSave(ctx context.Context) error {
	return d.pair.activateSave(ctx, d.handler)
}

// ActivateGoto navigates to the recipe page
func (d *Detail) ActivateGoto() error {
	return d.pair.activateGoto(d.handler, d.URL)
}

// Generation identifies the render that produced the pair
func (p *Pair) Generation() uuid.UUID {
	return p.generation
}

func (p *Pair) attached() bool {
	p.reg.mu.RLock()
	defer p.reg.mu.RUnlock()
	return !p.detached
}

func (p *Pair) activateSave(ctx context.Context, h Handlers) error {
	if !p.attached() {
		return ErrDetached
	}
	if h.Save == nil {
		return nil
	}
	return h.Save(ctx, p.Card.RecipeID)
}

func (p *Pair) activateGoto(h Handlers, url string) error {
	if !p.attached() {
		return ErrDetached
	}
	if h.Navigate != nil {
		h.Navigate(url)
	}
	return nil
}
