// Package click turns a press/release pair on a composite clickable surface
// into a single activate signal, so text selection drags and clicks on nested
// controls do not open the surface.
package click

import (
	"sync"
	"time"
)

// DefaultThreshold is the longest press that still counts as a click
const DefaultThreshold = 250 * time.Millisecond

// Button identifies the pointer button of an event
type Button int

const (
	ButtonNone Button = iota
	ButtonPrimary
	ButtonSecondary
	ButtonMiddle
)

// Target is the part of the surface an event landed on
type Target int

const (
	// TargetSurface is the surface itself or any plain content inside it
	TargetSurface Target = iota
	// TargetSaveControl is the nested save button
	TargetSaveControl
	// TargetGotoControl is the nested go-to-recipe link
	TargetGotoControl
)

// IsSubControl reports whether the target handles its own activation
func (t Target) IsSubControl() bool {
	return t == TargetSaveControl || t == TargetGotoControl
}

// Event is a raw pointer press or release
type Event struct {
	Button Button
	Target Target
}

// Option configures a Disambiguator
type Option func(*Disambiguator)

// WithThreshold overrides DefaultThreshold
func WithThreshold(d time.Duration) Option {
	return func(c *Disambiguator) { c.threshold = d }
}

// WithClock injects the time source
func WithClock(now func() time.Time) Option {
	return func(c *Disambiguator) { c.now = now }
}

// Disambiguator tracks one interaction at a time on one surface. Only the
// timestamp of the pending primary press is kept.
type Disambiguator struct {
	mu        sync.Mutex
	threshold time.Duration
	now       func() time.Time
	pressedAt time.Time
	pressed   bool
	onActive  func()
}

// New returns a Disambiguator that calls onActivate for every accepted click
func New(onActivate func(), opts ...Option) *Disambiguator {
	d := &Disambiguator{
		threshold: DefaultThreshold,
		now:       time.Now,
		onActive:  onActivate,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Press records the start of an interaction. Non-primary presses are ignored.
func (d *Disambiguator) Press(ev Event) {
	if ev.Button != ButtonPrimary {
		return
	}
	d.mu.Lock()
	d.pressedAt = d.now()
	d.pressed = true
	d.mu.Unlock()
}

// Release completes the interaction and reports whether activate fired
func (d *Disambiguator) Release(ev Event) bool {
	d.mu.Lock()
	if !d.pressed || ev.Button != ButtonPrimary {
		d.mu.Unlock()
		return false
	}
	held := d.now().Sub(d.pressedAt)
	d.pressed = false
	d.mu.Unlock()

	if held >= d.threshold || ev.Target.IsSubControl() {
		return false
	}
	if d.onActive != nil {
		d.onActive()
	}
	return true
}

// Cancel drops a pending press, e.g. when the pointer leaves the surface
func (d *Disambiguator) Cancel() {
	d.mu.Lock()
	d.pressed = false
	d.mu.Unlock()
}
