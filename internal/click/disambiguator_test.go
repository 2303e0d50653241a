package click

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestDisambiguator() (*Disambiguator, *fakeClock, *int) {
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	fired := 0
	d := New(func() { fired++ }, WithClock(clock.now))
	return d, clock, &fired
}

func TestDisambiguator(t *testing.T) {
	primary := Event{Button: ButtonPrimary, Target: TargetSurface}

	tests := []struct {
		name    string
		press   Event
		held    time.Duration
		release Event
		want    bool
	}{
		{"quick click", primary, 100 * time.Millisecond, primary, true},
		{"just under threshold", primary, 249 * time.Millisecond, primary, true},
		{"at threshold is a drag", primary, 250 * time.Millisecond, primary, false},
		{"long press selects text", primary, time.Second, primary, false},
		{"secondary press", Event{Button: ButtonSecondary}, 10 * time.Millisecond, primary, false},
		{"secondary release", primary, 10 * time.Millisecond, Event{Button: ButtonSecondary}, false},
		{"release on save control", primary, 10 * time.Millisecond, Event{Button: ButtonPrimary, Target: TargetSaveControl}, false},
		{"release on goto control", primary, 10 * time.Millisecond, Event{Button: ButtonPrimary, Target: TargetGotoControl}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, clock, fired := newTestDisambiguator()

			d.Press(tt.press)
			clock.advance(tt.held)
			got := d.Release(tt.release)

			assert.Equal(t, tt.want, got)
			if tt.want {
				assert.Equal(t, 1, *fired)
			} else {
				assert.Zero(t, *fired)
			}
		})
	}
}

func TestReleaseWithoutPressIsNoop(t *testing.T) {
	d, _, fired := newTestDisambiguator()
	assert.False(t, d.Release(Event{Button: ButtonPrimary}))
	assert.Zero(t, *fired)
}

func TestCancelDropsPendingPress(t *testing.T) {
	d, clock, fired := newTestDisambiguator()

	d.Press(Event{Button: ButtonPrimary})
	d.Cancel()
	clock.advance(10 * time.Millisecond)

	assert.False(t, d.Release(Event{Button: ButtonPrimary}))
	assert.Zero(t, *fired)
}

func TestOnePressFiresAtMostOnce(t *testing.T) {
	d, clock, fired := newTestDisambiguator()

	d.Press(Event{Button: ButtonPrimary})
	clock.advance(10 * time.Millisecond)
	assert.True(t, d.Release(Event{Button: ButtonPrimary}))
	assert.False(t, d.Release(Event{Button: ButtonPrimary}))
	assert.Equal(t, 1, *fired)
}

func TestEachInteractionIsIndependent(t *testing.T) {
	d, clock, fired := newTestDisambiguator()

	d.Press(Event{Button: ButtonPrimary})
	clock.advance(time.Second)
	assert.False(t, d.Release(Event{Button: ButtonPrimary}))

	d.Press(Event{Button: ButtonPrimary})
	clock.advance(50 * time.Millisecond)
	assert.True(t, d.Release(Event{Button: ButtonPrimary}))
	assert.Equal(t, 1, *fired)
}

func TestWithThreshold(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	d := New(nil, WithClock(clock.now), WithThreshold(time.Second))

	d.Press(Event{Button: ButtonPrimary})
	clock.advance(500 * time.Millisecond)
	assert.True(t, d.Release(Event{Button: ButtonPrimary}))
}
