// Package gesture classifies a raw sequence of pointer samples into one
// discrete user intent: tap, directional swipe, or nothing.
package gesture

import "time"

// Classification thresholds, in input units and wall time.
const (
	// MoveDeadband is the displacement below which jitter is ignored.
	MoveDeadband = 10.0
	// SwipeThreshold is the minimum horizontal displacement of a swipe.
	SwipeThreshold = 50.0
	// TapMaxDuration is the longest contact still considered a tap.
	TapMaxDuration = 200 * time.Millisecond
	// AnimationDuration is how long a slide-out/fade plays before the
	// underlying mutation commits. Re-gestures inside this window are
	// ignored so the same item is never processed twice.
	AnimationDuration = 300 * time.Millisecond
)

// Intent is the classified outcome of one contact.
type Intent string

const (
	// Intents
	IntentNone       Intent = "none"
	IntentTap        Intent = "tap"
	IntentSwipeLeft  Intent = "swipe_left"
	IntentSwipeRight Intent = "swipe_right"
	IntentCancelled  Intent = "cancelled"
)

// Point is a single pointer sample position.
type Point struct {
	X float64
	Y float64
}

// Classify maps one completed contact to an intent. The tap branch is
// checked before the distance branch: a fast, tiny tap near a swipe-eligible
// edge must never read as a swipe, and a slow drag that ends near its start
// must never read as a tap.
func Classify(start, end Point, duration time.Duration, hasMoved bool) Intent {
	if duration < TapMaxDuration && !hasMoved {
		return IntentTap
	}

	distance := start.X - end.X
	if abs(distance) >= SwipeThreshold && hasMoved {
		if distance > SwipeThreshold {
			return IntentSwipeLeft
		}
		if distance < -SwipeThreshold {
			return IntentSwipeRight
		}
	}
	return IntentCancelled
}

// Sample is one timestamped pointer reading, offset from contact start.
type Sample struct {
	Point
	Offset time.Duration
}

// ClassifySamples classifies a whole recorded contact. The moved flag
// latches from the samples the same way live tracking latches it.
func ClassifySamples(samples []Sample) Intent {
	if len(samples) < 2 {
		return IntentCancelled
	}

	start := samples[0]
	end := samples[len(samples)-1]
	hasMoved := false
	for _, s := range samples[1:] {
		if abs(s.X-start.X) > MoveDeadband || abs(s.Y-start.Y) > MoveDeadband {
			hasMoved = true
			break
		}
	}
	return Classify(start.Point, end.Point, end.Offset-start.Offset, hasMoved)
}

// Tracker is the state machine over a single pointer contact:
// Idle -> Tracking -> classified. Not safe for concurrent use; one tracker
// belongs to one interactive element.
type Tracker struct {
	start      Point
	last       Point
	startedAt  time.Time
	tracking   bool
	hasMoved   bool
	guardUntil time.Time

	now func() time.Time
}

// NewTracker creates an idle tracker.
func NewTracker() *Tracker {
	return &Tracker{now: time.Now}
}

// NewTrackerWithClock creates a tracker with an injected clock, for tests.
func NewTrackerWithClock(now func() time.Time) *Tracker {
	return &Tracker{now: now}
}

// Start begins tracking a contact. Contacts starting inside the animation
// guard window are not tracked; their End reports Cancelled.
func (t *Tracker) Start(p Point) {
	if t.now().Before(t.guardUntil) {
		t.tracking = false
		return
	}
	t.start = p
	t.last = p
	t.startedAt = t.now()
	t.tracking = true
	t.hasMoved = false
}

// Move records a sample. The moved flag latches once displacement on either
// axis leaves the deadband.
func (t *Tracker) Move(p Point) {
	if !t.tracking {
		return
	}
	if abs(p.X-t.start.X) > MoveDeadband || abs(p.Y-t.start.Y) > MoveDeadband {
		t.hasMoved = true
	}
	t.last = p
}

// End finishes the contact and returns its intent. The tracker returns to
// idle either way; a cancelled contact leaves the element at its neutral
// origin.
func (t *Tracker) End() Intent {
	if !t.tracking {
		return IntentCancelled
	}
	t.tracking = false
	return Classify(t.start, t.last, t.now().Sub(t.startedAt), t.hasMoved)
}

// BeginAnimation opens the guard window during which new contacts are
// ignored, sequencing the visual slide-out strictly before the mutation.
func (t *Tracker) BeginAnimation() {
	t.guardUntil = t.now().Add(AnimationDuration)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
