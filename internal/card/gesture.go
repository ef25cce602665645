package card

import (
	"math"
	"time"
)

// Gesture is the outcome of interpreting a finished drag.
type Gesture int

const (
	GestureIgnore Gesture = iota
	GestureOlder
	GestureNewer
)

func (g Gesture) String() string {
	switch g {
	case GestureOlder:
		return "older"
	case GestureNewer:
		return "newer"
	default:
		return "ignore"
	}
}

const (
	swipePowerThreshold    = 600
	swipeDistanceThreshold = 140
	swipeOffsetWeight      = 0.5
)

// Interpret classifies a released drag. A long slow drag and a short fast
// flick both count as a swipe. Dragging left asks for the newer post,
// dragging right for the older one. A swipe with no horizontal travel has
// no direction and is ignored.
func Interpret(offsetX, velocityX float64) Gesture {
	power := math.Abs(offsetX)*swipeOffsetWeight + math.Abs(velocityX)
	shouldSwipe := power > swipePowerThreshold || math.Abs(offsetX) > swipeDistanceThreshold
	if !shouldSwipe {
		return GestureIgnore
	}
	switch {
	case offsetX < 0:
		return GestureNewer
	case offsetX > 0:
		return GestureOlder
	default:
		return GestureIgnore
	}
}

// ApplyGesture performs the page turn a gesture asks for when the reader is
// open and the move is possible.
func (s *Session) ApplyGesture(g Gesture) bool {
	if !s.state.Open {
		return false
	}
	switch g {
	case GestureNewer:
		return s.GoNewer()
	case GestureOlder:
		return s.GoOlder()
	default:
		return false
	}
}

// DefaultCellWidth approximates the width of one terminal column in pixels.
const DefaultCellWidth = 8

const velocityWindow = 100 * time.Millisecond

type dragSample struct {
	x  int
	at time.Time
}

// DragTracker turns mouse press, motion and release events measured in
// terminal cells into the pixel offset and velocity Interpret expects.
type DragTracker struct {
	CellWidth float64

	active  bool
	startX  int
	lastX   int
	samples []dragSample
}

func (d *DragTracker) Active() bool {
	return d.active
}

// Offset is the current horizontal displacement in cells.
func (d *DragTracker) Offset() int {
	if !d.active {
		return 0
	}
	return d.lastX - d.startX
}

func (d *DragTracker) Press(x int, at time.Time) {
	d.active = true
	d.startX = x
	d.lastX = x
	d.samples = append(d.samples[:0], dragSample{x: x, at: at})
}

func (d *DragTracker) Move(x int, at time.Time) {
	if !d.active {
		return
	}
	d.lastX = x
	d.samples = append(d.samples, dragSample{x: x, at: at})
	d.trim(at)
}

// Release ends the drag and reports offset in pixels and velocity in pixels
// per second. ok is false when no drag was in progress.
func (d *DragTracker) Release(x int, at time.Time) (offsetX, velocityX float64, ok bool) {
	if !d.active {
		return 0, 0, false
	}
	d.Move(x, at)
	cw := d.cellWidth()
	offsetX = float64(x-d.startX) * cw

	oldest := d.samples[0]
	if dt := at.Sub(oldest.at).Seconds(); dt > 0 {
		velocityX = float64(x-oldest.x) * cw / dt
	}
	d.Cancel()
	return offsetX, velocityX, true
}

func (d *DragTracker) Cancel() {
	d.active = false
	d.samples = d.samples[:0]
}

func (d *DragTracker) trim(now time.Time) {
	cut := 0
	for cut < len(d.samples)-1 && now.Sub(d.samples[cut].at) > velocityWindow {
		cut++
	}
	if cut > 0 {
		d.samples = append(d.samples[:0], d.samples[cut:]...)
	}
}

func (d *DragTracker) cellWidth() float64 {
	if d.CellWidth <= 0 {
		return DefaultCellWidth
	}
	return d.CellWidth
}
