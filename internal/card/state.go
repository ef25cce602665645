package card

// Direction records which way the last page turn went. Presentation uses
// it to pick the slide direction; navigation never reads it.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionOlder
	DirectionNewer
)

func (d Direction) String() string {
	switch d {
	case DirectionOlder:
		return "older"
	case DirectionNewer:
		return "newer"
	default:
		return "none"
	}
}

// State is the mutable navigation state of one card. Index is -1 when the
// focused post is not part of the list.
type State struct {
	Open          bool
	Index         int
	Focused       Post
	LastDirection Direction
}

func canGoOlder(index, size int) bool {
	return index >= 0 && index+1 < size
}

func canGoNewer(index int) bool {
	return index > 0
}
