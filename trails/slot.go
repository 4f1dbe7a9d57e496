package trails

// Slot is one entry of a node's fixed-capacity incidence list.
// The zero value is an empty slot.
type Slot struct {
	edge int32
	used bool
}

// SlotOf returns a slot holding edge index k.
func SlotOf(k int) Slot {
	return Slot{edge: int32(k), used: true}
}

// Edge returns the edge index and whether the slot is occupied.
func (s Slot) Edge() (int, bool) {
	return int(s.edge), s.used
}

// Empty reports whether the slot is unused.
func (s Slot) Empty() bool {
	return !s.used
}
