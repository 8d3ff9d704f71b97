package workout

// indexOf returns the position of the first item whose id matches, or -1.
func indexOf[T any](items []T, id string, idOf func(T) string) int {
	for i, item := range items {
		if idOf(item) == id {
			return i
		}
	}
	return -1
}

// splice moves the dragged item to the target's original index. It reports
// false, leaving items untouched, when either id is absent or both are the
// same item.
func splice[T any](items []T, draggedID, targetID string, idOf func(T) string) ([]T, bool) {
	from := indexOf(items, draggedID, idOf)
	to := indexOf(items, targetID, idOf)
	if from == -1 || to == -1 || from == to {
		return items, false
	}

	out := make([]T, 0, len(items))
	out = append(out, items[:from]...)
	out = append(out, items[from+1:]...)

	dragged := items[from]
	out = append(out[:to], append([]T{dragged}, out[to:]...)...)
	return out, true
}

// without returns a copy of items minus every item with the given id.
func without[T any](items []T, id string, idOf func(T) string) ([]T, bool) {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if idOf(item) != id {
			out = append(out, item)
		}
	}
	return out, len(out) != len(items)
}
