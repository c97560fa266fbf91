// Package pagination computes page navigation state for a paginated listing.
package pagination

// Nav describes the navigable neighborhood of the current page, as a
// pagination control would render it.
type Nav struct {
	Current int
	Total   int
	HasNext bool
	HasPrev bool
	Window  []int
}

// Build returns the navigation state for the given current page out of total
// pages, with a number window of at most width pages centered on the current
// one. Current is clamped into [1, total]; a non-positive total yields an
// empty window.
func Build(current, total, width int) Nav {
	if total < 1 {
		return Nav{Current: 1, Total: 0}
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}
	if width < 1 {
		width = 1
	}
	if width > total {
		width = total
	}

	start := current - width/2
	if start < 1 {
		start = 1
	}
	if start+width-1 > total {
		start = total - width + 1
	}

	window := make([]int, width)
	for i := range window {
		window[i] = start + i
	}

	return Nav{
		Current: current,
		Total:   total,
		HasNext: current < total,
		HasPrev: current > 1,
		Window:  window,
	}
}
