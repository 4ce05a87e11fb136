package journeys

// PageLink is one entry of the pager. Ellipsis entries carry no number.
type PageLink struct {
	Number   int  `json:"number,omitempty"`
	Current  bool `json:"current,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

// ClampPage pulls a requested page into [1, totalPages].
func ClampPage(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// PageWindow lists the first page, the last page and the neighbours of
// current, with an ellipsis wherever pages were skipped.
func PageWindow(current, totalPages int) []PageLink {
	if totalPages <= 0 {
		return nil
	}
	links := make([]PageLink, 0, 7)
	prev := 0
	for p := 1; p <= totalPages; p++ {
		if p != 1 && p != totalPages && abs(p-current) > 1 {
			continue
		}
		if prev > 0 && prev < p-1 {
			links = append(links, PageLink{Ellipsis: true})
		}
		links = append(links, PageLink{Number: p, Current: p == current})
		prev = p
	}
	return links
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
