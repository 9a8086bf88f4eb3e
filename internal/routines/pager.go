// internal/routines/pager.go
package routines

// PageWindow describes one listing page over the routine catalog.
type PageWindow struct {
	Offset   int
	PageSize int
	Total    int
}

// Normalize returns the offset to serve and whether a corrective
// redirect is required. An offset past the end of the catalog snaps to
// the last valid page instead of producing an empty listing.
func (w PageWindow) Normalize() (int, bool) {
	offset := w.Offset
	if offset < 0 {
		offset = 0
	}

	if w.Total > 0 && offset >= w.Total {
		offset = w.Total - w.PageSize
		if offset < 0 {
			offset = 0
		}
		return offset, true
	}

	return offset, offset != w.Offset
}

// HasPrev reports whether a previous page exists.
func (w PageWindow) HasPrev() bool {
	return w.Offset > 0
}

// HasNext reports whether a following page exists.
func (w PageWindow) HasNext() bool {
	return w.Offset+w.PageSize < w.Total
}

// PrevOffset returns the offset of the previous page.
func (w PageWindow) PrevOffset() int {
	off := w.Offset - w.PageSize
	if off < 0 {
		off = 0
	}
	return off
}

// NextOffset returns the offset of the following page.
func (w PageWindow) NextOffset() int {
	return w.Offset + w.PageSize
}
