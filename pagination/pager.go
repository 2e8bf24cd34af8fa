package pagination

// DefaultPageSize matches the 3x15 card grid of the catalog view.
const DefaultPageSize = 45

// Navigation actions accepted from clients
const (
	NavFirst = "first"
	NavPrev  = "prev"
	NavNext  = "next"
	NavLast  = "last"
)

// ComputePages returns max(1, ceil(totalItems/pageSize))
func ComputePages(totalItems, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if totalItems <= 0 {
		return 1
	}
	return (totalItems + pageSize - 1) / pageSize
}

// Clamp returns page when it lies in [1, totalPages] and 1 otherwise.
// Out of range pages reset to the first page instead of the last one so a
// narrowed search never lands on a stale tail page.
func Clamp(page, totalPages int) int {
	if page < 1 || page > totalPages {
		return 1
	}
	return page
}

// Slice returns records[(page-1)*pageSize : page*pageSize], bounded to len(records)
func Slice[T any](records []T, page, pageSize int) []T {
	if page < 1 || pageSize <= 0 {
		return nil
	}
	start := (page - 1) * pageSize
	if start >= len(records) {
		return nil
	}
	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}

// Cursor tracks the current page over a filtered result set.
// The zero value is not ready for use; call NewCursor.
type Cursor struct {
	PageSize    int `json:"pageSize"`
	CurrentPage int `json:"currentPage"`
	TotalItems  int `json:"totalItems"`
}

// NewCursor creates a cursor on page 1 with no items
func NewCursor(pageSize int) Cursor {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return Cursor{PageSize: pageSize, CurrentPage: 1}
}

// TotalPages returns the page count for the current total
func (c *Cursor) TotalPages() int {
	return ComputePages(c.TotalItems, c.PageSize)
}

// SetTotal records a new result count and re-validates the current page
func (c *Cursor) SetTotal(totalItems int) {
	if totalItems < 0 {
		totalItems = 0
	}
	c.TotalItems = totalItems
	c.CurrentPage = Clamp(c.CurrentPage, c.TotalPages())
}

// Goto moves to page, resetting to 1 when page is out of range
func (c *Cursor) Goto(page int) {
	c.CurrentPage = Clamp(page, c.TotalPages())
}

// Reset moves back to the first page
func (c *Cursor) Reset() {
	c.CurrentPage = 1
}

func (c *Cursor) First() { c.CurrentPage = 1 }

func (c *Cursor) Last() { c.CurrentPage = c.TotalPages() }

// Prev is a no-op on the first page
func (c *Cursor) Prev() {
	if c.CurrentPage > 1 {
		c.CurrentPage--
	}
}

// Next is a no-op on the last page
func (c *Cursor) Next() {
	if c.CurrentPage < c.TotalPages() {
		c.CurrentPage++
	}
}

// Navigate applies a navigation action by name.
// Returns false for unknown actions, leaving the cursor untouched.
func (c *Cursor) Navigate(action string) bool {
	switch action {
	case NavFirst:
		c.First()
	case NavPrev:
		c.Prev()
	case NavNext:
		c.Next()
	case NavLast:
		c.Last()
	default:
		return false
	}
	return true
}
