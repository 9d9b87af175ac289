package roster

import (
	"errors"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Explicit outcomes for operations that the original UI absorbed as silent
// no-ops. Callers decide whether to surface or swallow them.
var (
	ErrNotFound   = errors.New("driver not found")
	ErrNotFixable = errors.New("driver is not AI-fixable")
)

// Counts holds per-bucket totals for the current roster.
type Counts struct {
	AiFixable int
	ManualFix int
	Ready     int
}

// Engine owns the working copy of driver records plus the view state
// (search query, current page). The visible page is re-derived on every
// read; nothing is cached.
type Engine struct {
	records  []Driver
	query    string
	page     int
	pageSize int
}

// NewEngine returns an empty engine. pageSize values below 1 fall back to
// the roster default of 10.
func NewEngine(pageSize int) *Engine {
	if pageSize < 1 {
		pageSize = 10
	}
	return &Engine{page: 1, pageSize: pageSize}
}

// Load deep-copies the fixture into working state and resets the view:
// empty query, page 1. Always succeeds on well-formed input.
func (e *Engine) Load(fixture []Driver) {
	e.records = make([]Driver, 0, len(fixture))
	for _, d := range fixture {
		e.records = append(e.records, d.clone())
	}
	e.query = ""
	e.page = 1
}

// Len returns the total record count, ignoring the filter.
func (e *Engine) Len() int { return len(e.records) }

// Query returns the active search query.
func (e *Engine) Query() string { return e.query }

// ApplyFilter sets the search query and resets to page 1. Matching is
// case-insensitive substring, OR-combined across name, email and display id.
func (e *Engine) ApplyFilter(query string) {
	e.query = query
	e.page = 1
}

// SortedView returns the full filtered collection ordered by status bucket
// (AiFixable, ManualFixRequired, Ready), ties broken by insertion order.
// The stable sort is load-bearing for reproducible output.
func (e *Engine) SortedView() []Driver {
	var out []Driver
	for _, d := range e.records {
		if matches(d, e.query) {
			out = append(out, d.clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return bucketRank(out[i].Status()) < bucketRank(out[j].Status())
	})
	return out
}

func bucketRank(s Status) int {
	switch s {
	case StatusAiFixable:
		return 0
	case StatusManualFixRequired:
		return 1
	}
	return 2
}

func matches(d Driver, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(d.Name), q) ||
		strings.Contains(strings.ToLower(d.Email), q) ||
		strings.Contains(strings.ToLower(d.DisplayID), q)
}

// SetPage moves the view to page n, clamped to [1, TotalPages].
func (e *Engine) SetPage(n int) {
	total := e.TotalPages()
	if n < 1 {
		n = 1
	}
	if n > total {
		n = total
	}
	e.page = n
}

// CurrentPage returns the 1-based page number, clamped against the current
// filtered set (mutations can shrink the set under the cursor).
func (e *Engine) CurrentPage() int {
	if total := e.TotalPages(); e.page > total {
		return total
	}
	return e.page
}

// TotalPages is at least 1 even for an empty filtered set.
func (e *Engine) TotalPages() int {
	n := len(e.SortedView())
	if n == 0 {
		return 1
	}
	return (n + e.pageSize - 1) / e.pageSize
}

// PageSize returns the fixed page size.
func (e *Engine) PageSize() int { return e.pageSize }

// Page returns the current page slice of the sorted, filtered view.
func (e *Engine) Page() []Driver {
	view := e.SortedView()
	start := (e.CurrentPage() - 1) * e.pageSize
	if start >= len(view) {
		return nil
	}
	end := start + e.pageSize
	if end > len(view) {
		end = len(view)
	}
	return view[start:end]
}

// PageBounds returns 1-based display bounds for "Showing X-Y of N".
func (e *Engine) PageBounds() (first, last, total int) {
	view := e.SortedView()
	total = len(view)
	if total == 0 {
		return 0, 0, 0
	}
	first = (e.CurrentPage()-1)*e.pageSize + 1
	last = first + e.pageSize - 1
	if last > total {
		last = total
	}
	return first, last, total
}

// Get returns a copy of the record with the given id.
func (e *Engine) Get(id string) (Driver, bool) {
	for _, d := range e.records {
		if d.ID == id {
			return d.clone(), true
		}
	}
	return Driver{}, false
}

// FixOne enables mobile access for a currently AI-fixable record, moving it
// to Ready. Returns ErrNotFound or ErrNotFixable for anything else.
func (e *Engine) FixOne(id string) error {
	for i := range e.records {
		if e.records[i].ID != id {
			continue
		}
		if e.records[i].Status() != StatusAiFixable {
			return ErrNotFixable
		}
		e.records[i].MobileAccess = true
		return nil
	}
	return ErrNotFound
}

// FixAll applies FixOne semantics to every AI-fixable record and returns
// the count fixed. Idempotent: a second call fixes 0.
func (e *Engine) FixAll() int {
	fixed := 0
	for i := range e.records {
		if e.records[i].Status() == StatusAiFixable {
			e.records[i].MobileAccess = true
			fixed++
		}
	}
	return fixed
}

// Edit overwrites the three mutable fields of a record. A malformed email
// does not reject the edit; it is saved with an error annotation the UI can
// surface. AccountLocked is deliberately untouched.
func (e *Engine) Edit(id string, email string, mobileAccess bool, groups []string) error {
	for i := range e.records {
		if e.records[i].ID != id {
			continue
		}
		email = strings.TrimSpace(email)
		e.records[i].Email = email
		e.records[i].MobileAccess = mobileAccess
		e.records[i].VehicleGroups = append([]string(nil), groups...)
		switch {
		case email == "":
			e.records[i].EditError = "No email provided"
		case !ValidEmail(email):
			e.records[i].EditError = "Invalid email format"
		default:
			e.records[i].EditError = ""
		}
		return nil
	}
	return ErrNotFound
}

// Counts tallies the full roster by status bucket, ignoring the filter.
func (e *Engine) Counts() Counts {
	var c Counts
	for _, d := range e.records {
		switch d.Status() {
		case StatusAiFixable:
			c.AiFixable++
		case StatusManualFixRequired:
			c.ManualFix++
		default:
			c.Ready++
		}
	}
	return c
}

// Suggest returns the driver name closest to a query that matched nothing,
// or "" when the roster is empty or the best candidate is too far off to be
// a plausible typo.
func (e *Engine) Suggest(query string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return ""
	}
	best := ""
	bestDist := -1
	for _, d := range e.records {
		dist := levenshtein.ComputeDistance(q, strings.ToLower(d.Name))
		if bestDist < 0 || dist < bestDist {
			best = d.Name
			bestDist = dist
		}
	}
	if best == "" || bestDist > len(best)/2 {
		return ""
	}
	return best
}
