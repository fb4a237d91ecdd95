package models

import (
	"fmt"
	"strings"
)

// Status values for a shelf entry, matching the backend's reading states.
const (
	StatusRead    = "Read"
	StatusReading = "Reading"
	StatusPlanned = "Plan to read"
)

// categoryLabels maps the backend's numeric category codes to display labels.
var categoryLabels = map[int]string{
	1:  "Romance",
	2:  "Young adults",
	3:  "Fantasy",
	4:  "Action",
	5:  "Science Fiction",
	6:  "Mystery",
	7:  "Thriller",
	8:  "Horror",
	9:  "Historical Fiction",
	10: "Biography",
	11: "Self-Help",
	12: "Dystopian",
}

// CategoryFromCode resolves a numeric category code to its label. Unknown
// codes render as "Category <n>" so list output never shows a blank cell.
func CategoryFromCode(code int) string {
	if label, ok := categoryLabels[code]; ok {
		return label
	}
	return fmt.Sprintf("Category %d", code)
}

// CategoryLabels returns all known category labels keyed by code.
func CategoryLabels() map[int]string {
	out := make(map[int]string, len(categoryLabels))
	for k, v := range categoryLabels {
		out[k] = v
	}
	return out
}

// User is the authenticated account returned by the auth endpoint.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Image    string `json:"image,omitempty"`
}

// Registration is the payload for creating a new account.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// Progress tracks reading position within a book.
type Progress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// Clamped returns a copy with Current limited to Total. The second return
// reports whether clamping was applied.
func (p Progress) Clamped() (Progress, bool) {
	if p.Total > 0 && p.Current > p.Total {
		return Progress{Current: p.Total, Total: p.Total}, true
	}
	return p, false
}

// Percent reports completion as an integer percentage. A zero total is 0%.
func (p Progress) Percent() int {
	if p.Total <= 0 {
		return 0
	}
	pct := p.Current * 100 / p.Total
	if pct > 100 {
		pct = 100
	}
	return pct
}

// Book is a normalized catalog entry. Authors, publishers, and categories
// arrive in several shapes on the wire; by the time a Book exists they are
// plain strings.
type Book struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Publisher   string   `json:"publisher,omitempty"`
	Categories  []string `json:"categories,omitempty"`
	CoverURL    string   `json:"cover_url,omitempty"`
	Description string   `json:"description,omitempty"`
	Year        int      `json:"year,omitempty"`
	ISBN        string   `json:"isbn,omitempty"`
	Score       float64  `json:"score,omitempty"`
	Progress    Progress `json:"progress"`
}

// DisplayTitle returns the title with the author appended when known.
func (b Book) DisplayTitle() string {
	if b.Author == "" {
		return b.Title
	}
	return fmt.Sprintf("%s by %s", b.Title, b.Author)
}

// CategoryLine joins the book's categories for single-line output.
func (b Book) CategoryLine() string {
	return strings.Join(b.Categories, ", ")
}

// ListEntry is a row on the user's shelf pointing at a catalog book.
// Field names follow the userlist wire contract.
type ListEntry struct {
	ID         int     `json:"id"`
	UserID     int     `json:"userId"`
	BookID     int     `json:"bookId"`
	Status     string  `json:"status"`
	Score      float64 `json:"score,omitempty"`
	Progress   int     `json:"progress,omitempty"`
	FinishedAt string  `json:"finishedAt,omitempty"`
	CreatedAt  string  `json:"createdAt,omitempty"`
}

// ShelfItem is a list entry joined with its catalog book.
type ShelfItem struct {
	Book  Book      `json:"book"`
	Entry ListEntry `json:"entry"`
}

// Activity is a logged reading event.
type Activity struct {
	ID        int    `json:"id"`
	UserID    int    `json:"user_id"`
	BookID    int    `json:"book_id,omitempty"`
	Kind      string `json:"kind"`
	Detail    string `json:"detail,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Goal is a reading target for a period.
type Goal struct {
	ID      int    `json:"id"`
	UserID  int    `json:"user_id"`
	Target  int    `json:"target"`
	Count   int    `json:"count"`
	Period  string `json:"period"`
	Created string `json:"created_at,omitempty"`
}

// Percent reports goal completion as an integer percentage.
func (g Goal) Percent() int {
	if g.Target <= 0 {
		return 0
	}
	pct := g.Count * 100 / g.Target
	if pct > 100 {
		pct = 100
	}
	return pct
}

// Stat is a single aggregate figure from the stats endpoint.
type Stat struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}
