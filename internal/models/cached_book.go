package models

import (
	"fmt"
	"strings"
	"time"
)

// CachedBook is a locally persisted catalog book. Rows are cached on fetch
// so list output and exports keep working when the backend is unreachable.
//
// Implements the [Model] interface with soft delete support.
type CachedBook struct {
	id              string
	sequence        int
	remoteID        int
	title           string
	author          string
	coverURL        string
	categories      string
	progressCurrent int
	progressTotal   int
	description     string
	year            int
	isbn            string
	score           float64
	createdAt       time.Time
	updatedAt       time.Time
	deletedAt       *time.Time
}

// NewCachedBook creates a CachedBook from a normalized catalog [Book].
// The database ID is assigned by the repository on Create.
func NewCachedBook(sequence, remoteID int, book Book) *CachedBook {
	now := time.Now()
	return &CachedBook{
		sequence:        sequence,
		remoteID:        remoteID,
		title:           book.Title,
		author:          book.Author,
		coverURL:        book.CoverURL,
		categories:      strings.Join(book.Categories, ","),
		progressCurrent: book.Progress.Current,
		progressTotal:   book.Progress.Total,
		description:     book.Description,
		year:            book.Year,
		isbn:            book.ISBN,
		score:           book.Score,
		createdAt:       now,
		updatedAt:       now,
	}
}

func (b *CachedBook) ID() string            { return b.id }
func (b *CachedBook) Sequence() int         { return b.sequence }
func (b *CachedBook) RemoteID() int         { return b.remoteID }
func (b *CachedBook) Title() string         { return b.title }
func (b *CachedBook) Author() string        { return b.author }
func (b *CachedBook) CoverURL() string      { return b.coverURL }
func (b *CachedBook) Categories() string    { return b.categories }
func (b *CachedBook) ProgressCurrent() int  { return b.progressCurrent }
func (b *CachedBook) ProgressTotal() int    { return b.progressTotal }
func (b *CachedBook) Description() string   { return b.description }
func (b *CachedBook) Year() int             { return b.year }
func (b *CachedBook) ISBN() string          { return b.isbn }
func (b *CachedBook) Score() float64        { return b.score }
func (b *CachedBook) CreatedAt() time.Time  { return b.createdAt }
func (b *CachedBook) UpdatedAt() time.Time  { return b.updatedAt }
func (b *CachedBook) DeletedAt() *time.Time { return b.deletedAt }

func (b *CachedBook) SetID(id string)          { b.id = id }
func (b *CachedBook) SetSequence(sequence int) { b.sequence = sequence }
func (b *CachedBook) SetCreatedAt(t time.Time) { b.createdAt = t }
func (b *CachedBook) SetUpdatedAt(t time.Time) { b.updatedAt = t }
func (b *CachedBook) SetDeletedAt(t *time.Time) { b.deletedAt = t }
func (b *CachedBook) SetProgress(current, total int) {
	b.progressCurrent = current
	b.progressTotal = total
}

// IsDeleted reports whether the row has been soft-deleted.
func (b *CachedBook) IsDeleted() bool { return b.deletedAt != nil }

// Validate checks required fields before persistence.
func (b *CachedBook) Validate() error {
	if b.title == "" {
		return fmt.Errorf("cached book title is required")
	}
	if b.remoteID <= 0 {
		return fmt.Errorf("cached book remote_id must be positive, got %d", b.remoteID)
	}
	if b.progressCurrent < 0 || b.progressTotal < 0 {
		return fmt.Errorf("cached book progress cannot be negative")
	}
	return nil
}

// ToBook converts the cached row back into a catalog [Book] DTO.
func (b *CachedBook) ToBook() Book {
	var categories []string
	if b.categories != "" {
		categories = strings.Split(b.categories, ",")
	}
	return Book{
		ID:          b.remoteID,
		Title:       b.title,
		Author:      b.author,
		CoverURL:    b.coverURL,
		Categories:  categories,
		Description: b.description,
		Year:        b.year,
		ISBN:        b.isbn,
		Score:       b.score,
		Progress:    Progress{Current: b.progressCurrent, Total: b.progressTotal},
	}
}
