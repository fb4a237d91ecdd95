package ui

import (
	"fmt"

	"github.com/softcover/shelf/internal/models"
)

// shelfListItem wraps [models.ShelfItem] to implement list.Item.
type shelfListItem struct {
	item models.ShelfItem
}

func (i shelfListItem) FilterValue() string { return i.item.Book.Title }
func (i shelfListItem) Title() string       { return i.item.Book.DisplayTitle() }
func (i shelfListItem) Description() string {
	desc := i.item.Entry.Status
	if i.item.Book.Progress.Total > 0 {
		desc = fmt.Sprintf("%s • %d%%", desc, i.item.Book.Progress.Percent())
	}
	if line := i.item.Book.CategoryLine(); line != "" {
		desc = fmt.Sprintf("%s • %s", desc, line)
	}
	return desc
}

// bookItem wraps [models.Book] to implement list.Item for search results.
type bookItem struct {
	book models.Book
}

func (i bookItem) FilterValue() string { return i.book.Title }
func (i bookItem) Title() string       { return i.book.DisplayTitle() }
func (i bookItem) Description() string {
	desc := i.book.CategoryLine()
	if i.book.Year > 0 {
		if desc != "" {
			desc = fmt.Sprintf("%s • %d", desc, i.book.Year)
		} else {
			desc = fmt.Sprintf("%d", i.book.Year)
		}
	}
	return desc
}
