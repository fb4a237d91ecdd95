package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/softcover/shelf/internal/models"
	"github.com/softcover/shelf/internal/shared"
)

const bookColumns = "id, sequence, remote_id, title, author, cover_url, categories, progress_current, progress_total, description, year, isbn, score, created_at, updated_at, deleted_at"

// BookRepository implements models.Repository[*models.CachedBook] for the
// local catalog cache.
//
// Handles caching with soft delete support and remote-ID lookups. Books are
// cached on fetch so listings and exports survive an unreachable backend.
type BookRepository struct {
	db *sql.DB
}

// NewBookRepository creates a new BookRepository with the given database connection
func NewBookRepository(db *sql.DB) *BookRepository {
	return &BookRepository{db: db}
}

// Create inserts a new [models.CachedBook] into the database with generated ID and sequence
func (r *BookRepository) Create(book *models.CachedBook) error {
	sequence, err := NextSequence(r.db, "books")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	book.SetID(shared.GenerateID())
	book.SetSequence(sequence)

	if err := book.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO books (` + bookColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)
	`

	_, err = r.db.Exec(query,
		book.ID(),
		book.Sequence(),
		book.RemoteID(),
		book.Title(),
		book.Author(),
		book.CoverURL(),
		book.Categories(),
		book.ProgressCurrent(),
		book.ProgressTotal(),
		book.Description(),
		book.Year(),
		book.ISBN(),
		book.Score(),
		book.CreatedAt(),
		book.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert book: %w", err)
	}

	return nil
}

// Get retrieves a cached book by ID, excluding soft-deleted rows
func (r *BookRepository) Get(id string) (*models.CachedBook, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByRemoteID retrieves a cached book by its catalog ID
func (r *BookRepository) GetByRemoteID(remoteID int) (*models.CachedBook, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE remote_id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, remoteID))
}

// Update modifies an existing cached book in the database
func (r *BookRepository) Update(book *models.CachedBook) error {
	if err := book.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	book.SetUpdatedAt(now)

	query := `
		UPDATE books
		SET title = ?, author = ?, cover_url = ?, categories = ?, progress_current = ?, progress_total = ?, description = ?, year = ?, isbn = ?, score = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		book.Title(),
		book.Author(),
		book.CoverURL(),
		book.Categories(),
		book.ProgressCurrent(),
		book.ProgressTotal(),
		book.Description(),
		book.Year(),
		book.ISBN(),
		book.Score(),
		now,
		book.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("book not found or already deleted: %s", book.ID())
	}

	return nil
}

// Delete soft-deletes a cached book by ID
func (r *BookRepository) Delete(id string) error {
	query := `
		UPDATE books
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("book not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all cached books matching the given criteria, excluding soft-deleted rows
//
// Supported criteria: "title" (substring match), "category" (substring match
// against the joined label list).
func (r *BookRepository) List(criteria map[string]any) ([]*models.CachedBook, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if title, ok := criteria["title"].(string); ok && title != "" {
		query += " AND title LIKE ?"
		args = append(args, "%"+title+"%")
	}

	if category, ok := criteria["category"].(string); ok && category != "" {
		query += " AND categories LIKE ?"
		args = append(args, "%"+category+"%")
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	var books []*models.CachedBook
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate books: %w", err)
	}

	return books, nil
}

func (r *BookRepository) scanOne(row *sql.Row) (*models.CachedBook, error) {
	book, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, shared.ErrBookNotFound
	}
	return book, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBook(row scanner) (*models.CachedBook, error) {
	var (
		id          string
		sequence    int
		remoteID    int
		title       string
		author      string
		coverURL    string
		categories  string
		current     int
		total       int
		description string
		year        int
		isbn        string
		score       float64
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := row.Scan(&id, &sequence, &remoteID, &title, &author, &coverURL, &categories,
		&current, &total, &description, &year, &isbn, &score, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan book: %w", err)
	}

	var cats []string
	if categories != "" {
		cats = strings.Split(categories, ",")
	}

	book := models.NewCachedBook(sequence, remoteID, models.Book{
		Title:       title,
		Author:      author,
		CoverURL:    coverURL,
		Categories:  cats,
		Description: description,
		Year:        year,
		ISBN:        isbn,
		Score:       score,
		Progress:    models.Progress{Current: current, Total: total},
	})
	book.SetID(id)
	book.SetCreatedAt(createdAt)
	book.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		t := deletedAt.Time
		book.SetDeletedAt(&t)
	}

	return book, nil
}
