// package formatter provides functions to export shelf data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/softcover/shelf/internal/models"
)

// ExportToCSV converts shelf items to CSV format with columns: ID, Title, Author, Status, Progress, Score, Categories
func ExportToCSV(items []models.ShelfItem) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Author", "Status", "Progress", "Score", "Categories"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range items {
		record := []string{
			strconv.Itoa(item.Book.ID),
			item.Book.Title,
			item.Book.Author,
			item.Entry.Status,
			fmt.Sprintf("%d%%", item.Book.Progress.Percent()),
			formatScore(item.Entry.Score),
			item.Book.CategoryLine(),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts shelf items to a Markdown document grouped by reading status
func ExportToMarkdown(items []models.ShelfItem, title string) ([]byte, error) {
	var buf bytes.Buffer

	if title == "" {
		title = "My Shelf"
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Books**: %d\n\n", len(items)))

	for _, status := range []string{models.StatusReading, models.StatusRead, models.StatusPlanned} {
		var section []models.ShelfItem
		for _, item := range items {
			if item.Entry.Status == status {
				section = append(section, item)
			}
		}
		if len(section) == 0 {
			continue
		}

		buf.WriteString(fmt.Sprintf("## %s\n\n", status))
		for i, item := range section {
			scorePart := ""
			if item.Entry.Score > 0 {
				scorePart = fmt.Sprintf(" (%s/5)", formatScore(item.Entry.Score))
			}
			buf.WriteString(fmt.Sprintf("%d. %s%s [%d%%]\n", i+1, item.Book.DisplayTitle(), scorePart, item.Book.Progress.Percent()))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts shelf items to plain text format
func ExportToText(items []models.ShelfItem) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Books: %d\n\n", len(items)))
	for i, item := range items {
		buf.WriteString(fmt.Sprintf("%d. %s - %s (%d%%)\n", i+1, item.Book.DisplayTitle(), item.Entry.Status, item.Book.Progress.Percent()))
	}

	return buf.Bytes(), nil
}

// WriteExport renders items in the named format (csv, markdown, txt) and
// writes the result to path, creating parent directories as needed.
func WriteExport(items []models.ShelfItem, format, path string) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case "csv":
		data, err = ExportToCSV(items)
	case "markdown", "md":
		data, err = ExportToMarkdown(items, "")
	case "txt", "text":
		data, err = ExportToText(items)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	return nil
}

func formatScore(score float64) string {
	if score == 0 {
		return ""
	}
	return strconv.FormatFloat(score, 'f', -1, 64)
}
