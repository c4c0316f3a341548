// package formatter exports media item lists to CSV, Markdown, plain text or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/tedtagger/internal/models"
	"github.com/desertthunder/tedtagger/internal/shared"
)

// Format is an export format name.
type Format string

const (
	CSV      Format = "csv"
	Markdown Format = "markdown"
	Text     Format = "text"
	JSON     Format = "json"
)

// Formats lists the supported export formats.
var Formats = []Format{CSV, Markdown, Text, JSON}

// ParseFormat validates a format name, accepting "md" and "txt" as aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "csv":
		return CSV, nil
	case "markdown", "md":
		return Markdown, nil
	case "text", "txt", "":
		return Text, nil
	case "json":
		return JSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, name)
	}
}

// Extension is the file extension used by [WriteExport].
func (f Format) Extension() string {
	switch f {
	case Markdown:
		return ".md"
	case Text:
		return ".txt"
	default:
		return "." + string(f)
	}
}

var csvHeaders = []string{"UniqueID", "FileName", "CreationTime", "MimeType", "Width", "Height", "GoogleMediaItemID", "URL"}

// ExportToCSV writes one row per media item below a header row.
func ExportToCSV(items []models.MediaItem) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(csvHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range items {
		record := []string{
			item.UniqueID,
			item.FileName,
			item.CreationTime,
			item.MimeType,
			strconv.Itoa(item.Width),
			strconv.Itoa(item.Height),
			item.GoogleMediaItemID,
			item.URL,
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

// ExportToMarkdown renders items as a Markdown table under title.
func ExportToMarkdown(title string, items []models.MediaItem) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", title)
	fmt.Fprintf(&buf, "**Media items**: %d\n\n", len(items))
	if len(items) == 0 {
		return buf.Bytes(), nil
	}

	buf.WriteString("| # | File | Created | Size | ID |\n")
	buf.WriteString("|---|------|---------|------|----|\n")
	for i, item := range items {
		name := escapeCell(item.FileName)
		if item.URL != "" {
			name = fmt.Sprintf("[%s](%s)", name, item.URL)
		}
		fmt.Fprintf(&buf, "| %d | %s | %s | %s | `%s` |\n",
			i+1, name, escapeCell(item.CreationTime), dimensions(item), item.UniqueID)
	}

	return buf.Bytes(), nil
}

// ExportToText renders items as a numbered list under title.
func ExportToText(title string, items []models.MediaItem) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s\n", title)
	fmt.Fprintf(&buf, "Media items: %d\n\n", len(items))

	for i, item := range items {
		fmt.Fprintf(&buf, "%d. %s (%s)", i+1, item.FileName, item.UniqueID)
		if item.CreationTime != "" {
			fmt.Fprintf(&buf, " %s", item.CreationTime)
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// Export renders items in format. title is ignored by CSV and JSON.
func Export(format Format, title string, items []models.MediaItem) ([]byte, error) {
	switch format {
	case CSV:
		return ExportToCSV(items)
	case Markdown:
		return ExportToMarkdown(title, items)
	case Text:
		return ExportToText(title, items)
	case JSON:
		if items == nil {
			items = []models.MediaItem{}
		}
		return shared.MarshalJSON(items, true)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// WriteExport renders items and writes them to path.
//
// An empty path defaults to "media_items" plus the format extension.
func WriteExport(format Format, title string, items []models.MediaItem, path string) (string, error) {
	if path == "" {
		path = "media_items" + format.Extension()
	}

	data, err := Export(format, title, items)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

func dimensions(item models.MediaItem) string {
	if item.Width <= 0 || item.Height <= 0 {
		return ""
	}
	return fmt.Sprintf("%dx%d", item.Width, item.Height)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
