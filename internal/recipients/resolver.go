package recipients

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/pushworks/wapush/internal/blobstore"
	"github.com/xuri/excelize/v2"
)

// phoneNumberColumn is the header of the CSV column carrying recipients.
const phoneNumberColumn = "Phone Number"

// FileFormat is the closed set of recipient file formats.
type FileFormat string

const (
	FormatCSV         FileFormat = "csv"
	FormatXLSX        FileFormat = "xlsx"
	FormatUnsupported FileFormat = "unsupported"
)

// FormatFromPath derives the file format from the extension, case-insensitive.
func FormatFromPath(filePath string) FileFormat {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filePath), "."))
	switch ext {
	case "csv":
		return FormatCSV
	case "xlsx":
		return FormatXLSX
	default:
		return FormatUnsupported
	}
}

// Resolver turns a recipient list file reference into an ordered slice of
// phone numbers. Both formats are fully materialized in memory; recipient
// files are expected to be small.
type Resolver struct {
	fetcher blobstore.ObjectFetcher
}

func NewResolver(fetcher blobstore.ObjectFetcher) (*Resolver, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("object fetcher is required")
	}
	return &Resolver{fetcher: fetcher}, nil
}

// Resolve returns the recipients of the referenced file in row order.
// An unsupported extension yields an empty list, not an error.
func (r *Resolver) Resolve(ctx context.Context, filePath string) ([]string, error) {
	if r == nil || r.fetcher == nil {
		return nil, fmt.Errorf("resolver is not initialized")
	}
	if strings.TrimSpace(filePath) == "" {
		return nil, fmt.Errorf("file path is required")
	}

	switch FormatFromPath(filePath) {
	case FormatCSV:
		return r.resolveCSV(ctx, filePath)
	case FormatXLSX:
		return r.resolveXLSX(ctx, filePath)
	default:
		return []string{}, nil
	}
}

func (r *Resolver) resolveCSV(ctx context.Context, filePath string) ([]string, error) {
	body, err := r.fetcher.Fetch(ctx, filePath)
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck // read-only stream

	reader := csv.NewReader(body)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header from %q: %w", filePath, err)
	}

	phoneColumn := -1
	for i, name := range header {
		if strings.TrimSpace(name) == phoneNumberColumn {
			phoneColumn = i
			break
		}
	}
	if phoneColumn < 0 {
		return nil, fmt.Errorf("csv file %q has no %q column", filePath, phoneNumberColumn)
	}

	var numbers []string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row from %q: %w", filePath, err)
		}
		if phoneColumn < len(record) {
			numbers = append(numbers, record[phoneColumn])
		}
	}

	return numbers, nil
}

func (r *Resolver) resolveXLSX(ctx context.Context, filePath string) ([]string, error) {
	body, err := r.fetcher.Fetch(ctx, filePath)
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck // read-only stream

	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet %q: %w", filePath, err)
	}

	workbook, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse spreadsheet %q: %w", filePath, err)
	}
	defer workbook.Close() //nolint:errcheck // read-only workbook

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return []string{}, nil
	}

	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet rows from %q: %w", filePath, err)
	}
	if len(rows) <= 1 {
		return []string{}, nil
	}

	// First row is the header; first cell of every following row is the
	// recipient. Blank cells are skipped.
	var numbers []string
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		if value := strings.TrimSpace(row[0]); value != "" {
			numbers = append(numbers, value)
		}
	}

	return numbers, nil
}
