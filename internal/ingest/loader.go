// Package ingest loads hospital knowledge-base files from disk and splits
// them into chunks suitable for indexing.
package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Rrens/hospital-chat/internal/domain"
	"github.com/rs/zerolog/log"
)

// LoadDir walks the document directory and loads every supported file.
// CSV files become one document per row, text and markdown files one
// document per file. Unsupported extensions are skipped with a warning.
func LoadDir(dir string) ([]domain.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read document directory: %w", err)
	}

	var docs []domain.Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		var loaded []domain.Document
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".csv":
			loaded, err = LoadCSV(path)
		case ".txt", ".md":
			loaded, err = LoadText(path)
		default:
			log.Warn().Str("file", entry.Name()).Msg("skipping unsupported document type")
			continue
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, loaded...)
	}

	log.Info().Str("dir", dir).Int("documents", len(docs)).Msg("loaded knowledge base documents")
	return docs, nil
}

// LoadCSV renders each data row as "header: value | header: value" so the
// column names survive into the indexed text. Empty cells are dropped.
func LoadCSV(path string) ([]domain.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv file %s: %w", filepath.Base(path), err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	headers := records[0]
	source := filepath.Base(path)

	docs := make([]domain.Document, 0, len(records)-1)
	for _, row := range records[1:] {
		var parts []string
		for i, cell := range row {
			if i >= len(headers) {
				break
			}
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			parts = append(parts, fmt.Sprintf("%s: %s", strings.TrimSpace(headers[i]), cell))
		}
		if len(parts) == 0 {
			continue
		}
		docs = append(docs, domain.Document{Text: strings.Join(parts, " | "), Source: source})
	}

	return docs, nil
}

// LoadText loads a plain-text or markdown file as a single document
func LoadText(path string) ([]domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read text file: %w", err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, nil
	}

	return []domain.Document{{Text: text, Source: filepath.Base(path)}}, nil
}
