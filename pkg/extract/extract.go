// Package extract converts organizational documents (CSV, JSON, PDF, plain
// text) into plain text suitable for AI compliance analysis.
package extract

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ErrUnsupportedFormat is returned when a file cannot be interpreted as any
// known document format.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Text extracts plain text from the document at path. The format is detected
// by file extension; unknown extensions are attempted as plain text before
// failing with ErrUnsupportedFormat.
func Text(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("document not found: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return pdfText(path)
	case ".csv":
		return csvText(path)
	case ".json":
		return jsonText(path)
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return plainTextFallback(path)
	}
}

// csvText renders a CSV file as header-labeled rows:
// "Row N: col: val | col: val". Empty cells are skipped.
func csvText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(rows) == 0 {
		return "", nil
	}

	headers := rows[0]
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("CSV Document with columns: %s\n", strings.Join(headers, ", ")))

	for i, row := range rows[1:] {
		var cells []string
		for j, v := range row {
			if j >= len(headers) || v == "" {
				continue
			}
			cells = append(cells, fmt.Sprintf("%s: %s", headers[j], v))
		}
		sb.WriteString(fmt.Sprintf("\nRow %d: %s", i+1, strings.Join(cells, " | ")))
	}
	return sb.String(), nil
}

// jsonText pretty-prints a JSON file, preserving its full structure
func jsonText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return "", fmt.Errorf("failed to parse JSON: %w", err)
	}
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("JSON Document:\n%s", pretty), nil
}

// plainTextFallback attempts to read an unknown extension as UTF-8 text
func plainTextFallback(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) || strings.ContainsRune(string(data), 0) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	return string(data), nil
}
