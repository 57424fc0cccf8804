package input

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spacesedan/corenlp-sentiment/internal/models"
	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedFormat = errors.New("unsupported input format")

type Options struct {
	// FileID overrides the file identifier; defaults to the file's base name.
	FileID string
	// Header skips the first row of CSV, TSV and XLSX inputs.
	Header bool
}

// ReadFile loads a batch of documents. Text files hold one document per
// line; CSV, TSV and XLSX files hold the document in the first column and an
// optional segment identifier in the second; JSON files hold a Payload.
func ReadFile(path string, opts Options) (models.Payload, error) {
	fileID := opts.FileID
	if fileID == "" {
		fileID = filepath.Base(path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".xlsx" {
		records, err := readExcel(path)
		if err != nil {
			return models.Payload{}, err
		}
		return fromRecords(fileID, records, opts.Header), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return models.Payload{}, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	switch ext {
	case ".txt", "":
		return ReadLines(fileID, f)
	case ".csv", ".tsv":
		records, err := readDelimited(f, ext == ".tsv")
		if err != nil {
			return models.Payload{}, err
		}
		return fromRecords(fileID, records, opts.Header), nil
	case ".json":
		return ReadPayload(f, opts.FileID)
	default:
		return models.Payload{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

func ReadLines(fileID string, r io.Reader) (models.Payload, error) {
	var docs []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		docs = append(docs, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return models.Payload{}, fmt.Errorf("failed to read lines: %w", err)
	}
	return models.NewPayload(fileID, docs, nil), nil
}

// ReadPayload decodes a JSON payload. Missing segment numbers are filled with
// document positions.
func ReadPayload(r io.Reader, fileID string) (models.Payload, error) {
	var p models.Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return p, fmt.Errorf("failed to decode payload: %w", err)
	}
	if fileID != "" {
		p.FileID = fileID
	}
	if len(p.SegmentNumber) == 0 {
		p.SegmentNumber = models.NewPayload(p.FileID, p.StringList, nil).SegmentNumber
	}
	p.StringArrayList = nil
	p.Errors = nil
	return p, nil
}

func readDelimited(r io.Reader, tsv bool) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	if tsv {
		reader.Comma = '\t'
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse delimited input: %w", err)
	}
	return records, nil
}

func readExcel(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets in Excel file")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

func fromRecords(fileID string, records [][]string, header bool) models.Payload {
	if header && len(records) > 0 {
		records = records[1:]
	}

	docs := make([]string, len(records))
	ids := make([]string, len(records))
	hasIDs := false
	for i, rec := range records {
		if len(rec) > 0 {
			docs[i] = rec[0]
		}
		if len(rec) > 1 && rec[1] != "" {
			ids[i] = rec[1]
			hasIDs = true
		}
	}
	if !hasIDs {
		ids = nil
	}

	return models.NewPayload(fileID, docs, ids)
}
