package output

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spacesedan/corenlp-sentiment/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	FORMAT_CSV  = "csv"
	FORMAT_XLSX = "xlsx"
	FORMAT_JSON = "json"

	SHEET_NAME = "Sentiment"
)

var ErrUnknownFormat = errors.New("unknown output format")

// FormatFromPath picks an output format from a file extension, defaulting
// to CSV.
func FormatFromPath(path string) string {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".xlsx"):
		return FORMAT_XLSX
	case strings.HasSuffix(lower, ".json"):
		return FORMAT_JSON
	default:
		return FORMAT_CSV
	}
}

func Write(w io.Writer, format string, out models.Payload) error {
	switch format {
	case FORMAT_CSV, "":
		return WriteCSV(w, out)
	case FORMAT_XLSX:
		return WriteXLSX(w, out)
	case FORMAT_JSON:
		return WriteJSON(w, out)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// Header is the table header: file and segment columns followed by the
// sentiment columns. SegmentID is only present when the payload tracks it.
func Header(out models.Payload) []string {
	header := []string{"FileID", "SegmentNumber"}
	if tracksSegmentID(out) {
		header = append(header, "SegmentID")
	}
	return append(header, models.OutputHeader[:]...)
}

// Records flattens the payload into table rows matching Header.
func Records(out models.Payload) [][]string {
	trackID := tracksSegmentID(out)
	records := make([][]string, 0, len(out.StringArrayList))
	for i, row := range out.StringArrayList {
		rec := []string{out.FileID, ""}
		if i < len(out.SegmentNumber) {
			rec[1] = strconv.FormatUint(out.SegmentNumber[i], 10)
		}
		if trackID {
			rec = append(rec, out.SegmentID[i])
		}
		records = append(records, append(rec, row[:]...))
	}
	return records
}

func tracksSegmentID(out models.Payload) bool {
	return len(out.SegmentID) > 0 && len(out.SegmentID) == len(out.StringArrayList)
}

func WriteCSV(w io.Writer, out models.Payload) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(out)); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := cw.WriteAll(Records(out)); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}

func WriteJSON(w io.Writer, out models.Payload) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func WriteXLSX(w io.Writer, out models.Payload) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SHEET_NAME); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := setRow(f, 1, Header(out)); err != nil {
		return err
	}
	for i, rec := range Records(out) {
		if err := setRow(f, i+2, rec); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(SHEET_NAME, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}
