package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned when an uploaded file is not supported.
var ErrUnsupportedFormat = errors.New("unsupported file format")

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// RawRow maps a spreadsheet column header, exactly as written in the file,
// to the cell value of one data row. Unrecognized headers are carried along
// and ignored by the mapper.
type RawRow map[string]string

type tableData struct {
	headers []string
	rows    [][]string
}

// rawRow builds the header-to-cell mapping for one data row.
func (t tableData) rawRow(idx int) RawRow {
	row := t.rows[idx]
	raw := make(RawRow, len(t.headers))
	for col, header := range t.headers {
		if header == "" || col >= len(row) {
			continue
		}
		raw[header] = row[col]
	}
	return raw
}

func parseTable(fileName string, payload []byte) (tableData, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".csv":
		return parseCSV(payload)
	case ".xlsx":
		return parseExcel(payload)
	default:
		return tableData{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

func parseCSV(payload []byte) (tableData, error) {
	reader := bufio.NewReader(bytes.NewReader(payload))
	if prefix, err := reader.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = reader.Discard(len(byteOrderMark))
	}

	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return tableData{}, fmt.Errorf("failed to read csv: %w", err)
	}

	return normalizeTable(records)
}

func parseExcel(payload []byte) (tableData, error) {
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return tableData{}, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return tableData{}, errors.New("excel file has no sheets")
	}

	// First sheet only.
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return tableData{}, fmt.Errorf("failed to read rows from xlsx: %w", err)
	}

	return normalizeTable(rows)
}

// normalizeTable takes the first record as the header row and the remainder
// as data rows, dropping rows that are entirely blank.
func normalizeTable(records [][]string) (tableData, error) {
	if len(records) == 0 {
		return tableData{}, errors.New("no rows found in file")
	}

	headers := make([]string, len(records[0]))
	for i, value := range records[0] {
		headers[i] = strings.TrimSpace(value)
	}
	if len(cleanRow(headers)) == 0 {
		return tableData{}, errors.New("header row is empty")
	}

	var dataRows [][]string
	for _, row := range records[1:] {
		if len(cleanRow(row)) == 0 {
			continue
		}
		dataRows = append(dataRows, padRow(row, len(headers)))
	}

	return tableData{headers: headers, rows: dataRows}, nil
}

func cleanRow(row []string) []string {
	var cleaned []string
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			cleaned = append(cleaned, cell)
		}
	}
	return cleaned
}

func padRow(row []string, length int) []string {
	if len(row) >= length {
		return row[:length]
	}
	padded := make([]string, length)
	copy(padded, row)
	return padded
}
