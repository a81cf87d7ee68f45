package persistence

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/locvowork/company_registry/internal/domain"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// Codec turns record descriptors into bytes and back.
type Codec interface {
	Name() string
	Encode(w io.Writer, records []domain.Descriptor) error
	Decode(r io.Reader) ([]domain.Descriptor, error)
}

// CodecForPath picks a codec from the file extension.
func CodecForPath(path string) (Codec, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSONCodec{}, nil
	case ".yaml", ".yml":
		return YAMLCodec{}, nil
	case ".csv":
		return CSVCodec{}, nil
	case ".xlsx":
		return XLSXCodec{}, nil
	default:
		return nil, fmt.Errorf("no codec for file extension %q", filepath.Ext(path))
	}
}

// =============================================================================
// JSON
// =============================================================================

type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Encode(w io.Writer, records []domain.Descriptor) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(nonNil(records))
}

func (JSONCodec) Decode(r io.Reader) ([]domain.Descriptor, error) {
	var records []domain.Descriptor
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding json: %w", err)
	}
	return records, nil
}

// =============================================================================
// YAML
// =============================================================================

type YAMLCodec struct{}

func (YAMLCodec) Name() string { return "yaml" }

func (YAMLCodec) Encode(w io.Writer, records []domain.Descriptor) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(nonNil(records)); err != nil {
		return err
	}
	return enc.Close()
}

func (YAMLCodec) Decode(r io.Reader) ([]domain.Descriptor, error) {
	var records []domain.Descriptor
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&records); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}
	return records, nil
}

// =============================================================================
// CSV / XLSX share a tabular layout
// =============================================================================

var tableHeader = []string{"id", "name", "department", "salary", "kind", "factor"}

func toRow(d domain.Descriptor) []string {
	return []string{
		strconv.Itoa(d.ID),
		d.Name,
		d.Department,
		strconv.FormatFloat(d.Salary, 'f', -1, 64),
		string(d.Kind),
		strconv.FormatFloat(d.Factor, 'f', -1, 64),
	}
}

func fromRow(line int, row []string) (domain.Descriptor, error) {
	// excelize trims trailing empty cells
	for len(row) < len(tableHeader) {
		row = append(row, "")
	}
	if len(row) > len(tableHeader) {
		return domain.Descriptor{}, fmt.Errorf("row %d: expected %d columns, got %d", line, len(tableHeader), len(row))
	}

	id, err := strconv.Atoi(strings.TrimSpace(row[0]))
	if err != nil {
		return domain.Descriptor{}, fmt.Errorf("row %d: invalid id %q: %w", line, row[0], err)
	}
	salary, err := parseFloat(row[3])
	if err != nil {
		return domain.Descriptor{}, fmt.Errorf("row %d: invalid salary %q: %w", line, row[3], err)
	}
	factor, err := parseFloat(row[5])
	if err != nil {
		return domain.Descriptor{}, fmt.Errorf("row %d: invalid factor %q: %w", line, row[5], err)
	}
	return domain.Descriptor{
		ID:         id,
		Name:       row[1],
		Department: row[2],
		Salary:     salary,
		Kind:       domain.Kind(strings.TrimSpace(row[4])),
		Factor:     factor,
	}, nil
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func checkHeader(row []string) error {
	if len(row) < len(tableHeader) {
		return fmt.Errorf("unexpected header %v", row)
	}
	for i, col := range tableHeader {
		if strings.TrimSpace(strings.ToLower(row[i])) != col {
			return fmt.Errorf("unexpected header column %d: %q", i+1, row[i])
		}
	}
	return nil
}

type CSVCodec struct{}

func (CSVCodec) Name() string { return "csv" }

func (CSVCodec) Encode(w io.Writer, records []domain.Descriptor) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tableHeader); err != nil {
		return err
	}
	for _, d := range records {
		if err := cw.Write(toRow(d)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (CSVCodec) Decode(r io.Reader) ([]domain.Descriptor, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("decoding csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if err := checkHeader(rows[0]); err != nil {
		return nil, fmt.Errorf("decoding csv: %w", err)
	}
	records := make([]domain.Descriptor, 0, len(rows)-1)
	for i, row := range rows[1:] {
		d, err := fromRow(i+2, row)
		if err != nil {
			return nil, fmt.Errorf("decoding csv: %w", err)
		}
		records = append(records, d)
	}
	return records, nil
}

const xlsxSheet = "Employees"

type XLSXCodec struct{}

func (XLSXCodec) Name() string { return "xlsx" }

func (XLSXCodec) Encode(w io.Writer, records []domain.Descriptor) error {
	f, err := BuildWorkbook(records)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteTo(w)
	return err
}

func (XLSXCodec) Decode(r io.Reader) ([]domain.Descriptor, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("decoding xlsx: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(xlsxSheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("decoding xlsx: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if err := checkHeader(rows[0]); err != nil {
		return nil, fmt.Errorf("decoding xlsx: %w", err)
	}
	records := make([]domain.Descriptor, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		d, err := fromRow(i+2, row)
		if err != nil {
			return nil, fmt.Errorf("decoding xlsx: %w", err)
		}
		records = append(records, d)
	}
	return records, nil
}

// BuildWorkbook renders the records into a single-sheet workbook with a bold
// header row. Salary and factor cells are written as numbers.
func BuildWorkbook(records []domain.Descriptor) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", xlsxSheet)

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	sw, err := f.NewStreamWriter(xlsxSheet)
	if err != nil {
		f.Close()
		return nil, err
	}
	header := make([]interface{}, len(tableHeader))
	for i, h := range tableHeader {
		header[i] = h
	}
	if err := sw.SetRow("A1", header, excelize.RowOpts{StyleID: headerStyle}); err != nil {
		f.Close()
		return nil, err
	}
	for i, d := range records {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{d.ID, d.Name, d.Department, d.Salary, string(d.Kind), d.Factor}
		if err := sw.SetRow(cell, row); err != nil {
			f.Close()
			return nil, err
		}
	}
	if err := sw.Flush(); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func nonNil(records []domain.Descriptor) []domain.Descriptor {
	if records == nil {
		return []domain.Descriptor{}
	}
	return records
}

// EncodeToBytes is a convenience wrapper around Codec.Encode.
func EncodeToBytes(c Codec, records []domain.Descriptor) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Encode(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
