package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"

	"github.com/salescope/salescope/modules/scope/filter"
)

type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatXLSX ExportFormat = "xlsx"
)

type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders an already scope-filtered result set into a
// downloadable file. It never touches the warehouse: whatever redaction the
// filter applied is what lands in the file.
type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

func (s *ExportService) Render(rs filter.ResultSet, format ExportFormat) (Export, error) {
	switch format {
	case FormatCSV:
		return s.renderCSV(rs)
	case FormatXLSX:
		return s.renderXLSX(rs)
	default:
		return Export{}, errors.Errorf("unsupported export format %q", format)
	}
}

func (s *ExportService) renderCSV(rs filter.ResultSet) (Export, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, 0, len(rs.Columns))
	for _, col := range rs.Columns {
		header = append(header, col.Name)
	}
	if err := w.Write(header); err != nil {
		return Export{}, errors.Wrap(err, "writing csv header")
	}

	for _, row := range rs.Rows {
		record := make([]string, 0, len(row.Cells))
		for _, cell := range row.Cells {
			record = append(record, cellString(cell))
		}
		if err := w.Write(record); err != nil {
			return Export{}, errors.Wrap(err, "writing csv row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return Export{}, errors.Wrap(err, "flushing csv")
	}

	return Export{
		Filename:    exportFilename("csv"),
		ContentType: "text/csv",
		Data:        buf.Bytes(),
	}, nil
}

func (s *ExportService) renderXLSX(rs filter.ResultSet) (Export, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Sheet1"
	for i, col := range rs.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return Export{}, errors.Wrap(err, "naming header cell")
		}
		if err := f.SetCellValue(sheet, cell, col.Name); err != nil {
			return Export{}, errors.Wrap(err, "writing header cell")
		}
	}
	for r, row := range rs.Rows {
		for c, value := range row.Cells {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return Export{}, errors.Wrap(err, "naming data cell")
			}
			if err := f.SetCellValue(sheet, cell, cellString(value)); err != nil {
				return Export{}, errors.Wrap(err, "writing data cell")
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return Export{}, errors.Wrap(err, "serializing workbook")
	}
	return Export{
		Filename:    exportFilename("xlsx"),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        buf.Bytes(),
	}, nil
}

func exportFilename(ext string) string {
	return fmt.Sprintf("salescope-export-%s.%s", time.Now().Format("20060102-150405"), ext)
}

func cellString(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.Format("2006-01-02")
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}
