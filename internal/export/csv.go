// Package export serializes record sets into the flat CSV form offered
// for download. Output is a pure function of the record set: the same
// records always produce byte-identical output.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"gleaner/internal/records"
)

// CSV renders the records as one header row plus one data row per
// record, using the fixed column order from the records field registry.
// List-valued cells are joined with "; "; unset optionals render empty.
func CSV(recs []records.Record) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(records.Columns()); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, record := range recs {
		row, err := rowFor(record)
		if err != nil {
			return nil, fmt.Errorf("render record %d: %w", i, err)
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("write record %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func rowFor(record records.Record) ([]string, error) {
	columns := records.Columns()
	row := make([]string, len(columns))
	for i, column := range columns {
		cell, err := records.CellValue(record, column)
		if err != nil {
			return nil, err
		}
		row[i] = cell
	}
	return row, nil
}

// Filename returns the download name for an export taken at the given time.
func Filename(now time.Time) string {
	return fmt.Sprintf("gleaner_export_%s.csv", now.Format("2006-01-02"))
}
