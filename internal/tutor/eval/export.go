package eval

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"
)

// ExportJSON writes the full metric log as a JSON array.
func (m *MetricLog) ExportJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m.Records())
}

// ExportCSV writes the metric log as name,value,timestamp,refId rows with a
// header. Timestamps use RFC 3339 so the CSV round-trips losslessly.
func (m *MetricLog) ExportCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "value", "timestamp", "refId"}); err != nil {
		return err
	}
	for _, r := range m.Records() {
		row := []string{
			r.Name,
			strconv.FormatFloat(r.Value, 'g', -1, 64),
			r.Timestamp.Format(time.RFC3339Nano),
			r.RefId,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportCSV reads rows produced by ExportCSV back into the log.
func (m *MetricLog) ImportCSV(r io.Reader) error {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i, row := range rows {
		if i == 0 || len(row) != 4 {
			continue
		}
		value, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return err
		}
		ts, err := time.Parse(time.RFC3339Nano, row[2])
		if err != nil {
			return err
		}
		m.records = append(m.records, MetricRecord{Name: row[0], Value: value, Timestamp: ts, RefId: row[3]})
	}
	return nil
}
