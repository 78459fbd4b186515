package eval

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestExportJSON(t *testing.T) {
	log := NewMetricLog()
	log.Log("answer_rouge_l", 0.75, "job-1")
	log.Log("quiz_score", 1.0, "job-2")

	var buf bytes.Buffer
	if err := log.ExportJSON(&buf); err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	var decoded []MetricRecord
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if len(decoded) != 2 || decoded[0].Name != "answer_rouge_l" || decoded[1].Value != 1.0 {
		t.Errorf("decoded export mismatch: %+v", decoded)
	}
}

func TestExportCSV_RoundTrip(t *testing.T) {
	log := NewMetricLog()
	log.Log("answer_bleu", 0.3333333333333333, "job-1")
	log.Log("quiz_score", 0.5, "job-2")

	var buf bytes.Buffer
	if err := log.ExportCSV(&buf); err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "name,value,timestamp,refId") {
		t.Errorf("CSV missing header: %q", buf.String())
	}

	imported := NewMetricLog()
	if err := imported.ImportCSV(&buf); err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}

	original := log.Records()
	restored := imported.Records()
	if len(restored) != len(original) {
		t.Fatalf("round trip lost records: got %d, want %d", len(restored), len(original))
	}
	for i := range original {
		if restored[i].Name != original[i].Name ||
			!almostEqual(restored[i].Value, original[i].Value) ||
			!restored[i].Timestamp.Equal(original[i].Timestamp) ||
			restored[i].RefId != original[i].RefId {
			t.Errorf("record %d changed across round trip:\n got %+v\nwant %+v", i, restored[i], original[i])
		}
	}
}

func TestExportCSV_EmptyLog(t *testing.T) {
	var buf bytes.Buffer
	if err := NewMetricLog().ExportCSV(&buf); err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "name,value,timestamp,refId" {
		t.Errorf("empty log should export just the header, got %q", buf.String())
	}
}
