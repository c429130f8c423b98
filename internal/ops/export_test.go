package ops

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestExport_HeaderThenOrderedRecords(t *testing.T) {
	database, writer := newTestStore(t)
	tmpDir := t.TempDir()

	if _, err := CreateBlip(database, writer, CreateBlipInput{Name: "Rust", Quadrant: "languages", Ring: "trial"}); err != nil {
		t.Fatalf("CreateBlip failed: %v", err)
	}
	if _, err := CreateBlip(database, writer, CreateBlipInput{Name: "Kafka"}); err != nil {
		t.Fatalf("CreateBlip failed: %v", err)
	}
	if _, err := CreateAdr(database, writer, CreateAdrInput{Title: "Adopt Rust", BlipName: "Rust"}); err != nil {
		t.Fatalf("CreateAdr failed: %v", err)
	}

	dest := filepath.Join(tmpDir, "snapshot.jsonl")
	output, err := Export(database, ExportInput{BaseDir: tmpDir, Path: dest})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if output.BlipCount != 2 {
		t.Errorf("BlipCount = %d, want 2", output.BlipCount)
	}
	if output.AdrCount != 1 {
		t.Errorf("AdrCount = %d, want 1", output.AdrCount)
	}
	if len(output.ExportID) != 26 {
		t.Errorf("ExportID length = %d, want 26 (ULID)", len(output.ExportID))
	}

	f, err := os.Open(dest)
	if err != nil {
		t.Fatalf("export file missing: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		t.Fatal("export file is empty")
	}

	var header ExportHeader
	if err := json.Unmarshal(scanner.Bytes(), &header); err != nil {
		t.Fatalf("header line is not JSON: %v", err)
	}
	if !header.RadrExport {
		t.Error("header should be marked _radr_export")
	}
	if header.SchemaVersion != ExportSchemaVersion {
		t.Errorf("SchemaVersion = %q, want %q", header.SchemaVersion, ExportSchemaVersion)
	}
	if header.ExportID != output.ExportID {
		t.Errorf("header ExportID = %q, want %q", header.ExportID, output.ExportID)
	}

	// Blips first in id order, then ADR entries.
	wantTypes := []string{"blip", "blip", "adr"}
	for i, want := range wantTypes {
		if !scanner.Scan() {
			t.Fatalf("export file ended at record %d", i)
		}
		var line struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			t.Fatalf("record %d is not JSON: %v", i, err)
		}
		if line.Type != want {
			t.Errorf("record %d type = %q, want %q", i, line.Type, want)
		}
	}
	if scanner.Scan() {
		t.Error("export file has trailing records")
	}
}

func TestExport_DefaultPathUnderExportsDir(t *testing.T) {
	database, _ := newTestStore(t)
	tmpDir := t.TempDir()

	output, err := Export(database, ExportInput{BaseDir: tmpDir})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if filepath.Dir(output.Path) != filepath.Join(tmpDir, "exports") {
		t.Errorf("Path = %q, want a file under %s/exports", output.Path, tmpDir)
	}
	if _, err := os.Stat(output.Path); err != nil {
		t.Errorf("export file missing: %v", err)
	}
}
