package ops

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/radr/internal/db"
	"github.com/hpungsan/radr/internal/errors"
	"github.com/hpungsan/radr/internal/radar"
)

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	// BaseDir is the application base directory (exports default under it).
	BaseDir string
	// Path overrides the default exports/<id>.jsonl location.
	Path string
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	ExportID   string `json:"export_id"`
	Path       string `json:"path"`
	BlipCount  int    `json:"blip_count"`
	AdrCount   int    `json:"adr_count"`
	ExportedAt int64  `json:"exported_at"`
}

// ExportHeader is the first line of a JSONL export file.
type ExportHeader struct {
	RadrExport    bool   `json:"_radr_export"`
	SchemaVersion string `json:"schema_version"`
	ExportID      string `json:"export_id"`
	ExportedAt    int64  `json:"exported_at"`
}

// exportLine wraps one record with its table of origin.
type exportLine struct {
	Type string          `json:"type"` // "blip" or "adr"
	Blip *radar.Blip     `json:"blip,omitempty"`
	Adr  *radar.AdrEntry `json:"adr,omitempty"`
}

// ExportSchemaVersion is the JSONL export format version.
const ExportSchemaVersion = "1"

// Export writes an ordered snapshot of both tables to a JSONL file: one
// header line, then blips in id order, then ADR entries in id order. The
// file is written to a temp path and renamed so a failed export never
// clobbers an earlier one.
func Export(database *sql.DB, input ExportInput) (*ExportOutput, error) {
	now := time.Now()
	exportID := ulid.Make().String()

	exportPath := input.Path
	if exportPath == "" {
		exportPath = filepath.Join(input.BaseDir, "exports", fmt.Sprintf("radar-%s.jsonl", exportID))
	}

	blips, err := db.ListBlips(database)
	if err != nil {
		return nil, err
	}
	adrs, err := db.ListAdrs(database)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(exportPath), 0700); err != nil {
		return nil, errors.NewIO(fmt.Errorf("failed to create export directory: %w", err))
	}

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return nil, errors.NewInternal(err)
	}
	tempPath := exportPath + "." + hex.EncodeToString(randBytes) + ".tmp"

	file, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, errors.NewIO(fmt.Errorf("failed to create export file: %w", err))
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	enc := json.NewEncoder(file)
	header := ExportHeader{
		RadrExport:    true,
		SchemaVersion: ExportSchemaVersion,
		ExportID:      exportID,
		ExportedAt:    now.Unix(),
	}
	if err := enc.Encode(header); err != nil {
		return nil, errors.NewIO(err)
	}
	for i := range blips {
		if err := enc.Encode(exportLine{Type: "blip", Blip: &blips[i]}); err != nil {
			return nil, errors.NewIO(err)
		}
	}
	for i := range adrs {
		if err := enc.Encode(exportLine{Type: "adr", Adr: &adrs[i]}); err != nil {
			return nil, errors.NewIO(err)
		}
	}

	if err := file.Close(); err != nil {
		file = nil
		return nil, errors.NewIO(err)
	}
	file = nil

	if err := os.Rename(tempPath, exportPath); err != nil {
		return nil, errors.NewIO(err)
	}
	success = true

	return &ExportOutput{
		ExportID:   exportID,
		Path:       exportPath,
		BlipCount:  len(blips),
		AdrCount:   len(adrs),
		ExportedAt: now.Unix(),
	}, nil
}
