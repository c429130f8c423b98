package ops

import (
	"os"
	"strings"
	"testing"

	"github.com/hpungsan/radr/internal/db"
	"github.com/hpungsan/radr/internal/errors"
	"github.com/hpungsan/radr/internal/radar"
)

func TestUpdateAdr_TitleAndStatus_RowAndDocument(t *testing.T) {
	database, writer := newTestStore(t)

	if _, err := CreateBlip(database, writer, CreateBlipInput{
		Name: "Rust", Quadrant: "languages", Ring: "trial",
	}); err != nil {
		t.Fatalf("CreateBlip failed: %v", err)
	}
	created, err := CreateAdr(database, writer, CreateAdrInput{
		Title:    "Adopt Rust",
		BlipName: "Rust",
		Context:  "Rewrite the parsing hotspots.",
	})
	if err != nil {
		t.Fatalf("CreateAdr failed: %v", err)
	}

	newTitle := "Adopt Rust for services"
	accepted := "accepted"
	output, err := UpdateAdr(database, writer, UpdateAdrInput{
		ID: created.ID, Title: &newTitle, Status: &accepted,
	})
	if err != nil {
		t.Fatalf("UpdateAdr failed: %v", err)
	}
	if output.Warning != nil {
		t.Errorf("Warning = %v, want nil", output.Warning)
	}
	if output.Title != newTitle || output.Status != "accepted" {
		t.Errorf("output = %q/%s, want %q/accepted", output.Title, output.Status, newTitle)
	}

	entry, err := db.GetAdrByID(database, created.ID)
	if err != nil {
		t.Fatalf("GetAdrByID failed: %v", err)
	}
	if entry.Title != newTitle {
		t.Errorf("row title = %q, want %q", entry.Title, newTitle)
	}
	if entry.Status != radar.StatusAccepted {
		t.Errorf("row status = %s, want accepted", entry.Status)
	}

	// The document followed the rename and kept its body.
	if _, err := os.Stat(created.Path); !os.IsNotExist(err) {
		t.Errorf("old document still present at %s", created.Path)
	}
	data, err := os.ReadFile(output.Path)
	if err != nil {
		t.Fatalf("renamed document not written: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "status: accepted") {
		t.Error("front matter status not updated")
	}
	if !strings.Contains(content, "# "+newTitle) {
		t.Error("body heading not updated for new title")
	}
	if !strings.Contains(content, "Rewrite the parsing hotspots.") {
		t.Error("body written at creation was lost")
	}
}

func TestUpdateAdr_NoFields_RepairsMissingDocument(t *testing.T) {
	database, writer := newTestStore(t)

	if _, err := CreateBlip(database, writer, CreateBlipInput{Name: "Rust"}); err != nil {
		t.Fatalf("CreateBlip failed: %v", err)
	}
	created, err := CreateAdr(database, writer, CreateAdrInput{Title: "Adopt Rust", BlipName: "Rust"})
	if err != nil {
		t.Fatalf("CreateAdr failed: %v", err)
	}
	if err := os.Remove(created.Path); err != nil {
		t.Fatalf("remove document: %v", err)
	}

	output, err := UpdateAdr(database, writer, UpdateAdrInput{ID: created.ID})
	if err != nil {
		t.Fatalf("UpdateAdr failed: %v", err)
	}
	if output.Warning != nil {
		t.Errorf("Warning = %v, want nil", output.Warning)
	}
	if _, err := os.Stat(output.Path); err != nil {
		t.Errorf("document not recreated: %v", err)
	}
}

func TestUpdateAdr_RelinksOrphanOnceBlipExists(t *testing.T) {
	database, writer := newTestStore(t)

	created, err := CreateAdr(database, writer, CreateAdrInput{Title: "Adopt Rust", BlipName: "Rust"})
	if err != nil {
		t.Fatalf("CreateAdr failed: %v", err)
	}
	if created.Warning == nil || created.Warning.Code != errors.ErrOrphanAdr {
		t.Fatalf("Warning = %v, want ORPHAN_ADR", created.Warning)
	}

	blip, err := CreateBlip(database, writer, CreateBlipInput{
		Name: "Rust", Quadrant: "languages", Ring: "trial",
	})
	if err != nil {
		t.Fatalf("CreateBlip failed: %v", err)
	}

	output, err := UpdateAdr(database, writer, UpdateAdrInput{ID: created.ID})
	if err != nil {
		t.Fatalf("UpdateAdr failed: %v", err)
	}
	if output.Warning != nil {
		t.Errorf("Warning = %v, want nil once the blip exists", output.Warning)
	}
	if output.BlipID == nil || *output.BlipID != blip.ID {
		t.Fatalf("BlipID = %v, want %d", output.BlipID, blip.ID)
	}

	linked, err := db.GetBlipByName(database, "Rust")
	if err != nil {
		t.Fatalf("GetBlipByName failed: %v", err)
	}
	if !linked.HasAdr {
		t.Error("HasAdr should be true after re-linking")
	}
	if linked.AdrID == nil || *linked.AdrID != created.ID {
		t.Errorf("AdrID = %v, want %d", linked.AdrID, created.ID)
	}
}

func TestUpdateAdr_StillOrphanWithoutBlip(t *testing.T) {
	database, writer := newTestStore(t)

	created, err := CreateAdr(database, writer, CreateAdrInput{Title: "Adopt Rust", BlipName: "Rust"})
	if err != nil {
		t.Fatalf("CreateAdr failed: %v", err)
	}

	accepted := "accepted"
	output, err := UpdateAdr(database, writer, UpdateAdrInput{ID: created.ID, Status: &accepted})
	if err != nil {
		t.Fatalf("UpdateAdr failed: %v", err)
	}
	if output.Warning == nil || output.Warning.Code != errors.ErrOrphanAdr {
		t.Errorf("Warning = %v, want ORPHAN_ADR while the blip is missing", output.Warning)
	}
	if output.Status != "accepted" {
		t.Errorf("status = %s, want accepted; the edit still applies", output.Status)
	}
}

func TestUpdateAdr_KeepsNewerLink(t *testing.T) {
	database, writer := newTestStore(t)

	if _, err := CreateBlip(database, writer, CreateBlipInput{Name: "Rust"}); err != nil {
		t.Fatalf("CreateBlip failed: %v", err)
	}
	first, err := CreateAdr(database, writer, CreateAdrInput{Title: "Adopt Rust", BlipName: "Rust"})
	if err != nil {
		t.Fatalf("first CreateAdr failed: %v", err)
	}
	second, err := CreateAdr(database, writer, CreateAdrInput{Title: "Adopt Rust tooling", BlipName: "Rust"})
	if err != nil {
		t.Fatalf("second CreateAdr failed: %v", err)
	}

	accepted := "accepted"
	output, err := UpdateAdr(database, writer, UpdateAdrInput{ID: first.ID, Status: &accepted})
	if err != nil {
		t.Fatalf("UpdateAdr failed: %v", err)
	}
	if output.BlipID != nil {
		t.Error("BlipID should be nil; the blip tracks its most recent decision")
	}

	blip, err := db.GetBlipByName(database, "Rust")
	if err != nil {
		t.Fatalf("GetBlipByName failed: %v", err)
	}
	if blip.AdrID == nil || *blip.AdrID != second.ID {
		t.Errorf("AdrID = %v, want %d (unchanged)", blip.AdrID, second.ID)
	}
}

func TestUpdateAdr_DuplicateTitleSameDay(t *testing.T) {
	database, writer := newTestStore(t)

	if _, err := CreateAdr(database, writer, CreateAdrInput{Title: "Adopt Rust", BlipName: "Rust"}); err != nil {
		t.Fatalf("first CreateAdr failed: %v", err)
	}
	second, err := CreateAdr(database, writer, CreateAdrInput{Title: "Adopt Rust tooling", BlipName: "Rust"})
	if err != nil {
		t.Fatalf("second CreateAdr failed: %v", err)
	}

	taken := "Adopt Rust"
	_, err = UpdateAdr(database, writer, UpdateAdrInput{ID: second.ID, Title: &taken})
	if !errors.Is(err, errors.ErrDuplicateAdr) {
		t.Fatalf("err = %v, want DUPLICATE_ADR", err)
	}
}

func TestUpdateAdr_Validation(t *testing.T) {
	database, writer := newTestStore(t)

	created, err := CreateAdr(database, writer, CreateAdrInput{Title: "Adopt Rust", BlipName: "Rust"})
	if err != nil {
		t.Fatalf("CreateAdr failed: %v", err)
	}

	empty := " "
	bad := "shipped"
	tests := []struct {
		name     string
		input    UpdateAdrInput
		wantCode errors.ErrorCode
	}{
		{"unknown id", UpdateAdrInput{ID: 9999}, errors.ErrNotFound},
		{"empty title", UpdateAdrInput{ID: created.ID, Title: &empty}, errors.ErrInvalidRequest},
		{"unknown status", UpdateAdrInput{ID: created.ID, Status: &bad}, errors.ErrInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UpdateAdr(database, writer, tt.input)
			if !errors.Is(err, tt.wantCode) {
				t.Fatalf("err = %v, want %s", err, tt.wantCode)
			}
		})
	}
}

func TestUpdateAdr_WriteFailure_RowStillUpdated(t *testing.T) {
	database, writer := newTestStore(t)

	if _, err := CreateBlip(database, writer, CreateBlipInput{Name: "Rust"}); err != nil {
		t.Fatalf("CreateBlip failed: %v", err)
	}
	created, err := CreateAdr(database, writer, CreateAdrInput{Title: "Adopt Rust", BlipName: "Rust"})
	if err != nil {
		t.Fatalf("CreateAdr failed: %v", err)
	}

	accepted := "accepted"
	output, err := UpdateAdr(database, failWriter{}, UpdateAdrInput{ID: created.ID, Status: &accepted})
	if err != nil {
		t.Fatalf("UpdateAdr returned hard error: %v", err)
	}
	if output.Warning == nil || output.Warning.Code != errors.ErrPartialWrite {
		t.Fatalf("Warning = %v, want PARTIAL_WRITE", output.Warning)
	}

	entry, err := db.GetAdrByID(database, created.ID)
	if err != nil {
		t.Fatalf("GetAdrByID failed: %v", err)
	}
	if entry.Status != radar.StatusAccepted {
		t.Errorf("row status = %s, want accepted; the row is authoritative", entry.Status)
	}
}
