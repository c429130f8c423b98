package db

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/hpungsan/radr/internal/errors"
	"github.com/hpungsan/radr/internal/radar"
)

// InsertBlip stores a new blip row and returns the assigned id.
// A fresh blip never has an ADR: hasAdr is 0 and adr_id NULL regardless of
// what the caller put in those fields.
func InsertBlip(database *sql.DB, b *radar.Blip) (int64, error) {
	query := `
		INSERT INTO blip (name, ring, quadrant, tag, description, created, hasAdr, adr_id)
		VALUES (?, ?, ?, ?, ?, ?, 0, NULL)
	`

	result, err := database.Exec(query,
		b.Name,
		ringToNull(b.Ring),
		quadrantToNull(b.Quadrant),
		toNullString(b.Tag),
		toNullString(b.Description),
		b.Created,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return 0, errors.NewDuplicateName(b.Name)
		}
		return 0, errors.NewInternal(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return id, nil
}

// InsertAdr stores a new ADR log row and returns the assigned id.
// Fails with DuplicateAdr when (title, timestamp) already exists.
func InsertAdr(database *sql.DB, a *radar.AdrEntry) (int64, error) {
	query := `
		INSERT INTO adr_log (title, blip_name, status, quadrant, ring, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := database.Exec(query,
		a.Title,
		a.BlipName,
		string(a.Status),
		quadrantToNull(a.Quadrant),
		ringToNull(a.Ring),
		a.Timestamp,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return 0, errors.NewDuplicateAdr(a.Title, a.Timestamp)
		}
		return 0, errors.NewInternal(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return id, nil
}

// GetBlipByID retrieves a blip by its numeric id.
func GetBlipByID(database *sql.DB, id int64) (*radar.Blip, error) {
	row := database.QueryRow(selectBlip+" WHERE id = ?", id)
	b, err := scanBlip(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(strconv.FormatInt(id, 10))
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return b, nil
}

// GetBlipByName retrieves a blip by its unique name.
func GetBlipByName(database *sql.DB, name string) (*radar.Blip, error) {
	row := database.QueryRow(selectBlip+" WHERE name = ?", name)
	b, err := scanBlip(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(name)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return b, nil
}

// BlipUpdate carries partial-update parameters for a blip row.
// nil leaves a field unchanged. For the optional text fields (ring, quadrant,
// tag, description) a pointer to the empty string clears the column to NULL.
type BlipUpdate struct {
	ID          int64
	Name        *string
	Ring        *string
	Quadrant    *string
	Tag         *string
	Description *string
}

// UpdateBlip applies a partial update. The adr_id back-reference and hasAdr
// flag are never touched here; only LinkAdrToBlip moves the link, so the row
// can never violate hasAdr == (adr_id IS NOT NULL).
func UpdateBlip(database *sql.DB, u BlipUpdate) error {
	current, err := GetBlipByID(database, u.ID)
	if err != nil {
		return err
	}

	name := current.Name
	if u.Name != nil {
		name = *u.Name
	}

	ring := clearableEnum(u.Ring, ringToNull(current.Ring))
	quadrant := clearableEnum(u.Quadrant, quadrantToNull(current.Quadrant))
	tag := clearable(u.Tag, toNullString(current.Tag))
	description := clearable(u.Description, toNullString(current.Description))

	result, err := database.Exec(`
		UPDATE blip
		SET name = ?, ring = ?, quadrant = ?, tag = ?, description = ?
		WHERE id = ?`,
		name, ring, quadrant, tag, description, u.ID,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return errors.NewDuplicateName(name)
		}
		return errors.NewInternal(err)
	}

	return requireRows(result, strconv.FormatInt(u.ID, 10))
}

// AdrUpdate carries partial-update parameters for an ADR log row.
// nil leaves a field unchanged; the timestamp and blip_name are immutable.
type AdrUpdate struct {
	ID     int64
	Title  *string
	Status *string
}

// UpdateAdr applies a partial update to an ADR log entry. A title change can
// collide with another entry recorded the same day, which surfaces as
// DuplicateAdr just like at creation.
func UpdateAdr(database *sql.DB, u AdrUpdate) error {
	current, err := GetAdrByID(database, u.ID)
	if err != nil {
		return err
	}

	title := current.Title
	if u.Title != nil {
		title = *u.Title
	}
	status := string(current.Status)
	if u.Status != nil {
		status = *u.Status
	}

	result, err := database.Exec(
		"UPDATE adr_log SET title = ?, status = ? WHERE id = ?",
		title, status, u.ID,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return errors.NewDuplicateAdr(title, current.Timestamp)
		}
		return errors.NewInternal(err)
	}

	return requireRows(result, strconv.FormatInt(u.ID, 10))
}

// LinkAdrToBlip sets the blip's adr_id back-reference and the derived hasAdr
// flag in a single statement, so no observer can see them disagree.
func LinkAdrToBlip(database *sql.DB, blipID, adrID int64) error {
	result, err := database.Exec(
		"UPDATE blip SET adr_id = ?, hasAdr = 1 WHERE id = ?",
		adrID, blipID,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return requireRows(result, strconv.FormatInt(blipID, 10))
}

// ListBlips returns all blips in creation order (id ascending). The order is
// what keeps radar placement stable across redraws.
func ListBlips(database *sql.DB) ([]radar.Blip, error) {
	rows, err := database.Query(selectBlip + " ORDER BY id ASC")
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	blips := []radar.Blip{}
	for rows.Next() {
		b, err := scanBlip(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		blips = append(blips, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return blips, nil
}

// RecentBlips returns the most recently created blips, newest first.
func RecentBlips(database *sql.DB, limit int) ([]radar.Blip, error) {
	rows, err := database.Query(selectBlip+" ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	blips := []radar.Blip{}
	for rows.Next() {
		b, err := scanBlip(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		blips = append(blips, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return blips, nil
}

// GetAdrByID fetches a single ADR log entry.
func GetAdrByID(database *sql.DB, id int64) (*radar.AdrEntry, error) {
	entries, err := queryAdrs(database, selectAdr+" WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errors.NewNotFound(strconv.FormatInt(id, 10))
	}
	return &entries[0], nil
}

// ListAdrs returns all ADR log entries in creation order (id ascending).
func ListAdrs(database *sql.DB) ([]radar.AdrEntry, error) {
	return queryAdrs(database, selectAdr+" ORDER BY id ASC")
}

// ListAdrsByBlip returns the ADR log entries referencing the named blip.
func ListAdrsByBlip(database *sql.DB, blipName string) ([]radar.AdrEntry, error) {
	return queryAdrs(database, selectAdr+" WHERE blip_name = ? ORDER BY id ASC", blipName)
}

// CountBlips returns the number of blip rows.
func CountBlips(database *sql.DB) (int, error) {
	return countScalar(database, "SELECT COUNT(*) FROM blip")
}

// CountAdrs returns the number of ADR log rows.
func CountAdrs(database *sql.DB) (int, error) {
	return countScalar(database, "SELECT COUNT(*) FROM adr_log")
}

// CountBlipsByQuadrant returns per-quadrant blip counts, classified rows only.
func CountBlipsByQuadrant(database *sql.DB) (map[radar.Quadrant]int, error) {
	rows, err := database.Query(
		"SELECT quadrant, COUNT(*) FROM blip WHERE quadrant IS NOT NULL GROUP BY quadrant")
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	counts := map[radar.Quadrant]int{}
	for rows.Next() {
		var raw string
		var n int
		if err := rows.Scan(&raw, &n); err != nil {
			return nil, errors.NewInternal(err)
		}
		if q, ok := radar.ParseQuadrant(raw); ok {
			counts[q] = n
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return counts, nil
}

// CountBlipsByRing returns per-ring blip counts, classified rows only.
func CountBlipsByRing(database *sql.DB) (map[radar.Ring]int, error) {
	rows, err := database.Query(
		"SELECT ring, COUNT(*) FROM blip WHERE ring IS NOT NULL GROUP BY ring")
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	counts := map[radar.Ring]int{}
	for rows.Next() {
		var raw string
		var n int
		if err := rows.Scan(&raw, &n); err != nil {
			return nil, errors.NewInternal(err)
		}
		if r, ok := radar.ParseRing(raw); ok {
			counts[r] = n
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return counts, nil
}

// SetSetting upserts one application setting.
func SetSetting(database *sql.DB, key, value string) error {
	_, err := database.Exec(`
		INSERT INTO app_settings (key, value)
		VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// GetSettings returns all application settings ordered by key.
func GetSettings(database *sql.DB) (map[string]string, error) {
	rows, err := database.Query("SELECT key, value FROM app_settings ORDER BY key")
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	settings := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, errors.NewInternal(err)
		}
		settings[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return settings, nil
}

const selectBlip = `
	SELECT id, name, ring, quadrant, tag, description, created, hasAdr, adr_id
	FROM blip`

const selectAdr = `
	SELECT id, title, blip_name, status, quadrant, ring, timestamp
	FROM adr_log`

// scanner abstracts *sql.Row and *sql.Rows for the scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

func scanBlip(s scanner) (*radar.Blip, error) {
	var b radar.Blip
	var ring, quadrant, tag, description sql.NullString
	var hasAdr int
	var adrID sql.NullInt64

	err := s.Scan(&b.ID, &b.Name, &ring, &quadrant, &tag, &description, &b.Created, &hasAdr, &adrID)
	if err != nil {
		return nil, err
	}

	if ring.Valid {
		if r, ok := radar.ParseRing(ring.String); ok {
			b.Ring = &r
		}
	}
	if quadrant.Valid {
		if q, ok := radar.ParseQuadrant(quadrant.String); ok {
			b.Quadrant = &q
		}
	}
	if tag.Valid {
		b.Tag = &tag.String
	}
	if description.Valid {
		b.Description = &description.String
	}
	b.HasAdr = hasAdr != 0
	if adrID.Valid {
		b.AdrID = &adrID.Int64
	}

	return &b, nil
}

func queryAdrs(database *sql.DB, query string, args ...any) ([]radar.AdrEntry, error) {
	rows, err := database.Query(query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	adrs := []radar.AdrEntry{}
	for rows.Next() {
		var a radar.AdrEntry
		var status string
		var quadrant, ring sql.NullString
		if err := rows.Scan(&a.ID, &a.Title, &a.BlipName, &status, &quadrant, &ring, &a.Timestamp); err != nil {
			return nil, errors.NewInternal(err)
		}
		a.Status = radar.AdrStatus(status)
		if quadrant.Valid {
			if q, ok := radar.ParseQuadrant(quadrant.String); ok {
				a.Quadrant = &q
			}
		}
		if ring.Valid {
			if r, ok := radar.ParseRing(ring.String); ok {
				a.Ring = &r
			}
		}
		adrs = append(adrs, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return adrs, nil
}

func countScalar(database *sql.DB, query string) (int, error) {
	var n int
	if err := database.QueryRow(query).Scan(&n); err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}

func requireRows(result sql.Result, identifier string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if affected == 0 {
		return errors.NewNotFound(identifier)
	}
	return nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint
// violation. modernc.org/sqlite reports these as "UNIQUE constraint failed: ...".
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func toNullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func ringToNull(r *radar.Ring) sql.NullString {
	if r == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*r), Valid: true}
}

func quadrantToNull(q *radar.Quadrant) sql.NullString {
	if q == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*q), Valid: true}
}

// clearable merges a partial-update text field: nil keeps current, empty
// string clears to NULL, anything else replaces.
func clearable(update *string, current sql.NullString) sql.NullString {
	if update == nil {
		return current
	}
	if *update == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *update, Valid: true}
}

// clearableEnum behaves like clearable; validation of enum values happens in
// the ops layer before the update reaches the store.
func clearableEnum(update *string, current sql.NullString) sql.NullString {
	return clearable(update, current)
}
