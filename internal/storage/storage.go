// Package storage persists duplicate-scan reports so the list and
// clean commands can work from the last scan without rehashing.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"dupescan/internal/dedup"
	"dupescan/internal/hash"
)

// Storage handles persistence of scan reports and their groups.
type Storage struct {
	db     *sql.DB
	dbPath string
}

// ScanRecord summarizes one stored scan.
type ScanRecord struct {
	ID              int64
	Root            string
	Method          string
	ScannedAt       time.Time
	FilesScanned    int
	Candidates      int
	GroupCount      int
	TotalDuplicates int
	WastedBytes     int64
}

// NewStorage opens (creating if needed) the report database.
func NewStorage(dbPath string) (*Storage, error) {
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Storage{db: db, dbPath: dbPath}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Storage) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scans (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		root TEXT NOT NULL,
		method TEXT NOT NULL,
		scanned_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		files_scanned INTEGER NOT NULL,
		candidates INTEGER NOT NULL,
		group_count INTEGER NOT NULL,
		total_duplicates INTEGER NOT NULL,
		wasted_bytes INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS groups (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scan_id INTEGER NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
		hash TEXT NOT NULL,
		wasted_bytes INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS members (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		group_id INTEGER NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
		path TEXT NOT NULL,
		size INTEGER NOT NULL,
		mod_time INTEGER NOT NULL,
		is_original INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_groups_scan_id ON groups(scan_id);
	CREATE INDEX IF NOT EXISTS idx_members_group_id ON members(group_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Storage) Close() error {
	return s.db.Close()
}

// SaveReport stores a scan report with all its groups and members and
// returns the new scan id.
func (s *Storage) SaveReport(root string, report *dedup.Report) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO scans (root, method, files_scanned, candidates, group_count, total_duplicates, wasted_bytes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, root, string(report.Method), report.FilesScanned, report.Candidates,
		report.GroupCount, report.TotalDuplicates, report.WastedBytes)
	if err != nil {
		return 0, fmt.Errorf("failed to insert scan: %w", err)
	}
	scanID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get scan id: %w", err)
	}

	groupStmt, err := tx.Prepare(`INSERT INTO groups (scan_id, hash, wasted_bytes) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer groupStmt.Close()

	memberStmt, err := tx.Prepare(`
		INSERT INTO members (group_id, path, size, mod_time, is_original) VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer memberStmt.Close()

	for _, group := range report.Groups {
		res, err := groupStmt.Exec(scanID, group.Hash, group.WastedBytes)
		if err != nil {
			return 0, fmt.Errorf("failed to insert group: %w", err)
		}
		groupID, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to get group id: %w", err)
		}

		for _, rec := range group.Members() {
			isOriginal := 0
			if rec == group.Original {
				isOriginal = 1
			}
			// mod_time is stored as Unix seconds: drivers render a bound
			// time.Time in formats that do not survive a text round-trip.
			if _, err := memberStmt.Exec(groupID, rec.Path, rec.Size, rec.ModTime.Unix(), isOriginal); err != nil {
				return 0, fmt.Errorf("failed to insert member %s: %w", rec.Path, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return scanID, nil
}

// ListScans returns stored scans, newest first.
func (s *Storage) ListScans(limit int) ([]*ScanRecord, error) {
	query := `
		SELECT id, root, method, scanned_at, files_scanned, candidates, group_count, total_duplicates, wasted_bytes
		FROM scans ORDER BY id DESC
	`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = s.db.Query(query+" LIMIT ?", limit)
	} else {
		rows, err = s.db.Query(query)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query scans: %w", err)
	}
	defer rows.Close()

	var scans []*ScanRecord
	for rows.Next() {
		rec := &ScanRecord{}
		var scannedAt string
		if err := rows.Scan(&rec.ID, &rec.Root, &rec.Method, &scannedAt, &rec.FilesScanned,
			&rec.Candidates, &rec.GroupCount, &rec.TotalDuplicates, &rec.WastedBytes); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		// scanned_at is written by sqlite's CURRENT_TIMESTAMP default.
		rec.ScannedAt, err = time.Parse("2006-01-02 15:04:05", scannedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse scan time %q: %w", scannedAt, err)
		}
		scans = append(scans, rec)
	}
	return scans, rows.Err()
}

// LatestScan returns the most recent stored scan, or nil when the
// database is empty.
func (s *Storage) LatestScan() (*ScanRecord, error) {
	scans, err := s.ListScans(1)
	if err != nil {
		return nil, err
	}
	if len(scans) == 0 {
		return nil, nil
	}
	return scans[0], nil
}

// GetGroups loads the duplicate groups stored for a scan, in stored
// (wasted-space descending) order.
func (s *Storage) GetGroups(scanID int64) ([]*dedup.DuplicateGroup, error) {
	var method string
	err := s.db.QueryRow(`SELECT method FROM scans WHERE id = ?`, scanID).Scan(&method)
	if err != nil {
		return nil, fmt.Errorf("failed to load scan %d: %w", scanID, err)
	}

	rows, err := s.db.Query(`SELECT id, hash, wasted_bytes FROM groups WHERE scan_id = ? ORDER BY id`, scanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	defer rows.Close()

	type storedGroup struct {
		id    int64
		group *dedup.DuplicateGroup
	}
	var stored []storedGroup
	for rows.Next() {
		var id int64
		g := &dedup.DuplicateGroup{}
		if err := rows.Scan(&id, &g.Hash, &g.WastedBytes); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		stored = append(stored, storedGroup{id: id, group: g})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, sg := range stored {
		if err := s.loadMembers(sg.id, sg.group, hash.Method(method)); err != nil {
			return nil, err
		}
	}

	groups := make([]*dedup.DuplicateGroup, len(stored))
	for i, sg := range stored {
		groups[i] = sg.group
	}
	return groups, nil
}

func (s *Storage) loadMembers(groupID int64, group *dedup.DuplicateGroup, method hash.Method) error {
	rows, err := s.db.Query(`
		SELECT path, size, mod_time, is_original FROM members WHERE group_id = ? ORDER BY id
	`, groupID)
	if err != nil {
		return fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		rec := &dedup.FileHashRecord{Hash: group.Hash, Method: method}
		var modTime int64
		var isOriginal int
		if err := rows.Scan(&rec.Path, &rec.Size, &modTime, &isOriginal); err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}
		rec.ModTime = time.Unix(modTime, 0).UTC()
		if isOriginal == 1 {
			group.Original = rec
		} else {
			group.Duplicates = append(group.Duplicates, rec)
		}
	}
	return rows.Err()
}

// DeleteMember removes a file path from all stored groups, used after
// a duplicate has been cleaned from disk.
func (s *Storage) DeleteMember(path string) error {
	_, err := s.db.Exec(`DELETE FROM members WHERE path = ? AND is_original = 0`, path)
	return err
}
