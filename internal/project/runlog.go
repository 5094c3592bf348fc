package project

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/piwi3910/BarCut/internal/report"
)

// Run modes recorded in the run log.
const (
	ModeStock  = "stock"
	ModeDemand = "demand"
)

// RunRecord is one logged optimization run.
type RunRecord struct {
	ID           int64
	Project      string
	Mode         string
	Bars         int
	Pieces       int
	Offcuts      int
	RawLength    int
	Leftover     int
	WastePercent float64
	Conditions   string             // comma-separated condition codes
	Targets      []report.TargetRow // per-target outcome
	RanAt        time.Time
}

// NewRunRecord captures the headline numbers of a summary.
func NewRunRecord(projectName, mode string, s report.Summary) RunRecord {
	conds := make([]string, len(s.Conditions))
	for i, c := range s.Conditions {
		conds[i] = string(c)
	}
	return RunRecord{
		Project:      projectName,
		Mode:         mode,
		Bars:         s.Bars,
		Pieces:       s.Pieces,
		Offcuts:      s.Offcuts,
		RawLength:    s.RawLength,
		Leftover:     s.Leftover,
		WastePercent: s.WastePercent,
		Conditions:   strings.Join(conds, ","),
		Targets:      s.Targets,
		RanAt:        time.Now().UTC().Truncate(time.Second),
	}
}

// OpenRunLog opens (creating if needed) the sqlite run log at path.
func OpenRunLog(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		project       TEXT NOT NULL DEFAULT '',
		mode          TEXT NOT NULL,
		bars          INTEGER NOT NULL,
		pieces        INTEGER NOT NULL,
		offcuts       INTEGER NOT NULL DEFAULT 0,
		raw_length    INTEGER NOT NULL,
		leftover      INTEGER NOT NULL,
		waste_percent REAL NOT NULL,
		conditions    TEXT DEFAULT '',
		targets       TEXT DEFAULT '[]',
		ran_at        DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_ran_at ON runs(ran_at);
	CREATE INDEX IF NOT EXISTS idx_runs_project ON runs(project);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// RecordRun appends a run and returns its ID.
func RecordRun(db *sql.DB, r RunRecord) (int64, error) {
	targets, err := json.Marshal(r.Targets)
	if err != nil {
		return 0, err
	}
	if r.RanAt.IsZero() {
		r.RanAt = time.Now().UTC().Truncate(time.Second)
	}
	res, err := db.Exec(
		`INSERT INTO runs (project, mode, bars, pieces, offcuts, raw_length, leftover, waste_percent, conditions, targets, ran_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Project, r.Mode, r.Bars, r.Pieces, r.Offcuts, r.RawLength, r.Leftover,
		r.WastePercent, r.Conditions, string(targets), r.RanAt,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListRuns returns the most recent runs, newest first. An empty project
// matches every project; limit <= 0 means no limit.
func ListRuns(db *sql.DB, projectName string, limit int) ([]RunRecord, error) {
	query := `SELECT id, project, mode, bars, pieces, offcuts, raw_length, leftover, waste_percent, conditions, targets, ran_at
		 FROM runs`
	var args []interface{}
	if projectName != "" {
		query += ` WHERE project = ?`
		args = append(args, projectName)
	}
	query += ` ORDER BY ran_at DESC, id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var targets string
		err := rows.Scan(
			&r.ID, &r.Project, &r.Mode, &r.Bars, &r.Pieces, &r.Offcuts,
			&r.RawLength, &r.Leftover, &r.WastePercent, &r.Conditions, &targets, &r.RanAt,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(targets), &r.Targets); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
