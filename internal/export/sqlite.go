package export

import (
	"database/sql"
	"fmt"

	"github.com/narender4sm/inspector-assistant/internal/inspection"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
DROP TABLE IF EXISTS inspections;
DROP TABLE IF EXISTS equipment;

CREATE TABLE equipment (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    type TEXT NOT NULL,
    location TEXT
);

CREATE TABLE inspections (
    id TEXT PRIMARY KEY,
    equipment_id TEXT NOT NULL,
    date TEXT NOT NULL,
    inspector TEXT,
    findings TEXT,
    recommendations TEXT,
    severity TEXT,
    report_url TEXT,
    status TEXT,
    FOREIGN KEY (equipment_id) REFERENCES equipment(id) ON DELETE CASCADE
);

CREATE INDEX idx_inspections_equipment_id ON inspections(equipment_id);
CREATE INDEX idx_equipment_name ON equipment(name);
`

// SQLite writes the dataset to a SQLite database file at path. An existing
// database at that path is rebuilt from scratch.
func SQLite(equipment []*inspection.Equipment, path string) (err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("open sqlite database: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close sqlite database: %w", cerr)
		}
	}()

	if _, err = db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	eqStmt, err := tx.Prepare("INSERT INTO equipment (id, name, type, location) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare equipment insert: %w", err)
	}
	defer eqStmt.Close()

	insStmt, err := tx.Prepare("INSERT INTO inspections (id, equipment_id, date, inspector, findings, recommendations, severity, report_url, status) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare inspection insert: %w", err)
	}
	defer insStmt.Close()

	for _, eq := range equipment {
		if _, err = eqStmt.Exec(eq.ID, eq.Name, eq.Type, eq.Location); err != nil {
			return fmt.Errorf("insert equipment %s: %w", eq.ID, err)
		}
		for _, ins := range eq.Inspections {
			if _, err = insStmt.Exec(ins.ID, eq.ID, ins.Date, ins.Inspector, ins.Findings,
				ins.Recommendations, string(ins.Severity), ins.ReportURL, string(ins.Status)); err != nil {
				return fmt.Errorf("insert inspection %s: %w", ins.ID, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
