package export

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/narender4sm/inspector-assistant/internal/inspection"
	"github.com/stretchr/testify/require"
)

func fixtureEquipment() []*inspection.Equipment {
	return []*inspection.Equipment{
		{
			ID:       "EQ-PV-001",
			Name:     "Pressure Vessel V-101",
			Type:     "Pressure Vessel",
			Location: "Unit 100 - Crude Distillation",
			Inspections: []inspection.Inspection{
				{
					ID:              "INS-EQ-PV-001-20260115-00",
					Date:            "2026-01-15",
					Inspector:       "J. Martinez",
					Findings:        "Operator's log notes 'minor weeping' at flange",
					Recommendations: "Re-torque flange bolts",
					Severity:        inspection.SeverityMedium,
					ReportURL:       "https://docs.example.com/reports/INS-EQ-PV-001-20260115-00.pdf",
					Status:          inspection.StatusOpen,
				},
			},
		},
		{
			ID:       "EQ-PL-001",
			Name:     "Pipeline Segment A-12",
			Type:     "Pipeline",
			Location: "Tank Farm North",
			Inspections: []inspection.Inspection{
				{
					ID:        "INS-EQ-PL-001-20251201-00",
					Date:      "2025-12-01",
					Inspector: "A. Chen",
					Findings:  "General corrosion within limits",
					Severity:  inspection.SeverityLow,
					ReportURL: "https://docs.example.com/reports/INS-EQ-PL-001-20251201-00.pdf",
					Status:    inspection.StatusClosed,
				},
			},
		},
	}
}

func TestSQLDumpStructure(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	dump := SQLDump(fixtureEquipment(), now)

	require.True(t, strings.HasPrefix(dump, "-- InspectorAI PostgreSQL Database Export"))
	require.Contains(t, dump, "Generated: 2026-03-01T12:00:00Z")
	require.Contains(t, dump, "BEGIN;")
	require.True(t, strings.HasSuffix(dump, "COMMIT;\n"))

	require.Contains(t, dump, "DROP TABLE IF EXISTS inspections;")
	require.Contains(t, dump, "CREATE TABLE equipment (")
	require.Contains(t, dump, "ON DELETE CASCADE")
	require.Contains(t, dump, "CREATE INDEX idx_inspections_equipment_id ON inspections(equipment_id);")
	require.Contains(t, dump, "CREATE INDEX idx_equipment_name ON equipment(name);")

	require.Contains(t, dump, "INSERT INTO equipment (id, name, type, location) VALUES ('EQ-PV-001', 'Pressure Vessel V-101', 'Pressure Vessel', 'Unit 100 - Crude Distillation');")
	require.Contains(t, dump, "'INS-EQ-PL-001-20251201-00', 'EQ-PL-001', '2025-12-01'")
}

func TestSQLDumpEscapesQuotes(t *testing.T) {
	dump := SQLDump(fixtureEquipment(), time.Now())
	require.Contains(t, dump, "Operator''s log notes ''minor weeping'' at flange")
}

func TestSQLiteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inspector.db")
	require.NoError(t, SQLite(fixtureEquipment(), path))

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM equipment").Scan(&count))
	require.Equal(t, 2, count)

	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM inspections").Scan(&count))
	require.Equal(t, 2, count)

	var findings string
	require.NoError(t, db.QueryRow("SELECT findings FROM inspections WHERE equipment_id = ?", "EQ-PV-001").Scan(&findings))
	require.Equal(t, "Operator's log notes 'minor weeping' at flange", findings)
}

func TestSQLiteRebuildsExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inspector.db")
	require.NoError(t, SQLite(fixtureEquipment(), path))
	require.NoError(t, SQLite(fixtureEquipment(), path))

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM equipment").Scan(&count))
	require.Equal(t, 2, count)
}
