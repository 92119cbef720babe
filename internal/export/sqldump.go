package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/narender4sm/inspector-assistant/internal/inspection"
)

const dumpHeader = `-- InspectorAI PostgreSQL Database Export
-- Generated: %s

BEGIN;

-- Drop tables if they exist to start fresh
DROP TABLE IF EXISTS inspections;
DROP TABLE IF EXISTS equipment;

-- Create Equipment Table
CREATE TABLE equipment (
    id VARCHAR(50) PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    type VARCHAR(50) NOT NULL,
    location VARCHAR(100)
);

-- Create Inspections Table
CREATE TABLE inspections (
    id VARCHAR(50) PRIMARY KEY,
    equipment_id VARCHAR(50) NOT NULL,
    date DATE NOT NULL,
    inspector VARCHAR(100),
    findings TEXT,
    recommendations TEXT,
    severity VARCHAR(20),
    report_url VARCHAR(255),
    status VARCHAR(20),
    CONSTRAINT fk_equipment
        FOREIGN KEY (equipment_id)
        REFERENCES equipment(id)
        ON DELETE CASCADE
);

-- Create indexes for common search columns
CREATE INDEX idx_inspections_equipment_id ON inspections(equipment_id);
CREATE INDEX idx_equipment_name ON equipment(name);

-- Begin Equipment Inserts
`

// SQLDump renders the whole dataset as a self-contained PostgreSQL script:
// schema, indexes, and one INSERT per row, wrapped in a transaction.
func SQLDump(equipment []*inspection.Equipment, now time.Time) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(dumpHeader, now.UTC().Format(time.RFC3339)))

	for _, eq := range equipment {
		sb.WriteString(fmt.Sprintf(
			"INSERT INTO equipment (id, name, type, location) VALUES ('%s', '%s', '%s', '%s');\n",
			escapeSQL(eq.ID), escapeSQL(eq.Name), escapeSQL(eq.Type), escapeSQL(eq.Location),
		))
	}

	sb.WriteString("\n-- Begin Inspection Inserts\n")

	for _, eq := range equipment {
		for _, ins := range eq.Inspections {
			sb.WriteString(fmt.Sprintf(
				"INSERT INTO inspections (id, equipment_id, date, inspector, findings, recommendations, severity, report_url, status) VALUES ('%s', '%s', '%s', '%s', '%s', '%s', '%s', '%s', '%s');\n",
				escapeSQL(ins.ID), escapeSQL(eq.ID), ins.Date, escapeSQL(ins.Inspector),
				escapeSQL(ins.Findings), escapeSQL(ins.Recommendations), ins.Severity,
				escapeSQL(ins.ReportURL), ins.Status,
			))
		}
	}

	sb.WriteString("\nCOMMIT;\n")
	return sb.String()
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
