package inspection

// Severity is the ordinal criticality of an inspection finding.
type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

// Status tracks whether the finding still requires action.
type Status string

const (
	StatusOpen       Status = "Open"
	StatusClosed     Status = "Closed"
	StatusInProgress Status = "In Progress"
)

// FailureType classifies a degraded finding. Empty means unclassified.
type FailureType string

const (
	FailureCritical FailureType = "Critical"
	FailureNormal   FailureType = "Normal"
)

type Inspection struct {
	ID              string      `json:"id"`
	Date            string      `json:"date"` // YYYY-MM-DD
	Inspector       string      `json:"inspector"`
	Findings        string      `json:"findings"`
	Recommendations string      `json:"recommendations"`
	Severity        Severity    `json:"severity"`
	ReportURL       string      `json:"reportUrl"`
	Status          Status      `json:"status"`
	FailureType     FailureType `json:"failureType,omitempty"`
}

// Equipment is immutable after generation. Inspections are ordered with
// index 0 as the most recent by date.
type Equipment struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Type        string       `json:"type"`
	Location    string       `json:"location"`
	Inspections []Inspection `json:"inspections"`
	Specs       SpecSheet    `json:"specs,omitempty"`
}

type Summary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Location string `json:"location"`
}

type SearchResult struct {
	EquipmentName string   `json:"equipmentName"`
	Date          string   `json:"date"`
	Finding       string   `json:"finding"`
	Severity      Severity `json:"severity"`
	ReportURL     string   `json:"reportUrl"`
}
