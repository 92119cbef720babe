package inspection

import "strings"

// Store answers read-only queries over a fixed record set. All methods are
// pure and deterministic given the records the store was built with.
type Store struct {
	equipment []*Equipment
	byID      map[string]*Equipment
}

func NewStore(equipment []*Equipment) *Store {
	byID := make(map[string]*Equipment, len(equipment))
	for _, eq := range equipment {
		byID[eq.ID] = eq
	}
	return &Store{equipment: equipment, byID: byID}
}

func (s *Store) Len() int {
	return len(s.equipment)
}

// AllEquipment returns summaries for every record, in generation order.
func (s *Store) AllEquipment() []Summary {
	summaries := make([]Summary, 0, len(s.equipment))
	for _, eq := range s.equipment {
		summaries = append(summaries, Summary{
			ID:       eq.ID,
			Name:     eq.Name,
			Type:     eq.Type,
			Location: eq.Location,
		})
	}
	return summaries
}

// All returns the full record set, used by exporters.
func (s *Store) All() []*Equipment {
	return s.equipment
}

// History returns the full record for an equipment ID, nil when absent.
func (s *Store) History(equipmentID string) *Equipment {
	return s.byID[equipmentID]
}

// Search matches the query case-insensitively against findings,
// recommendations, severity label, equipment name, and failure
// classification of every inspection.
func (s *Store) Search(query string) []SearchResult {
	lowerQuery := strings.ToLower(query)
	var results []SearchResult

	for _, eq := range s.equipment {
		nameMatch := strings.Contains(strings.ToLower(eq.Name), lowerQuery)
		for _, ins := range eq.Inspections {
			if nameMatch ||
				strings.Contains(strings.ToLower(ins.Findings), lowerQuery) ||
				strings.Contains(strings.ToLower(ins.Recommendations), lowerQuery) ||
				strings.Contains(strings.ToLower(string(ins.Severity)), lowerQuery) ||
				strings.Contains(strings.ToLower(string(ins.FailureType)), lowerQuery) {
				results = append(results, SearchResult{
					EquipmentName: eq.Name,
					Date:          ins.Date,
					Finding:       ins.Findings,
					Severity:      ins.Severity,
					ReportURL:     ins.ReportURL,
				})
			}
		}
	}
	return results
}
