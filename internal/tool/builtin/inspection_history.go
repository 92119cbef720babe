package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/narender4sm/inspector-assistant/internal/inspection"
	toolcore "github.com/narender4sm/inspector-assistant/internal/tool"
)

func init() {
	toolcore.RegisterBuiltin("get_inspection_history", func(options toolcore.BuiltinOptions) (toolcore.Tool, error) {
		return &InspectionHistoryTool{Store: options.Store}, nil
	})
}

// InspectionHistoryTool returns the full record for one equipment ID. An
// unknown ID yields a structured not-found payload, not an error: the model
// needs to distinguish "no such equipment" from a failed call.
type InspectionHistoryTool struct {
	Store *inspection.Store
}

func (t *InspectionHistoryTool) Name() string {
	return "get_inspection_history"
}

func (t *InspectionHistoryTool) Description() string {
	return "Retrieves the full inspection history for a specific piece of equipment using its ID. Returns findings, recommendations, and report links."
}

func (t *InspectionHistoryTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"equipmentId": map[string]interface{}{
				"type":        "string",
				"description": "The unique ID of the equipment (e.g., 'EQ-PV-001').",
			},
		},
		"required": []string{"equipmentId"},
	}
}

func (t *InspectionHistoryTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	_ = ctx

	var args struct {
		EquipmentID string `json:"equipmentId"`
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if strings.TrimSpace(args.EquipmentID) == "" {
		return nil, fmt.Errorf("missing equipmentId")
	}

	history := t.Store.History(args.EquipmentID)
	if history == nil {
		return json.Marshal(map[string]string{"error": "Equipment not found"})
	}
	return json.Marshal(history)
}
