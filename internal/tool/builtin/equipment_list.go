package builtin

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/narender4sm/inspector-assistant/internal/inspection"
	toolcore "github.com/narender4sm/inspector-assistant/internal/tool"
)

func init() {
	toolcore.RegisterBuiltin("get_equipment_list", func(options toolcore.BuiltinOptions) (toolcore.Tool, error) {
		return &EquipmentListTool{Store: options.Store, Cap: options.EquipmentListCap}, nil
	})
}

// EquipmentListTool returns summaries for every equipment record, capped so
// the payload stays inside the model's context window.
type EquipmentListTool struct {
	Store *inspection.Store
	Cap   int
}

func (t *EquipmentListTool) Name() string {
	return "get_equipment_list"
}

func (t *EquipmentListTool) Description() string {
	return "Retrieves a list of all available equipment in the inspection database. Returns ID, Name, and Type."
}

func (t *EquipmentListTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

func (t *EquipmentListTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	_ = ctx

	all := t.Store.AllEquipment()

	limit := t.Cap
	if limit <= 0 {
		limit = toolcore.DefaultEquipmentListCap
	}

	if len(all) > limit {
		return json.Marshal(map[string]interface{}{
			"items": all[:limit],
			"note":  fmt.Sprintf("Showing %d of %d items. Ask for specific equipment if not listed.", limit, len(all)),
		})
	}
	return json.Marshal(all)
}
