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
	toolcore.RegisterBuiltin("search_similar_findings", func(options toolcore.BuiltinOptions) (toolcore.Tool, error) {
		return &SearchFindingsTool{Store: options.Store, Cap: options.SearchResultCap}, nil
	})
}

// SearchFindingsTool searches the whole database for inspections matching a
// keyword. Zero matches produce an explicit no-matches payload rather than an
// empty list.
type SearchFindingsTool struct {
	Store *inspection.Store
	Cap   int
}

func (t *SearchFindingsTool) Name() string {
	return "search_similar_findings"
}

func (t *SearchFindingsTool) Description() string {
	return "Searches the entire database for inspections with findings or recommendations matching a keyword query. Useful for finding similar defects or issues across different equipment."
}

func (t *SearchFindingsTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "The search keyword or phrase (e.g., 'corrosion', 'vibration', 'leak').",
			},
		},
		"required": []string{"query"},
	}
}

func (t *SearchFindingsTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	_ = ctx

	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if strings.TrimSpace(args.Query) == "" {
		return nil, fmt.Errorf("missing query")
	}

	results := t.Store.Search(args.Query)
	if len(results) == 0 {
		return json.Marshal(map[string]string{"message": "No matching findings found."})
	}

	limit := t.Cap
	if limit <= 0 {
		limit = toolcore.DefaultSearchResultCap
	}

	if len(results) > limit {
		return json.Marshal(map[string]interface{}{
			"results": results[:limit],
			"note":    fmt.Sprintf("Showing top %d of %d matches.", limit, len(results)),
		})
	}
	return json.Marshal(results)
}
