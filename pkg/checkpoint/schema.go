package checkpoint

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// metadataSchema validates checkpoint.json before any field is trusted.
// A truncated or hand-edited file fails here instead of surfacing as a
// confusing resume mismatch later.
const metadataSchema = `{
	"type": "object",
	"required": ["version", "run_id", "grid_key", "processed_count", "created_at", "results_file"],
	"properties": {
		"version":         {"type": "integer", "minimum": 1},
		"run_id":          {"type": "string", "pattern": "^[0-9a-f]{16}$"},
		"grid_key":        {"type": "string", "minLength": 1},
		"processed_count": {"type": "integer", "minimum": 0},
		"created_at":      {"type": "string"},
		"results_file":    {"type": "string", "minLength": 1}
	}
}`

// validateMetadataBytes checks raw metadata JSON against the schema.
func validateMetadataBytes(raw []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(metadataSchema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return fmt.Errorf("validate metadata: %w", err)
	}

	if result.Valid() {
		return nil
	}

	issues := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		issues = append(issues, desc.String())
	}

	return fmt.Errorf("%w: %s", ErrMetadataInvalid, strings.Join(issues, "; "))
}
