package report

import (
	"encoding/json"
	"fmt"

	"github.com/harlan/shipcheck/internal/models"
)

// JSONRenderer serializes the checklist verbatim. JSON is the
// canonical interchange format: the output round-trips losslessly back
// into the in-memory model, with timestamps as ISO-8601 strings.
type JSONRenderer struct{}

// Render implements Renderer.
func (JSONRenderer) Render(checklist *models.LaunchChecklist) ([]byte, error) {
	data, err := json.MarshalIndent(checklist, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal checklist: %w", err)
	}
	return append(data, '\n'), nil
}
