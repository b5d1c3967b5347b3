package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/piwi3910/CoverPlan/internal/model"
)

// ExportJSON writes the batch as indented JSON.
func ExportJSON(path string, batch model.Batch) error {
	data, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal batch: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}
