package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/CoverPlan/internal/model"
)

// BatchExt is the file extension of saved batches.
const BatchExt = ".cover.json"

// SaveBatch writes an optimized batch so it can be reopened without running
// the optimizer again.
func SaveBatch(path string, batch model.Batch) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create batch directory: %w", err)
	}
	data, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode batch: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadBatch reads a batch written by SaveBatch or by the JSON exporter.
func LoadBatch(path string) (model.Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Batch{}, fmt.Errorf("failed to read batch: %w", err)
	}
	var batch model.Batch
	if err := json.Unmarshal(data, &batch); err != nil {
		return model.Batch{}, fmt.Errorf("failed to parse batch %s: %w", path, err)
	}
	for i, res := range batch.Results {
		if len(res.Grid) != res.Rows {
			return model.Batch{}, fmt.Errorf("batch %s: field %d has %d grid rows, expected %d",
				path, res.Index, len(res.Grid), res.Rows)
		}
		if res.Cardinality != len(res.Rects) {
			batch.Results[i].Cardinality = len(res.Rects)
		}
	}
	return batch, nil
}
