package export

import (
	"encoding/json"
	"fmt"

	"github.com/piwi3910/CoverPlan/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// maxSummaryFields keeps the encoded digest within QR code capacity.
const maxSummaryFields = 50

// SummaryInfo is the compact batch digest encoded into the report QR code.
type SummaryInfo struct {
	Batch     string         `json:"batch"`
	Source    string         `json:"source"`
	TotalCost int            `json:"total_cost"`
	Fields    []FieldSummary `json:"fields"`
	Truncated bool           `json:"truncated,omitempty"`
}

// FieldSummary holds the headline figures of one covering.
type FieldSummary struct {
	Index       int `json:"field"`
	Cardinality int `json:"rects"`
	Cost        int `json:"cost"`
}

// CollectSummary extracts the digest of a batch.
func CollectSummary(batch model.Batch) SummaryInfo {
	info := SummaryInfo{
		Batch:     batch.ID,
		Source:    batch.Source,
		TotalCost: batch.TotalCost(),
		Fields:    make([]FieldSummary, 0, min(len(batch.Results), maxSummaryFields)),
	}
	for i, res := range batch.Results {
		if i == maxSummaryFields {
			info.Truncated = true
			break
		}
		info.Fields = append(info.Fields, FieldSummary{
			Index:       res.Index,
			Cardinality: res.Cardinality,
			Cost:        res.Cost,
		})
	}
	return info
}

// summaryQR renders the batch digest as a PNG QR code.
func summaryQR(batch model.Batch) ([]byte, error) {
	data, err := json.Marshal(CollectSummary(batch))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal summary: %w", err)
	}
	png, err := qrcode.Encode(string(data), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}
