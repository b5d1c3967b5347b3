package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/piwi3910/CoverPlan/internal/model"
)

// Format names accepted by Write.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatPDF   = "pdf"
	FormatExcel = "xlsx"
	FormatDXF   = "dxf"
)

// Formats lists every supported output format.
var Formats = []string{FormatText, FormatJSON, FormatPDF, FormatExcel, FormatDXF}

var extensions = map[string]string{
	FormatText:  ".txt",
	FormatJSON:  ".json",
	FormatPDF:   ".pdf",
	FormatExcel: ".xlsx",
	FormatDXF:   ".dxf",
}

// Options control how reports are written.
type Options struct {
	// AppendText adds the text report to an existing file.
	AppendText bool
}

// ParseFormat normalizes a format name. "excel" and "txt" are accepted aliases.
func ParseFormat(name string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(name)); f {
	case "txt":
		return FormatText, nil
	case "excel", "xls":
		return FormatExcel, nil
	default:
		if _, ok := extensions[f]; ok {
			return f, nil
		}
		return "", fmt.Errorf("unknown export format %q (supported: %s)", name, strings.Join(Formats, ", "))
	}
}

// OutputPath derives the file name for a format from the base output path.
// The text report keeps base untouched; other formats swap its extension.
func OutputPath(base, format string) string {
	if format == FormatText {
		return base
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + extensions[format]
}

// Write renders the batch in the given format and returns the files written.
func Write(format, path string, batch model.Batch, opts Options) ([]string, error) {
	format, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatText:
		err = ExportText(path, batch, opts.AppendText)
	case FormatJSON:
		err = ExportJSON(path, batch)
	case FormatPDF:
		err = ExportPDF(path, batch)
	case FormatExcel:
		err = ExportExcel(path, batch)
	case FormatDXF:
		return ExportBatchDXF(path, batch)
	}
	if err != nil {
		return nil, fmt.Errorf("%s export: %w", format, err)
	}
	return []string{path}, nil
}
