// Package report renders a completed scan result for the surrounding
// product: JSON for programmatic consumers, GeoJSON for mapping tools, and
// XLSX for spreadsheet hand-off.
package report

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"

	"github.com/localpulse/gridscan/internal/model"
)

// WriteJSON writes the scan result as indented JSON.
func WriteJSON(w io.Writer, result *model.ScanResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return eris.Wrap(err, "report: encode json")
	}
	return nil
}
