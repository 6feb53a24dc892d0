package tui

import (
	"encoding/hex"
	"fmt"

	table "github.com/charmbracelet/bubbles/table"

	"geoconv/internal/geom"
)

const renditionWidth = 56

// renditions encodes the current geometry in every output format under the
// active config. Binary formats are shown as hex.
func (m *Model) renditions() [][]string {
	if m.g == nil {
		return nil
	}
	opts := m.cfg.Options()
	rows := make([][]string, 0, len(geom.OutputFormats))
	for _, f := range geom.OutputFormats {
		b, err := geom.Encode(m.g, f, opts)
		if err != nil {
			rows = append(rows, []string{f.String(), "-", "error: " + err.Error()})
			continue
		}
		text := string(b)
		if f.Binary() {
			text = hex.EncodeToString(b)
		}
		rows = append(rows, []string{f.String(), fmt.Sprintf("%d", len(b)), text})
	}
	return rows
}

// refreshFormats rebuilds the table from the current geometry.
func (m *Model) refreshFormats() {
	rows := m.renditions()
	if len(rows) == 0 {
		m.showFormats = false
		m.status = "no geometry loaded"
		return
	}
	tcols := []table.Column{
		{Title: "format", Width: 8},
		{Title: "bytes", Width: 6},
		{Title: "value", Width: renditionWidth},
	}
	trows := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		if v := []rune(r[2]); len(v) > renditionWidth {
			r[2] = string(v[:renditionWidth-1]) + "…"
		}
		trows = append(trows, table.Row(r))
	}
	// Avoid transient mismatch: clear rows, set columns, then set rows
	m.tbl.SetStyles(tableStyles())
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
}
