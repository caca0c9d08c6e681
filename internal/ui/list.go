package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/isrcx/internal/models"
)

var _ list.Item = rowItem{}

// rowItem wraps [models.InputRow] to implement [list.Item].
type rowItem struct {
	row models.InputRow
}

func (i rowItem) FilterValue() string { return i.row.ISRC }
func (i rowItem) Title() string       { return i.row.ISRC }
func (i rowItem) Description() string {
	cells := make([]string, 0, len(i.row.Passthrough))
	for _, cell := range i.row.Passthrough {
		if cell != "" {
			cells = append(cells, cell)
		}
	}
	return strings.Join(cells, " • ")
}
