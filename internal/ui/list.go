package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/catalogai/internal/formatter"
	"github.com/desertthunder/catalogai/internal/models"
)

var (
	_ list.Item = recommendationItem{}
)

// recommendationItem wraps [models.Recommendation] to implement [list.Item].
type recommendationItem struct {
	rec models.Recommendation
}

func (i recommendationItem) FilterValue() string { return i.rec.Title }
func (i recommendationItem) Title() string       { return i.rec.Heading() }
func (i recommendationItem) Description() string {
	return fmt.Sprintf("%s: %s • %s", formatter.Labels[3], i.rec.Chances, i.rec.Synopsis)
}

func recommendationItems(recs []models.Recommendation) []list.Item {
	items := make([]list.Item, len(recs))
	for i, rec := range recs {
		items[i] = recommendationItem{rec: rec}
	}
	return items
}
