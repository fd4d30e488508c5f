package pages

import (
	"strings"

	"github.com/kong/gridctl/internal/cmd/output/tableview"
	"github.com/kong/gridctl/internal/datagrid"
)

const maxRating = 5

func init() {
	Register(Page{
		Name:     "feedback",
		Aliases:  []string{"reviews"},
		Title:    "Feedback",
		BasePath: "/feedback",
		Columns: func() []datagrid.Column {
			return []datagrid.Column{
				{ID: "author_email", Header: "Author"},
				{
					ID: "rating", Header: "Rating", Cell: ratingCell,
					Filter: datagrid.FilterEquals, FilterHint: "stars, 1 to 5",
				},
				{ID: "status", Header: "Status", Filter: datagrid.FilterEquals},
				{ID: "body", Header: "Feedback"},
				{ID: "submitted_date", Header: "Submitted", Cell: dateCell},
			}
		},
		Schema: datagrid.Schema{
			{Key: "id", Label: "ID"},
			{Key: "author_email", Label: "Author"},
			{Key: "rating", Kind: datagrid.FieldNumber},
			{Key: "status"},
			{Key: "body", Label: "Feedback"},
			{Key: "submitted_date", Label: "Submitted", ReadOnly: true},
		},
		Selectable: true,
	})

	tableview.RegisterFieldRenderer("feedback", "rating", "Rating", func(row datagrid.Row, value any, _ int) string {
		return ratingCell(row, value)
	})
}

func ratingCell(_ datagrid.Row, v any) string {
	n := 0
	switch t := v.(type) {
	case float64:
		n = int(t)
	case int:
		n = t
	case int64:
		n = int(t)
	default:
		return datagrid.Placeholder
	}
	n = max(0, min(n, maxRating))
	return strings.Repeat("★", n) + strings.Repeat("☆", maxRating-n)
}
