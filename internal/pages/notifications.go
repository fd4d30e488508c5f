package pages

import "github.com/kong/gridctl/internal/datagrid"

func init() {
	Register(Page{
		Name:     "notifications",
		Aliases:  []string{"notification", "notices"},
		Title:    "Notifications",
		BasePath: "/notifications",
		Columns: func() []datagrid.Column {
			return []datagrid.Column{
				{ID: "title", Header: "Title"},
				{ID: "channel", Header: "Channel", Filter: datagrid.FilterEquals},
				{ID: "sent_date", Header: "Sent", Cell: dateCell},
				{ID: "read", Header: "Read", Cell: boolCell("✓", ""), DisableFilter: true},
			}
		},
		Schema: datagrid.Schema{
			{Key: "id", Label: "ID"},
			{Key: "title"},
			{Key: "body", Multiline: true},
			{Key: "channel"},
			{Key: "read", Kind: datagrid.FieldBool},
			{Key: "sent_date", Label: "Sent", ReadOnly: true},
		},
		Sorting: datagrid.SortState{{ColumnID: "sent_date", Desc: true}},
	})
}
