package pages

import "github.com/kong/gridctl/internal/datagrid"

func init() {
	Register(Page{
		Name:     "users",
		Aliases:  []string{"user", "u"},
		Title:    "Users",
		BasePath: "/users",
		Columns: func() []datagrid.Column {
			return []datagrid.Column{
				{ID: "name", Header: "Name"},
				{ID: "email", Header: "Email"},
				{ID: "role", Header: "Role", Filter: datagrid.FilterEquals},
				{ID: "status", Header: "Status", Filter: datagrid.FilterEquals},
				{ID: "created_at", Header: "Created", Cell: dateCell, DisableFilter: true},
			}
		},
		Schema: datagrid.Schema{
			{Key: "id", Label: "ID"},
			{Key: "name"},
			{Key: "email"},
			{Key: "role"},
			{Key: "status"},
			{Key: "age", Kind: datagrid.FieldNumber},
			{Key: "bio", Multiline: true},
			{Key: "created_at", Label: "Created", ReadOnly: true},
			{Key: "preferences", Kind: datagrid.FieldObject},
		},
		Selectable: true,
	})
}
