package pages

import "github.com/kong/gridctl/internal/datagrid"

func init() {
	Register(Page{
		Name:     "roles",
		Aliases:  []string{"role"},
		Title:    "Roles",
		BasePath: "/roles",
		Columns: func() []datagrid.Column {
			return []datagrid.Column{
				{ID: "name", Header: "Role"},
				{ID: "description", Header: "Description"},
				{ID: "permissions", Header: "Permissions", Cell: countCell, DisableFilter: true, DisableSort: true},
				{
					ID: "builtin", Header: "Built-in", Cell: boolCell("yes", "no"),
					Filter: datagrid.FilterEquals, FilterHint: "true or false",
				},
			}
		},
		Sorting: datagrid.SortState{{ColumnID: "name"}},
	})
}
