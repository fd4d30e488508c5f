package pages

import (
	"fmt"

	"github.com/kong/gridctl/internal/cmd/output/tableview"
	"github.com/kong/gridctl/internal/datagrid"
)

const auditCardTemplate = `{{ .action | upper }} {{ .resource }}
{{ field "actor.email" | default "system" }}
{{ .event_date | default "" | trunc 10 }} · {{ short .id }}`

func init() {
	Register(Page{
		Name:     "auditlogs",
		Aliases:  []string{"audit-logs", "audit", "logs"},
		Title:    "Audit logs",
		BasePath: "/audit-logs",
		Columns: func() []datagrid.Column {
			return []datagrid.Column{
				{ID: "id", Header: "ID", Cell: idCell, DisableSort: true},
				{ID: "action", Header: "Action", Filter: datagrid.FilterEquals},
				{ID: "actor", Header: "Actor", Accessor: datagrid.MustPath("actor.email")},
				{ID: "resource", Header: "Resource"},
				{ID: "event_date", Header: "Date", Cell: dateCell},
			}
		},
		Schema: datagrid.Schema{
			{Key: "id", Label: "ID"},
			{Key: "action", ReadOnly: true},
			{Key: "resource", ReadOnly: true},
			{Key: "event_date", Label: "Date", ReadOnly: true},
			{Key: "details", Kind: datagrid.FieldObject},
		},
		Paths:        map[string]string{"actor": "actor.email"},
		Sorting:      datagrid.SortState{{ColumnID: "event_date", Desc: true}},
		CardTemplate: auditCardTemplate,
	})

	tableview.RegisterFieldRenderer("auditlogs", "actor", "Actor", actorField)
}

func actorField(_ datagrid.Row, value any, _ int) string {
	actor, ok := value.(map[string]any)
	if !ok {
		return datagrid.Placeholder
	}
	name := datagrid.Stringify(actor["name"])
	email := datagrid.Stringify(actor["email"])
	switch {
	case name != "" && email != "":
		return fmt.Sprintf("%s <%s>", name, email)
	case email != "":
		return email
	case name != "":
		return name
	default:
		return datagrid.Placeholder
	}
}
