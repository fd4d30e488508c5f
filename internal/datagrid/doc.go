// Package datagrid is the presentation engine shared by every list page.
//
// A Table owns nothing the calling page does not hand it: columns, rows and
// callbacks come from the caller, and each piece of view state (global filter,
// sorting, column filters, pagination, selection) is either owned by the table
// or delegated to the caller, decided once when the table is built. The table
// runs the filter/sort/paginate pipeline, tracks the row-action modal and the
// filter drawer, and exposes the visible window to a renderer. It never
// performs I/O.
package datagrid
