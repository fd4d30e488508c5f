package datagrid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultCardLayoutSubtitle(t *testing.T) {
	cols := AugmentColumns([]Column{
		{ID: "name"},
		{ID: "status"},
		{ID: "CreatedDate"},
		{ID: "email"},
	}, Actions{View: func(Row) {}})
	slots := DefaultCardLayout(cols)

	require.Equal(t, "name", slots.Title.ID)
	require.Equal(t, "CreatedDate", slots.Subtitle.ID, "first matching column wins, case-insensitive")
	require.Len(t, slots.Details, 2)
	require.Equal(t, "status", slots.Details[0].ID)
	require.Equal(t, "email", slots.Details[1].ID)
}

func TestDefaultCardLayoutTitleBeatsHint(t *testing.T) {
	slots := DefaultCardLayout([]Column{{ID: "email"}, {ID: "role"}, {ID: "name"}})
	require.Equal(t, "email", slots.Title.ID)
	require.Equal(t, "role", slots.Subtitle.ID)
}

func TestDefaultCardLayoutSkipsSynthetic(t *testing.T) {
	cols := append([]Column{selectionColumn()}, nameEmailColumns()...)
	slots := DefaultCardLayout(cols)
	require.Equal(t, "name", slots.Title.ID)
	require.Empty(t, slots.Details)
}

func TestBuildCards(t *testing.T) {
	cards := BuildCards(annBob(), nameEmailColumns(), nil, nil, Actions{Delete: func(Row) {}})
	require.Len(t, cards, 2)
	require.Equal(t, "Ann", cards[0].Title)
	require.Equal(t, "a@x.com", cards[0].Subtitle)
	require.Equal(t, []ActionKind{ActionDelete}, cards[0].Actions)

	custom := BuildCards(annBob(), nameEmailColumns(), nil,
		func(r Row) string { return "#" + r.RowID() }, Actions{})
	require.Equal(t, "#2", custom[1].Custom)
	require.Empty(t, custom[1].Title)
}

func TestCardLayoutIsInjectable(t *testing.T) {
	layout := func(cols []Column) CardSlots {
		c := cols[1]
		return CardSlots{Title: &c}
	}
	cards := BuildCards(annBob(), nameEmailColumns(), layout, nil, Actions{})
	require.Equal(t, "b@x.com", cards[1].Title)
}
