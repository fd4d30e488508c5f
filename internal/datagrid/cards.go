package datagrid

import "strings"

// subtitleHints are the column id fragments promoted to a card's subtitle.
var subtitleHints = []string{"email", "date", "role"}

// CardSlots assigns columns to the parts of a card.
type CardSlots struct {
	Title    *Column
	Subtitle *Column
	Details  []Column
}

// CardLayout decides which columns fill a card.
type CardLayout func(cols []Column) CardSlots

// CardRenderer replaces the whole default card for a row.
type CardRenderer func(row Row) string

// DefaultCardLayout uses the first data column as the title and the first
// later column whose id mentions email, date or role as the subtitle. Every
// other data column becomes a detail line.
func DefaultCardLayout(cols []Column) CardSlots {
	var slots CardSlots
	data := make([]Column, 0, len(cols))
	for _, c := range cols {
		if !c.synthetic {
			data = append(data, c)
		}
	}
	if len(data) == 0 {
		return slots
	}
	title := data[0]
	slots.Title = &title
	rest := data[1:]

	sub := -1
	for i, c := range rest {
		id := strings.ToLower(c.ID)
		for _, hint := range subtitleHints {
			if strings.Contains(id, hint) {
				sub = i
				break
			}
		}
		if sub >= 0 {
			break
		}
	}
	for i, c := range rest {
		if i == sub {
			subtitle := c
			slots.Subtitle = &subtitle
			continue
		}
		slots.Details = append(slots.Details, c)
	}
	return slots
}

// CardField is one labeled detail line.
type CardField struct {
	Label string
	Value string
}

// Card is the resolved content of one grid cell.
type Card struct {
	Row      Row
	Title    string
	Subtitle string
	Details  []CardField
	Actions  []ActionKind
	// Custom holds CardRenderer output. When set, every other field is unused.
	Custom string
}

// BuildCards lays out one card per row, in row order.
func BuildCards(rows []Row, cols []Column, layout CardLayout, render CardRenderer, actions Actions) []Card {
	if layout == nil {
		layout = DefaultCardLayout
	}
	slots := layout(cols)
	kinds := actions.Available()
	cards := make([]Card, 0, len(rows))
	for _, row := range rows {
		if render != nil {
			cards = append(cards, Card{Row: row, Custom: render(row), Actions: kinds})
			continue
		}
		card := Card{Row: row, Actions: kinds}
		if slots.Title != nil {
			card.Title = slots.Title.Render(row)
		}
		if slots.Subtitle != nil {
			card.Subtitle = slots.Subtitle.Render(row)
		}
		for _, c := range slots.Details {
			card.Details = append(card.Details, CardField{Label: c.Label(), Value: c.Render(row)})
		}
		cards = append(cards, card)
	}
	return cards
}
