package api

import (
	"html/template"
	"time"

	"github.com/Daz-Mac/fishing-assistant/internal/card"
)

// CardSummary is one row of the dashboard index.
type CardSummary struct {
	CardID   string
	Entity   string
	Score    string
	Location string
	Found    bool
	Updated  time.Time
}

type IndexData struct {
	Cards []CardSummary
	Error string
}

// CardPageData wraps a rendered card for the standalone card page.
type CardPageData struct {
	CardID string
	Card   template.HTML
}

// EditOption is one row of the config editor.
type EditOption struct {
	Name  string
	Kind  string
	Value string
}

type EditData struct {
	CardID       string
	Options      []EditOption
	Notification string // full merged config, the configuration-changed payload
	Error        string
}

// APICardResponse is the JSON rendering of a card's viewmodel.
type APICardResponse struct {
	CardID string        `json:"card_id"`
	Config card.Config   `json:"config"`
	Data   card.CardData `json:"data"`
}
