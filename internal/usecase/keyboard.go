package usecase

import (
	"net/url"
	"strings"

	"telegram-promo-gate/internal/domain/ports/adapter"
)

// Callback action identifiers shared between the gate and the bot adapter.
const (
	ActionCheckSub       = "check_sub"
	ActionCatalogClothes = "catalog_clothes"
	ActionCatalogTech    = "catalog_tech"
)

// Links holds the outward-facing URLs embedded into reply keyboards.
type Links struct {
	BaseURL    string
	ClothesURL string
	TechURL    string
}

// EntryLink builds the capability-restricted web entry point for one user.
func (l Links) EntryLink(token string) string {
	return strings.TrimRight(l.BaseURL, "/") + "/?token=" + url.QueryEscape(token)
}

// MenuMarkup is the keyboard shown to verified members. The first row opens
// the personal web entry point, the second the static catalogs.
func MenuMarkup(links Links, token string) [][]adapter.InlineButton {
	return [][]adapter.InlineButton{
		{{Text: "🛍 Open shop", URL: links.EntryLink(token)}},
		{
			{Text: "👕 Clothing", Data: ActionCatalogClothes},
			{Text: "📱 Tech", Data: ActionCatalogTech},
		},
	}
}

// SubscribeMarkup lists one deep link per required channel plus a re-check
// button.
func SubscribeMarkup(channels []string) [][]adapter.InlineButton {
	rows := make([][]adapter.InlineButton, 0, len(channels)+1)
	for _, ch := range channels {
		rows = append(rows, []adapter.InlineButton{{
			Text: "➕ Subscribe to " + ch,
			URL:  "https://t.me/" + strings.TrimPrefix(ch, "@"),
		}})
	}
	rows = append(rows, []adapter.InlineButton{{Text: "✅ I subscribed", Data: ActionCheckSub}})
	return rows
}
