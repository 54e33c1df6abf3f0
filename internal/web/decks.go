package web

import (
	"net/http"

	"github.com/1123antman/battle-super-z/internal/game"
)

// DeckInfo is the JSON representation of a deck for the /api/decks endpoint.
type DeckInfo struct {
	Name  string   `json:"name"`
	Size  int      `json:"size"`
	Cards []string `json:"cards"`
}

func (s *Server) handleDecks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, deckInfos(s.store.Library()))
}

// deckInfos lists every preset with the unique card names it contains.
func deckInfos(lib *game.DeckLibrary) []DeckInfo {
	decks := make([]DeckInfo, 0, len(lib.Presets))
	for _, name := range lib.PresetNames() {
		ids := lib.Presets[name]
		di := DeckInfo{Name: name, Size: len(ids), Cards: []string{}}
		seen := make(map[string]bool)
		for _, id := range ids {
			c, err := lib.Lookup(id)
			if err != nil || seen[c.Name] {
				continue
			}
			seen[c.Name] = true
			di.Cards = append(di.Cards, c.Name)
		}
		decks = append(decks, di)
	}
	return decks
}
