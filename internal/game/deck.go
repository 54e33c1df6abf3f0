package game

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// DeckFile represents the top-level YAML structure.
type DeckFile struct {
	Cards []*Card     `yaml:"cards"` // custom cards, validated on load
	Decks []DeckEntry `yaml:"decks"`
}

// DeckEntry represents a single deck in the YAML file.
type DeckEntry struct {
	Name  string      `yaml:"name"`
	Cards []CardEntry `yaml:"cards"`
}

// CardEntry represents a card and its count in a deck.
type CardEntry struct {
	ID    string `yaml:"id"`
	Count int    `yaml:"count"`
}

// DeckLibrary resolves card ids and named deck presets. The zero value
// resolves against the built-in catalog only.
type DeckLibrary struct {
	Custom  map[string]*Card
	Presets map[string][]string
}

// DefaultLibrary returns a library with the built-in AI presets.
func DefaultLibrary() *DeckLibrary {
	l := &DeckLibrary{
		Custom:  map[string]*Card{},
		Presets: make(map[string][]string, len(AIDeckPresets)),
	}
	for name, ids := range AIDeckPresets {
		l.Presets[name] = append([]string(nil), ids...)
	}
	return l
}

// Lookup returns a fresh instance of a custom or catalog card.
func (l *DeckLibrary) Lookup(id string) (*Card, error) {
	if c, ok := l.Custom[id]; ok {
		return c.Clone(c.ID), nil
	}
	return LookupCard(id)
}

// Slots instantiates ids as deck slots with unique slot ids.
func (l *DeckLibrary) Slots(ids []string) ([]*Card, error) {
	deck := make([]*Card, 0, len(ids))
	for _, id := range ids {
		c, err := l.Lookup(id)
		if err != nil {
			return nil, err
		}
		deck = append(deck, c.Clone(c.ID+"#"+uuid.NewString()))
	}
	return deck, nil
}

// Deck builds the named preset as fresh deck slots.
func (l *DeckLibrary) Deck(preset string) ([]*Card, error) {
	ids, ok := l.Presets[preset]
	if !ok {
		return nil, fmt.Errorf("unknown deck preset %q", preset)
	}
	return l.Slots(ids)
}

// PresetNames returns the preset names, sorted.
func (l *DeckLibrary) PresetNames() []string {
	names := make([]string, 0, len(l.Presets))
	for n := range l.Presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ParseDeckFile parses YAML deck data on top of the built-in presets. Decks
// with the same name as a built-in preset replace it.
func ParseDeckFile(data []byte) (*DeckLibrary, error) {
	var df DeckFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("parse deck YAML: %w", err)
	}

	l := DefaultLibrary()
	for _, c := range df.Cards {
		if c == nil {
			continue
		}
		if err := ValidateCustomCard(c); err != nil {
			return nil, fmt.Errorf("custom card %q: %w", c.ID, err)
		}
		if _, ok := CardRegistry[c.ID]; ok {
			return nil, fmt.Errorf("custom card %q shadows a catalog card", c.ID)
		}
		c.IsCustom = true
		l.Custom[c.ID] = c
	}

	for _, deck := range df.Decks {
		if deck.Name == "" {
			return nil, errors.New("deck without name")
		}
		var ids []string
		copies := make(map[string]int)
		for _, entry := range deck.Cards {
			if _, err := l.Lookup(entry.ID); err != nil {
				return nil, fmt.Errorf("deck %q: %w", deck.Name, err)
			}
			count := entry.Count
			if count == 0 {
				count = 1
			}
			copies[entry.ID] += count
			if copies[entry.ID] > MaxCopies {
				return nil, fmt.Errorf("deck %q holds more than %d copies of %s", deck.Name, MaxCopies, entry.ID)
			}
			for i := 0; i < count; i++ {
				ids = append(ids, entry.ID)
			}
		}
		if len(ids) == 0 {
			return nil, fmt.Errorf("deck %q is empty", deck.Name)
		}
		l.Presets[deck.Name] = ids
	}
	return l, nil
}

// LoadDeckFile reads and parses a YAML deck file.
func LoadDeckFile(path string) (*DeckLibrary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDeckFile(data)
}

// MaxCopies is how many copies of one card a deck may hold.
const MaxCopies = 3

// SlotBase returns the catalog id of a deck slot id.
func SlotBase(id string) string {
	base, _, _ := strings.Cut(id, "#")
	return base
}

// UsedCopies counts the plays p has recorded for the card base.
func (p *PlayerState) UsedCopies(base string) int {
	n := 0
	for _, id := range p.UsedCardIDs {
		if SlotBase(id) == base {
			n++
		}
	}
	return n
}

// NextCopyID returns the id under which p's next play of base is recorded
// when p's deck is held by the client. Once every copy is used it returns the
// last copy, which the resolver rejects as already used.
func (p *PlayerState) NextCopyID(base string) string {
	n := min(p.UsedCopies(base)+1, MaxCopies)
	return fmt.Sprintf("%s#%d", base, n)
}

// UnplayedSlots filters deck down to the slots p has not played yet, matching
// by catalog id: for every recorded play of a card one slot of it is dropped.
func UnplayedSlots(deck []*Card, p *PlayerState) []*Card {
	if p == nil {
		return deck
	}
	used := make(map[string]int)
	var out []*Card
	for _, c := range deck {
		base := SlotBase(c.ID)
		if _, ok := used[base]; !ok {
			used[base] = p.UsedCopies(base)
		}
		if used[base] > 0 {
			used[base]--
			continue
		}
		out = append(out, c)
	}
	return out
}
