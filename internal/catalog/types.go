package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// Item is a single catalog entry as listed by the catalog index.
type Item struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// NewItem builds an Item, extracting its ID from the canonical resource URL.
func NewItem(name, resourceURL string) (Item, error) {
	id, err := IDFromURL(resourceURL)
	if err != nil {
		return Item{}, err
	}
	return Item{ID: id, Name: name, URL: resourceURL}, nil
}

// IDFromURL returns the integer from the last non-empty path segment of a
// resource URL such as https://pokeapi.co/api/v2/pokemon/25/.
func IDFromURL(resourceURL string) (int, error) {
	segments := strings.FieldsFunc(resourceURL, func(r rune) bool { return r == '/' })
	if len(segments) == 0 {
		return 0, fmt.Errorf("extract id from %q: %w", resourceURL, ErrDecode)
	}
	id, err := strconv.Atoi(segments[len(segments)-1])
	if err != nil {
		return 0, fmt.Errorf("extract id from %q: %w", resourceURL, ErrDecode)
	}
	return id, nil
}

// Detail is the full record for one catalog entry. Identity is ID.
type Detail struct {
	ID        int           `json:"id"`
	Name      string        `json:"name"`
	Types     []TypeSlot    `json:"types"`
	Abilities []AbilitySlot `json:"abilities"`
	Moves     []string      `json:"moves"`
	Sprites   Sprites       `json:"sprites"`
	Height    int           `json:"height"`
	Weight    int           `json:"weight"`
}

// TypeSlot is one ordered type assignment.
type TypeSlot struct {
	Slot int    `json:"slot"`
	Name string `json:"name"`
}

// AbilitySlot is one ordered ability assignment.
type AbilitySlot struct {
	Slot     int    `json:"slot"`
	Name     string `json:"name"`
	IsHidden bool   `json:"is_hidden"`
}

// Sprites holds optional image URLs.
type Sprites struct {
	Front      *string `json:"front_default,omitempty"`
	FrontShiny *string `json:"front_shiny,omitempty"`
	Back       *string `json:"back_default,omitempty"`
	BackShiny  *string `json:"back_shiny,omitempty"`
}

// TypeNames returns the type names in slot order.
func (d Detail) TypeNames() []string {
	names := make([]string, 0, len(d.Types))
	for _, t := range d.Types {
		names = append(names, t.Name)
	}
	return names
}

// HeightMeters converts the decimetre height to metres.
func (d Detail) HeightMeters() float64 {
	return float64(d.Height) / 10
}

// WeightKilograms converts the hectogram weight to kilograms.
func (d Detail) WeightKilograms() float64 {
	return float64(d.Weight) / 10
}
