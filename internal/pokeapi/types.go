package pokeapi

import "github.com/five82/dex/internal/catalog"

// Wire shapes of the PokeAPI JSON payloads. Only the fields dex reads are
// declared.

type namedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type listResponse struct {
	Count   int             `json:"count"`
	Results []namedResource `json:"results"`
}

type detailResponse struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Height int    `json:"height"`
	Weight int    `json:"weight"`
	Types  []struct {
		Slot int           `json:"slot"`
		Type namedResource `json:"type"`
	} `json:"types"`
	Abilities []struct {
		Slot     int           `json:"slot"`
		Ability  namedResource `json:"ability"`
		IsHidden bool          `json:"is_hidden"`
	} `json:"abilities"`
	Moves []struct {
		Move namedResource `json:"move"`
	} `json:"moves"`
	Sprites catalog.Sprites `json:"sprites"`
}

func (r detailResponse) toDetail() catalog.Detail {
	d := catalog.Detail{
		ID:        r.ID,
		Name:      r.Name,
		Height:    r.Height,
		Weight:    r.Weight,
		Sprites:   r.Sprites,
		Types:     make([]catalog.TypeSlot, 0, len(r.Types)),
		Abilities: make([]catalog.AbilitySlot, 0, len(r.Abilities)),
		Moves:     make([]string, 0, len(r.Moves)),
	}
	for _, t := range r.Types {
		d.Types = append(d.Types, catalog.TypeSlot{Slot: t.Slot, Name: t.Type.Name})
	}
	for _, a := range r.Abilities {
		d.Abilities = append(d.Abilities, catalog.AbilitySlot{Slot: a.Slot, Name: a.Ability.Name, IsHidden: a.IsHidden})
	}
	for _, m := range r.Moves {
		d.Moves = append(d.Moves, m.Move.Name)
	}
	return d
}
