// Package pokeapi implements catalog.Client over the public PokeAPI REST
// service.
//
// Only two endpoints are used: the pokemon index (/pokemon?limit=N) and a
// single pokemon record (/pokemon/{id}). Name search has no server-side
// filter, so SearchByName reads a large index page and filters locally.
//
// Every failure is returned as a *catalog.NetworkError whose Kind is
// catalog.ErrNotFound for 404, catalog.ErrDecode for malformed payloads, and
// catalog.ErrTransport for everything else.
package pokeapi
