// Package catalog defines the catalog data model, its error taxonomy, and the
// Client contract the feature reducers depend on.
//
// # Types
//
//   - Item: one index entry; its ID is parsed from the resource URL
//   - Detail: the full record shown in the detail overlay and saved as a favorite
//
// # Errors
//
// Every Client failure is a *NetworkError whose Kind is one of ErrTransport,
// ErrDecode or ErrNotFound:
//
//	if errors.Is(err, catalog.ErrNotFound) {
//		// render "Not found"
//	}
//
// Message turns any error into the single line the UI shows on the owning
// state node.
package catalog
