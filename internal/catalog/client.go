package catalog

import "context"

// Client is the remote catalog contract consumed by the feature reducers.
type Client interface {
	// FetchPage returns the first limit entries of the catalog index.
	FetchPage(ctx context.Context, limit int) ([]Item, error)
	// FetchDetail returns the full record for id.
	FetchDetail(ctx context.Context, id int) (Detail, error)
	// SearchByName returns entries whose name contains query, ignoring case.
	SearchByName(ctx context.Context, query string) ([]Item, error)
}
