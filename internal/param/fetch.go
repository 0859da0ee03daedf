package param

import "context"

// Fetcher looks up a single named secret.
type Fetcher interface {
	Fetch(context.Context, string) (string, error)
}
