package providers

import "context"

// FacilityFeed downloads the public hospital directory as CSV text.
type FacilityFeed interface {
	FetchCSV(ctx context.Context) (string, error)
}
