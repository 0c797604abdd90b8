// ABOUTME: Place autocomplete via the backend's nominatim proxy
// ABOUTME: Short queries are suppressed client-side, never sent

package client

import (
	"context"
	"net/http"
	"net/url"
)

// MinSearchLength is the minimum query length before a lookup is issued
const MinSearchLength = 3

type searchResponse struct {
	Results []SearchResult `json:"results"`
}

// SearchPlaces calls GET /api/nominatim-search?q=. Queries shorter than
// MinSearchLength return an empty result set without a network call.
func (c *Client) SearchPlaces(ctx context.Context, query string) ([]SearchResult, error) {
	if len([]rune(query)) < MinSearchLength {
		return nil, nil
	}

	q := url.Values{}
	q.Set("q", query)

	var resp searchResponse
	if err := c.do(ctx, http.MethodGet, "/nominatim-search", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}
