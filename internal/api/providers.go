package api

import (
	"context"

	http "github.com/bogdanfinn/fhttp"

	"github.com/diogo/docchat/internal/models"
)

// ListProviders returns the configured completion providers. With
// activeOnly set, disabled providers are filtered server-side.
func (c *Client) ListProviders(ctx context.Context, activeOnly bool) ([]models.Provider, error) {
	path := models.PathProviders
	if activeOnly {
		path += "?active_only=true"
	}

	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var providers []models.Provider
	if err := c.doJSON("list providers", req, &providers); err != nil {
		return nil, err
	}
	return providers, nil
}
