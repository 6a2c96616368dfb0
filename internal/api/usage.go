package api

import (
	"context"
	"fmt"
	"net/url"

	http "github.com/bogdanfinn/fhttp"

	"github.com/diogo/docchat/internal/models"
)

// Usage returns the caller's token usage summary
func (c *Client) Usage(ctx context.Context) (*models.UsageSummary, error) {
	req, err := c.newRequest(ctx, http.MethodGet, models.PathUsage, nil)
	if err != nil {
		return nil, err
	}

	var summary models.UsageSummary
	if err := c.doJSON("usage summary", req, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// UsageChart returns usage samples over the given window. An empty model
// (or "all") returns samples for every model.
func (c *Client) UsageChart(ctx context.Context, rangeHours float64, model string) ([]models.UsagePoint, error) {
	q := url.Values{}
	q.Set("range_hours", fmt.Sprintf("%g", rangeHours))
	if model != "" {
		q.Set("model", model)
	}

	req, err := c.newRequest(ctx, http.MethodGet, models.PathUsageChart+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var points []models.UsagePoint
	if err := c.doJSON("usage chart", req, &points); err != nil {
		return nil, err
	}
	return points, nil
}
