package api

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mark3labs/handyhire/internal/logger"
)

// FetchRatings loads the average rating of every provider concurrently. A
// provider whose rating cannot be fetched gets 0; one failure never affects
// the others. The map always has an entry per id.
func (c *Client) FetchRatings(ctx context.Context, ids []string) map[string]float64 {
	ratings := make(map[string]float64, len(ids))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.ratingWorkers)

	for _, id := range ids {
		g.Go(func() error {
			rating, err := c.rateLimitedRating(gctx, id)
			if err != nil {
				logger.Warn("rating for provider %s defaulted to 0: %v", id, err)
				rating = 0
			}
			mu.Lock()
			ratings[id] = rating
			mu.Unlock()
			// Failures are isolated, so the group never sees an error.
			return nil
		})
	}
	_ = g.Wait()
	return ratings
}

func (c *Client) rateLimitedRating(ctx context.Context, id string) (float64, error) {
	if c.ratingLimiter != nil {
		if err := c.ratingLimiter.Wait(ctx); err != nil {
			return 0, err
		}
	}
	return c.ProviderRating(ctx, id)
}
