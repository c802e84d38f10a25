package github

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// DefaultBatchLimit caps concurrent requests made by GetMany.
const DefaultBatchLimit = 4

// GetMany fetches several issues concurrently, at most DefaultBatchLimit at a
// time. Results keep the order of numbers. The first failure cancels the
// outstanding requests and is returned.
func (s *Issues) GetMany(ctx context.Context, user, repo string, numbers ...int64) ([]Issue, error) {
	return s.GetManyLimit(ctx, DefaultBatchLimit, user, repo, numbers...)
}

// GetManyLimit is GetMany with an explicit concurrency limit. A limit below
// one means no limit.
func (s *Issues) GetManyLimit(ctx context.Context, limit int, user, repo string, numbers ...int64) ([]Issue, error) {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	results := make([]Issue, len(numbers))

	for i, number := range numbers {
		g.Go(func() error {
			issue, err := s.Get(ctx, user, repo, number)
			if err != nil {
				return fmt.Errorf("issue %d: %w", number, err)
			}

			results[i] = *issue

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
