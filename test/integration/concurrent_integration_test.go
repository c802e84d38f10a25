//go:build integration

package integration

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/go-github-issues/github"
)

// TestConcurrent_CreateIssues verifies a shared client can create issues from
// many goroutines and every issue gets a distinct number.
func TestConcurrent_CreateIssues(t *testing.T) {
	server := startFake(t)
	client := newClient(t, server.URL())

	const numGoroutines = 50

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers = make(map[int64]bool, numGoroutines)
		errs    []error
	)

	for i := range numGoroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()

			issue, err := client.Issues.Create(context.Background(), owner, repo, github.Params{
				"title": fmt.Sprintf("issue %d", i),
			})

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				errs = append(errs, err)
				return
			}
			numbers[issue.Number()] = true
		}()
	}

	wg.Wait()

	require.Empty(t, errs)
	assert.Len(t, numbers, numGoroutines)
	assert.Equal(t, numGoroutines, server.Store().IssueCount(owner, repo))
	assert.Equal(t, numGoroutines, server.RequestCount())
}

// TestConcurrent_MixedOperations runs reads, comments and label changes
// against the same issue at once.
func TestConcurrent_MixedOperations(t *testing.T) {
	server := startFake(t)
	client := newClient(t, server.URL())
	ctx := context.Background()

	issue, err := client.Issues.Create(ctx, owner, repo, github.Params{"title": "shared"})
	require.NoError(t, err)
	number := issue.Number()

	const perKind = 10

	var wg sync.WaitGroup
	errCh := make(chan error, perKind*3)

	for i := range perKind {
		wg.Add(3)

		go func() {
			defer wg.Done()
			if _, err := client.Issues.Get(ctx, owner, repo, number); err != nil {
				errCh <- err
			}
		}()

		go func() {
			defer wg.Done()
			if _, err := client.Issues.Comments.Create(ctx, owner, repo, number, github.Params{"body": fmt.Sprintf("comment %d", i)}); err != nil {
				errCh <- err
			}
		}()

		go func() {
			defer wg.Done()
			if _, err := client.Issues.Labels.AddToIssue(ctx, owner, repo, number, fmt.Sprintf("label-%d", i)); err != nil {
				errCh <- err
			}
		}()
	}

	wg.Wait()
	close(errCh)

	for err := range errCh {
		t.Errorf("concurrent call failed: %v", err)
	}

	comments, err := client.Issues.Comments.List(ctx, owner, repo, number, &github.ListOptions{PerPage: 100})
	require.NoError(t, err)
	assert.Len(t, comments, perKind)

	labels, err := client.Issues.Labels.ListForIssue(ctx, owner, repo, number)
	require.NoError(t, err)
	assert.Len(t, labels, perKind)
}

// TestConcurrent_ContextCancellation verifies cancelled callers fail fast
// while others sharing the client still succeed.
func TestConcurrent_ContextCancellation(t *testing.T) {
	server := startFake(t)
	client := newClient(t, server.URL())

	_, err := client.Issues.Create(context.Background(), owner, repo, github.Params{"title": "t"})
	require.NoError(t, err)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	var wg sync.WaitGroup
	results := make([]error, 20)

	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx := context.Background()
			if i%2 == 0 {
				ctx = cancelled
			}

			callCtx, done := context.WithTimeout(ctx, 5*time.Second)
			defer done()

			_, results[i] = client.Issues.Get(callCtx, owner, repo, 1)
		}()
	}

	wg.Wait()

	for i, err := range results {
		if i%2 == 0 {
			assert.ErrorIs(t, err, github.ErrNetwork, "call %d", i)
		} else {
			assert.NoError(t, err, "call %d", i)
		}
	}
}
