// Package dataloader provides per-request DataLoaders that batch lookups made
// while rendering a list response into single SQL calls.
package dataloader

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"
)

const (
	maxBatch = 100
	wait     = 2 * time.Millisecond
)

type taskCounter interface {
	CountOpenByInquiries(ctx context.Context, inquiryIDs []uuid.UUID) (map[uuid.UUID]int, error)
}

// Repos holds the repositories required by the loaders.
type Repos struct {
	Tasks taskCounter
}

// Loaders contains the per-request DataLoaders. Created via NewLoaders.
type Loaders struct {
	OpenTasksByInquiryID *dataloader.Loader[uuid.UUID, int]
}

// NewLoaders creates a new set of DataLoaders backed by the given repositories.
// Must be called per-request (loaders cache results within a single request).
func NewLoaders(repos *Repos) *Loaders {
	return &Loaders{
		OpenTasksByInquiryID: newLoader(newOpenTasksBatchFn(repos.Tasks)),
	}
}

func newLoader[V any](batchFn dataloader.BatchFunc[uuid.UUID, V]) *dataloader.Loader[uuid.UUID, V] {
	return dataloader.NewBatchedLoader(
		batchFn,
		dataloader.WithWait[uuid.UUID, V](wait),
		dataloader.WithBatchCapacity[uuid.UUID, V](maxBatch),
	)
}

func newOpenTasksBatchFn(repo taskCounter) dataloader.BatchFunc[uuid.UUID, int] {
	return func(ctx context.Context, keys []uuid.UUID) []*dataloader.Result[int] {
		counts, err := repo.CountOpenByInquiries(ctx, keys)
		if err != nil {
			results := make([]*dataloader.Result[int], len(keys))
			for i := range results {
				results[i] = &dataloader.Result[int]{Error: err}
			}
			return results
		}

		// Inquiries without open tasks are absent from counts and load as 0.
		results := make([]*dataloader.Result[int], len(keys))
		for i, key := range keys {
			results[i] = &dataloader.Result[int]{Data: counts[key]}
		}
		return results
	}
}

type contextKey string

const loadersKey contextKey = "dataloaders"

// WithLoaders stores Loaders in the context.
func WithLoaders(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, l)
}

// FromContext retrieves Loaders from the context, or nil when the
// middleware is not installed.
func FromContext(ctx context.Context) *Loaders {
	l, _ := ctx.Value(loadersKey).(*Loaders)
	return l
}

// Middleware instantiates per-request DataLoaders and stores them in the request context.
func Middleware(repos *Repos) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithLoaders(r.Context(), NewLoaders(repos))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
