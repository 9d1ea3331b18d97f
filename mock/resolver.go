package mock

import (
	"context"

	"github.com/fwojciec/mdview"
)

// Interface compliance checks.
var (
	_ mdview.ImageResolver = (*ImageResolver)(nil)
	_ mdview.LinkActivator = (*LinkActivator)(nil)
	_ mdview.Scheduler     = (*Scheduler)(nil)
)

// ImageResolver is a test double for mdview.ImageResolver.
// Set the function fields for the methods you need.
type ImageResolver struct {
	GetImageFn   func(ctx context.Context, url string) ([]byte, error)
	CacheImageFn func(ctx context.Context, url string, data []byte) error
}

// GetImage delegates to GetImageFn.
func (r *ImageResolver) GetImage(ctx context.Context, url string) ([]byte, error) {
	return r.GetImageFn(ctx, url)
}

// CacheImage delegates to CacheImageFn.
func (r *ImageResolver) CacheImage(ctx context.Context, url string, data []byte) error {
	return r.CacheImageFn(ctx, url, data)
}

// LinkActivator is a test double for mdview.LinkActivator.
type LinkActivator struct {
	OpenFn func(url string)
}

// Open delegates to OpenFn.
func (a *LinkActivator) Open(url string) {
	a.OpenFn(url)
}

// Scheduler is a test double for mdview.Scheduler.
type Scheduler struct {
	PostFn func(fn func())
}

// Post delegates to PostFn.
func (s *Scheduler) Post(fn func()) {
	s.PostFn(fn)
}
