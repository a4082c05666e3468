package mock

import (
	"context"

	"github.com/imagineworking4288/pagebound"
)

var _ pagebound.Navigator = (*Navigator)(nil)

// Navigator is a mock implementation of pagebound.Navigator.
type Navigator struct {
	GotoFn         func(ctx context.Context, url string) error
	CurrentURLFn   func() string
	HTMLFn         func(ctx context.Context) (string, error)
	HeightFn       func(ctx context.Context) (float64, error)
	ScrollBottomFn func(ctx context.Context) (float64, error)
	ClickFn        func(ctx context.Context, selector string) error
	CloseFn        func() error
}

func (n *Navigator) Goto(ctx context.Context, url string) error {
	return n.GotoFn(ctx, url)
}

func (n *Navigator) CurrentURL() string {
	return n.CurrentURLFn()
}

func (n *Navigator) HTML(ctx context.Context) (string, error) {
	return n.HTMLFn(ctx)
}

func (n *Navigator) Height(ctx context.Context) (float64, error) {
	return n.HeightFn(ctx)
}

func (n *Navigator) ScrollBottom(ctx context.Context) (float64, error) {
	return n.ScrollBottomFn(ctx)
}

func (n *Navigator) Click(ctx context.Context, selector string) error {
	return n.ClickFn(ctx, selector)
}

func (n *Navigator) Close() error {
	return n.CloseFn()
}
