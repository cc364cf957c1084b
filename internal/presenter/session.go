package presenter

import (
	"context"
	"errors"
	"io"
)

// Present runs one complete session: it constructs a [Controller], drives it from input until
// termination, and then closes the source, renderer and input when they implement [io.Closer].
//
// The returned controller reports the outcome even when err is non-nil, unless construction failed.
func Present(ctx context.Context, source Source, renderer Renderer, input InputSource, opts Options) (c *Controller, err error) {
	defer func() {
		err = errors.Join(err, release(source, renderer, input))
	}()

	c, err = New(source, renderer, opts)
	if err != nil {
		return nil, err
	}

	return c, c.Run(ctx, input)
}

func release(resources ...any) error {
	var errs []error
	for _, r := range resources {
		if closer, ok := r.(io.Closer); ok {
			errs = append(errs, closer.Close())
		}
	}
	return errors.Join(errs...)
}
