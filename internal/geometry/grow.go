package geometry

import (
	"context"
	"errors"
	"fmt"

	"github.com/cenkalti/backoff/v5"
	"github.com/paulmach/orb"

	"github.com/samdwyer/tunneler/internal/polygon"
	"github.com/samdwyer/tunneler/internal/random"
)

// DefaultMaxShapeRetries caps the attempts made to attach one sub-shape.
const DefaultMaxShapeRetries = 64

var (
	// ErrShapeRetriesExhausted is returned when a sub-shape could not be
	// attached to a growing shape within the retry ceiling.
	ErrShapeRetriesExhausted = errors.New("shape retries exhausted")

	errNotTouching = errors.New("sub-shape does not touch")
	errNotMerged   = errors.New("sub-shape does not merge into one contour")
)

// Grower unions random sub-shapes into a single connected polygon.
type Grower struct {
	Rng        *random.Random
	BaseRadius float64
	MaxTries   int
}

// Grow attaches a random sub-shape centred on center to shape. Each failed
// attempt, where the candidate does not overlap shape or the union splits
// into several outer contours, is retried with the trial radius increased
// by BaseRadius. An empty shape accepts the first candidate as is.
//
// Cancelling ctx does not stop the loop: the attempts made depend only on
// the stream, never on the caller.
func (g Grower) Grow(ctx context.Context, shape polygon.Polygon, center orb.Point) (polygon.Polygon, error) {
	maxTries := g.MaxTries
	if maxTries <= 0 {
		maxTries = DefaultMaxShapeRetries
	}

	attempt := 1
	grown, err := backoff.Retry(context.WithoutCancel(ctx), func() (polygon.Polygon, error) {
		p := CreateShape(g.Rng, center, float64(attempt)*g.BaseRadius)
		attempt++

		if shape.IsEmpty() {
			return p, nil
		}
		if !shape.HasIntersection(p) {
			return polygon.Polygon{}, errNotTouching
		}

		union := shape.Union(p)
		if union.OuterCount() > 1 {
			return polygon.Polygon{}, errNotMerged
		}
		return union, nil
	},
		backoff.WithBackOff(&backoff.ZeroBackOff{}),
		backoff.WithMaxTries(uint(maxTries)),
	)
	if err != nil {
		if errors.Is(err, errNotTouching) || errors.Is(err, errNotMerged) {
			return shape, fmt.Errorf("%w at (%g, %g) after %d attempts: %v",
				ErrShapeRetriesExhausted, center[0], center[1], attempt-1, err)
		}
		return shape, err
	}
	return grown, nil
}
