package fetcher

import (
	"context"
	"time"

	"github.com/rohmanhakim/content-gate/pkg/failure"
)

type Fetcher interface {
	Fetch(
		ctx context.Context,
		rawURL string,
		timeout time.Duration,
	) (FetchOutcome, failure.ClassifiedError)
}
