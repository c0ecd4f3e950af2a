package extract

import (
	"context"
	"net/http"

	"github.com/ytget/ytx/errs"
	"github.com/ytget/ytx/youtube/innertube"
)

// parsePage consumes one response page and reports how many new items it
// contributed plus the continuation token for the next page ("" when the
// walk is done). The token lookup is response-shape specific and lives
// with the caller.
type parsePage func(resp map[string]any) (added int, token string)

// paginate walks continuation pages starting from the already-fetched
// first response. The walk stops when the token is absent, a page yields
// zero new items, or the accumulator reaches max (0 means uncapped).
// Continuation requests carry only the token plus client context.
func (e *Extractor) paginate(ctx context.Context, endpointKey, endpointURL string, first map[string]any, profile innertube.Profile, loc innertube.Locale, parse parsePage, max int) error {
	resp := first
	total := 0
	for {
		added, token := parse(resp)
		total += added
		if token == "" || added == 0 {
			return nil
		}
		if max > 0 && total >= max {
			return nil
		}

		if err := e.Limiter.Wait(ctx, endpointKey); err != nil {
			return &errs.CancelledError{Err: err}
		}
		next, err := e.Client.RequestJSON(ctx, http.MethodPost, endpointURL,
			profile.Headers(), innertube.ContinuationBody(token, profile, loc))
		if err != nil {
			return err
		}
		resp = next
	}
}
