package extract

import (
	"context"
	"net/http"

	"github.com/ytget/ytx/errs"
	"github.com/ytget/ytx/youtube/innertube"
)

// GetSuggestions returns search completion suggestions for a partial
// query. An empty query yields an empty list without a network call; a
// malformed completion payload also yields an empty list, since
// suggestions are best-effort decoration.
func (e *Extractor) GetSuggestions(ctx context.Context, query string, opts *Options) ([]string, error) {
	if query == "" {
		return []string{}, nil
	}
	loc := opts.locale(e.Locale)

	if err := e.Limiter.Wait(ctx, endpointSuggest); err != nil {
		return nil, &errs.CancelledError{Err: err}
	}
	root, err := e.Client.RequestJSONValue(ctx, http.MethodGet,
		innertube.SuggestURL(query, loc), nil, nil)
	if err != nil {
		return nil, err
	}

	// The completion endpoint answers [query, [suggestions...], ...].
	out := []string{}
	list, ok := root.([]any)
	if !ok || len(list) < 2 {
		return out, nil
	}
	entries, ok := list[1].([]any)
	if !ok {
		return out, nil
	}
	for _, entry := range entries {
		switch v := entry.(type) {
		case string:
			out = append(out, v)
		case []any:
			// some client variants wrap each suggestion in its own list
			if len(v) > 0 {
				if s, ok := v[0].(string); ok {
					out = append(out, s)
				}
			}
		}
	}
	return out, nil
}

// GetRelatedSuggestions returns the refinement queries the platform
// proposes alongside search results for a full query. Missing
// refinements yield an empty list, not an error.
func (e *Extractor) GetRelatedSuggestions(ctx context.Context, query string, opts *Options) ([]string, error) {
	if query == "" {
		return []string{}, nil
	}
	profile := e.profileFor(opts)
	loc := opts.locale(e.Locale)

	if err := e.Limiter.Wait(ctx, endpointSuggest); err != nil {
		return nil, &errs.CancelledError{Err: err}
	}
	resp, err := e.Client.RequestJSON(ctx, http.MethodPost,
		innertube.EndpointURL(innertube.SearchURL),
		profile.Headers(),
		innertube.SearchBody(query, "", profile, loc))
	if err != nil {
		return nil, err
	}

	out := []string{}
	if raw, ok := resp["refinements"].([]any); ok {
		for _, r := range raw {
			if s, ok := r.(string); ok {
				out = append(out, s)
			}
		}
	}
	if len(out) > 0 {
		return out, nil
	}

	// fall back to refinement cards embedded in the result shelf
	var cards []map[string]any
	collect(resp, "searchRefinementCardRenderer", &cards)
	for _, card := range cards {
		if q := textOf(card["query"]); q != "" {
			out = append(out, q)
		}
	}
	return out, nil
}
