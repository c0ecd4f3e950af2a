package extract

import (
	"context"
	"net/http"

	"github.com/ytget/ytx/errs"
	"github.com/ytget/ytx/types"
	"github.com/ytget/ytx/youtube/innertube"
)

// SortOrder selects search result ordering.
type SortOrder string

const (
	SortRelevance SortOrder = "relevance"
	SortDate      SortOrder = "date"
	SortRating    SortOrder = "rating"
	SortViewCount SortOrder = "viewCount"
)

// DefaultMaxResults caps a search when the caller does not.
const DefaultMaxResults = 20

// SearchOptions narrows and caps a search. Zero values mean videos only,
// sorted by relevance, DefaultMaxResults results.
type SearchOptions struct {
	Type       types.SearchResultType
	SortBy     SortOrder
	MaxResults int
	Language   string
	Region     string
}

type searchFilter struct {
	resultType types.SearchResultType
	sortBy     SortOrder
}

// searchParams maps the recognized (type, sortBy) combinations to the
// platform's opaque filter blobs. Anything else is rejected rather than
// guessed.
var searchParams = map[searchFilter]string{
	{types.SearchResultVideo, SortRelevance}:    "EgIQAQ==",
	{types.SearchResultVideo, SortDate}:         "CAISAhAB",
	{types.SearchResultVideo, SortRating}:       "CAESAhAB",
	{types.SearchResultVideo, SortViewCount}:    "CAMSAhAB",
	{types.SearchResultPlaylist, SortRelevance}: "EgIQAw==",
	{types.SearchResultChannel, SortRelevance}:  "EgIQAg==",
}

// Search runs a capped continuation walk over search result pages. An
// empty query returns an empty list without a network call.
func (e *Extractor) Search(ctx context.Context, query string, opts *SearchOptions) ([]types.SearchResult, error) {
	if query == "" {
		return []types.SearchResult{}, nil
	}
	if opts == nil {
		opts = &SearchOptions{}
	}
	filter := searchFilter{resultType: opts.Type, sortBy: opts.SortBy}
	if filter.resultType == "" {
		filter.resultType = types.SearchResultVideo
	}
	if filter.sortBy == "" {
		filter.sortBy = SortRelevance
	}
	params, ok := searchParams[filter]
	if !ok {
		return nil, &errs.ExtractorError{
			Message:  "unsupported search filter " + string(filter.resultType) + "/" + string(filter.sortBy),
			Expected: true,
		}
	}
	max := opts.MaxResults
	if max <= 0 {
		max = DefaultMaxResults
	}

	profile := e.Profile
	loc := innertube.Locale{HL: opts.Language, GL: opts.Region}.Or(e.Locale).Or(innertube.DefaultLocale)

	resp, err := e.searchRequest(ctx, query, params, profile, loc)
	if err != nil {
		return nil, err
	}

	results := make([]types.SearchResult, 0, max)
	err = e.paginate(ctx, endpointSearch, innertube.EndpointURL(innertube.SearchURL),
		resp, profile, loc,
		func(page map[string]any) (int, string) {
			added := appendSearchResults(page, &results)
			return added, continuationToken(page)
		}, max)
	if err != nil {
		return nil, err
	}

	if len(results) > max {
		results = results[:max]
	}
	e.log.Info("search done", map[string]any{"query": query, "results": len(results)})
	return results, nil
}

func (e *Extractor) searchRequest(ctx context.Context, query, params string, profile innertube.Profile, loc innertube.Locale) (map[string]any, error) {
	if err := e.Limiter.Wait(ctx, endpointSearch); err != nil {
		return nil, &errs.CancelledError{Err: err}
	}
	return e.Client.RequestJSON(ctx, http.MethodPost,
		innertube.EndpointURL(innertube.SearchURL),
		profile.Headers(),
		innertube.SearchBody(query, params, profile, loc))
}

// appendSearchResults classifies each item by which of the three
// mutually exclusive renderer keys it carries. Unrecognized shapes are
// silently skipped.
func appendSearchResults(page map[string]any, out *[]types.SearchResult) int {
	added := 0
	var nodes []map[string]any
	collect(page, "videoRenderer", &nodes)
	for _, node := range nodes {
		if r, ok := parseVideoResult(node); ok {
			*out = append(*out, r)
			added++
		}
	}
	nodes = nodes[:0]
	collect(page, "playlistRenderer", &nodes)
	for _, node := range nodes {
		if r, ok := parsePlaylistResult(node); ok {
			*out = append(*out, r)
			added++
		}
	}
	nodes = nodes[:0]
	collect(page, "channelRenderer", &nodes)
	for _, node := range nodes {
		if r, ok := parseChannelResult(node); ok {
			*out = append(*out, r)
			added++
		}
	}
	return added
}

func parseVideoResult(node map[string]any) (types.SearchResult, bool) {
	id, _ := node["videoId"].(string)
	if id == "" {
		return types.SearchResult{}, false
	}
	return types.SearchResult{
		ID:            id,
		Type:          types.SearchResultVideo,
		Title:         textOf(node["title"]),
		Thumbnails:    thumbnailsOf(node["thumbnail"]),
		Duration:      textOf(node["lengthText"]),
		Uploader:      textOf(node["ownerText"]),
		ViewCountText: textOf(node["viewCountText"]),
	}, true
}

func parsePlaylistResult(node map[string]any) (types.SearchResult, bool) {
	id, _ := node["playlistId"].(string)
	if id == "" {
		return types.SearchResult{}, false
	}
	return types.SearchResult{
		ID:         id,
		Type:       types.SearchResultPlaylist,
		Title:      textOf(node["title"]),
		Thumbnails: thumbnailsOf(node["thumbnails"]),
		Uploader:   textOf(node["shortBylineText"]),
		VideoCount: int(parseLeadingInt(textOf(node["videoCount"]))),
	}, true
}

func parseChannelResult(node map[string]any) (types.SearchResult, bool) {
	id, _ := node["channelId"].(string)
	if id == "" {
		return types.SearchResult{}, false
	}
	return types.SearchResult{
		ID:             id,
		Type:           types.SearchResultChannel,
		Title:          textOf(node["title"]),
		Thumbnails:     thumbnailsOf(node["thumbnail"]),
		SubscriberText: textOf(node["subscriberCountText"]),
	}, true
}
