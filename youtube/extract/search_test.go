package extract

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/ytget/ytx/errs"
	"github.com/ytget/ytx/types"
)

const searchPage = `{
	"contents": [
		{
			"videoRenderer": {
				"videoId": "aaaaaaaaaaa",
				"title": {"runs": [{"text": "Video A"}]},
				"lengthText": {"simpleText": "3:32"},
				"ownerText": {"runs": [{"text": "Channel A"}]},
				"viewCountText": {"simpleText": "1M views"},
				"thumbnail": {"thumbnails": [{"url": "https://example.com/a.jpg"}]}
			}
		},
		{
			"playlistRenderer": {
				"playlistId": "PLxyz",
				"title": {"simpleText": "Playlist X"},
				"videoCount": {"simpleText": "25"},
				"shortBylineText": {"runs": [{"text": "Curator"}]}
			}
		},
		{
			"channelRenderer": {
				"channelId": "UCabc",
				"title": {"simpleText": "Channel X"},
				"subscriberCountText": {"simpleText": "1.2M subscribers"}
			}
		},
		{"unknownRenderer": {"someId": "ignored"}}
	]
}`

func TestSearch(t *testing.T) {
	var calls int32
	e := newTestExtractor(func(r *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		body := requestBody(t, r)
		if body["query"] != "test query" {
			t.Errorf("Expected query in body, got %v", body["query"])
		}
		if body["params"] != "EgIQAQ==" {
			t.Errorf("Expected videos/relevance params, got %v", body["params"])
		}
		return jsonResponse(searchPage), nil
	})

	results, err := e.Search(context.Background(), "test query", nil)
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results (unknown shape skipped), got %d", len(results))
	}

	video := results[0]
	if video.Type != types.SearchResultVideo || video.ID != "aaaaaaaaaaa" {
		t.Errorf("Unexpected video result: %+v", video)
	}
	if video.Duration != "3:32" || video.Uploader != "Channel A" || video.ViewCountText != "1M views" {
		t.Errorf("Unexpected video fields: %+v", video)
	}

	playlist := results[1]
	if playlist.Type != types.SearchResultPlaylist || playlist.VideoCount != 25 {
		t.Errorf("Unexpected playlist result: %+v", playlist)
	}

	channel := results[2]
	if channel.Type != types.SearchResultChannel || channel.SubscriberText != "1.2M subscribers" {
		t.Errorf("Unexpected channel result: %+v", channel)
	}

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("Expected 1 request, got %d", got)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	e := newTestExtractor(func(r *http.Request) (*http.Response, error) {
		t.Error("Expected no request for empty query")
		return jsonResponse(`{}`), nil
	})

	results, err := e.Search(context.Background(), "", nil)
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("Expected empty non-nil result, got %v", results)
	}
}

func TestSearchUnsupportedFilter(t *testing.T) {
	e := newTestExtractor(func(r *http.Request) (*http.Response, error) {
		t.Error("Expected no request for unsupported filter")
		return jsonResponse(`{}`), nil
	})

	_, err := e.Search(context.Background(), "query", &SearchOptions{
		Type:   types.SearchResultChannel,
		SortBy: SortDate,
	})
	var ee *errs.ExtractorError
	if !errors.As(err, &ee) || !ee.Expected {
		t.Fatalf("Expected expected ExtractorError, got %v", err)
	}
}

func TestSearchFilterParams(t *testing.T) {
	tests := []struct {
		opts       SearchOptions
		wantParams string
	}{
		{SearchOptions{SortBy: SortDate}, "CAISAhAB"},
		{SearchOptions{SortBy: SortRating}, "CAESAhAB"},
		{SearchOptions{SortBy: SortViewCount}, "CAMSAhAB"},
		{SearchOptions{Type: types.SearchResultPlaylist}, "EgIQAw=="},
		{SearchOptions{Type: types.SearchResultChannel}, "EgIQAg=="},
	}
	for _, tt := range tests {
		var gotParams string
		e := newTestExtractor(func(r *http.Request) (*http.Response, error) {
			gotParams, _ = requestBody(t, r)["params"].(string)
			return jsonResponse(`{"contents": []}`), nil
		})
		if _, err := e.Search(context.Background(), "q", &tt.opts); err != nil {
			t.Fatalf("Expected success, got %v", err)
		}
		if gotParams != tt.wantParams {
			t.Errorf("Expected params %s for %+v, got %s", tt.wantParams, tt.opts, gotParams)
		}
	}
}

func TestSearchCapsAndTruncates(t *testing.T) {
	page := func(start int) string {
		return fmt.Sprintf(`{
			"contents": [
				{"videoRenderer": {"videoId": "video%05d--", "title": {"simpleText": "V"}}},
				{"videoRenderer": {"videoId": "video%05d--", "title": {"simpleText": "V"}}}
			],
			"continuationItemRenderer": {
				"continuationEndpoint": {"continuationCommand": {"token": "next"}}
			}
		}`, start, start+1)
	}

	var calls int32
	e := newTestExtractor(func(r *http.Request) (*http.Response, error) {
		n := atomic.AddInt32(&calls, 1)
		return jsonResponse(page(int(n) * 10)), nil
	})

	results, err := e.Search(context.Background(), "query", &SearchOptions{MaxResults: 3})
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if len(results) != 3 {
		t.Errorf("Expected results truncated to 3, got %d", len(results))
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("Expected walk to stop at the cap after 2 pages, got %d requests", got)
	}
}
