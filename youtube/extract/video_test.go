package extract

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ytget/ytx/errs"
	"github.com/ytget/ytx/types"
	"github.com/ytget/ytx/youtube/signature"
)

const videoFixture = `{
	"playabilityStatus": {"status": "OK"},
	"videoDetails": {
		"videoId": "dQw4w9WgXcQ",
		"title": "Test Video",
		"author": "Test Channel",
		"channelId": "UCtest",
		"shortDescription": "A description",
		"lengthSeconds": "212",
		"viewCount": "1000000",
		"keywords": ["music", "test"],
		"thumbnail": {"thumbnails": [{"url": "https://example.com/t.jpg", "width": 120, "height": 90}]}
	},
	"microformat": {
		"playerMicroformatRenderer": {
			"publishDate": "2009-10-25",
			"title": {"simpleText": "Test Video"}
		}
	},
	"streamingData": {
		"formats": [
			{"itag": 18, "mimeType": "video/mp4; codecs=\"avc1.42001E, mp4a.40.2\"", "url": "https://example.com/18", "qualityLabel": "360p"}
		],
		"adaptiveFormats": [
			{"itag": 251, "mimeType": "audio/webm; codecs=\"opus\"", "url": "https://example.com/251"}
		]
	},
	"captions": {
		"playerCaptionsTracklistRenderer": {
			"captionTracks": [
				{"baseUrl": "https://example.com/cc", "languageCode": "en", "name": {"simpleText": "English"}},
				{"baseUrl": "https://example.com/cc-auto", "languageCode": "de", "name": {"simpleText": "German (auto)"}, "kind": "asr"}
			]
		}
	},
	"playerOverlays": {
		"chapters": [
			{"chapterRenderer": {"title": {"simpleText": "Intro"}, "timeRangeStartMillis": 0}},
			{"chapterRenderer": {"title": {"simpleText": "Verse"}, "timeRangeStartMillis": 45000}}
		]
	},
	"storyboards": {
		"playerStoryboardSpecRenderer": {
			"spec": "https://example.com/storyboard?sqp=x|48#27#100#10#10#0#default#rs$N|80#45#100#10#10#10000#M$M#rs$N"
		}
	}
}`

func TestExtractVideo(t *testing.T) {
	var calls int32
	e := newTestExtractor(func(r *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		return jsonResponse(videoFixture), nil
	})

	info, err := e.ExtractVideo(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ", nil)
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}

	if info.ID != "dQw4w9WgXcQ" {
		t.Errorf("Expected video id, got %s", info.ID)
	}
	if info.Title != "Test Video" || info.Uploader != "Test Channel" {
		t.Errorf("Unexpected metadata: %+v", info)
	}
	if info.Duration != 212 || info.ViewCount != 1000000 {
		t.Errorf("Unexpected numbers: duration=%d views=%d", info.Duration, info.ViewCount)
	}
	if len(info.Formats) != 2 {
		t.Fatalf("Expected 2 formats, got %d", len(info.Formats))
	}
	if info.UploadDate != "2009-10-25" {
		t.Errorf("Expected upload date, got %s", info.UploadDate)
	}
	if len(info.Keywords) != 2 {
		t.Errorf("Expected 2 keywords, got %v", info.Keywords)
	}
	if info.LiveStatus != types.LiveStatusNone {
		t.Errorf("Expected non-live status, got %s", info.LiveStatus)
	}

	// without a converter, each track carries the raw URL
	if len(info.Subtitles["en"]) != 1 || info.Subtitles["en"][0].URL != "https://example.com/cc" {
		t.Errorf("Unexpected subtitles: %+v", info.Subtitles)
	}
	if len(info.Subtitles["de"]) != 1 || !info.Subtitles["de"][0].AutoGen {
		t.Error("Expected auto-generated German track")
	}

	if len(info.Chapters) != 2 || info.Chapters[1].StartTime != 45*time.Second {
		t.Errorf("Unexpected chapters: %+v", info.Chapters)
	}
	if len(info.Storyboards) != 2 {
		t.Fatalf("Expected 2 storyboards, got %d", len(info.Storyboards))
	}
	if info.Storyboards[0].Width != 48 || info.Storyboards[1].Columns != 10 {
		t.Errorf("Unexpected storyboard fields: %+v", info.Storyboards)
	}

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("Expected 1 request, got %d", got)
	}
}

func TestExtractVideoCached(t *testing.T) {
	var calls int32
	e := newTestExtractor(func(r *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		return jsonResponse(videoFixture), nil
	})
	ctx := context.Background()

	if _, err := e.ExtractVideo(ctx, "dQw4w9WgXcQ", nil); err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if _, err := e.ExtractVideo(ctx, "dQw4w9WgXcQ", nil); err != nil {
		t.Fatalf("Expected cached success, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("Expected 1 request with warm cache, got %d", got)
	}

	if _, err := e.ExtractVideo(ctx, "dQw4w9WgXcQ", &Options{NoCache: true}); err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("Expected cache bypass to issue a request, got %d", got)
	}
}

func TestExtractVideoInvalidURL(t *testing.T) {
	e := newTestExtractor(func(r *http.Request) (*http.Response, error) {
		t.Error("Expected no request for invalid URL")
		return jsonResponse(`{}`), nil
	})

	_, err := e.ExtractVideo(context.Background(), "https://example.com/nothing", nil)
	var ee *errs.ExtractorError
	if !errors.As(err, &ee) || !ee.Expected {
		t.Fatalf("Expected expected ExtractorError, got %v", err)
	}
}

func TestExtractVideoAgeRestricted(t *testing.T) {
	e := newTestExtractor(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(`{
			"playabilityStatus": {
				"status": "LOGIN_REQUIRED",
				"reason": "Sign in to confirm your age"
			}
		}`), nil
	})

	_, err := e.ExtractVideo(context.Background(), "dQw4w9WgXcQ", nil)
	var age *errs.AgeRestrictedError
	if !errors.As(err, &age) {
		t.Fatalf("Expected AgeRestrictedError, got %v", err)
	}
	if age.RequiredAge != 18 {
		t.Errorf("Expected required age 18, got %d", age.RequiredAge)
	}
}

func TestExtractVideoDecryptsFormats(t *testing.T) {
	signer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"streamingData": {
				"formats": [],
				"adaptiveFormats": [
					{"itag": 137, "url": "https://example.com/137?sig=ok"},
					{"itag": 251, "url": "https://example.com/251?sig=ok"}
				]
			}
		}`))
	}))
	defer signer.Close()

	e := newTestExtractor(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(`{
			"playabilityStatus": {"status": "OK"},
			"videoDetails": {"videoId": "dQw4w9WgXcQ", "title": "Ciphered"},
			"assets": {"js": "/s/player/4fcd6e4a/base.js"},
			"streamingData": {
				"adaptiveFormats": [
					{"itag": 137, "mimeType": "video/mp4; codecs=\"avc1\"", "signatureCipher": "s=a&url=x"},
					{"itag": 251, "mimeType": "audio/webm; codecs=\"opus\"", "signatureCipher": "s=b&url=y"}
				]
			}
		}`), nil
	})
	e.Decryptor = signature.New(signer.URL, nil, e.Store)

	info, err := e.ExtractVideo(context.Background(), "dQw4w9WgXcQ", nil)
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if len(info.Formats) != 2 {
		t.Fatalf("Expected 2 formats, got %d", len(info.Formats))
	}
	if info.Formats[0].URL != "https://example.com/137?sig=ok" {
		t.Errorf("Expected decrypted URL, got %s", info.Formats[0].URL)
	}
	if info.Formats[1].URL != "https://example.com/251?sig=ok" {
		t.Errorf("Expected decrypted URL, got %s", info.Formats[1].URL)
	}
}

func TestExtractVideoLiveEnded(t *testing.T) {
	e := newTestExtractor(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(`{
			"playabilityStatus": {"status": "OK"},
			"videoDetails": {"videoId": "dQw4w9WgXcQ", "title": "Past Stream"},
			"microformat": {
				"playerMicroformatRenderer": {
					"liveBroadcastDetails": {
						"startTimestamp": "2026-01-01T10:00:00Z",
						"endTimestamp": "2026-01-01T12:00:00Z"
					}
				}
			}
		}`), nil
	})

	info, err := e.ExtractVideo(context.Background(), "dQw4w9WgXcQ", nil)
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if info.LiveStatus != types.LiveStatusEnded {
		t.Errorf("Expected ended live status, got %s", info.LiveStatus)
	}
	if info.LiveStartTime.IsZero() || info.LiveEndTime.IsZero() {
		t.Error("Expected broadcast window to be populated")
	}
}

type fakeConverter struct {
	fail map[SubtitleFormat]bool
}

func (f *fakeConverter) Convert(ctx context.Context, url string, format SubtitleFormat) (string, error) {
	if f.fail[format] {
		return "", errors.New("unsupported")
	}
	return "WEBVTT as " + string(format), nil
}

func TestExtractVideoSubtitleConversion(t *testing.T) {
	e := newTestExtractor(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(videoFixture), nil
	})
	e.Subtitles = &fakeConverter{fail: map[SubtitleFormat]bool{SubtitleTTML: true}}

	info, err := e.ExtractVideo(context.Background(), "dQw4w9WgXcQ", nil)
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	tracks := info.Subtitles["en"]
	if len(tracks) != len(SupportedSubtitleFormats)-1 {
		t.Fatalf("Expected %d converted tracks, got %d", len(SupportedSubtitleFormats)-1, len(tracks))
	}
	for _, track := range tracks {
		if track.Format == string(SubtitleTTML) {
			t.Error("Expected failed format to be skipped")
		}
		if track.Content == "" {
			t.Error("Expected converted content to be set")
		}
	}
}
