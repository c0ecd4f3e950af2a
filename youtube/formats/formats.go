// Package formats parses the streamingData block of a player response
// into typed media formats.
package formats

import (
	"errors"
	"strconv"

	"github.com/ytget/ytx/internal/mimeext"
	"github.com/ytget/ytx/types"
)

// Parse returns all formats (progressive + adaptive) from a player
// response. A parse failure on one format skips that format; it is never
// fatal to the whole extraction. The number of skipped entries is
// returned for logging.
func Parse(playerResponse map[string]any) (parsed []types.Format, skipped int) {
	sd, ok := playerResponse["streamingData"].(map[string]any)
	if !ok {
		return nil, 0
	}

	var raw []any
	if list, ok := sd["formats"].([]any); ok {
		raw = append(raw, list...)
	}
	if list, ok := sd["adaptiveFormats"].([]any); ok {
		raw = append(raw, list...)
	}

	for _, item := range raw {
		f, ok := item.(map[string]any)
		if !ok {
			skipped++
			continue
		}
		format, err := parseOne(f)
		if err != nil {
			skipped++
			continue
		}
		parsed = append(parsed, format)
	}
	return parsed, skipped
}

// DashManifestURL returns the top-level DASH manifest URL, if any.
func DashManifestURL(playerResponse map[string]any) string {
	return manifestURL(playerResponse, "dashManifestUrl")
}

// HlsManifestURL returns the top-level HLS manifest URL, if any.
func HlsManifestURL(playerResponse map[string]any) string {
	return manifestURL(playerResponse, "hlsManifestUrl")
}

func manifestURL(playerResponse map[string]any, key string) string {
	sd, ok := playerResponse["streamingData"].(map[string]any)
	if !ok {
		return ""
	}
	u, _ := sd[key].(string)
	return u
}

func parseOne(f map[string]any) (types.Format, error) {
	var format types.Format

	itag, ok := f["itag"].(float64)
	if !ok {
		return format, errors.New("format without itag")
	}
	format.Itag = int(itag)

	mimeType, _ := f["mimeType"].(string)
	if mimeType == "" {
		return format, errors.New("format without mimeType")
	}
	format.MimeType = mimeType
	format.Container = mimeext.Container(mimeType)
	format.Codecs = mimeext.Codecs(mimeType)
	format.Protocol = types.ProtocolHTTPS

	if u, ok := f["url"].(string); ok {
		format.URL = u
	} else if sc, ok := f["signatureCipher"].(string); ok {
		format.SignatureCipher = sc
	} else if sc, ok := f["cipher"].(string); ok {
		format.SignatureCipher = sc
	}

	format.Quality, _ = f["qualityLabel"].(string)
	if v, ok := f["bitrate"].(float64); ok {
		format.Bitrate = int(v)
	}
	if v, ok := f["width"].(float64); ok {
		format.Width = int(v)
	}
	if v, ok := f["height"].(float64); ok {
		format.Height = int(v)
	}
	if v, ok := f["fps"].(float64); ok {
		format.FPS = int(v)
	}
	if v, ok := f["contentLength"].(string); ok {
		if size, err := strconv.ParseInt(v, 10, 64); err == nil {
			format.Size = size
		}
	}
	if v, ok := f["audioSampleRate"].(string); ok {
		if rate, err := strconv.Atoi(v); err == nil {
			format.AudioSampleRate = rate
		}
	}
	if v, ok := f["audioChannels"].(float64); ok {
		format.AudioChannels = int(v)
	}
	format.InitRange = parseRange(f["initRange"])
	format.IndexRange = parseRange(f["indexRange"])

	return format, nil
}

func parseRange(v any) *types.ByteRange {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	start, _ := m["start"].(string)
	end, _ := m["end"].(string)
	s, err1 := strconv.ParseInt(start, 10, 64)
	e, err2 := strconv.ParseInt(end, 10, 64)
	if err1 != nil || err2 != nil {
		return nil
	}
	return &types.ByteRange{Start: s, End: e}
}
