package extract

import (
	"context"

	"github.com/ytget/ytx/types"
)

// SubtitleFormat is one of the fixed target formats the external
// converter understands.
type SubtitleFormat string

const (
	SubtitleVTT  SubtitleFormat = "vtt"
	SubtitleSRT  SubtitleFormat = "srt"
	SubtitleTTML SubtitleFormat = "ttml"
	SubtitleSRV3 SubtitleFormat = "srv3"
)

// SupportedSubtitleFormats enumerates the formats requested per track.
var SupportedSubtitleFormats = []SubtitleFormat{SubtitleVTT, SubtitleSRT, SubtitleTTML, SubtitleSRV3}

// SubtitleConverter is the external text-format converter. It fetches
// the track at url and returns it transcoded to format, failing on
// unsupported formats.
type SubtitleConverter interface {
	Convert(ctx context.Context, url string, format SubtitleFormat) (string, error)
}

// extractSubtitles builds the per-language track map. With a converter
// configured, each track is offered in every supported target format; a
// failed conversion skips that rendition, never the whole call. Without
// a converter, tracks carry the raw srv3 URL only.
func (e *Extractor) extractSubtitles(ctx context.Context, playerResponse map[string]any) map[string][]types.SubtitleTrack {
	tracklist, ok := findFirst(playerResponse, "playerCaptionsTracklistRenderer")
	if !ok {
		return nil
	}
	rawTracks, ok := tracklist["captionTracks"].([]any)
	if !ok || len(rawTracks) == 0 {
		return nil
	}

	out := make(map[string][]types.SubtitleTrack)
	for _, raw := range rawTracks {
		track, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		baseURL, _ := track["baseUrl"].(string)
		lang, _ := track["languageCode"].(string)
		if baseURL == "" || lang == "" {
			continue
		}
		name := textOf(track["name"])
		kind, _ := track["kind"].(string)
		autoGen := kind == "asr"

		if e.Subtitles == nil {
			out[lang] = append(out[lang], types.SubtitleTrack{
				Language: lang, Name: name, URL: baseURL,
				Format: string(SubtitleSRV3), AutoGen: autoGen,
			})
			continue
		}
		for _, format := range SupportedSubtitleFormats {
			content, err := e.Subtitles.Convert(ctx, baseURL, format)
			if err != nil {
				e.log.Debug("subtitle conversion skipped", map[string]any{
					"lang": lang, "format": string(format), "error": err.Error(),
				})
				continue
			}
			out[lang] = append(out[lang], types.SubtitleTrack{
				Language: lang, Name: name, URL: baseURL,
				Format: string(format), Content: content, AutoGen: autoGen,
			})
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
