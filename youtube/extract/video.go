package extract

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/ytget/ytx/errs"
	"github.com/ytget/ytx/types"
	"github.com/ytget/ytx/youtube/formats"
)

const videoCachePrefix = "video:"

// ExtractVideo resolves full metadata for one video URL. The call runs
// the state sequence id → config → signatures → restrictions →
// availability → assembly → cache; any step may terminate it with a
// typed failure.
func (e *Extractor) ExtractVideo(ctx context.Context, rawURL string, opts *Options) (*types.VideoInfo, error) {
	id, ok := ExtractVideoID(rawURL)
	if !ok {
		return nil, &errs.ExtractorError{Message: "no video id in " + rawURL, Expected: true}
	}

	useCache := opts == nil || !opts.NoCache
	cacheKey := videoCachePrefix + id
	if useCache {
		if v, ok := e.Store.Get(cacheKey); ok {
			if info, ok := v.(*types.VideoInfo); ok {
				e.log.Debug("video cache hit", map[string]any{"id": id})
				return info, nil
			}
		}
	}

	profile := e.profileFor(opts)
	loc := opts.locale(e.Locale)

	playerResponse, err := e.GetPlayerConfig(ctx, id, profile, loc)
	if err != nil {
		return nil, err
	}

	version := playerVersion(playerResponse)
	if e.Decryptor != nil && e.Decryptor.Endpoint != "" {
		playerResponse, err = e.Decryptor.DecryptSignatures(ctx, playerResponse, version)
		if err != nil {
			return nil, err
		}
	} else {
		e.log.Debug("no signing service configured, formats stay ciphered", map[string]any{"id": id})
	}

	if err := e.checkGeoRestriction(playerResponse); err != nil {
		return nil, err
	}
	if err := e.classifyRestrictions(playerResponse); err != nil {
		return nil, err
	}
	if err := CheckAvailability(playerResponse); err != nil {
		return nil, err
	}

	info := e.assembleVideo(ctx, id, playerResponse)
	if useCache {
		e.Store.SetTTL(cacheKey, any(info), videoCacheTTL)
	}
	return info, nil
}

// assembleVideo builds the VideoInfo from a cleared player response.
// Per-item parse failures in list fields are skipped, never fatal.
func (e *Extractor) assembleVideo(ctx context.Context, id string, playerResponse map[string]any) *types.VideoInfo {
	info := &types.VideoInfo{
		ID:         id,
		LiveStatus: types.LiveStatusNone,
	}

	var skipped int
	info.Formats, skipped = formats.Parse(playerResponse)
	if skipped > 0 {
		e.log.Warn("skipped unparsable formats", map[string]any{"id": id, "count": skipped})
	}
	info.DashManifestURL = formats.DashManifestURL(playerResponse)
	info.HlsManifestURL = formats.HlsManifestURL(playerResponse)

	if vd, ok := playerResponse["videoDetails"].(map[string]any); ok {
		info.Title, _ = vd["title"].(string)
		info.Uploader, _ = vd["author"].(string)
		info.ChannelID, _ = vd["channelId"].(string)
		info.Description, _ = vd["shortDescription"].(string)
		info.Duration = int(intOf(vd["lengthSeconds"]))
		info.ViewCount = intOf(vd["viewCount"])
		info.Thumbnails = thumbnailsOf(vd["thumbnail"])
		if kw, ok := vd["keywords"].([]any); ok {
			for _, k := range kw {
				if s, ok := k.(string); ok {
					info.Keywords = append(info.Keywords, s)
				}
			}
		}
		if isLive, _ := vd["isLive"].(bool); isLive {
			info.LiveStatus = types.LiveStatusLive
		} else if isUpcoming, _ := vd["isUpcoming"].(bool); isUpcoming {
			info.LiveStatus = types.LiveStatusUpcoming
		}
	}

	if mf, ok := findFirst(playerResponse, "playerMicroformatRenderer"); ok {
		if info.Title == "" {
			info.Title = textOf(mf["title"])
		}
		if d, ok := mf["publishDate"].(string); ok {
			info.UploadDate = d
		}
		if isLiveContent, _ := mf["liveBroadcastDetails"]; isLiveContent != nil {
			start, end := liveBroadcastTimes(playerResponse)
			info.LiveStartTime = start
			info.LiveEndTime = end
			if info.LiveStatus == types.LiveStatusNone && !end.IsZero() {
				info.LiveStatus = types.LiveStatusEnded
			}
		}
	}

	info.Subtitles = e.extractSubtitles(ctx, playerResponse)
	info.Chapters = chapters(playerResponse)
	info.Storyboards = storyboards(playerResponse)
	return info
}

// chapters collects chapterRenderer nodes from the player overlay.
func chapters(playerResponse map[string]any) []types.Chapter {
	var nodes []map[string]any
	collect(playerResponse, "chapterRenderer", &nodes)
	var out []types.Chapter
	for _, node := range nodes {
		title := textOf(node["title"])
		if title == "" {
			continue
		}
		out = append(out, types.Chapter{
			Title:     title,
			StartTime: time.Duration(intOf(node["timeRangeStartMillis"])) * time.Millisecond,
		})
	}
	return out
}

// storyboards parses the storyboard spec string: a base URL followed by
// "|"-separated sections of "#"-separated fields
// (width#height#frames#columns#rows#interval#name#sigh).
func storyboards(playerResponse map[string]any) []types.Storyboard {
	renderer, ok := findFirst(playerResponse, "playerStoryboardSpecRenderer")
	if !ok {
		return nil
	}
	spec, _ := renderer["spec"].(string)
	parts := strings.Split(spec, "|")
	if len(parts) < 2 {
		return nil
	}
	base := parts[0]

	var out []types.Storyboard
	for i, section := range parts[1:] {
		fields := strings.Split(section, "#")
		if len(fields) < 8 {
			continue
		}
		width, err1 := strconv.Atoi(fields[0])
		height, err2 := strconv.Atoi(fields[1])
		frames, err3 := strconv.Atoi(fields[2])
		cols, err4 := strconv.Atoi(fields[3])
		rows, err5 := strconv.Atoi(fields[4])
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
			continue
		}
		u := strings.Replace(base, "$L", strconv.Itoa(i), 1)
		u = strings.Replace(u, "$N", fields[6], 1)
		out = append(out, types.Storyboard{
			URL:     u,
			Width:   width,
			Height:  height,
			Frames:  frames,
			Columns: cols,
			Rows:    rows,
		})
	}
	return out
}
