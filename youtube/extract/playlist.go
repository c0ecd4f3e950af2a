package extract

import (
	"context"
	"net/http"
	"regexp"

	"github.com/ytget/ytx/errs"
	"github.com/ytget/ytx/types"
	"github.com/ytget/ytx/youtube/innertube"
)

var leadingDigitsRe = regexp.MustCompile(`[0-9][0-9,.]*`)

// ExtractPlaylist resolves playlist metadata and every member video id,
// walking continuation pages to exhaustion.
func (e *Extractor) ExtractPlaylist(ctx context.Context, rawURL string, opts *Options) (*types.PlaylistInfo, error) {
	id, ok := ExtractPlaylistID(rawURL)
	if !ok {
		return nil, &errs.ExtractorError{Message: "no playlist id in " + rawURL, Expected: true}
	}

	profile := e.profileFor(opts)
	loc := opts.locale(e.Locale)

	if err := e.Limiter.Wait(ctx, endpointPlaylist); err != nil {
		return nil, &errs.CancelledError{Err: err}
	}
	resp, err := e.Client.RequestJSON(ctx, http.MethodPost,
		innertube.EndpointURL(innertube.BrowseURL),
		profile.Headers(),
		innertube.BrowseBody(id, profile, loc))
	if err != nil {
		return nil, err
	}

	info, err := playlistSidebar(resp)
	if err != nil {
		return nil, err
	}
	info.ID = id

	seen := make(map[string]bool)
	err = e.paginate(ctx, endpointPlaylist, innertube.EndpointURL(innertube.BrowseURL),
		resp, profile, loc,
		func(page map[string]any) (int, string) {
			added := appendPlaylistItems(page, info, seen)
			return added, continuationToken(page)
		}, 0)
	if err != nil {
		return nil, err
	}

	if info.VideoCount == 0 {
		info.VideoCount = len(info.Items)
	}
	e.log.Info("playlist extracted", map[string]any{"id": id, "items": len(info.Items)})
	return info, nil
}

// playlistSidebar reads title/description/owner/video-count from the
// sidebar renderer. Its absence fails the extraction.
func playlistSidebar(resp map[string]any) (*types.PlaylistInfo, error) {
	sidebar, ok := findFirst(resp, "playlistSidebarRenderer")
	if !ok {
		return nil, &errs.ExtractorError{Message: "playlist sidebar not found", Expected: true}
	}
	info := &types.PlaylistInfo{}

	if primary, ok := findFirst(sidebar, "playlistSidebarPrimaryInfoRenderer"); ok {
		info.Title = textOf(primary["title"])
		info.Description = textOf(primary["description"])
		if stats, ok := primary["stats"].([]any); ok && len(stats) > 0 {
			info.VideoCount = int(parseLeadingInt(textOf(stats[0])))
		}
	}
	if secondary, ok := findFirst(sidebar, "playlistSidebarSecondaryInfoRenderer"); ok {
		if owner, ok := findFirst(secondary, "videoOwnerRenderer"); ok {
			info.Author = textOf(owner["title"])
		}
	}
	return info, nil
}

// appendPlaylistItems collects playlistVideoRenderer entries from one
// page, in page order, skipping ids already accumulated.
func appendPlaylistItems(page map[string]any, info *types.PlaylistInfo, seen map[string]bool) int {
	var nodes []map[string]any
	collect(page, "playlistVideoRenderer", &nodes)
	added := 0
	for _, node := range nodes {
		videoID, _ := node["videoId"].(string)
		if videoID == "" || seen[videoID] {
			continue
		}
		seen[videoID] = true
		item := types.PlaylistItem{
			VideoID: videoID,
			Title:   textOf(node["title"]),
		}
		if idx, ok := node["index"].(map[string]any); ok {
			item.Index = int(parseLeadingInt(textOf(idx)))
		}
		info.Items = append(info.Items, item)
		added++
	}
	return added
}

// parseLeadingInt reads the first integer out of a stat text like
// "1,204 videos".
func parseLeadingInt(s string) int64 {
	m := leadingDigitsRe.FindString(s)
	if m == "" {
		return 0
	}
	var n int64
	for _, r := range m {
		if r >= '0' && r <= '9' {
			n = n*10 + int64(r-'0')
		}
	}
	return n
}
