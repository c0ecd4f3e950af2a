package types

// SearchResultType classifies a search hit.
type SearchResultType string

const (
	SearchResultVideo    SearchResultType = "video"
	SearchResultPlaylist SearchResultType = "playlist"
	SearchResultChannel  SearchResultType = "channel"
)

// SearchResult is one search hit. Secondary fields depend on Type:
// videos fill Duration/Uploader/ViewCountText, playlists fill VideoCount,
// channels fill SubscriberText.
type SearchResult struct {
	ID             string
	Type           SearchResultType
	Title          string
	Thumbnails     []Thumbnail
	Duration       string
	Uploader       string
	ViewCountText  string
	VideoCount     int
	SubscriberText string
}
