package types

import "time"

// Protocol identifies how a format's media is delivered.
type Protocol string

const (
	ProtocolHTTPS Protocol = "https"
	ProtocolDASH  Protocol = "dash"
	ProtocolHLS   Protocol = "hls"
)

// LiveStatus describes the live state of a video.
type LiveStatus string

const (
	LiveStatusNone     LiveStatus = "not_live"
	LiveStatusLive     LiveStatus = "is_live"
	LiveStatusUpcoming LiveStatus = "is_upcoming"
	LiveStatusEnded    LiveStatus = "was_live"
)

// ByteRange is a byte span inside a media resource.
type ByteRange struct {
	Start int64
	End   int64
}

// Format describes an available media format.
//
// URL is not fetchable until signature decryption has run; a ciphered
// format carries SignatureCipher and an empty URL until then.
type Format struct {
	Itag            int
	URL             string
	Quality         string
	MimeType        string
	Container       string
	Codecs          string
	Bitrate         int
	Width           int
	Height          int
	FPS             int
	Size            int64
	Protocol        Protocol
	SignatureCipher string
	AudioSampleRate int
	AudioChannels   int
	InitRange       *ByteRange
	IndexRange      *ByteRange
}

// Thumbnail is one preview image variant.
type Thumbnail struct {
	URL    string
	Width  int
	Height int
}

// SubtitleTrack is one subtitle rendition for a language.
//
// Content is filled by the external subtitle converter; when no converter
// is configured only URL and Format are set.
type SubtitleTrack struct {
	Language string
	Name     string
	URL      string
	Format   string
	Content  string
	AutoGen  bool
}

// Chapter is a titled segment of a video.
type Chapter struct {
	Title     string
	StartTime time.Duration
}

// Storyboard describes a grid of preview frames.
type Storyboard struct {
	URL     string
	Width   int
	Height  int
	Columns int
	Rows    int
	Frames  int
}

// VideoInfo describes a fully resolved video.
type VideoInfo struct {
	ID          string
	Title       string
	Description string
	Duration    int
	Uploader    string
	ChannelID   string
	UploadDate  string
	ViewCount   int64
	Keywords    []string

	LiveStatus    LiveStatus
	LiveStartTime time.Time
	LiveEndTime   time.Time

	Formats         []Format
	DashManifestURL string
	HlsManifestURL  string
	Thumbnails      []Thumbnail
	Subtitles       map[string][]SubtitleTrack
	Chapters        []Chapter
	Storyboards     []Storyboard
}
