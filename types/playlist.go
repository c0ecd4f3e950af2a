package types

// PlaylistItem is a minimal playlist entry.
type PlaylistItem struct {
	VideoID string
	Title   string
	Index   int
}

// PlaylistInfo describes playlist information with its member videos in
// page order.
type PlaylistInfo struct {
	ID          string
	Title       string
	Description string
	Author      string
	VideoCount  int
	Items       []PlaylistItem
}

// VideoIDs returns the ordered member video ids.
func (p *PlaylistInfo) VideoIDs() []string {
	ids := make([]string, 0, len(p.Items))
	for _, it := range p.Items {
		ids = append(ids, it.VideoID)
	}
	return ids
}
