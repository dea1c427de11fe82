package song

import "time"

// ResultKind discriminates the search-result variants returned by the
// metadata service. The set is closed; consumers switch exhaustively.
type ResultKind int

const (
	KindSong ResultKind = iota
	KindAlbum
	KindArtist
)

// String returns the string representation of the result kind.
func (k ResultKind) String() string {
	switch k {
	case KindSong:
		return "song"
	case KindAlbum:
		return "album"
	case KindArtist:
		return "artist"
	default:
		return "unknown"
	}
}

// SearchResult is a tagged variant over the entity types a catalog search
// can return. Exactly one of Song, Album, Artist is populated per Kind.
type SearchResult struct {
	Kind   ResultKind
	Song   *Song
	Album  *Album
	Artist *ArtistItem
}

// Album represents an album or playlist browse target.
type Album struct {
	ID        string
	Title     string
	Artist    string
	Thumbnail string
	Year      string
}

// ArtistItem represents an artist section entry (top songs, albums rows).
type ArtistItem struct {
	BrowseID  string
	Name      string
	Thumbnail string
}

// Playlist represents a resolved playlist: sections of playable songs.
type Playlist struct {
	ID       string
	Title    string
	Sections []Section
}

// Section is one row of a playlist or browse screen.
type Section struct {
	Title string
	Items []Song
}

// Songs returns all songs across sections in order.
func (p *Playlist) Songs() []Song {
	var out []Song
	for _, sec := range p.Sections {
		out = append(out, sec.Items...)
	}
	return out
}

// TotalDuration returns the summed duration of all songs in the playlist.
func (p *Playlist) TotalDuration() time.Duration {
	var total time.Duration
	for _, sec := range p.Sections {
		for _, s := range sec.Items {
			total += s.Duration
		}
	}
	return total
}
