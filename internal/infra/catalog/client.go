// Package catalog provides the music metadata client backed by the
// Spotify Web API.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/song"
)

// Client is a catalog metadata client.
type Client struct {
	client     *spotify.Client
	market     string
	maxRetries int
	retryDelay time.Duration
}

// Config represents catalog client configuration.
type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	Market       string
}

// New creates a new catalog client.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RefreshToken == "" {
		return nil, errors.New("catalog credentials are required")
	}

	auth := spotifyauth.New(
		spotifyauth.WithClientID(cfg.ClientID),
		spotifyauth.WithClientSecret(cfg.ClientSecret),
		spotifyauth.WithScopes(
			spotifyauth.ScopeUserLibraryRead,
			spotifyauth.ScopePlaylistReadPrivate,
		),
	)

	token := &oauth2.Token{
		RefreshToken: cfg.RefreshToken,
	}

	httpClient := auth.Client(ctx, token)
	client := spotify.New(httpClient)

	market := cfg.Market
	if market == "" {
		market = "US"
	}

	return &Client{
		client:     client,
		market:     market,
		maxRetries: 3,
		retryDelay: time.Second,
	}, nil
}

// GetSong retrieves song metadata by ID, URL, or URI.
func (c *Client) GetSong(ctx context.Context, songID string) (*song.Song, error) {
	id := extractSongID(songID)

	var result *spotify.FullTrack
	err := c.retry(func() error {
		t, err := c.client.GetTrack(ctx, spotify.ID(id), spotify.Market(c.market))
		if err != nil {
			return err
		}
		result = t
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get song")
	}

	return c.convertTrack(result), nil
}

// Search runs a catalog search. The result list mixes songs, albums and
// artists as tagged variants, songs first.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]song.SearchResult, error) {
	if query == "" {
		return nil, errors.New("search query is required")
	}

	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}

	var result *spotify.SearchResult
	err := c.retry(func() error {
		r, err := c.client.Search(ctx, query,
			spotify.SearchTypeTrack|spotify.SearchTypeAlbum|spotify.SearchTypeArtist,
			spotify.Limit(limit),
		)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to search")
	}

	var out []song.SearchResult
	if result.Tracks != nil {
		for i := range result.Tracks.Tracks {
			s := c.convertTrack(&result.Tracks.Tracks[i])
			out = append(out, song.SearchResult{Kind: song.KindSong, Song: s})
		}
	}
	if result.Albums != nil {
		for i := range result.Albums.Albums {
			a := convertAlbum(&result.Albums.Albums[i])
			out = append(out, song.SearchResult{Kind: song.KindAlbum, Album: a})
		}
	}
	if result.Artists != nil {
		for i := range result.Artists.Artists {
			a := convertArtist(&result.Artists.Artists[i])
			out = append(out, song.SearchResult{Kind: song.KindArtist, Artist: a})
		}
	}

	return out, nil
}

// GetAlbumSongs retrieves all songs of an album in track order.
func (c *Client) GetAlbumSongs(ctx context.Context, albumID string) ([]song.Song, error) {
	id := extractAlbumID(albumID)

	var album *spotify.FullAlbum
	err := c.retry(func() error {
		a, err := c.client.GetAlbum(ctx, spotify.ID(id), spotify.Market(c.market))
		if err != nil {
			return err
		}
		album = a
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get album")
	}

	var thumbnail string
	if len(album.Images) > 0 {
		thumbnail = album.Images[0].URL
	}

	songs := make([]song.Song, 0, len(album.Tracks.Tracks))
	for _, t := range album.Tracks.Tracks {
		songs = append(songs, song.Song{
			ID:        string(t.ID),
			Title:     t.Name,
			Artist:    joinArtists(t.Artists),
			Thumbnail: thumbnail,
			Duration:  time.Duration(t.Duration) * time.Millisecond,
		})
	}

	return songs, nil
}

// GetPlaylist retrieves a playlist with all its songs. Pagination is
// followed until the playlist is exhausted.
func (c *Client) GetPlaylist(ctx context.Context, playlistURL string) (*song.Playlist, error) {
	playlistID := extractPlaylistID(playlistURL)
	if playlistID == "" {
		return nil, errors.New("invalid playlist URL")
	}

	var meta *spotify.FullPlaylist
	err := c.retry(func() error {
		p, err := c.client.GetPlaylist(ctx, spotify.ID(playlistID))
		if err != nil {
			return err
		}
		meta = p
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get playlist")
	}

	var songs []song.Song
	offset := 0
	limit := 100

	for {
		var page *spotify.PlaylistItemPage
		err := c.retry(func() error {
			p, err := c.client.GetPlaylistItems(ctx, spotify.ID(playlistID),
				spotify.Limit(limit),
				spotify.Offset(offset),
				spotify.Market(c.market),
			)
			if err != nil {
				return err
			}
			page = p
			return nil
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to get playlist items")
		}

		for _, item := range page.Items {
			// Episodes are skipped; only playable tracks land in the queue.
			if item.Track.Track != nil && item.Track.Track.ID != "" {
				songs = append(songs, *c.convertTrack(item.Track.Track))
			}
		}

		if len(page.Items) < limit {
			break
		}
		offset += limit
	}

	return &song.Playlist{
		ID:    playlistID,
		Title: meta.Name,
		Sections: []song.Section{
			{Title: "Songs", Items: songs},
		},
	}, nil
}

// GetArtistTopSongs retrieves an artist's most played songs.
func (c *Client) GetArtistTopSongs(ctx context.Context, artistID string) ([]song.Song, error) {
	var tracks []spotify.FullTrack
	err := c.retry(func() error {
		t, err := c.client.GetArtistsTopTracks(ctx, spotify.ID(artistID), c.market)
		if err != nil {
			return err
		}
		tracks = t
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get artist top songs")
	}

	songs := make([]song.Song, 0, len(tracks))
	for i := range tracks {
		songs = append(songs, *c.convertTrack(&tracks[i]))
	}
	return songs, nil
}

// GetSongURL returns the public URL for a song.
func (c *Client) GetSongURL(songID string) string {
	return fmt.Sprintf("https://open.spotify.com/track/%s", songID)
}

// convertTrack converts an API track to a domain song.
func (c *Client) convertTrack(t *spotify.FullTrack) *song.Song {
	var thumbnail string
	if len(t.Album.Images) > 0 {
		thumbnail = t.Album.Images[0].URL
	}

	return &song.Song{
		ID:        string(t.ID),
		Title:     t.Name,
		Artist:    joinArtists(t.Artists),
		Thumbnail: thumbnail,
		Duration:  time.Duration(t.Duration) * time.Millisecond,
	}
}

func convertAlbum(a *spotify.SimpleAlbum) *song.Album {
	var thumbnail string
	if len(a.Images) > 0 {
		thumbnail = a.Images[0].URL
	}

	var year string
	if len(a.ReleaseDate) >= 4 {
		year = a.ReleaseDate[:4]
	}

	return &song.Album{
		ID:        string(a.ID),
		Title:     a.Name,
		Artist:    joinArtists(a.Artists),
		Thumbnail: thumbnail,
		Year:      year,
	}
}

func convertArtist(a *spotify.FullArtist) *song.ArtistItem {
	var thumbnail string
	if len(a.Images) > 0 {
		thumbnail = a.Images[0].URL
	}

	return &song.ArtistItem{
		BrowseID:  string(a.ID),
		Name:      a.Name,
		Thumbnail: thumbnail,
	}
}

func joinArtists(artists []spotify.SimpleArtist) string {
	names := make([]string, len(artists))
	for i, a := range artists {
		names[i] = a.Name
	}
	return strings.Join(names, ", ")
}

// retry retries an operation with linear backoff.
func (c *Client) retry(fn func() error) error {
	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !isRetryable(err) {
			return err
		}

		if i < c.maxRetries-1 {
			time.Sleep(c.retryDelay * time.Duration(i+1))
		}
	}
	return errors.Wrap(lastErr, "max retries exceeded")
}

// isRetryable checks if an error is retryable.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	// Rate limit errors and server errors are retryable
	errStr := err.Error()
	return strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "500") ||
		strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "504")
}

// extractPlaylistID extracts the playlist ID from a URL or URI.
func extractPlaylistID(input string) string {
	input = strings.TrimSpace(input)
	if strings.HasPrefix(input, "spotify:playlist:") {
		return strings.TrimPrefix(input, "spotify:playlist:")
	}

	if strings.Contains(input, "open.spotify.com") && strings.Contains(input, "/playlist/") {
		parts := strings.Split(input, "/playlist/")
		if len(parts) >= 2 {
			id := strings.Split(parts[len(parts)-1], "?")[0]
			id = strings.TrimRight(id, "/")
			return id
		}
	}

	// Assume it's already a playlist ID
	return input
}

// extractSongID extracts the song ID from a track URL or URI.
func extractSongID(input string) string {
	input = strings.TrimSpace(input)
	if strings.HasPrefix(input, "spotify:track:") {
		return strings.TrimPrefix(input, "spotify:track:")
	}

	if strings.Contains(input, "open.spotify.com") && strings.Contains(input, "/track/") {
		parts := strings.Split(input, "/track/")
		if len(parts) >= 2 {
			id := strings.Split(parts[len(parts)-1], "?")[0]
			id = strings.TrimRight(id, "/")
			return id
		}
	}

	// Assume it's already a song ID
	return input
}

// extractAlbumID extracts the album ID from an album URL or URI.
func extractAlbumID(input string) string {
	input = strings.TrimSpace(input)
	if strings.HasPrefix(input, "spotify:album:") {
		return strings.TrimPrefix(input, "spotify:album:")
	}

	if strings.Contains(input, "open.spotify.com") && strings.Contains(input, "/album/") {
		parts := strings.Split(input, "/album/")
		if len(parts) >= 2 {
			id := strings.Split(parts[len(parts)-1], "?")[0]
			id = strings.TrimRight(id, "/")
			return id
		}
	}

	// Assume it's already an album ID
	return input
}
