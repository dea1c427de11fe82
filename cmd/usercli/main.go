// Package main provides the guest CLI entry point for testing.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"

	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/app/player"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/app/policy"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/app/session"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/song"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/infra/audio"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/infra/logger"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/infra/transport"
)

var (
	app    = kingpin.New("wavify-usercli", "Wavify guest client for testing")
	server = app.Flag("server", "Session websocket URL").Default("ws://localhost:8080/session").String()

	// join command
	joinCmd  = app.Command("join", "Join a session and mirror it until interrupted")
	joinName = joinCmd.Arg("name", "Display name").Required().String()

	// suggest command
	suggestCmd      = app.Command("suggest", "Join, suggest a song, and leave")
	suggestName     = suggestCmd.Arg("name", "Display name").Required().String()
	suggestSongID   = suggestCmd.Arg("song-id", "Catalog song ID").Required().String()
	suggestTitle    = suggestCmd.Flag("title", "Song title").String()
	suggestArtist   = suggestCmd.Flag("artist", "Artist name").String()
	suggestDuration = suggestCmd.Flag("duration", "Song duration (e.g. 3m20s)").Duration()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	if err := logger.Init(logger.Config{Output: "stderr", Level: "warn"}); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	switch command {
	case joinCmd.FullCommand():
		join(*joinName)
	case suggestCmd.FullCommand():
		suggest(*suggestName)
	}
}

// newGuest dials the host and joins the session. The returned coordinator
// mirrors the shared queue into a local engine.
func newGuest(displayName string) (*session.Coordinator, *player.Engine, error) {
	backend := audio.New(audio.URLResolver{Template: os.Getenv("STREAM_URL_TEMPLATE")})
	engine := player.New(backend, player.Config{})

	coordinator := session.NewCoordinator(engine, policy.NewChain(), session.Config{
		DisplayName: displayName,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := transport.Dial(ctx, *server)
	if err != nil {
		engine.Close()
		return nil, nil, fmt.Errorf("dial %s: %w", *server, err)
	}

	// The session ID is learned from the welcome message.
	if err := coordinator.JoinSession(ctx, "", client); err != nil {
		_ = client.Close()
		engine.Close()
		return nil, nil, fmt.Errorf("join session: %w", err)
	}
	return coordinator, engine, nil
}

func join(displayName string) {
	coordinator, engine, err := newGuest(displayName)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()
	defer coordinator.Close()

	status := coordinator.Status()
	fmt.Printf("Joined session %s (%s). Press Ctrl+C to leave.\n", status.SessionName, status.SessionID)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-sigCh:
			fmt.Println("\nLeaving...")
			return
		case <-ticker.C:
			printStatus(coordinator, engine)
		}
	}
}

func suggest(displayName string) {
	coordinator, engine, err := newGuest(displayName)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()
	defer coordinator.Close()

	s := song.Song{
		ID:       *suggestSongID,
		Title:    *suggestTitle,
		Artist:   *suggestArtist,
		Duration: *suggestDuration,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := coordinator.SuggestSong(ctx, s); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	// Give the host a moment to accept and broadcast before leaving.
	time.Sleep(time.Second)

	songs, cursor := engine.QueueSnapshot()
	fmt.Printf("Suggested %s. Queue now has %d songs (cursor %d).\n", s.ID, len(songs), cursor)
}

func printStatus(coordinator *session.Coordinator, engine *player.Engine) {
	status := coordinator.Status()
	snapshot := engine.Snapshot()

	now := "-"
	if snapshot.Song.ID != "" {
		now = fmt.Sprintf("%s - %s", snapshot.Song.Artist, snapshot.Song.Title)
	}
	fmt.Printf("[rev %d] sync=%s participants=%d state=%s queue=%d/%d now=%s\n",
		status.Revision, status.Health, status.Participants,
		snapshot.State, snapshot.QueueIndex+1, snapshot.QueueLen, now)
}
