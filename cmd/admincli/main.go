// Package main provides the host control CLI entry point.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
)

var (
	app    = kingpin.New("wavify-admincli", "Wavify host control client")
	server = app.Flag("server", "Server address").Default("http://localhost:8080").String()
	token  = app.Flag("token", "Control token (or set WAVIFY_CONTROL_TOKEN env)").Envar("WAVIFY_CONTROL_TOKEN").String()

	// status command
	statusCmd = app.Command("status", "Get session and playback status")

	// queue command
	queueCmd = app.Command("queue", "Show the shared queue")

	// search command
	searchCmd   = app.Command("search", "Search the catalog")
	searchQuery = searchCmd.Arg("query", "Search query").Required().String()

	// play command
	playCmd    = app.Command("play", "Play a song immediately")
	playSongID = playCmd.Arg("song-id", "Catalog song ID").Required().String()

	// suggest command
	suggestCmd    = app.Command("suggest", "Suggest a song for the shared queue")
	suggestSongID = suggestCmd.Arg("song-id", "Catalog song ID").Required().String()

	// playback commands
	pauseCmd  = app.Command("pause", "Pause playback")
	resumeCmd = app.Command("resume", "Resume playback")
	skipCmd   = app.Command("skip", "Skip the current song")

	// seek command
	seekCmd      = app.Command("seek", "Seek within the current song")
	seekPosition = seekCmd.Arg("position", "Position (e.g. 1m30s)").Required().Duration()

	// kick command
	kickCmd         = app.Command("kick", "Kick a participant")
	kickParticipant = kickCmd.Arg("participant-id", "Participant ID (UUID)").Required().String()

	// participants command
	participantsCmd = app.Command("participants", "List session participants").Alias("list")

	// like commands
	likeCmd    = app.Command("like", "Toggle like on a song")
	likeSongID = likeCmd.Arg("song-id", "Catalog song ID").Required().String()
	likesCmd   = app.Command("likes", "List liked songs")

	// history command
	historyCmd   = app.Command("history", "Show recently played songs")
	historyLimit = historyCmd.Flag("limit", "Maximum entries").Default("20").Int()
)

const controlTokenHeader = "X-Control-Token"

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	switch command {
	case statusCmd.FullCommand():
		printBody(get("/v1/status", nil))
	case queueCmd.FullCommand():
		printBody(get("/v1/queue", nil))
	case searchCmd.FullCommand():
		printBody(get("/v1/search", url.Values{"q": {*searchQuery}}))
	case playCmd.FullCommand():
		printBody(post("/v1/play", map[string]any{"song_id": *playSongID}))
	case suggestCmd.FullCommand():
		printBody(post("/v1/suggest", map[string]any{"song_id": *suggestSongID}))
	case pauseCmd.FullCommand():
		printBody(post("/v1/playback/pause", nil))
	case resumeCmd.FullCommand():
		printBody(post("/v1/playback/resume", nil))
	case skipCmd.FullCommand():
		printBody(post("/v1/playback/skip", nil))
	case seekCmd.FullCommand():
		printBody(post("/v1/playback/seek", map[string]any{"position_ms": seekPosition.Milliseconds()}))
	case kickCmd.FullCommand():
		printBody(post("/v1/kick", map[string]any{"participant_id": *kickParticipant}))
	case participantsCmd.FullCommand():
		printBody(get("/v1/participants", nil))
	case likeCmd.FullCommand():
		printBody(post("/v1/likes/toggle", map[string]any{"song_id": *likeSongID}))
	case likesCmd.FullCommand():
		printBody(get("/v1/likes", nil))
	case historyCmd.FullCommand():
		printBody(get("/v1/history", url.Values{"limit": {strconv.Itoa(*historyLimit)}}))
	}
}

func get(path string, query url.Values) (*http.Response, error) {
	target := *server + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequest(http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	return do(req)
}

func post(path string, body map[string]any) (*http.Response, error) {
	if body == nil {
		body = map[string]any{}
	}
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPost, *server+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return do(req)
}

func do(req *http.Request) (*http.Response, error) {
	if *token != "" {
		req.Header.Set(controlTokenHeader, *token)
	}
	client := &http.Client{Timeout: 30 * time.Second}
	return client.Do(req)
}

// printBody pretty-prints the JSON response and exits non-zero on errors.
func printBody(resp *http.Response, err error) {
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		fmt.Println(string(raw))
	} else {
		fmt.Println(pretty.String())
	}

	if resp.StatusCode >= 400 {
		os.Exit(1)
	}
}
