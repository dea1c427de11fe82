// Package audio implements the playback backend on the system speaker.
// Songs are fetched over HTTP, decoded as MP3 and handed to the beep
// speaker; completion and failure are reported asynchronously.
package audio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	gomp3 "github.com/hajimehoshi/go-mp3"
	zlog "github.com/rs/zerolog/log"

	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/app/player"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/song"
)

var ErrNoSongLoaded = errors.New("no song loaded")

// Resolver maps a song to a streamable URL.
type Resolver interface {
	StreamURL(ctx context.Context, s song.Song) (string, error)
}

// URLResolver resolves stream URLs from a printf-style template taking
// the song ID.
type URLResolver struct {
	Template string
}

func (r URLResolver) StreamURL(_ context.Context, s song.Song) (string, error) {
	if r.Template == "" {
		return "", errors.New("stream URL template is empty")
	}
	return fmt.Sprintf(r.Template, s.ID), nil
}

// Backend plays songs through the beep speaker.
type Backend struct {
	resolver Resolver
	client   *http.Client
	events   chan player.BackendEvent

	mu         sync.Mutex
	gen        uint64
	ctrl       *beep.Ctrl
	streamer   *mp3Streamer
	sampleRate beep.SampleRate
	tmpPath    string
	started    bool
}

// New creates a speaker backend.
func New(resolver Resolver) *Backend {
	return &Backend{
		resolver: resolver,
		client:   &http.Client{Timeout: 30 * time.Second},
		events:   make(chan player.BackendEvent, 8),
	}
}

// Load begins fetching and decoding a song. Completion or failure is
// reported on the event channel stamped with gen; a Load superseding an
// in-flight one simply wins the race at the engine.
func (b *Backend) Load(ctx context.Context, gen uint64, s song.Song) {
	b.mu.Lock()
	b.gen = gen
	speaker.Clear()
	b.started = false
	b.cleanupLocked()
	b.mu.Unlock()

	go b.load(ctx, gen, s)
}

func (b *Backend) load(ctx context.Context, gen uint64, s song.Song) {
	url, err := b.resolver.StreamURL(ctx, s)
	if err != nil {
		b.fail(gen, player.ErrNotFound, err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		b.fail(gen, player.ErrNetwork, err)
		return
	}

	resp, err := b.client.Do(req)
	if err != nil {
		b.fail(gen, player.ErrNetwork, err)
		return
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		b.fail(gen, player.ErrNotFound, errors.Newf("stream returned %d", resp.StatusCode))
		return
	case resp.StatusCode != http.StatusOK:
		b.fail(gen, player.ErrNetwork, errors.Newf("stream returned %d", resp.StatusCode))
		return
	}

	// Download to a temp file so the decoder can seek.
	tmp, err := os.CreateTemp("", "wavify-*.mp3")
	if err != nil {
		b.fail(gen, player.ErrNetwork, err)
		return
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		b.fail(gen, player.ErrNetwork, err)
		return
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		b.fail(gen, player.ErrNetwork, err)
		return
	}

	dec, err := gomp3.NewDecoder(tmp)
	if err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		b.fail(gen, player.ErrUnsupportedFormat, err)
		return
	}

	b.mu.Lock()
	if gen != b.gen {
		// A newer load superseded this one while downloading.
		b.mu.Unlock()
		tmp.Close()
		os.Remove(tmp.Name())
		return
	}

	b.streamer = &mp3Streamer{dec: dec, closer: tmp}
	b.ctrl = &beep.Ctrl{Streamer: b.streamer, Paused: true}
	b.sampleRate = beep.SampleRate(dec.SampleRate())
	b.tmpPath = tmp.Name()

	if err := speaker.Init(b.sampleRate, b.sampleRate.N(100*time.Millisecond)); err != nil {
		b.cleanupLocked()
		b.mu.Unlock()
		b.fail(gen, player.ErrUnsupportedFormat, err)
		return
	}
	b.mu.Unlock()

	b.emit(player.BackendEvent{Type: player.BackendReady, Gen: gen})
}

// Play starts or resumes the loaded song.
func (b *Backend) Play() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ctrl == nil {
		return ErrNoSongLoaded
	}

	if !b.started {
		gen := b.gen
		speaker.Clear()
		speaker.Play(beep.Seq(b.ctrl, beep.Callback(func() {
			b.emit(player.BackendEvent{Type: player.BackendEnded, Gen: gen})
		})))
		b.started = true
	}

	speaker.Lock()
	b.ctrl.Paused = false
	speaker.Unlock()
	return nil
}

// Pause pauses the speaker output.
func (b *Backend) Pause() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ctrl == nil {
		return ErrNoSongLoaded
	}

	speaker.Lock()
	b.ctrl.Paused = true
	speaker.Unlock()
	return nil
}

// Seek moves the playhead within the loaded song.
func (b *Backend) Seek(position time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.streamer == nil {
		return ErrNoSongLoaded
	}

	speaker.Lock()
	err := b.streamer.Seek(b.sampleRate.N(position))
	speaker.Unlock()
	return errors.Wrap(err, "seek")
}

// Stop halts output and discards the loaded song.
func (b *Backend) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	speaker.Clear()
	b.started = false
	b.cleanupLocked()
	return nil
}

// Position returns the playhead position within the loaded song.
func (b *Backend) Position() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.streamer == nil {
		return 0
	}

	speaker.Lock()
	pos := b.streamer.Position()
	speaker.Unlock()
	return b.sampleRate.D(pos)
}

// Events returns the backend event channel.
func (b *Backend) Events() <-chan player.BackendEvent {
	return b.events
}

// Close releases the speaker and any temp files.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	speaker.Clear()
	b.cleanupLocked()
	return nil
}

// cleanupLocked drops the loaded song and removes its temp file.
func (b *Backend) cleanupLocked() {
	if b.streamer != nil {
		b.streamer.close()
		b.streamer = nil
	}
	b.ctrl = nil
	if b.tmpPath != "" {
		if err := os.Remove(b.tmpPath); err != nil && !os.IsNotExist(err) {
			zlog.Debug().Msgf("remove temp file: %v", err)
		}
		b.tmpPath = ""
	}
}

func (b *Backend) fail(gen uint64, kind player.ErrorKind, err error) {
	zlog.Debug().Msgf("load failed: gen=%d kind=%s err=%v", gen, kind, err)
	b.emit(player.BackendEvent{Type: player.BackendFailed, Gen: gen, Err: kind})
}

func (b *Backend) emit(ev player.BackendEvent) {
	select {
	case b.events <- ev:
	default:
		zlog.Warn().Msgf("backend event dropped: type=%d gen=%d", ev.Type, ev.Gen)
	}
}
