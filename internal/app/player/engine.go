package player

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/app/queue"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/song"
)

// Errors
var (
	ErrNoSong     = errors.New("no song loaded")
	ErrNotPlaying = errors.New("not playing")
	ErrNotPaused  = errors.New("not paused")
	ErrNotFailed  = errors.New("not in failed state")
)

// Config holds engine configuration.
type Config struct {
	Loop        bool // Wrap to the first song when the queue is exhausted
	EventBuffer int  // Event channel capacity (default 16)
}

// Engine owns the queue model and drives the playback state machine against
// an audio backend. All state transitions are totally ordered: every mutation
// happens under one mutex, and backend reports are funneled through a single
// goroutine. There is one engine per device.
type Engine struct {
	mu sync.Mutex

	queue   *queue.Queue
	backend Backend

	state   State
	current song.Song
	errKind ErrorKind

	// Load generation guard: a superseding load invalidates the outcome of
	// any in-flight load; stale backend reports are compared and dropped.
	loadGen uint64

	loop bool

	eventCh chan Event

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a playback engine over the given backend and starts its
// backend event loop.
func New(backend Backend, cfg Config) *Engine {
	ctx, cancel := context.WithCancel(context.Background())

	buf := cfg.EventBuffer
	if buf <= 0 {
		buf = 16
	}

	e := &Engine{
		queue:   queue.New(),
		backend: backend,
		state:   StateIdle,
		loop:    cfg.Loop,
		eventCh: make(chan Event, buf),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	go e.backendLoop()

	return e
}

// Events returns the event channel. Every state transition is observable
// here; consumers must not block for long.
func (e *Engine) Events() <-chan Event {
	return e.eventCh
}

// PlaySong replaces the queue with a singleton and loads it.
func (e *Engine) PlaySong(s song.Song) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.queue.SetQueue([]song.Song{s}, 0, false); err != nil {
		return err
	}
	e.sendEventLocked(Event{Type: EventQueueChanged, State: e.state})
	e.loadCurrentLocked()
	return nil
}

// PlayAlbum replaces the queue with the given songs and loads the resulting
// current song. With shuffle, the song at startIndex still plays first.
func (e *Engine) PlayAlbum(songs []song.Song, startIndex int, shuffle bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.queue.SetQueue(songs, startIndex, shuffle); err != nil {
		return err
	}
	e.sendEventLocked(Event{Type: EventQueueChanged, State: e.state})
	e.loadCurrentLocked()
	return nil
}

// PlayNext inserts a song immediately after the current cursor position
// without interrupting playback.
func (e *Engine) PlayNext(s song.Song) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.queue.InsertNext(s)
	e.sendEventLocked(Event{Type: EventQueueChanged, State: e.state})
}

// Append adds a song at the tail of the queue without interrupting playback.
func (e *Engine) Append(s song.Song) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.queue.Append(s)
	e.sendEventLocked(Event{Type: EventQueueChanged, State: e.state})
}

// Enqueue adds a song at the tail of the queue. When the player is idle,
// either the queue is empty or it has played out; in both cases the cursor
// jumps to the appended song and it starts loading. An active player keeps
// its current song. Reports whether playback was started.
func (e *Engine) Enqueue(s song.Song) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.queue.Append(s)
	e.sendEventLocked(Event{Type: EventQueueChanged, State: e.state})

	if e.state != StateIdle {
		return false
	}
	if err := e.queue.JumpTo(e.queue.Len() - 1); err != nil {
		return false
	}
	e.loadCurrentLocked()
	return true
}

// SkipForward advances the cursor and loads the next song. At the end of the
// queue the engine goes Idle (or wraps when loop is enabled).
func (e *Engine) SkipForward() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.advanceLocked()
}

// SkipBackward retreats the cursor and loads the previous song. At the head
// of the queue the current song is restarted.
func (e *Engine) SkipBackward() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.queue.Current(); !ok {
		return ErrNoSong
	}
	e.queue.Retreat()
	e.loadCurrentLocked()
	return nil
}

// Pause pauses the current playback.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current.IsZero() {
		return ErrNoSong
	}
	if e.state != StatePlaying {
		return ErrNotPlaying
	}

	if err := e.backend.Pause(); err != nil {
		return errors.Wrap(err, "backend pause")
	}
	e.state = StatePaused
	e.sendEventLocked(Event{Type: EventStateChanged, Song: e.current, State: e.state})
	return nil
}

// Resume resumes paused playback.
func (e *Engine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current.IsZero() {
		return ErrNoSong
	}
	if e.state != StatePaused {
		return ErrNotPaused
	}

	if err := e.backend.Play(); err != nil {
		return errors.Wrap(err, "backend play")
	}
	e.state = StatePlaying
	e.sendEventLocked(Event{Type: EventStateChanged, Song: e.current, State: e.state})
	return nil
}

// Seek moves the playback position within the current song.
func (e *Engine) Seek(position time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current.IsZero() {
		return ErrNoSong
	}
	if e.state != StatePlaying && e.state != StatePaused {
		return ErrNotPlaying
	}
	return errors.Wrap(e.backend.Seek(position), "backend seek")
}

// Retry reloads the current song after a failure. The engine never retries
// on its own; retry policy belongs to the caller.
func (e *Engine) Retry() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateFailed {
		return ErrNotFailed
	}
	e.loadCurrentLocked()
	return nil
}

// Stop halts playback and returns to Idle. The queue is preserved; any
// in-flight load is invalidated.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.loadGen++
	_ = e.backend.Stop()
	e.state = StateIdle
	e.current = song.Song{}
	e.errKind = ErrNone
	e.sendEventLocked(Event{Type: EventStateChanged, State: e.state})
	return nil
}

// Snapshot returns the current engine status.
func (e *Engine) Snapshot() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	var pos time.Duration
	if e.state == StatePlaying || e.state == StatePaused || e.state == StateBuffering {
		pos = e.backend.Position()
	}

	return Status{
		State:       e.state,
		Song:        e.current,
		Position:    pos,
		QueueIndex:  e.queue.Index(),
		QueueLen:    e.queue.Len(),
		Err:         e.errKind,
		LoopEnabled: e.loop,
	}
}

// QueueSnapshot returns a copy of the queue sequence and cursor.
func (e *Engine) QueueSnapshot() ([]song.Song, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.Snapshot()
}

// ApplySnapshot replaces the queue from a received snapshot. The playing
// flag carries the sender's intent: only a playing sender makes the mirror
// load the snapshot's current song; an idle sender stops the mirror even
// though its cursor still parks on the last played song. Used by a guest
// coordinator mirroring the host's authoritative queue.
func (e *Engine) ApplySnapshot(songs []song.Song, cursor int, playing bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.queue.Restore(songs, cursor)
	e.sendEventLocked(Event{Type: EventQueueChanged, State: e.state})

	cur, ok := e.queue.Current()
	if !ok || !playing {
		if !e.current.IsZero() {
			e.loadGen++
			_ = e.backend.Stop()
			e.state = StateIdle
			e.current = song.Song{}
			e.sendEventLocked(Event{Type: EventStateChanged, State: e.state})
		}
		return
	}
	if !cur.Equal(e.current) {
		e.loadCurrentLocked()
	}
}

// Close shuts the engine down and releases the backend.
func (e *Engine) Close() {
	e.cancel()
	<-e.done
	_ = e.backend.Close()
	close(e.eventCh)
}

// loadCurrentLocked loads the song at the cursor, superseding any in-flight
// load. Must be called with the lock held.
func (e *Engine) loadCurrentLocked() {
	s, ok := e.queue.Current()
	if !ok {
		return
	}

	e.loadGen++
	e.current = s
	e.errKind = ErrNone
	e.state = StateLoading

	zlog.Debug().Msgf("player: loading song: id=%s title=%s gen=%d", s.ID, s.Title, e.loadGen)

	e.sendEventLocked(Event{Type: EventStateChanged, Song: s, State: e.state})
	e.backend.Load(e.ctx, e.loadGen, s)
}

// advanceLocked moves to the next song, handling exhaustion and loop mode.
// Must be called with the lock held.
func (e *Engine) advanceLocked() error {
	if e.queue.Advance() {
		e.loadCurrentLocked()
		return nil
	}

	// Exhausted.
	if e.loop && e.queue.Rewind() {
		e.loadCurrentLocked()
		return nil
	}

	e.loadGen++
	_ = e.backend.Stop()
	e.state = StateIdle
	e.current = song.Song{}
	e.sendEventLocked(Event{Type: EventQueueExhausted, State: e.state})
	e.sendEventLocked(Event{Type: EventStateChanged, State: e.state})
	return nil
}

// backendLoop funnels backend reports into serialized state transitions.
func (e *Engine) backendLoop() {
	defer close(e.done)

	for {
		select {
		case <-e.ctx.Done():
			return
		case ev, ok := <-e.backend.Events():
			if !ok {
				return
			}
			e.handleBackendEvent(ev)
		}
	}
}

func (e *Engine) handleBackendEvent(ev BackendEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Generation guard: a report from a superseded load must not change
	// state, no matter when it arrives.
	if ev.Gen != 0 && ev.Gen != e.loadGen {
		zlog.Debug().Msgf("player: dropping stale backend event: type=%d gen=%d current_gen=%d", ev.Type, ev.Gen, e.loadGen)
		return
	}

	switch ev.Type {
	case BackendReady:
		if e.state != StateLoading {
			return
		}
		if err := e.backend.Play(); err != nil {
			e.state = StateFailed
			e.errKind = ErrUnsupportedFormat
			e.sendEventLocked(Event{Type: EventLoadFailed, Song: e.current, State: e.state, Err: e.errKind})
			return
		}
		e.state = StatePlaying
		zlog.Info().Msgf("player: song started: id=%s title=%s", e.current.ID, e.current.Title)
		e.sendEventLocked(Event{Type: EventSongStarted, Song: e.current, State: e.state})

	case BackendFailed:
		if e.state != StateLoading && e.state != StatePlaying && e.state != StateBuffering {
			return
		}
		e.state = StateFailed
		e.errKind = ev.Err
		zlog.Warn().Msgf("player: load failed: id=%s kind=%s", e.current.ID, e.errKind)
		e.sendEventLocked(Event{Type: EventLoadFailed, Song: e.current, State: e.state, Err: e.errKind})

	case BackendUnderrun:
		if e.state != StatePlaying && e.state != StatePaused {
			return
		}
		e.state = StateBuffering
		e.sendEventLocked(Event{Type: EventStateChanged, Song: e.current, State: e.state})

	case BackendResumeReady:
		if e.state != StateBuffering {
			return
		}
		e.state = StatePlaying
		e.sendEventLocked(Event{Type: EventStateChanged, Song: e.current, State: e.state})

	case BackendEnded:
		if e.current.IsZero() {
			return
		}
		ended := e.current
		zlog.Debug().Msgf("player: song ended: id=%s", ended.ID)
		e.sendEventLocked(Event{Type: EventSongEnded, Song: ended, State: e.state})
		_ = e.advanceLocked()
	}
}

// sendEventLocked sends an event without blocking. Must be called with the
// lock held.
func (e *Engine) sendEventLocked(ev Event) {
	select {
	case e.eventCh <- ev:
	case <-e.ctx.Done():
	default:
		// Channel full, drop event rather than stall the state machine.
	}
}
