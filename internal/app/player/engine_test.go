package player

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/song"
)

// fakeBackend records load requests and lets tests inject backend reports.
type fakeBackend struct {
	mu       sync.Mutex
	events   chan BackendEvent
	lastGen  uint64
	lastSong song.Song
	loads    int
	position time.Duration
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{events: make(chan BackendEvent, 16)}
}

func (b *fakeBackend) Load(_ context.Context, gen uint64, s song.Song) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastGen = gen
	b.lastSong = s
	b.loads++
}

func (b *fakeBackend) Play() error                 { return nil }
func (b *fakeBackend) Pause() error                { return nil }
func (b *fakeBackend) Seek(time.Duration) error    { return nil }
func (b *fakeBackend) Stop() error                 { return nil }
func (b *fakeBackend) Position() time.Duration     { return b.position }
func (b *fakeBackend) Events() <-chan BackendEvent { return b.events }
func (b *fakeBackend) Close() error                { return nil }

func (b *fakeBackend) currentGen() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastGen
}

func makeSongs(ids ...string) []song.Song {
	out := make([]song.Song, len(ids))
	for i, id := range ids {
		out[i] = song.Song{ID: id, Title: "Song " + id, Duration: 3 * time.Minute}
	}
	return out
}

func TestEngine_PlaySongTransitions(t *testing.T) {
	b := newFakeBackend()
	e := New(b, Config{})
	defer e.Close()

	require.NoError(t, e.PlaySong(song.Song{ID: "s1", Title: "One"}))
	assert.Equal(t, StateLoading, e.Snapshot().State)

	e.handleBackendEvent(BackendEvent{Type: BackendReady, Gen: b.currentGen()})

	st := e.Snapshot()
	assert.Equal(t, StatePlaying, st.State)
	assert.Equal(t, "s1", st.Song.ID)
}

// A load superseded by a second load must ignore the first load's late
// callback: state stays driven by the newer song.
func TestEngine_StaleLoadCallbackIgnored(t *testing.T) {
	b := newFakeBackend()
	e := New(b, Config{})
	defer e.Close()

	require.NoError(t, e.PlaySong(song.Song{ID: "x"}))
	genX := b.currentGen()

	require.NoError(t, e.PlaySong(song.Song{ID: "y"}))
	genY := b.currentGen()
	require.NotEqual(t, genX, genY)

	// Late ready for X arrives after Y's load began.
	e.handleBackendEvent(BackendEvent{Type: BackendReady, Gen: genX})
	st := e.Snapshot()
	assert.Equal(t, StateLoading, st.State)
	assert.Equal(t, "y", st.Song.ID)

	// Late failure for X must not flip Y into Failed either.
	e.handleBackendEvent(BackendEvent{Type: BackendFailed, Gen: genX, Err: ErrNetwork})
	assert.Equal(t, StateLoading, e.Snapshot().State)

	e.handleBackendEvent(BackendEvent{Type: BackendReady, Gen: genY})
	st = e.Snapshot()
	assert.Equal(t, StatePlaying, st.State)
	assert.Equal(t, "y", st.Song.ID)
}

func TestEngine_PlayAlbumSkipToExhaustion(t *testing.T) {
	b := newFakeBackend()
	e := New(b, Config{})
	defer e.Close()

	require.NoError(t, e.PlayAlbum(makeSongs("a", "b", "c"), 1, false))
	st := e.Snapshot()
	assert.Equal(t, "b", st.Song.ID)

	e.handleBackendEvent(BackendEvent{Type: BackendReady, Gen: b.currentGen()})
	assert.Equal(t, StatePlaying, e.Snapshot().State)

	require.NoError(t, e.SkipForward())
	assert.Equal(t, "c", e.Snapshot().Song.ID)
	e.handleBackendEvent(BackendEvent{Type: BackendReady, Gen: b.currentGen()})

	// Advancing past the last song goes Idle.
	require.NoError(t, e.SkipForward())
	st = e.Snapshot()
	assert.Equal(t, StateIdle, st.State)
	assert.True(t, st.Song.IsZero())
}

func TestEngine_LoopWrapsOnExhaustion(t *testing.T) {
	b := newFakeBackend()
	e := New(b, Config{Loop: true})
	defer e.Close()

	require.NoError(t, e.PlayAlbum(makeSongs("a", "b"), 1, false))
	e.handleBackendEvent(BackendEvent{Type: BackendReady, Gen: b.currentGen()})

	require.NoError(t, e.SkipForward())
	st := e.Snapshot()
	assert.Equal(t, StateLoading, st.State)
	assert.Equal(t, "a", st.Song.ID)
}

func TestEngine_NaturalEndAdvances(t *testing.T) {
	b := newFakeBackend()
	e := New(b, Config{})
	defer e.Close()

	require.NoError(t, e.PlayAlbum(makeSongs("a", "b"), 0, false))
	e.handleBackendEvent(BackendEvent{Type: BackendReady, Gen: b.currentGen()})

	e.handleBackendEvent(BackendEvent{Type: BackendEnded, Gen: b.currentGen()})
	st := e.Snapshot()
	assert.Equal(t, StateLoading, st.State)
	assert.Equal(t, "b", st.Song.ID)

	e.handleBackendEvent(BackendEvent{Type: BackendReady, Gen: b.currentGen()})
	e.handleBackendEvent(BackendEvent{Type: BackendEnded, Gen: b.currentGen()})
	assert.Equal(t, StateIdle, e.Snapshot().State)
}

func TestEngine_PauseResume(t *testing.T) {
	b := newFakeBackend()
	e := New(b, Config{})
	defer e.Close()

	assert.ErrorIs(t, e.Pause(), ErrNoSong)

	require.NoError(t, e.PlaySong(song.Song{ID: "s"}))
	assert.ErrorIs(t, e.Pause(), ErrNotPlaying)

	e.handleBackendEvent(BackendEvent{Type: BackendReady, Gen: b.currentGen()})
	require.NoError(t, e.Pause())
	assert.Equal(t, StatePaused, e.Snapshot().State)

	require.NoError(t, e.Resume())
	assert.Equal(t, StatePlaying, e.Snapshot().State)
	assert.ErrorIs(t, e.Resume(), ErrNotPaused)
}

func TestEngine_BufferingTransitions(t *testing.T) {
	b := newFakeBackend()
	e := New(b, Config{})
	defer e.Close()

	require.NoError(t, e.PlaySong(song.Song{ID: "s"}))
	gen := b.currentGen()
	e.handleBackendEvent(BackendEvent{Type: BackendReady, Gen: gen})

	e.handleBackendEvent(BackendEvent{Type: BackendUnderrun, Gen: gen})
	assert.Equal(t, StateBuffering, e.Snapshot().State)

	e.handleBackendEvent(BackendEvent{Type: BackendResumeReady, Gen: gen})
	assert.Equal(t, StatePlaying, e.Snapshot().State)
}

func TestEngine_FailedAndRetry(t *testing.T) {
	b := newFakeBackend()
	e := New(b, Config{})
	defer e.Close()

	require.NoError(t, e.PlaySong(song.Song{ID: "s"}))
	e.handleBackendEvent(BackendEvent{Type: BackendFailed, Gen: b.currentGen(), Err: ErrNotFound})

	st := e.Snapshot()
	assert.Equal(t, StateFailed, st.State)
	assert.Equal(t, ErrNotFound, st.Err)

	// The engine surfaces Failed and waits; retry is an explicit caller
	// decision.
	require.NoError(t, e.Retry())
	st = e.Snapshot()
	assert.Equal(t, StateLoading, st.State)
	assert.Equal(t, ErrNone, st.Err)

	assert.ErrorIs(t, e.Retry(), ErrNotFailed)
}

func TestEngine_PlayNextDoesNotInterrupt(t *testing.T) {
	b := newFakeBackend()
	e := New(b, Config{})
	defer e.Close()

	require.NoError(t, e.PlayAlbum(makeSongs("a", "b"), 0, false))
	gen := b.currentGen()
	e.handleBackendEvent(BackendEvent{Type: BackendReady, Gen: gen})

	e.PlayNext(song.Song{ID: "x"})

	st := e.Snapshot()
	assert.Equal(t, StatePlaying, st.State)
	assert.Equal(t, "a", st.Song.ID)
	assert.Equal(t, 3, st.QueueLen)
	assert.Equal(t, gen, b.currentGen()) // no new load issued

	// The inserted song plays right after the current one.
	require.NoError(t, e.SkipForward())
	assert.Equal(t, "x", e.Snapshot().Song.ID)
}

func TestEngine_SkipBackwardAtHeadRestarts(t *testing.T) {
	b := newFakeBackend()
	e := New(b, Config{})
	defer e.Close()

	require.NoError(t, e.PlayAlbum(makeSongs("a", "b"), 0, false))
	e.handleBackendEvent(BackendEvent{Type: BackendReady, Gen: b.currentGen()})

	require.NoError(t, e.SkipBackward())
	st := e.Snapshot()
	assert.Equal(t, "a", st.Song.ID)
	assert.Equal(t, StateLoading, st.State)
}

func TestEngine_ApplySnapshot(t *testing.T) {
	b := newFakeBackend()
	e := New(b, Config{})
	defer e.Close()

	songs := makeSongs("a", "b", "c")
	e.ApplySnapshot(songs, 1, true)
	st := e.Snapshot()
	assert.Equal(t, "b", st.Song.ID)
	assert.Equal(t, StateLoading, st.State)

	loads := b.loads
	// Same current song: no reload.
	e.ApplySnapshot(songs, 1, true)
	assert.Equal(t, loads, b.loads)

	// Different cursor: reload.
	e.ApplySnapshot(songs, 2, true)
	assert.Equal(t, loads+1, b.loads)
	assert.Equal(t, "c", e.Snapshot().Song.ID)

	// Empty snapshot stops playback.
	e.ApplySnapshot(nil, 0, true)
	assert.Equal(t, StateIdle, e.Snapshot().State)
}

// A snapshot from an idle sender must not start the mirror: the cursor
// still parks on the last played song, and loading it would replay it.
func TestEngine_ApplySnapshotIdleSenderStops(t *testing.T) {
	b := newFakeBackend()
	e := New(b, Config{})
	defer e.Close()

	songs := makeSongs("a")
	e.ApplySnapshot(songs, 0, true)
	e.handleBackendEvent(BackendEvent{Type: BackendReady, Gen: b.currentGen()})
	require.Equal(t, StatePlaying, e.Snapshot().State)

	loads := b.loads
	e.ApplySnapshot(songs, 0, false)
	st := e.Snapshot()
	assert.Equal(t, StateIdle, st.State)
	assert.True(t, st.Song.IsZero())
	assert.Equal(t, loads, b.loads)

	// Already idle: a repeat idle snapshot changes nothing.
	e.ApplySnapshot(songs, 0, false)
	assert.Equal(t, StateIdle, e.Snapshot().State)
	assert.Equal(t, loads, b.loads)
}

func TestEngine_EnqueueOnEmptyQueueStartsPlayback(t *testing.T) {
	b := newFakeBackend()
	e := New(b, Config{})
	defer e.Close()

	assert.True(t, e.Enqueue(song.Song{ID: "a"}))
	st := e.Snapshot()
	assert.Equal(t, StateLoading, st.State)
	assert.Equal(t, "a", st.Song.ID)
	assert.Equal(t, 0, st.QueueIndex)
}

// After the queue plays out the engine is idle with the cursor parked on
// the last song; a new enqueue must jump past it and start playing.
func TestEngine_EnqueueAfterExhaustionResumes(t *testing.T) {
	b := newFakeBackend()
	e := New(b, Config{})
	defer e.Close()

	require.NoError(t, e.PlayAlbum(makeSongs("a"), 0, false))
	e.handleBackendEvent(BackendEvent{Type: BackendReady, Gen: b.currentGen()})
	e.handleBackendEvent(BackendEvent{Type: BackendEnded, Gen: b.currentGen()})
	require.Equal(t, StateIdle, e.Snapshot().State)

	assert.True(t, e.Enqueue(song.Song{ID: "b"}))
	st := e.Snapshot()
	assert.Equal(t, StateLoading, st.State)
	assert.Equal(t, "b", st.Song.ID)
	assert.Equal(t, 1, st.QueueIndex)
	assert.Equal(t, 2, st.QueueLen)
}

func TestEngine_EnqueueWhilePlayingAppendsOnly(t *testing.T) {
	b := newFakeBackend()
	e := New(b, Config{})
	defer e.Close()

	require.NoError(t, e.PlaySong(song.Song{ID: "a"}))
	gen := b.currentGen()
	e.handleBackendEvent(BackendEvent{Type: BackendReady, Gen: gen})

	assert.False(t, e.Enqueue(song.Song{ID: "b"}))
	st := e.Snapshot()
	assert.Equal(t, StatePlaying, st.State)
	assert.Equal(t, "a", st.Song.ID)
	assert.Equal(t, 2, st.QueueLen)
	assert.Equal(t, gen, b.currentGen()) // no new load issued
}

// Events are observable through the channel without polling.
func TestEngine_EventDelivery(t *testing.T) {
	b := newFakeBackend()
	e := New(b, Config{})
	defer e.Close()

	require.NoError(t, e.PlaySong(song.Song{ID: "s1"}))
	b.events <- BackendEvent{Type: BackendReady, Gen: b.currentGen()}

	require.Eventually(t, func() bool {
		return e.Snapshot().State == StatePlaying
	}, time.Second, 5*time.Millisecond)

	var seen []EventType
	for len(e.Events()) > 0 {
		seen = append(seen, (<-e.Events()).Type)
	}
	assert.Contains(t, seen, EventSongStarted)
}
