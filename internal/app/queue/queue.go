// Package queue provides the playback queue model: an ordered sequence of
// songs plus a cursor. The queue performs no I/O and is not safe for
// concurrent use; it is owned and serialized by the playback engine.
package queue

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/song"
)

// ErrInvalidIndex is returned when a queue operation references an index
// outside the sequence.
var ErrInvalidIndex = errors.New("invalid queue index")

// None is the cursor sentinel for an empty or stopped queue.
const None = -1

// Queue is an ordered sequence of songs plus a playback cursor.
// The cursor is always a valid index into the sequence, or None.
type Queue struct {
	songs  []song.Song
	cursor int
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{cursor: None}
}

// SetQueue replaces the entire sequence. If shuffle is set, the sequence is
// uniformly permuted with the song at startIndex forced to index 0 so
// playback starts on the chosen song; otherwise order is preserved and the
// cursor is clamped to startIndex.
func (q *Queue) SetQueue(songs []song.Song, startIndex int, shuffle bool) error {
	if len(songs) == 0 {
		return errors.Wrap(ErrInvalidIndex, "empty sequence")
	}

	if startIndex < 0 {
		startIndex = 0
	}
	if startIndex >= len(songs) {
		startIndex = len(songs) - 1
	}

	next := make([]song.Song, len(songs))
	copy(next, songs)

	if shuffle {
		next[0], next[startIndex] = next[startIndex], next[0]
		rest := next[1:]
		rng := rand.New(rand.NewSource(cryptoSeed()))
		rng.Shuffle(len(rest), func(i, j int) {
			rest[i], rest[j] = rest[j], rest[i]
		})
		q.songs = next
		q.cursor = 0
		return nil
	}

	q.songs = next
	q.cursor = startIndex
	return nil
}

// InsertNext inserts a song immediately after the cursor (or at index 0 if
// the queue is empty). The cursor keeps referencing the current song.
func (q *Queue) InsertNext(s song.Song) {
	if len(q.songs) == 0 {
		q.songs = []song.Song{s}
		return
	}

	at := q.cursor + 1
	if q.cursor == None {
		at = 0
	}
	q.songs = append(q.songs, song.Song{})
	copy(q.songs[at+1:], q.songs[at:])
	q.songs[at] = s
}

// Append adds a song at the tail of the sequence without moving the cursor.
func (q *Queue) Append(s song.Song) {
	q.songs = append(q.songs, s)
}

// Advance moves the cursor forward by one. It returns false if the cursor
// was already at the last index (exhausted); the caller decides whether
// exhaustion stops playback or loops.
func (q *Queue) Advance() bool {
	if q.cursor == None || q.cursor >= len(q.songs)-1 {
		return false
	}
	q.cursor++
	return true
}

// Retreat moves the cursor back by one. It returns false if the cursor is
// at the first index or None.
func (q *Queue) Retreat() bool {
	if q.cursor <= 0 {
		return false
	}
	q.cursor--
	return true
}

// JumpTo moves the cursor to the given index.
func (q *Queue) JumpTo(index int) error {
	if index < 0 || index >= len(q.songs) {
		return errors.Wrap(ErrInvalidIndex, "jump out of range")
	}
	q.cursor = index
	return nil
}

// Rewind moves the cursor back to index 0. It returns false on an empty queue.
func (q *Queue) Rewind() bool {
	if len(q.songs) == 0 {
		return false
	}
	q.cursor = 0
	return true
}

// Current returns the song at the cursor.
func (q *Queue) Current() (song.Song, bool) {
	if q.cursor == None || q.cursor >= len(q.songs) {
		return song.Song{}, false
	}
	return q.songs[q.cursor], true
}

// Index returns the cursor position, or None.
func (q *Queue) Index() int {
	return q.cursor
}

// Len returns the number of songs in the sequence.
func (q *Queue) Len() int {
	return len(q.songs)
}

// Upcoming returns the songs after the cursor, in play order.
func (q *Queue) Upcoming() []song.Song {
	if q.cursor == None || q.cursor >= len(q.songs)-1 {
		return nil
	}
	out := make([]song.Song, len(q.songs)-q.cursor-1)
	copy(out, q.songs[q.cursor+1:])
	return out
}

// Snapshot returns a copy of the sequence and the cursor, suitable for
// transmission in a queue snapshot message.
func (q *Queue) Snapshot() ([]song.Song, int) {
	out := make([]song.Song, len(q.songs))
	copy(out, q.songs)
	return out, q.cursor
}

// Restore replaces sequence and cursor from a received snapshot. An
// out-of-range cursor is clamped rather than rejected: the snapshot sender
// is authoritative and the mirror must converge.
func (q *Queue) Restore(songs []song.Song, cursor int) {
	q.songs = make([]song.Song, len(songs))
	copy(q.songs, songs)

	switch {
	case len(q.songs) == 0:
		q.cursor = None
	case cursor < 0:
		q.cursor = None
	case cursor >= len(q.songs):
		q.cursor = len(q.songs) - 1
	default:
		q.cursor = cursor
	}
}

// Clear empties the queue and resets the cursor.
func (q *Queue) Clear() {
	q.songs = nil
	q.cursor = None
}

// cryptoSeed derives an RNG seed from crypto/rand, falling back to the
// clock if the system source is unavailable.
func cryptoSeed() int64 {
	var buf [8]byte
	if _, err := cryptoRand.Read(buf[:]); err == nil {
		return int64(binary.LittleEndian.Uint64(buf[:]))
	}
	return time.Now().UnixNano()
}
