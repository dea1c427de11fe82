// Package session provides the shared listening session coordinator.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/app/player"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/app/policy"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/app/session/protocol"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/app/session/registry"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/app/session/state"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/participant"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/song"
)

var (
	ErrNotInSession     = errors.New("not in a session")
	ErrAlreadyInSession = errors.New("already in a session")
	ErrNotHost          = errors.New("operation requires host role")
	ErrNotGuest         = errors.New("operation requires guest role")
	ErrJoinFailed       = errors.New("join failed")
)

// Transport delivers envelopes between the local coordinator and the rest
// of the session. For a host, Send fans out to every guest; for a guest,
// Send goes to the host. Inbox yields inbound messages and is closed when
// the connection drops.
type Transport interface {
	Send(env protocol.Envelope) error
	Inbox() <-chan protocol.Envelope
	Close() error
}

// Config holds coordinator tuning.
type Config struct {
	DisplayName       string
	HeartbeatInterval time.Duration
	StaleTimeout      time.Duration
	JoinTimeout       time.Duration

	// OnSongStarted is invoked whenever a new song starts while hosting.
	// Optional.
	OnSongStarted func(s song.Song)

	// OnQueueExhausted is invoked when the hosted queue plays out.
	// Optional. Must not block; run refill work on another goroutine.
	OnQueueExhausted func()
}

// Status is a point-in-time view of the session for display.
type Status struct {
	Role         state.Role
	SessionID    string
	SessionName  string
	Health       state.SyncHealth
	Revision     uint64
	Participants int
}

// Coordinator owns the session lifecycle. In the solo role it is inert
// and the playback engine is driven directly; hosting or joining starts
// a run loop that bridges the transport and the engine.
type Coordinator struct {
	mu sync.RWMutex

	cfg Config

	stateMgr *state.Manager
	roster   *registry.Roster
	engine   *player.Engine
	policies *policy.Chain

	transport Transport
	selfID    string
	localSeq  uint64

	// Queued guest suggestions awaiting playback, song ID to submitter.
	// The submitter's pending count is released when the song starts.
	suggestedBy map[string]string

	// Guest-side view of the membership list.
	rosterView []protocol.RosterEntry

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewCoordinator creates a coordinator in the solo role.
func NewCoordinator(engine *player.Engine, policies *policy.Chain, cfg Config) *Coordinator {
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = 5 * time.Second
	}
	if cfg.StaleTimeout <= 0 {
		cfg.StaleTimeout = 15 * time.Second
	}
	if cfg.JoinTimeout <= 0 {
		cfg.JoinTimeout = 10 * time.Second
	}
	return &Coordinator{
		cfg:         cfg,
		stateMgr:    state.New(),
		roster:      registry.NewRoster(),
		engine:      engine,
		policies:    policies,
		suggestedBy: make(map[string]string),
	}
}

// Status returns a snapshot of the session state.
func (c *Coordinator) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	count := c.roster.Count()
	revision := c.stateMgr.CurrentRevision()
	if c.stateMgr.GetRole() == state.RoleGuest {
		count = len(c.rosterView)
		revision = c.stateMgr.LastApplied()
	}
	return Status{
		Role:         c.stateMgr.GetRole(),
		SessionID:    c.stateMgr.GetSessionID(),
		SessionName:  c.stateMgr.GetSessionName(),
		Health:       c.stateMgr.GetHealth(),
		Revision:     revision,
		Participants: count,
	}
}

// Role returns the current role.
func (c *Coordinator) Role() state.Role {
	return c.stateMgr.GetRole()
}

// HostSession starts hosting a new session over the given transport.
// The local queue becomes the authoritative queue.
func (c *Coordinator) HostSession(sessionName string, t Transport) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stateMgr.GetRole() != state.RoleSolo {
		return "", ErrAlreadyInSession
	}

	sessionID := uuid.New().String()
	c.stateMgr.BeginHosting(sessionID, sessionName)

	selfID, err := c.roster.Join(c.cfg.DisplayName, participant.RoleHost)
	if err != nil {
		c.stateMgr.Reset()
		return "", errors.Wrap(err, "register host")
	}
	c.selfID = selfID
	c.transport = t

	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.done = make(chan struct{})
	go c.hostLoop()

	zlog.Info().Msgf("session hosted: session_id=%s name=%s", sessionID, sessionName)
	return sessionID, nil
}

// JoinSession joins an existing session as a guest. It blocks until the
// host's welcome arrives or the join times out. On success the local
// engine becomes a mirror of the host's queue.
func (c *Coordinator) JoinSession(ctx context.Context, sessionID string, t Transport) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stateMgr.GetRole() != state.RoleSolo {
		return ErrAlreadyInSession
	}

	env, err := protocol.NewEnvelope(protocol.TypeJoin, sessionID, "", 0, protocol.JoinPayload{
		DisplayName: c.cfg.DisplayName,
	})
	if err != nil {
		return err
	}
	if err := t.Send(env); err != nil {
		return errors.Wrap(err, "send join")
	}

	welcome, welcomeRev, err := c.awaitWelcome(ctx, t)
	if err != nil {
		return err
	}

	c.stateMgr.BeginFollowing(welcome.SessionID)
	c.stateMgr.MarkApplied(welcomeRev)
	c.selfID = welcome.ParticipantID
	c.transport = t
	c.rosterView = welcome.Roster

	c.engine.ApplySnapshot(welcome.Snapshot.Songs, welcome.Snapshot.Cursor, welcome.Snapshot.Playing)

	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.done = make(chan struct{})
	go c.guestLoop()

	zlog.Info().Msgf("session joined: session_id=%s participant_id=%s", welcome.SessionID, c.selfID)
	return nil
}

// awaitWelcome reads the transport inbox until a welcome arrives. The
// welcome's revision seeds the guest's last-applied high-water mark.
func (c *Coordinator) awaitWelcome(ctx context.Context, t Transport) (*protocol.WelcomePayload, uint64, error) {
	timer := time.NewTimer(c.cfg.JoinTimeout)
	defer timer.Stop()

	for {
		select {
		case env, ok := <-t.Inbox():
			if !ok {
				return nil, 0, errors.Wrap(ErrJoinFailed, "connection closed")
			}
			if env.Type != protocol.TypeWelcome {
				continue
			}
			payload, err := protocol.DecodePayload(env)
			if err != nil {
				return nil, 0, errors.Wrap(err, "decode welcome")
			}
			welcome := payload.(*protocol.WelcomePayload)
			if !welcomeIsMine(welcome, c.cfg.DisplayName) {
				continue
			}
			return welcome, env.Revision, nil
		case <-timer.C:
			return nil, 0, errors.Wrap(ErrJoinFailed, "timed out waiting for welcome")
		case <-ctx.Done():
			return nil, 0, ctx.Err()
		}
	}
}

// welcomeIsMine filters broadcast welcomes meant for a different joiner.
// The roster entry for the assigned participant ID must carry our display
// name; a welcome without a roster is accepted as-is.
func welcomeIsMine(w *protocol.WelcomePayload, displayName string) bool {
	if len(w.Roster) == 0 {
		return true
	}
	for _, entry := range w.Roster {
		if entry.ID == w.ParticipantID {
			return entry.DisplayName == displayName
		}
	}
	return false
}

// Leave exits the current session and returns to solo playback. The local
// queue is kept as-is so playback continues uninterrupted.
func (c *Coordinator) Leave() error {
	c.mu.Lock()

	role := c.stateMgr.GetRole()
	if role == state.RoleSolo {
		c.mu.Unlock()
		return ErrNotInSession
	}

	t := c.transport
	if env, err := protocol.NewEnvelope(protocol.TypeLeave, c.stateMgr.GetSessionID(), c.selfID, 0, nil); err == nil {
		if err := t.Send(env); err != nil {
			zlog.Debug().Msgf("send leave: %v", err)
		}
	}

	c.cancel()
	done := c.done
	c.mu.Unlock()

	// The run loop may be waiting on c.mu; wait for it outside the lock.
	<-done

	if err := t.Close(); err != nil {
		zlog.Debug().Msgf("close transport: %v", err)
	}

	c.mu.Lock()
	c.transport = nil
	c.rosterView = nil
	c.roster = registry.NewRoster()
	c.suggestedBy = make(map[string]string)
	c.stateMgr.Reset()
	c.mu.Unlock()

	zlog.Info().Msgf("session left: role=%s", role)
	return nil
}

// SuggestSong proposes a song for the shared queue. A host applies it
// directly through the policy chain; a guest sends it to the host.
func (c *Coordinator) SuggestSong(ctx context.Context, s song.Song) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.stateMgr.GetRole() {
	case state.RoleHost:
		return c.acceptSuggestionLocked(ctx, c.selfID, s, policy.OriginHost)
	case state.RoleGuest:
		c.localSeq++
		env, err := protocol.NewEnvelope(protocol.TypeSuggestSong, c.stateMgr.GetSessionID(), c.selfID, 0, protocol.SuggestSongPayload{
			Song:     s,
			LocalSeq: c.localSeq,
		})
		if err != nil {
			return err
		}
		return errors.Wrap(c.transport.Send(env), "send suggestion")
	default:
		return ErrNotInSession
	}
}

// Pause pauses playback session-wide. Host only while in a session.
func (c *Coordinator) Pause() error {
	return c.hostCommand(protocol.CommandPause, 0, c.engine.Pause)
}

// Resume resumes playback session-wide. Host only while in a session.
func (c *Coordinator) Resume() error {
	return c.hostCommand(protocol.CommandPlay, 0, c.engine.Resume)
}

// Skip advances to the next song session-wide. Host only while in a session.
func (c *Coordinator) Skip() error {
	if err := c.hostCommand(protocol.CommandSkip, 0, c.engine.SkipForward); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stateMgr.GetRole() == state.RoleHost {
		c.broadcastSnapshotLocked()
	}
	return nil
}

// Seek moves the playhead session-wide. Host only while in a session.
func (c *Coordinator) Seek(position time.Duration) error {
	return c.hostCommand(protocol.CommandSeek, position, func() error {
		return c.engine.Seek(position)
	})
}

// hostCommand replicates a transport control to guests before applying it
// locally. In solo mode the command applies locally with no replication;
// guests may not drive shared playback.
func (c *Coordinator) hostCommand(kind string, position time.Duration, apply func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.stateMgr.GetRole() {
	case state.RoleSolo:
		return apply()
	case state.RoleGuest:
		return ErrNotHost
	}

	rev := c.stateMgr.NextRevision()
	env, err := protocol.NewEnvelope(protocol.TypePlaybackCommand, c.stateMgr.GetSessionID(), c.selfID, rev, protocol.PlaybackCommandPayload{
		Kind:       kind,
		PositionMs: position.Milliseconds(),
	})
	if err != nil {
		return err
	}
	if err := c.transport.Send(env); err != nil {
		zlog.Error().Msgf("broadcast %s command: %v", kind, err)
	}
	return apply()
}

// Participants returns the current membership list.
func (c *Coordinator) Participants() []protocol.RosterEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.stateMgr.GetRole() == state.RoleGuest {
		out := make([]protocol.RosterEntry, len(c.rosterView))
		copy(out, c.rosterView)
		return out
	}
	return c.rosterEntriesLocked()
}

// Kick removes a guest from the session. Host only.
func (c *Coordinator) Kick(participantID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stateMgr.GetRole() != state.RoleHost {
		return ErrNotHost
	}
	if err := c.roster.Kick(participantID); err != nil {
		return err
	}
	c.broadcastRosterLocked()
	return nil
}

// Close shuts down the coordinator, leaving any active session.
func (c *Coordinator) Close() {
	c.mu.RLock()
	inSession := c.stateMgr.GetRole() != state.RoleSolo
	c.mu.RUnlock()

	if inSession {
		if err := c.Leave(); err != nil {
			zlog.Debug().Msgf("leave on close: %v", err)
		}
	}
}

// ---- host side ----

// hostLoop services guest messages, engine events and the heartbeat timer.
func (c *Coordinator) hostLoop() {
	defer close(c.done)

	heartbeat := time.NewTicker(c.cfg.HeartbeatInterval)
	defer heartbeat.Stop()

	inbox := c.transport.Inbox()

	for {
		select {
		case env, ok := <-inbox:
			if !ok {
				zlog.Warn().Msgf("host transport closed")
				return
			}
			c.handleGuestMessage(env)
		case ev, ok := <-c.engine.Events():
			if !ok {
				return
			}
			c.handleEngineEvent(ev)
		case <-heartbeat.C:
			c.sendHeartbeat()
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Coordinator) handleGuestMessage(env protocol.Envelope) {
	c.mu.Lock()
	defer c.mu.Unlock()

	payload, err := protocol.DecodePayload(env)
	if err != nil {
		zlog.Debug().Msgf("drop malformed message: type=%s err=%v", env.Type, err)
		return
	}

	switch env.Type {
	case protocol.TypeJoin:
		p := payload.(*protocol.JoinPayload)
		c.handleJoinLocked(p.DisplayName)
	case protocol.TypeSuggestSong:
		p := payload.(*protocol.SuggestSongPayload)
		if err := c.roster.Validate(env.From); err != nil {
			zlog.Debug().Msgf("drop suggestion: participant_id=%s err=%v", env.From, err)
			return
		}
		if err := c.acceptSuggestionLocked(c.ctx, env.From, p.Song, policy.OriginGuest); err != nil {
			zlog.Info().Msgf("suggestion rejected: participant_id=%s song_id=%s reason=%v", env.From, p.Song.ID, err)
		}
	case protocol.TypeLeave:
		c.roster.Leave(env.From)
		c.broadcastRosterLocked()
		zlog.Info().Msgf("participant left: participant_id=%s", env.From)
	default:
		zlog.Debug().Msgf("ignore message: type=%s from=%s", env.Type, env.From)
	}
}

// handleJoinLocked registers a guest and replies with the full state.
func (c *Coordinator) handleJoinLocked(displayName string) {
	id, err := c.roster.Join(displayName, participant.RoleGuest)
	if err != nil {
		zlog.Error().Msgf("join failed: display_name=%s err=%v", displayName, err)
		return
	}

	songs, cursor := c.engine.QueueSnapshot()
	welcome := protocol.WelcomePayload{
		ParticipantID: id,
		SessionID:     c.stateMgr.GetSessionID(),
		Roster:        c.rosterEntriesLocked(),
		Snapshot: protocol.QueueSnapshotPayload{
			Songs:   songs,
			Cursor:  cursor,
			Playing: !c.engine.Snapshot().Song.IsZero(),
		},
	}
	env, err := protocol.NewEnvelope(protocol.TypeWelcome, c.stateMgr.GetSessionID(), c.selfID, c.stateMgr.CurrentRevision(), welcome)
	if err != nil {
		zlog.Error().Msgf("build welcome: %v", err)
		return
	}
	if err := c.transport.Send(env); err != nil {
		zlog.Error().Msgf("send welcome: %v", err)
		return
	}

	c.broadcastRosterLocked()
	zlog.Info().Msgf("participant joined: participant_id=%s display_name=%s count=%d", id, displayName, c.roster.Count())
}

// acceptSuggestionLocked runs a suggestion through the policy chain and,
// if accepted, appends it to the shared queue. The updated snapshot is
// broadcast before the local queue mutates so guests never observe a
// state the host has not committed to.
func (c *Coordinator) acceptSuggestionLocked(ctx context.Context, submitterID string, s song.Song, origin policy.Origin) error {
	submitter, err := c.roster.Get(submitterID)
	if err != nil {
		return err
	}

	req := policy.SuggestionRequest{ParticipantID: submitterID, SongID: s.ID}
	result := c.policies.Execute(ctx, req, s, submitter, origin)
	if !result.Accepted {
		return errors.Newf("rejected by policy: %s", result.Code)
	}

	songs, cursor := c.engine.QueueSnapshot()
	next := make([]song.Song, 0, len(songs)+1)
	next = append(next, songs...)
	next = append(next, s)

	// An idle engine means the queue is empty or has played out. Either
	// way the suggestion becomes the current song and playback starts.
	status := c.engine.Snapshot()
	startPlayback := status.State == player.StateIdle
	if startPlayback {
		cursor = len(next) - 1
	}

	rev := c.stateMgr.NextRevision()
	env, err := protocol.NewEnvelope(protocol.TypeQueueSnapshot, c.stateMgr.GetSessionID(), c.selfID, rev, protocol.QueueSnapshotPayload{
		Songs:   next,
		Cursor:  cursor,
		Playing: startPlayback || !status.Song.IsZero(),
	})
	if err != nil {
		return err
	}
	if err := c.transport.Send(env); err != nil {
		zlog.Error().Msgf("broadcast queue snapshot: rev=%d err=%v", rev, err)
	}

	c.engine.Enqueue(s)
	if origin == policy.OriginGuest {
		if err := c.roster.IncrementPending(submitterID); err != nil {
			zlog.Debug().Msgf("increment pending: %v", err)
		}
		c.suggestedBy[s.ID] = submitterID
	}

	zlog.Info().Msgf("suggestion accepted: participant_id=%s song_id=%s rev=%d queue_len=%d", submitterID, s.ID, rev, len(next))
	return nil
}

// handleEngineEvent re-broadcasts queue state after local playback
// progress changes it (natural advance, skip, load failure fallthrough).
func (c *Coordinator) handleEngineEvent(ev player.Event) {
	switch ev.Type {
	case player.EventSongStarted, player.EventQueueChanged, player.EventQueueExhausted:
		c.mu.Lock()
		if ev.Type == player.EventSongStarted {
			c.releasePendingLocked(ev.Song.ID)
		}
		c.broadcastSnapshotLocked()
		c.mu.Unlock()
	}
	switch {
	case ev.Type == player.EventSongStarted && c.cfg.OnSongStarted != nil:
		c.cfg.OnSongStarted(ev.Song)
	case ev.Type == player.EventQueueExhausted && c.cfg.OnQueueExhausted != nil:
		c.cfg.OnQueueExhausted()
	}
}

// releasePendingLocked frees the submitter's pending slot once their
// suggestion starts playing.
func (c *Coordinator) releasePendingLocked(songID string) {
	submitterID, ok := c.suggestedBy[songID]
	if !ok {
		return
	}
	delete(c.suggestedBy, songID)
	c.roster.DecrementPending(submitterID)
}

// broadcastSnapshotLocked sends the current queue state at a new revision.
func (c *Coordinator) broadcastSnapshotLocked() {
	songs, cursor := c.engine.QueueSnapshot()
	status := c.engine.Snapshot()
	rev := c.stateMgr.NextRevision()
	env, err := protocol.NewEnvelope(protocol.TypeQueueSnapshot, c.stateMgr.GetSessionID(), c.selfID, rev, protocol.QueueSnapshotPayload{
		Songs:   songs,
		Cursor:  cursor,
		Playing: !status.Song.IsZero(),
	})
	if err != nil {
		zlog.Error().Msgf("build queue snapshot: %v", err)
		return
	}
	if err := c.transport.Send(env); err != nil {
		zlog.Error().Msgf("broadcast queue snapshot: rev=%d err=%v", rev, err)
	}
}

func (c *Coordinator) broadcastRosterLocked() {
	rev := c.stateMgr.NextRevision()
	env, err := protocol.NewEnvelope(protocol.TypeRoster, c.stateMgr.GetSessionID(), c.selfID, rev, protocol.RosterPayload{
		Roster: c.rosterEntriesLocked(),
	})
	if err != nil {
		zlog.Error().Msgf("build roster: %v", err)
		return
	}
	if err := c.transport.Send(env); err != nil {
		zlog.Error().Msgf("broadcast roster: rev=%d err=%v", rev, err)
	}
}

func (c *Coordinator) sendHeartbeat() {
	c.mu.Lock()
	defer c.mu.Unlock()

	rev := c.stateMgr.NextRevision()
	env, err := protocol.NewEnvelope(protocol.TypeHeartbeat, c.stateMgr.GetSessionID(), c.selfID, rev, protocol.HeartbeatPayload{})
	if err != nil {
		return
	}
	if err := c.transport.Send(env); err != nil {
		zlog.Debug().Msgf("send heartbeat: %v", err)
	}
}

func (c *Coordinator) rosterEntriesLocked() []protocol.RosterEntry {
	all := c.roster.All()
	entries := make([]protocol.RosterEntry, 0, len(all))
	for _, p := range all {
		if p.IsKicked {
			continue
		}
		entries = append(entries, protocol.RosterEntry{
			ID:          p.ID,
			DisplayName: p.DisplayName,
			Role:        string(p.Role),
			JoinedAt:    p.JoinedAt.UnixMilli(),
		})
	}
	return entries
}

// ---- guest side ----

// guestLoop applies host messages in revision order and watches for a
// stalled host. Playback continues locally regardless of sync health.
func (c *Coordinator) guestLoop() {
	defer close(c.done)

	watchdog := time.NewTicker(c.cfg.StaleTimeout / 2)
	defer watchdog.Stop()

	inbox := c.transport.Inbox()

	for {
		select {
		case env, ok := <-inbox:
			if !ok {
				zlog.Warn().Msgf("host connection closed")
				c.stateMgr.SetHealth(state.SyncStale)
				return
			}
			c.handleHostMessage(env)
		case <-watchdog.C:
			c.checkStaleness()
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Coordinator) handleHostMessage(env protocol.Envelope) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if env.SessionID != c.stateMgr.GetSessionID() {
		zlog.Debug().Msgf("drop message for other session: session_id=%s", env.SessionID)
		return
	}
	if !protocol.Ordered(env, c.stateMgr.LastApplied()) {
		zlog.Debug().Msgf("revision conflict, discarding: type=%s rev=%d last_applied=%d", env.Type, env.Revision, c.stateMgr.LastApplied())
		return
	}

	payload, err := protocol.DecodePayload(env)
	if err != nil {
		zlog.Debug().Msgf("drop malformed message: type=%s err=%v", env.Type, err)
		return
	}

	switch env.Type {
	case protocol.TypeQueueSnapshot:
		p := payload.(*protocol.QueueSnapshotPayload)
		c.stateMgr.MarkApplied(env.Revision)
		c.engine.ApplySnapshot(p.Songs, p.Cursor, p.Playing)
		zlog.Debug().Msgf("queue snapshot applied: rev=%d len=%d cursor=%d playing=%t", env.Revision, len(p.Songs), p.Cursor, p.Playing)
	case protocol.TypePlaybackCommand:
		p := payload.(*protocol.PlaybackCommandPayload)
		c.stateMgr.MarkApplied(env.Revision)
		c.applyCommand(p)
	case protocol.TypeHeartbeat:
		c.stateMgr.MarkApplied(env.Revision)
	case protocol.TypeRoster:
		p := payload.(*protocol.RosterPayload)
		c.stateMgr.MarkApplied(env.Revision)
		c.rosterView = p.Roster
	case protocol.TypeWelcome:
		// Already joined; a duplicate welcome carries nothing new.
	default:
		zlog.Debug().Msgf("ignore message: type=%s", env.Type)
	}

	// Any host message proves liveness.
	c.stateMgr.TouchHeartbeat()
}

func (c *Coordinator) applyCommand(p *protocol.PlaybackCommandPayload) {
	var err error
	switch p.Kind {
	case protocol.CommandPlay:
		err = c.engine.Resume()
	case protocol.CommandPause:
		err = c.engine.Pause()
	case protocol.CommandSeek:
		err = c.engine.Seek(time.Duration(p.PositionMs) * time.Millisecond)
	case protocol.CommandSkip:
		err = c.engine.SkipForward()
	default:
		zlog.Debug().Msgf("unknown playback command: kind=%s", p.Kind)
		return
	}
	if err != nil {
		zlog.Debug().Msgf("apply %s command: %v", p.Kind, err)
	}
}

// checkStaleness flags the session stale when heartbeats stop. The flag
// is advisory; local playback is never interrupted by it.
func (c *Coordinator) checkStaleness() {
	age := c.stateMgr.HeartbeatAge()
	if age > c.cfg.StaleTimeout {
		if c.stateMgr.GetHealth() != state.SyncStale {
			zlog.Warn().Msgf("host heartbeat stale: age=%v timeout=%v", age, c.cfg.StaleTimeout)
		}
		c.stateMgr.SetHealth(state.SyncStale)
	}
}
