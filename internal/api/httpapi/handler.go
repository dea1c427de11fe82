// Package httpapi provides the local JSON control API for the host
// process. Guests never talk to it; they use the session websocket.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/app/player"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/app/session"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/song"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/infra/catalog"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/infra/store"
)

// ControlTokenHeader is the header carrying the control API token.
const ControlTokenHeader = "X-Control-Token"

// Handler serves the control API. All mutating operations go through the
// coordinator so session replication stays intact.
type Handler struct {
	coordinator *session.Coordinator
	engine      *player.Engine
	catalog     *catalog.Client
	store       *store.Store
	token       string
}

// New creates a control API handler.
func New(coordinator *session.Coordinator, engine *player.Engine, cat *catalog.Client, st *store.Store, token string) *Handler {
	return &Handler{
		coordinator: coordinator,
		engine:      engine,
		catalog:     cat,
		store:       st,
		token:       token,
	}
}

// Mux returns the routed handler with token auth applied.
func (h *Handler) Mux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/status", h.getStatus)
	mux.HandleFunc("GET /v1/queue", h.getQueue)
	mux.HandleFunc("GET /v1/search", h.search)
	mux.HandleFunc("GET /v1/participants", h.getParticipants)
	mux.HandleFunc("GET /v1/likes", h.getLikes)
	mux.HandleFunc("GET /v1/history", h.getHistory)
	mux.HandleFunc("POST /v1/play", h.play)
	mux.HandleFunc("POST /v1/play-album", h.playAlbum)
	mux.HandleFunc("POST /v1/suggest", h.suggest)
	mux.HandleFunc("POST /v1/playback/pause", h.pause)
	mux.HandleFunc("POST /v1/playback/resume", h.resume)
	mux.HandleFunc("POST /v1/playback/skip", h.skip)
	mux.HandleFunc("POST /v1/playback/previous", h.previous)
	mux.HandleFunc("POST /v1/playback/seek", h.seek)
	mux.HandleFunc("POST /v1/likes/toggle", h.toggleLike)
	mux.HandleFunc("POST /v1/kick", h.kick)
	return h.auth(mux)
}

// auth rejects requests without the configured control token. An empty
// token disables the check (local-only deployments).
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.token != "" && r.Header.Get(ControlTokenHeader) != h.token {
			writeError(w, http.StatusUnauthorized, "invalid control token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusResponse struct {
	Role         string     `json:"role"`
	SessionID    string     `json:"session_id,omitempty"`
	SessionName  string     `json:"session_name,omitempty"`
	SyncHealth   string     `json:"sync_health"`
	Revision     uint64     `json:"revision"`
	Participants int        `json:"participants"`
	Playback     string     `json:"playback"`
	Song         *song.Song `json:"song,omitempty"`
	PositionMs   int64      `json:"position_ms"`
	QueueIndex   int        `json:"queue_index"`
	QueueLen     int        `json:"queue_len"`
}

func (h *Handler) getStatus(w http.ResponseWriter, r *http.Request) {
	st := h.coordinator.Status()
	pb := h.engine.Snapshot()

	resp := statusResponse{
		Role:         st.Role.String(),
		SessionID:    st.SessionID,
		SessionName:  st.SessionName,
		SyncHealth:   st.Health.String(),
		Revision:     st.Revision,
		Participants: st.Participants,
		Playback:     pb.State.String(),
		PositionMs:   pb.Position.Milliseconds(),
		QueueIndex:   pb.QueueIndex,
		QueueLen:     pb.QueueLen,
	}
	if pb.Song.ID != "" {
		s := pb.Song
		resp.Song = &s
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) getQueue(w http.ResponseWriter, r *http.Request) {
	songs, cursor := h.engine.QueueSnapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"songs":  songs,
		"cursor": cursor,
	})
}

type searchItem struct {
	Kind   string           `json:"kind"`
	Song   *song.Song       `json:"song,omitempty"`
	Album  *song.Album      `json:"album,omitempty"`
	Artist *song.ArtistItem `json:"artist,omitempty"`
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	results, err := h.catalog.Search(r.Context(), query, limit)
	if err != nil {
		zlog.Error().Msgf("search failed: query=%s err=%v", query, err)
		writeError(w, http.StatusBadGateway, "catalog search failed")
		return
	}

	items := make([]searchItem, 0, len(results))
	for _, res := range results {
		items = append(items, searchItem{
			Kind:   res.Kind.String(),
			Song:   res.Song,
			Album:  res.Album,
			Artist: res.Artist,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": items})
}

func (h *Handler) getParticipants(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"participants": h.coordinator.Participants(),
	})
}

type songIDRequest struct {
	SongID string `json:"song_id"`
}

func (h *Handler) play(w http.ResponseWriter, r *http.Request) {
	s, ok := h.resolveSong(w, r)
	if !ok {
		return
	}
	if err := h.engine.PlaySong(*s); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"song": s})
}

type playAlbumRequest struct {
	AlbumID    string `json:"album_id"`
	StartIndex int    `json:"start_index"`
	Shuffle    bool   `json:"shuffle"`
}

func (h *Handler) playAlbum(w http.ResponseWriter, r *http.Request) {
	var req playAlbumRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.AlbumID == "" {
		writeError(w, http.StatusBadRequest, "missing album_id")
		return
	}

	songs, err := h.catalog.GetAlbumSongs(r.Context(), req.AlbumID)
	if err != nil {
		zlog.Error().Msgf("album fetch failed: album_id=%s err=%v", req.AlbumID, err)
		writeError(w, http.StatusBadGateway, "album fetch failed")
		return
	}
	if err := h.engine.PlayAlbum(songs, req.StartIndex, req.Shuffle); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"queued": len(songs)})
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	s, ok := h.resolveSong(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	if err := h.coordinator.SuggestSong(ctx, *s); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"song": s})
}

func (h *Handler) pause(w http.ResponseWriter, r *http.Request) {
	h.command(w, h.coordinator.Pause)
}

func (h *Handler) resume(w http.ResponseWriter, r *http.Request) {
	h.command(w, h.coordinator.Resume)
}

func (h *Handler) skip(w http.ResponseWriter, r *http.Request) {
	h.command(w, h.coordinator.Skip)
}

// previous has no replicated command; guests converge on the queue
// snapshot the host broadcasts once the earlier song starts.
func (h *Handler) previous(w http.ResponseWriter, r *http.Request) {
	h.command(w, h.engine.SkipBackward)
}

type seekRequest struct {
	PositionMs int64 `json:"position_ms"`
}

func (h *Handler) seek(w http.ResponseWriter, r *http.Request) {
	var req seekRequest
	if !decodeBody(w, r, &req) {
		return
	}
	h.command(w, func() error {
		return h.coordinator.Seek(time.Duration(req.PositionMs) * time.Millisecond)
	})
}

func (h *Handler) command(w http.ResponseWriter, fn func() error) {
	if err := fn(); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) toggleLike(w http.ResponseWriter, r *http.Request) {
	s, ok := h.resolveSong(w, r)
	if !ok {
		return
	}
	liked, err := h.store.ToggleLike(r.Context(), *s)
	if err != nil {
		zlog.Error().Msgf("toggle like failed: song_id=%s err=%v", s.ID, err)
		writeError(w, http.StatusInternalServerError, "store error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"liked": liked})
}

func (h *Handler) getLikes(w http.ResponseWriter, r *http.Request) {
	songs, err := h.store.Liked(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"songs": songs})
}

func (h *Handler) getHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	songs, err := h.store.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"songs": songs})
}

type kickRequest struct {
	ParticipantID string `json:"participant_id"`
}

func (h *Handler) kick(w http.ResponseWriter, r *http.Request) {
	var req kickRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.coordinator.Kick(req.ParticipantID); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// resolveSong reads a song_id body and resolves it through the catalog.
func (h *Handler) resolveSong(w http.ResponseWriter, r *http.Request) (*song.Song, bool) {
	var req songIDRequest
	if !decodeBody(w, r, &req) {
		return nil, false
	}
	if req.SongID == "" {
		writeError(w, http.StatusBadRequest, "missing song_id")
		return nil, false
	}

	s, err := h.catalog.GetSong(r.Context(), req.SongID)
	if err != nil {
		zlog.Error().Msgf("song lookup failed: song_id=%s err=%v", req.SongID, err)
		writeError(w, http.StatusBadGateway, "song lookup failed")
		return nil, false
	}
	return s, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zlog.Debug().Msgf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
