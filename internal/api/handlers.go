package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"sports-arena/internal/game"

	"github.com/go-chi/chi/v5"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	// MaxBodyBytes caps request bodies
	MaxBodyBytes = 64 << 10

	// MaxDuplicatesPerRequest bounds a single duplicate command
	MaxDuplicatesPerRequest = 25

	// MaxEffectSeconds bounds effect durations set over the API
	MaxEffectSeconds = 60

	contentTypeMsgpack = "application/msgpack"
)

// Handler methods for routerHandlers

func (h *routerHandlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	snap := h.engine.Snapshot()
	if snap == nil {
		writeError(w, "No state yet", http.StatusServiceUnavailable)
		return
	}
	writeEncoded(w, r, snap)
}

func (h *routerHandlers) handleGetObject(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}
	obj, err := h.engine.Object(id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeEncoded(w, r, obj)
}

func (h *routerHandlers) handleGetTeams(w http.ResponseWriter, r *http.Request) {
	writeEncoded(w, r, h.engine.Teams())
}

func (h *routerHandlers) handleGetEvents(w http.ResponseWriter, r *http.Request) {
	n := 50
	if s := r.URL.Query().Get("n"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 {
			writeError(w, "n must be a positive integer", http.StatusBadRequest)
			return
		}
		n = min(v, game.EventRingSize)
	}
	writeJSON(w, h.engine.RecentEvents(n))
}

func (h *routerHandlers) handleSpawn(w http.ResponseWriter, r *http.Request) {
	var req game.SpawnOptions
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, "Name is required", http.StatusBadRequest)
		return
	}
	if req.Player != nil {
		t := req.Player.Sanitize()
		req.Player = &t
	}
	if req.Ball != nil {
		t := req.Ball.Sanitize()
		req.Ball = &t
	}

	id, err := h.engine.Spawn(req)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, map[string]any{"id": id})
}

func (h *routerHandlers) handleDestroy(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}
	if err := h.engine.Destroy(id); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleApplyEffect(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}
	kind, err := game.ParseEffectKind(chi.URLParam(r, "effect"))
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req struct {
		Duration float64 `json:"duration"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Duration <= 0 || req.Duration > MaxEffectSeconds {
		writeError(w, "duration must be in (0, 60]", http.StatusBadRequest)
		return
	}
	if err := h.engine.ApplyEffect(id, kind, req.Duration); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleStopEffect(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}
	kind, err := game.ParseEffectKind(chi.URLParam(r, "effect"))
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.engine.StopEffect(id, kind); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleDuplicate(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}
	var req struct {
		Count int `json:"count"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Count <= 0 {
		req.Count = 1
	}
	if req.Count > MaxDuplicatesPerRequest {
		req.Count = MaxDuplicatesPerRequest
	}

	ids, err := h.engine.Duplicate(id, req.Count)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if ids == nil {
		ids = []game.ObjectID{}
	}
	writeJSON(w, map[string]any{"ids": ids, "count": len(ids)})
}

func (h *routerHandlers) handleUnDuplicate(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}
	n, err := h.engine.UnDuplicateAll(id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, map[string]int{"destroyed": n})
}

func (h *routerHandlers) handleRespawn(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}
	if err := h.engine.Respawn(id); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleScore(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}
	var req struct {
		Points int `json:"points"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.engine.ScorePoints(id, req.Points); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleInput(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}
	var frame game.InputFrame
	if !decodeBody(w, r, &frame) {
		return
	}
	if err := h.engine.SetInput(id, frame); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *routerHandlers) handlePress(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}
	if err := h.engine.Press(id, chi.URLParam(r, "button")); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *routerHandlers) handleDrop(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}
	if err := h.engine.DropBall(id); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Helper functions (package-level for reuse)

func objectID(w http.ResponseWriter, r *http.Request) (game.ObjectID, bool) {
	v, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil || game.ObjectID(v) == game.NoObject {
		writeError(w, "Invalid object id", http.StatusBadRequest)
		return game.NoObject, false
	}
	return game.ObjectID(v), true
}

// decodeBody accepts JSON or msgpack bodies. An empty body leaves dst unchanged.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), contentTypeMsgpack) {
		dec := msgpack.NewDecoder(body)
		dec.SetCustomStructTag("json")
		err = dec.Decode(dst)
	} else {
		err = json.NewDecoder(body).Decode(dst)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return false
	}
	return true
}

func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrNotFound):
		writeError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, game.ErrWrongKind):
		writeError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, game.ErrObjectLimit):
		writeError(w, err.Error(), http.StatusServiceUnavailable)
	default:
		log.Printf("❌ Engine error: %v", err)
		writeError(w, "Internal error", http.StatusInternalServerError)
	}
}

// writeEncoded writes msgpack when the client asks for it, JSON otherwise.
func writeEncoded(w http.ResponseWriter, r *http.Request, data any) {
	if strings.Contains(r.Header.Get("Accept"), contentTypeMsgpack) {
		w.Header().Set("Content-Type", contentTypeMsgpack)
		if err := msgpack.NewEncoder(w).Encode(data); err != nil {
			log.Printf("⚠️ msgpack encode failed: %v", err)
		}
		return
	}
	writeJSON(w, data)
}

func writeJSON(w http.ResponseWriter, data any) {
	writeJSONStatus(w, http.StatusOK, data)
}

func writeJSONStatus(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	writeJSONStatus(w, code, map[string]string{"error": message})
}
