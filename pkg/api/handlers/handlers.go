package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cbodonnell/arena/pkg/api/middleware"
	"github.com/cbodonnell/arena/pkg/game"
	"github.com/cbodonnell/arena/pkg/log"
	"github.com/cbodonnell/arena/pkg/messages"
	"github.com/cbodonnell/arena/pkg/repositories"
	"github.com/cbodonnell/arena/pkg/repositories/models"
	"github.com/cbodonnell/arena/pkg/version"
	"github.com/gorilla/mux"
)

// MaxBodyBytes limits the size of request bodies
const MaxBodyBytes = 64 << 10

// ErrBadRequest is a malformed request. It is answered with 400 and never mutates a world.
type ErrBadRequest struct {
	Reason string
}

func (e *ErrBadRequest) Error() string {
	return fmt.Sprintf("bad request: %s", e.Reason)
}

func IsBadRequest(err error) bool {
	_, ok := err.(*ErrBadRequest)
	return ok
}

func HandleJoin(gm *game.GameManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := gm.Join(r.Context(), sessionCode(r))
		if err != nil {
			writeFailure(w, r, err)
			return
		}
		writeResponse(w, r, http.StatusOK, snapshot)
	}
}

func HandleGetWorld(gm *game.GameManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := gm.World(r.Context(), sessionCode(r))
		if err != nil {
			writeFailure(w, r, err)
			return
		}
		writeResponse(w, r, http.StatusOK, snapshot)
	}
}

func HandleGetProjectiles(gm *game.GameManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response, err := gm.Projectiles(r.Context(), sessionCode(r))
		if err != nil {
			writeFailure(w, r, err)
			return
		}
		writeResponse(w, r, http.StatusOK, response)
	}
}

func HandleGetExplosives(gm *game.GameManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response, err := gm.Explosives(r.Context(), sessionCode(r))
		if err != nil {
			writeFailure(w, r, err)
			return
		}
		writeResponse(w, r, http.StatusOK, response)
	}
}

func HandleSubmitIntent(gm *game.GameManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		intent := &messages.Intent{}
		if err := decodeBody(w, r, intent); err != nil {
			writeFailure(w, r, err)
			return
		}

		response, err := gm.SubmitIntent(r.Context(), sessionCode(r), intent)
		if err != nil {
			writeFailure(w, r, err)
			return
		}
		writeResponse(w, r, http.StatusOK, response)
	}
}

func HandleLeave(gm *game.GameManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		request := &messages.LeaveRequest{}
		if err := decodeBody(w, r, request); err != nil {
			writeFailure(w, r, err)
			return
		}

		removed, err := gm.Leave(r.Context(), sessionCode(r), request.PlayerID)
		if err != nil {
			writeFailure(w, r, err)
			return
		}
		writeResponse(w, r, http.StatusOK, &messages.LeaveResponse{Success: true, Removed: removed})
	}
}

func HandleListEvents(repository repositories.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil || parsed < 0 {
				writeFailure(w, r, &ErrBadRequest{Reason: "limit must be a non-negative integer"})
				return
			}
			limit = parsed
		}

		events, err := repository.ListMatchEvents(r.Context(), sessionCode(r), limit)
		if err != nil {
			if !repositories.IsNotFound(err) {
				writeFailure(w, r, err)
				return
			}
			events = []*models.MatchEvent{}
		}
		writeResponse(w, r, http.StatusOK, &messages.EventsResponse{Events: events})
	}
}

func HandleHealth(gm *game.GameManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, r, http.StatusOK, &messages.HealthResponse{
			Status:   "ok",
			Sessions: gm.Sessions(),
			Version:  version.Get(),
		})
	}
}

func sessionCode(r *http.Request) string {
	return mux.Vars(r)[middleware.SessionCodeVar]
}

// decodeBody reads the request body in the encoding named by its Content-Type.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := messages.Decode(r.Header.Get("Content-Type"), body, v); err != nil {
		return &ErrBadRequest{Reason: err.Error()}
	}
	return nil
}

// writeFailure maps an error to a status code. Internal errors are logged and never echoed.
func writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case IsBadRequest(err):
		writeResponse(w, r, http.StatusBadRequest, &messages.ErrorResponse{Error: err.Error()})
	case game.IsInvalidAction(err):
		writeResponse(w, r, http.StatusBadRequest, &messages.ErrorResponse{Error: err.Error()})
	case errors.Is(err, context.Canceled):
		log.Debug("Request %s %s cancelled", r.Method, r.URL.Path)
	default:
		log.Error("Failed to serve %s %s: %v", r.Method, r.URL.Path, err)
		writeResponse(w, r, http.StatusInternalServerError, &messages.ErrorResponse{Error: "internal server error"})
	}
}

// writeResponse encodes v as JSON or msgpack depending on the Accept header.
func writeResponse(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	contentType := messages.NegotiateContentType(r.Header.Get("Accept"))
	b, err := messages.Encode(contentType, v)
	if err != nil {
		log.Error("Failed to encode response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if _, err := w.Write(b); err != nil {
		log.Debug("Failed to write response: %v", err)
	}
}
