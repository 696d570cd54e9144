// Package api is the thin HTTP surface over the store: registration,
// login, the reliever directory and profile updates. It never touches
// the connection registry; live traffic goes over the WebSocket side.
package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"reliefline/internal/store"
)

// Handler serves the REST routes backed directly by the store.
type Handler struct {
	store store.Store
}

// NewHandler creates the REST handler.
func NewHandler(st store.Store) *Handler {
	if st == nil {
		log.Fatal("HTTP_HANDLER_FATAL: Store cannot be nil in NewHandler")
	}
	return &Handler{store: st}
}

// NewRouter assembles the application router: REST routes, middleware
// and the WebSocket endpoint.
func NewRouter(h *Handler, serveWS http.HandlerFunc) *mux.Router {
	r := mux.NewRouter()
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)

	r.HandleFunc("/ws", serveWS)

	apiRoutes := r.PathPrefix("/api").Subrouter()
	apiRoutes.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost)
	apiRoutes.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	apiRoutes.HandleFunc("/relievers", h.ListRelievers).Methods(http.MethodGet)
	apiRoutes.HandleFunc("/relievers/{id:[0-9]+}/chats", h.ListRelieverChats).Methods(http.MethodGet)
	apiRoutes.HandleFunc("/users/{id:[0-9]+}", h.UpdateUser).Methods(http.MethodPatch)
	apiRoutes.HandleFunc("/chats/{id:[0-9]+}/messages", h.ListChatMessages).Methods(http.MethodGet)
	return r
}

// Register handles POST /api/auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var draft store.UserDraft
	if err := DecodeJSONBody(r, &draft); err != nil {
		RespondWithError(w, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}
	if draft.Username == "" || draft.Password == "" {
		RespondWithError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	u, err := h.store.CreateUser(r.Context(), draft)
	if err != nil {
		if errors.Is(err, store.ErrUsernameTaken) {
			RespondWithError(w, http.StatusConflict, "username is already taken")
			return
		}
		RespondWithError(w, http.StatusInternalServerError, "failed to register user")
		return
	}
	RespondWithJSON(w, http.StatusCreated, u)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login. Plain credential compare against
// the store; identity verification beyond that is out of scope.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := DecodeJSONBody(r, &req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	u, err := h.store.FindUserByName(r.Context(), req.Username)
	if err != nil || u.Password != req.Password {
		RespondWithError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	RespondWithJSON(w, http.StatusOK, u)
}

// ListRelievers handles GET /api/relievers.
func (h *Handler) ListRelievers(w http.ResponseWriter, r *http.Request) {
	relievers, err := h.store.ListRelievers(r.Context())
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "failed to list relievers")
		return
	}
	RespondWithJSON(w, http.StatusOK, relievers)
}

// UpdateUser handles PATCH /api/users/{id}, merging the provided fields
// into the existing profile.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var patch store.UserPatch
	if err := DecodeJSONBody(r, &patch); err != nil {
		RespondWithError(w, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	u, err := h.store.UpdateUser(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			RespondWithError(w, http.StatusNotFound, "user not found")
			return
		}
		RespondWithError(w, http.StatusInternalServerError, "failed to update user")
		return
	}
	RespondWithJSON(w, http.StatusOK, u)
}

// ListRelieverChats handles GET /api/relievers/{id}/chats, the reliever
// dashboard's view of their sessions.
func (h *Handler) ListRelieverChats(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "invalid reliever id")
		return
	}

	chats, err := h.store.ListChatsByReliever(r.Context(), id)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "failed to list chats")
		return
	}
	RespondWithJSON(w, http.StatusOK, chats)
}

// ListChatMessages handles GET /api/chats/{id}/messages, the chat
// window's history fetch.
func (h *Handler) ListChatMessages(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "invalid chat id")
		return
	}

	messages, err := h.store.ListChatMessages(r.Context(), id)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "failed to list messages")
		return
	}
	RespondWithJSON(w, http.StatusOK, messages)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}
