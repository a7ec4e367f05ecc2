// Package api exposes the profile form, matching and chat flows over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/advisor-match/internal/catalog"
	"github.com/sells-group/advisor-match/internal/completion"
	"github.com/sells-group/advisor-match/internal/identity"
	"github.com/sells-group/advisor-match/internal/matching"
	"github.com/sells-group/advisor-match/internal/model"
	"github.com/sells-group/advisor-match/internal/profileform"
	"github.com/sells-group/advisor-match/internal/store"
)

const maxBodySize = 1 << 20 // 1MB

// Deps are the collaborators the handlers share.
type Deps struct {
	Store     store.Store
	Identity  identity.Provider
	Catalog   catalog.Provider
	Sessions  *matching.Sessions
	Messenger *matching.Messenger

	CORSOrigins []string
	// SignInRate and SignInBurst throttle sign-in attempts per client IP.
	// A zero rate disables throttling.
	SignInRate  rate.Limit
	SignInBurst int
}

type handlers struct {
	deps    Deps
	limiter *ipLimiter
	forms   *userLocks
}

// NewHandler builds the HTTP router.
func NewHandler(deps Deps) http.Handler {
	if deps.Sessions == nil {
		deps.Sessions = matching.NewSessions(deps.Store)
	}
	if deps.Messenger == nil {
		deps.Messenger = matching.NewMessenger(deps.Store)
	}
	h := &handlers{
		deps:    deps,
		limiter: newIPLimiter(deps.SignInRate, deps.SignInBurst),
		forms:   newUserLocks(),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.With(h.limiter.Middleware).Post("/auth/sign-in", h.handleSignIn)
		r.Get("/options", handleListOptions)
		r.Get("/options/{table}", handleGetOptions)
		r.Post("/newsletter", h.handleSubscribe)

		r.Group(func(r chi.Router) {
			r.Use(BearerAuth(deps.Identity))

			r.Post("/auth/sign-out", h.handleSignOut)
			r.Get("/me", handleMe)

			r.Route("/advisor/form", func(r chi.Router) {
				r.Use(requireRole(model.RoleAdvisor))
				r.Get("/", h.handleGetForm)
				r.Post("/actions", h.handleFormActions)
				r.Post("/control", h.handleFormControl)
				r.Post("/multiselect", h.handleFormMultiSelect)
				r.Post("/sections/{id}/toggle", h.handleToggleSection)
				r.Post("/submit", h.handleSubmitForm)
			})
			r.With(requireRole(model.RoleConsumer)).Put("/consumer/profile", h.handlePutConsumerProfile)

			r.Route("/matching", func(r chi.Router) {
				r.Get("/current", h.handleCurrent)
				r.Post("/filter", h.handleFilter)
				r.Post("/swipe", h.handleSwipe)
				r.Post("/reset", h.handleReset)
				r.Post("/availability", h.handleAvailability)
				r.Get("/matches", h.handleMatches)
				r.Post("/back", h.handleBack)
			})

			r.Get("/chats", h.handleListChats)
			r.Post("/chats", h.handleOpenChat)
			r.Get("/chats/{id}", h.handleGetChat)
			r.Post("/chats/{id}/messages", h.handleSendMessage)

			r.Get("/firms", h.handleListFirms)
			r.Post("/firms", h.handleAddFirm)
		})
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("encode response", zap.Error(err))
	}
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	writeJSON(w, code, map[string]any{
		"error": map[string]any{
			"message": fmt.Sprintf(format, args...),
			"type":    errType,
		},
	})
}

// writeErr maps domain errors onto HTTP statuses.
func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		httpError(w, http.StatusNotFound, "not_found_error", "%v", err)
	case errors.Is(err, identity.ErrInvalidCredentials), errors.Is(err, identity.ErrUnauthenticated):
		httpError(w, http.StatusUnauthorized, "authentication_error", "%v", err)
	case errors.Is(err, matching.ErrNotParticipant):
		httpError(w, http.StatusForbidden, "permission_error", "%v", err)
	case errors.Is(err, profileform.ErrUnknownField),
		errors.Is(err, profileform.ErrUnknownAction),
		errors.Is(err, profileform.ErrIndexOutOfRange),
		errors.Is(err, completion.ErrUnknownSection),
		errors.Is(err, matching.ErrNoCurrentItem),
		errors.Is(err, matching.ErrInvalidChat),
		errors.Is(err, matching.ErrEmptyMessage):
		httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
	default:
		zap.L().Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		httpError(w, http.StatusInternalServerError, "api_error", "internal error")
	}
}

// decodeBody reads a JSON request body into dst, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
		return false
	}
	return true
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	b, err := io.ReadAll(r.Body)
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "read body: %v", err)
		return nil, false
	}
	return b, true
}
