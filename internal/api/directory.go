package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/advisor-match/internal/identity"
	"github.com/sells-group/advisor-match/internal/model"
	"github.com/sells-group/advisor-match/internal/options"
	"github.com/sells-group/advisor-match/internal/store"
)

// planTable is the pseudo-table name under which subscription plans are served.
const planTable = "plans"

func handleListOptions(w http.ResponseWriter, _ *http.Request) {
	out := make(map[string]any, len(options.Tables())+1)
	for _, name := range options.Tables() {
		t, _ := options.Lookup(name)
		out[name] = t
	}
	out[planTable] = options.Plans()
	writeJSON(w, http.StatusOK, out)
}

func handleGetOptions(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "table")
	if name == planTable {
		writeJSON(w, http.StatusOK, options.Plans())
		return
	}
	t, ok := options.Lookup(name)
	if !ok {
		httpError(w, http.StatusNotFound, "not_found_error", "unknown option table %q", name)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *handlers) handleListFirms(w http.ResponseWriter, r *http.Request) {
	firms, err := h.deps.Store.ListFirms(r.Context())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"firms": firms})
}

type addFirmRequest struct {
	Name     string `json:"name"`
	Website  string `json:"website"`
	Province string `json:"province"`
}

func (h *handlers) handleAddFirm(w http.ResponseWriter, r *http.Request) {
	var req addFirmRequest
	if !decodeBody(w, r, &req) {
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "name is required")
		return
	}
	if req.Province != "" && !options.Contains(options.TableProvinces, req.Province) {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "unknown province %q", req.Province)
		return
	}
	f := &model.Firm{
		ID:        uuid.NewString(),
		Name:      name,
		Website:   strings.TrimSpace(req.Website),
		Province:  req.Province,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.deps.Store.AddFirm(r.Context(), f); err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

type subscribeRequest struct {
	Email string `json:"email"`
}

func (h *handlers) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	email := identity.NormalizeEmail(req.Email)
	if !strings.Contains(email, "@") {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "a valid email is required")
		return
	}
	added, err := h.deps.Store.Subscribe(r.Context(), email)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if added {
		zap.L().Info("newsletter subscription", zap.String("email", email))
	}
	writeJSON(w, http.StatusOK, map[string]bool{"subscribed": true, "new": added})
}

// handlePutConsumerProfile creates or replaces the caller's consumer profile.
func (h *handlers) handlePutConsumerProfile(w http.ResponseWriter, r *http.Request) {
	var p model.ConsumerProfile
	if !decodeBody(w, r, &p) {
		return
	}
	u := currentUser(r)
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		p.Name = u.Name
	}
	if p.Province != "" && !options.Contains(options.TableProvinces, p.Province) {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "unknown province %q", p.Province)
		return
	}

	id, err := h.consumerProfileID(r, u.ID)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	p.ID = id
	p.UserID = u.ID
	if p.Email == "" {
		p.Email = u.Email
	}
	p.UpdatedAt = time.Now().UTC()

	if err := h.deps.Store.SetConsumerProfile(r.Context(), &p); err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// consumerProfileID returns the id of the user's existing consumer profile,
// or a fresh one.
func (h *handlers) consumerProfileID(r *http.Request, userID string) (string, error) {
	profiles, err := h.deps.Store.ListConsumerProfiles(r.Context())
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return "", eris.Wrap(err, "api: list consumer profiles")
	}
	for _, p := range profiles {
		if p.UserID == userID {
			return p.ID, nil
		}
	}
	return uuid.NewString(), nil
}
