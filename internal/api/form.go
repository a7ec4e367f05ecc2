package api

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/advisor-match/internal/completion"
	"github.com/sells-group/advisor-match/internal/model"
	"github.com/sells-group/advisor-match/internal/profileform"
	"github.com/sells-group/advisor-match/internal/store"
)

// userLocks serializes requests that read, modify and save a user's draft.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *userLocks) lock(userID string) func() {
	l.mu.Lock()
	m, ok := l.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userID] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock
}

type formResponse struct {
	Form       model.AdvisorProfileForm `json:"form"`
	Sections   []completion.Section     `json:"sections"`
	Completion float64                  `json:"completion"`
	Report     completion.Report        `json:"report"`
}

func newFormResponse(e *profileform.Editor) formResponse {
	return formResponse{
		Form:       e.Form(),
		Sections:   e.Sections(),
		Completion: e.Completion(),
		Report:     e.Report(),
	}
}

// loadEditor restores the user's draft, or starts a new form seeded from the
// profile they last submitted.
func (h *handlers) loadEditor(ctx context.Context, userID string) (*profileform.Editor, error) {
	d, err := h.deps.Store.GetAdvisorDraft(ctx, userID)
	if err == nil {
		return profileform.RestoreEditor(d), nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, eris.Wrap(err, "api: load draft")
	}

	profiles, err := h.deps.Store.ListAdvisorProfiles(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "api: load advisor profile")
	}
	for i := range profiles {
		if profiles[i].UserID == userID {
			return profileform.NewEditor(userID, &profiles[i]), nil
		}
	}
	return profileform.NewEditor(userID, nil), nil
}

// editForm runs fn against the user's editor and saves the draft when fn
// succeeds.
func (h *handlers) editForm(w http.ResponseWriter, r *http.Request, fn func(e *profileform.Editor) error) {
	u := currentUser(r)
	defer h.forms.lock(u.ID)()

	e, err := h.loadEditor(r.Context(), u.ID)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if err := fn(e); err != nil {
		writeErr(w, r, err)
		return
	}
	if err := h.deps.Store.PutAdvisorDraft(r.Context(), e.Draft()); err != nil {
		writeErr(w, r, eris.Wrap(err, "api: save draft"))
		return
	}
	writeJSON(w, http.StatusOK, newFormResponse(e))
}

func (h *handlers) handleGetForm(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	e, err := h.loadEditor(r.Context(), u.ID)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newFormResponse(e))
}

func (h *handlers) handleFormActions(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	actions, err := profileform.DecodeActions(body)
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
		return
	}
	h.editForm(w, r, func(e *profileform.Editor) error {
		return e.Apply(actions...)
	})
}

func (h *handlers) handleFormControl(w http.ResponseWriter, r *http.Request) {
	var ev profileform.ControlEvent
	if !decodeBody(w, r, &ev) {
		return
	}
	if ev.Name == "" {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "name is required")
		return
	}
	h.editForm(w, r, func(e *profileform.Editor) error {
		return e.HandleChange(ev)
	})
}

type multiSelectRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (h *handlers) handleFormMultiSelect(w http.ResponseWriter, r *http.Request) {
	var req multiSelectRequest
	if !decodeBody(w, r, &req) {
		return
	}
	h.editForm(w, r, func(e *profileform.Editor) error {
		return e.HandleMultiSelectChange(req.Field, req.Value)
	})
}

func (h *handlers) handleToggleSection(w http.ResponseWriter, r *http.Request) {
	id := completion.SectionID(chi.URLParam(r, "id"))
	h.editForm(w, r, func(e *profileform.Editor) error {
		return e.ToggleSection(id)
	})
}

type submitResponse struct {
	Profile    *model.AdvisorProfile `json:"profile"`
	Completion float64               `json:"completion"`
}

func (h *handlers) handleSubmitForm(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	defer h.forms.lock(u.ID)()

	e, err := h.loadEditor(r.Context(), u.ID)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	p, err := e.Submit(r.Context(), h.deps.Store)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	// Keep the assigned profile id so later submits update the same record.
	if err := h.deps.Store.PutAdvisorDraft(r.Context(), e.Draft()); err != nil {
		writeErr(w, r, eris.Wrap(err, "api: save draft"))
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{Profile: p, Completion: e.Completion()})
}
