package api

import (
	"context"
	"net/http"

	"github.com/rotisserie/eris"

	"github.com/sells-group/advisor-match/internal/matching"
	"github.com/sells-group/advisor-match/internal/model"
)

// candidates loads the side of the catalog the user browses: advisors see
// consumers and consumers see advisors.
func (h *handlers) candidates(ctx context.Context, role model.Role) func() ([]matching.Candidate, error) {
	return func() ([]matching.Candidate, error) {
		if role.Opposite() == model.RoleAdvisor {
			advisors, err := h.deps.Catalog.Advisors(ctx)
			if err != nil {
				return nil, eris.Wrap(err, "api: load advisors")
			}
			return matching.Advisors(advisors), nil
		}
		consumers, err := h.deps.Catalog.Consumers(ctx)
		if err != nil {
			return nil, eris.Wrap(err, "api: load consumers")
		}
		return matching.Consumers(consumers), nil
	}
}

// withSession runs fn on the caller's matching session and responds with the
// session snapshot unless fn wrote a response itself.
func (h *handlers) withSession(w http.ResponseWriter, r *http.Request, fn func(s *matching.Session) (any, error)) {
	u := currentUser(r)
	var out any
	err := h.deps.Sessions.With(u.ID, h.candidates(r.Context(), u.Role), func(s *matching.Session) error {
		v, err := fn(s)
		if err != nil {
			return err
		}
		if v == nil {
			v = s.Snapshot()
		}
		out = v
		return nil
	})
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) handleCurrent(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(*matching.Session) (any, error) { return nil, nil })
}

type filterRequest struct {
	Term     string            `json:"term"`
	Criteria matching.Criteria `json:"criteria"`
}

type filterResponse struct {
	matching.Snapshot
	Results []matching.Candidate `json:"results"`
}

func (h *handlers) handleFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	h.withSession(w, r, func(s *matching.Session) (any, error) {
		results := s.ApplyFilter(req.Term, req.Criteria)
		if results == nil {
			results = []matching.Candidate{}
		}
		return filterResponse{Snapshot: s.Snapshot(), Results: results}, nil
	})
}

type swipeRequest struct {
	Direction string `json:"direction"`
	ID        string `json:"id"`
}

func (h *handlers) handleSwipe(w http.ResponseWriter, r *http.Request) {
	var req swipeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Direction != "left" && req.Direction != "right" {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "direction must be left or right")
		return
	}
	h.withSession(w, r, func(s *matching.Session) (any, error) {
		var item matching.Candidate
		if req.ID == "" {
			item, _ = s.Current()
		} else {
			found, ok := s.Find(req.ID)
			if !ok {
				return nil, eris.Wrapf(matching.ErrNoCurrentItem, "candidate %s is not in the results", req.ID)
			}
			item = found
		}
		if req.Direction == "right" {
			return nil, s.SwipeRight(r.Context(), item)
		}
		return nil, s.SwipeLeft(item)
	})
}

func (h *handlers) handleReset(w http.ResponseWriter, r *http.Request) {
	// ?reload=true rebuilds the session from the current catalog.
	if r.URL.Query().Get("reload") == "true" {
		h.deps.Sessions.Drop(currentUser(r).ID)
	}
	h.withSession(w, r, func(s *matching.Session) (any, error) {
		s.Reset()
		return nil, nil
	})
}

func (h *handlers) handleAvailability(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(s *matching.Session) (any, error) {
		s.ToggleAvailability()
		return nil, nil
	})
}

type matchesResponse struct {
	State   matching.State       `json:"state"`
	Matches []matching.Candidate `json:"matches"`
}

func (h *handlers) handleMatches(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(s *matching.Session) (any, error) {
		s.ViewMatches()
		list, err := s.Matches(r.Context())
		if err != nil {
			return nil, err
		}
		return matchesResponse{State: s.State(), Matches: list}, nil
	})
}

func (h *handlers) handleBack(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(s *matching.Session) (any, error) {
		s.Back()
		return nil, nil
	})
}
