package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/advisor-match/internal/matching"
	"github.com/sells-group/advisor-match/internal/store"
)

type openChatRequest struct {
	OtherID string `json:"otherId"`
}

func (h *handlers) handleOpenChat(w http.ResponseWriter, r *http.Request) {
	var req openChatRequest
	if !decodeBody(w, r, &req) {
		return
	}
	other := req.OtherID
	if other != "" {
		var err error
		if other, err = h.chatPeer(r.Context(), other); err != nil {
			writeErr(w, r, err)
			return
		}
	}
	chat, err := h.deps.Messenger.Open(r.Context(), currentUser(r).ID, other)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chat)
}

// chatPeer resolves id to the user behind it. The matching screen hands out
// profile ids, while chats are keyed by user id, so both are accepted.
func (h *handlers) chatPeer(ctx context.Context, id string) (string, error) {
	_, err := h.deps.Store.GetUser(ctx, id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return "", err
	}

	if a, err := h.deps.Store.GetAdvisorProfile(ctx, id); err == nil && a.UserID != "" {
		return a.UserID, nil
	} else if err != nil && !errors.Is(err, store.ErrNotFound) {
		return "", err
	}
	if c, err := h.deps.Store.GetConsumerProfile(ctx, id); err == nil && c.UserID != "" {
		return c.UserID, nil
	} else if err != nil && !errors.Is(err, store.ErrNotFound) {
		return "", err
	}
	return "", eris.Wrapf(store.ErrNotFound, "no account behind %s", id)
}

func (h *handlers) handleListChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.deps.Store.ListChats(r.Context(), currentUser(r).ID)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"chats": chats})
}

func (h *handlers) handleGetChat(w http.ResponseWriter, r *http.Request) {
	chat, err := h.deps.Store.GetChat(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	me := currentUser(r).ID
	if chat.Participants[0] != me && chat.Participants[1] != me {
		writeErr(w, r, matching.ErrNotParticipant)
		return
	}
	writeJSON(w, http.StatusOK, chat)
}

type sendMessageRequest struct {
	Body string `json:"body"`
}

func (h *handlers) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	msg, err := h.deps.Messenger.Send(r.Context(), chi.URLParam(r, "id"), currentUser(r).ID, req.Body)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}
