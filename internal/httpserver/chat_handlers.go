package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"techweave_backend/internal/domain"
	"techweave_backend/internal/service"
)

// handlePrivateHistory returns every private message the user sent or
// received, ascending by creation time. The result spans all of the user's
// conversations; clients group by counterpart.
func handlePrivateHistory(msgSvc *service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user id"})
			return
		}
		msgs, err := msgSvc.PrivateHistory(r.Context(), userID)
		if err != nil {
			writeError(w, err)
			return
		}
		if msgs == nil {
			msgs = []*domain.PrivateMessage{}
		}
		writeJSON(w, http.StatusOK, msgs)
	}
}

// handleGroupHistory returns a group's messages ascending by creation time.
func handleGroupHistory(msgSvc *service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID, err := strconv.ParseInt(chi.URLParam(r, "groupID"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid group id"})
			return
		}
		msgs, err := msgSvc.GroupHistory(r.Context(), groupID)
		if err != nil {
			writeError(w, err)
			return
		}
		if msgs == nil {
			msgs = []*domain.GroupMessage{}
		}
		writeJSON(w, http.StatusOK, msgs)
	}
}

func handleListGroups(groupSvc *service.GroupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groups, err := groupSvc.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, groups)
	}
}

func handleListGroupMembers(groupSvc *service.GroupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID, err := strconv.ParseInt(chi.URLParam(r, "groupID"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid group id"})
			return
		}
		members, err := groupSvc.ListMembers(r.Context(), groupID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, members)
	}
}
