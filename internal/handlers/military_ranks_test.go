package handlers

import (
	"errors"
	"net/http"
	"testing"

	"bomberquiz/internal/apperrors"
	"bomberquiz/internal/models"
	"bomberquiz/internal/service"
)

func TestMilitaryRankRoutes_ReadableByUsers(t *testing.T) {
	ranks := &mockRanks{
		ranks: []models.MilitaryRank{{ID: "r-1", Order: 1, Name: "Soldado"}},
		rank:  &models.MilitaryRank{ID: "r-1", Order: 1, Name: "Soldado"},
	}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{session: userSession()}, MilitaryRanks: ranks})

	w := do(r, http.MethodGet, "/api/military-ranks", "", "tok")
	if w.Code != http.StatusOK || w.Body.String() != `[{"id":"r-1","order":1,"name":"Soldado"}]` {
		t.Fatalf("list status=%d body=%s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodGet, "/api/military-ranks/r-1", "", "tok")
	if w.Code != http.StatusOK || ranks.lastID != "r-1" {
		t.Fatalf("get status=%d body=%s", w.Code, w.Body.String())
	}

	before := ranks.calls
	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/military-ranks"},
		{http.MethodPut, "/api/military-ranks/r-1"},
		{http.MethodDelete, "/api/military-ranks/r-1"},
	} {
		if w := do(r, tc.method, tc.path, `{"order":1,"name":"x"}`, "tok"); w.Code != http.StatusForbidden {
			t.Fatalf("%s %s: status=%d want 403", tc.method, tc.path, w.Code)
		}
	}
	if ranks.calls != before {
		t.Fatalf("service must not be reached by non-admins")
	}
}

func TestMilitaryRankRoutes_AdminMutations(t *testing.T) {
	ranks := &mockRanks{rank: &models.MilitaryRank{ID: "r-2", Order: 2, Name: "Cabo"}}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{session: adminSession()}, MilitaryRanks: ranks})

	if w := do(r, http.MethodPost, "/api/military-ranks", `{"order":2,"name":"Cabo"}`, "tok"); w.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", w.Code, w.Body.String())
	}
	if w := do(r, http.MethodPut, "/api/military-ranks/r-2", `{"order":3,"name":"Cabo"}`, "tok"); w.Code != http.StatusOK {
		t.Fatalf("update status=%d body=%s", w.Code, w.Body.String())
	}
	if w := do(r, http.MethodDelete, "/api/military-ranks/r-2", "", "tok"); w.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d body=%s", w.Code, w.Body.String())
	}

	ranks.err = apperrors.NewDuplicatedKeyError("name")
	if w := do(r, http.MethodPost, "/api/military-ranks", `{"order":2,"name":"Cabo"}`, "tok"); w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}

	ranks.err = errors.New("database is locked")
	w := do(r, http.MethodDelete, "/api/military-ranks/r-2", "", "tok")
	if w.Code != http.StatusInternalServerError || errorOf(t, w) != msgInternal {
		t.Fatalf("expected generic 500, got %d %s", w.Code, w.Body.String())
	}
}
