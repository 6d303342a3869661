package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bomberquiz/internal/models"
	"bomberquiz/internal/repository/memory"
	"bomberquiz/internal/service"
	"bomberquiz/internal/session"
)

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func TestEndToEnd_InMemory(t *testing.T) {
	repos := memory.NewRepository()
	svc := service.NewService(repos, session.NewMemoryStore(), service.AuthOptions{SigningKey: "e2e-signing-key-0123456789"}, nil)

	created, err := svc.Users.Bootstrap(context.Background(), models.CreateUserInput{
		Name:                 "Root",
		Email:                "root@bomberquiz.local",
		Phone:                "11999998888",
		Birthdate:            "1980-01-01",
		Password:             "admin1234",
		PasswordConfirmation: "admin1234",
	})
	if err != nil || !created {
		t.Fatalf("bootstrap: created=%v err=%v", created, err)
	}

	r := newTestRouter(svc)

	w := do(r, http.MethodPost, "/api/auth/login", `{"email":"ROOT@bomberquiz.local","password":"admin1234"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("admin login status=%d body=%s", w.Code, w.Body.String())
	}
	adminTok := decode[models.UserLogged](t, w).Token

	w = do(r, http.MethodPost, "/api/military-ranks", `{"order":1,"name":"Soldado"}`, adminTok)
	if w.Code != http.StatusCreated {
		t.Fatalf("create rank status=%d body=%s", w.Code, w.Body.String())
	}
	rank := decode[models.MilitaryRank](t, w)

	w = do(r, http.MethodPost, "/api/military-ranks", `{"order":2,"name":"soldado"}`, adminTok)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate rank status=%d body=%s", w.Code, w.Body.String())
	}

	body := `{"name":"Ana","email":"ana@example.com","phone":"+55 11 98888-7777","birthdate":"1995-06-10",` +
		`"role":"user","military_rank_id":"` + rank.ID + `","password":"senha1234","password_confirmation":"senha1234"}`
	w = do(r, http.MethodPost, "/api/users", body, adminTok)
	if w.Code != http.StatusCreated {
		t.Fatalf("create user status=%d body=%s", w.Code, w.Body.String())
	}
	ana := decode[models.User](t, w)
	if ana.MilitaryRankID != rank.ID || ana.Phone != "+5511988887777" {
		t.Fatalf("unexpected user %+v", ana)
	}

	w = do(r, http.MethodPost, "/api/users", body, adminTok)
	if w.Code != http.StatusConflict || errorOf(t, w) != "duplicated key: email" {
		t.Fatalf("duplicate user status=%d body=%s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodPost, "/api/auth/login", `{"email":"ana@example.com","password":"senha1234"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("user login status=%d body=%s", w.Code, w.Body.String())
	}
	anaTok := decode[models.UserLogged](t, w).Token

	if w = do(r, http.MethodGet, "/api/users", "", anaTok); w.Code != http.StatusForbidden {
		t.Fatalf("user listing users: status=%d", w.Code)
	}
	if w = do(r, http.MethodGet, "/api/military-ranks", "", anaTok); w.Code != http.StatusOK {
		t.Fatalf("user listing ranks: status=%d", w.Code)
	}

	w = do(r, http.MethodGet, "/api/users?limit=1", "", adminTok)
	page := decode[models.Page[models.User]](t, w)
	if page.Total != 2 || len(page.Items) != 1 || page.Items[0].Name != "Ana" {
		t.Fatalf("unexpected page %+v", page)
	}

	if w = do(r, http.MethodDelete, "/api/military-ranks/"+rank.ID, "", adminTok); w.Code != http.StatusNoContent {
		t.Fatalf("delete rank status=%d body=%s", w.Code, w.Body.String())
	}
	w = do(r, http.MethodGet, "/api/auth/me", "", anaTok)
	if me := decode[models.User](t, w); me.MilitaryRankID != "" {
		t.Fatalf("rank reference should be cleared, got %q", me.MilitaryRankID)
	}

	if w = do(r, http.MethodPost, "/api/auth/logout", "", anaTok); w.Code != http.StatusNoContent {
		t.Fatalf("logout status=%d", w.Code)
	}
	if w = do(r, http.MethodGet, "/api/auth/me", "", anaTok); w.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token accepted: status=%d", w.Code)
	}

	w = do(r, http.MethodGet, "/api/audit-logs", "", adminTok)
	if w.Code != http.StatusOK {
		t.Fatalf("audit status=%d body=%s", w.Code, w.Body.String())
	}
	for _, want := range []string{`"action":"LOGIN"`, `"action":"LOGOUT"`, `"action":"DELETE"`, `"entity":"military_rank"`} {
		if !strings.Contains(w.Body.String(), want) {
			t.Fatalf("audit log missing %s: %s", want, w.Body.String())
		}
	}
}

func TestEndToEnd_TokenFollowsAccountChanges(t *testing.T) {
	svc := service.NewService(memory.NewRepository(), session.NewMemoryStore(), service.AuthOptions{SigningKey: "e2e-signing-key-0123456789"}, nil)
	if _, err := svc.Users.Bootstrap(context.Background(), models.CreateUserInput{
		Name: "Root", Email: "root@bomberquiz.local", Phone: "11999998888", Birthdate: "1980-01-01",
		Password: "admin1234", PasswordConfirmation: "admin1234",
	}); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	r := newTestRouter(svc)

	w := do(r, http.MethodPost, "/api/auth/login", `{"email":"root@bomberquiz.local","password":"admin1234"}`, "")
	rootTok := decode[models.UserLogged](t, w).Token

	bobBody := `{"name":"Bob","email":"bob@example.com","phone":"11977776666","birthdate":"1992-02-02",` +
		`"role":"admin","password":"bobpass123","password_confirmation":"bobpass123"}`
	w = do(r, http.MethodPost, "/api/users", bobBody, rootTok)
	if w.Code != http.StatusCreated {
		t.Fatalf("create bob status=%d body=%s", w.Code, w.Body.String())
	}
	bob := decode[models.User](t, w)

	w = do(r, http.MethodPost, "/api/auth/login", `{"email":"bob@example.com","password":"bobpass123"}`, "")
	bobTok := decode[models.UserLogged](t, w).Token
	if w = do(r, http.MethodGet, "/api/users", "", bobTok); w.Code != http.StatusOK {
		t.Fatalf("bob as admin: status=%d", w.Code)
	}

	demote := `{"name":"Bob","email":"bob@example.com","phone":"11977776666","birthdate":"1992-02-02","role":"user"}`
	if w = do(r, http.MethodPut, "/api/users/"+bob.ID, demote, rootTok); w.Code != http.StatusOK {
		t.Fatalf("demote status=%d body=%s", w.Code, w.Body.String())
	}
	if w = do(r, http.MethodGet, "/api/users", "", bobTok); w.Code != http.StatusForbidden {
		t.Fatalf("demoted token still admin: status=%d", w.Code)
	}

	if w = do(r, http.MethodDelete, "/api/users/"+bob.ID, "", rootTok); w.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d body=%s", w.Code, w.Body.String())
	}
	if w = do(r, http.MethodPost, "/api/military-ranks", `{"order":1,"name":"Cabo"}`, bobTok); w.Code != http.StatusUnauthorized {
		t.Fatalf("deleted user's token accepted: status=%d", w.Code)
	}
	if w = do(r, http.MethodGet, "/api/auth/me", "", bobTok); w.Code != http.StatusUnauthorized {
		t.Fatalf("deleted user's token accepted on me: status=%d", w.Code)
	}

	rootSelf := decode[models.User](t, do(r, http.MethodGet, "/api/auth/me", "", rootTok))
	selfDemote := `{"name":"Root","email":"root@bomberquiz.local","phone":"11999998888","birthdate":"1980-01-01","role":"user"}`
	w = do(r, http.MethodPut, "/api/users/"+rootSelf.ID, selfDemote, rootTok)
	if w.Code != http.StatusBadRequest || !strings.HasPrefix(errorOf(t, w), "invalid param: role") {
		t.Fatalf("self demotion status=%d body=%s", w.Code, w.Body.String())
	}
}
