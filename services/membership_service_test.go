package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"tlbc-notify-backend/config"
	"tlbc-notify-backend/models"
	"tlbc-notify-backend/services"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func newMemberAPI(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *services.MembershipService) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc := services.NewMembershipService(&config.Config{
		APIBaseURL:  server.URL,
		APIUsername: "user",
		APIPassword: "pass",
		PageSize:    2,
		MaxPages:    10,
	})
	return server, svc
}

func TestFetchAllRecipientsConcatenatesPages(t *testing.T) {
	var server *httptest.Server
	pages := map[string][]models.Recipient{
		"1": {{ID: 1, Email: "a@x.com"}, {ID: 2, Email: "b@x.com"}},
		"2": {{ID: 3, Email: "c@x.com"}, {ID: 4, Email: "d@x.com"}},
		"3": {{ID: 5, Email: "e@x.com"}},
	}

	server, svc := newMemberAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login/":
			writeJSON(w, map[string]string{"access": "test-token"})
		case "/users/":
			if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
				t.Errorf("unexpected auth header %q", got)
			}
			page := r.URL.Query().Get("page")
			if page == "" {
				page = "1"
			}
			next := ""
			if page != "3" {
				nextPage := map[string]string{"1": "2", "2": "3"}[page]
				next = fmt.Sprintf("%s/users/?page=%s", server.URL, nextPage)
			}
			writeJSON(w, map[string]any{"results": pages[page], "next": next})
		default:
			http.NotFound(w, r)
		}
	})

	got, err := svc.FetchAllRecipients(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if len(got) != 5 {
		t.Fatalf("expected 5 recipients, got %d", len(got))
	}
	for i, r := range got {
		if r.ID != i+1 {
			t.Errorf("position %d: expected ID %d, got %d (page order broken)", i, i+1, r.ID)
		}
	}
}

func TestFetchAllRecipientsEmptyCollection(t *testing.T) {
	_, svc := newMemberAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login/":
			writeJSON(w, map[string]string{"access": "test-token"})
		case "/users/":
			writeJSON(w, map[string]any{"results": []models.Recipient{}, "next": ""})
		default:
			http.NotFound(w, r)
		}
	})

	got, err := svc.FetchAllRecipients(context.Background())
	if err != nil {
		t.Fatalf("empty collection must not be an error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no recipients, got %d", len(got))
	}
}

func TestFetchAllRecipientsPaginationLoop(t *testing.T) {
	var server *httptest.Server
	server, svc := newMemberAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login/":
			writeJSON(w, map[string]string{"access": "test-token"})
		case "/users/":
			// The next cursor points back at itself forever.
			writeJSON(w, map[string]any{
				"results": []models.Recipient{{ID: 1}},
				"next":    server.URL + "/users/?page=1",
			})
		default:
			http.NotFound(w, r)
		}
	})

	_, err := svc.FetchAllRecipients(context.Background())
	var loopErr *services.PaginationLoopError
	if !errors.As(err, &loopErr) {
		t.Fatalf("expected PaginationLoopError, got %v", err)
	}
}

func TestFetchAllRecipientsRefreshesRejectedToken(t *testing.T) {
	logins := 0
	rejected := false

	_, svc := newMemberAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login/":
			logins++
			writeJSON(w, map[string]string{"access": fmt.Sprintf("token-%d", logins)})
		case "/users/":
			// Reject the first token once, accept after re-login.
			if !rejected && r.Header.Get("Authorization") == "Bearer token-1" {
				rejected = true
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			writeJSON(w, map[string]any{"results": []models.Recipient{{ID: 1}}, "next": ""})
		default:
			http.NotFound(w, r)
		}
	})

	got, err := svc.FetchAllRecipients(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 recipient after re-login, got %d", len(got))
	}
	if logins != 2 {
		t.Errorf("expected 2 logins (initial + refresh), got %d", logins)
	}
}

func TestFetchAllRecipientsServerError(t *testing.T) {
	_, svc := newMemberAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login/":
			writeJSON(w, map[string]string{"access": "test-token"})
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	_, err := svc.FetchAllRecipients(context.Background())
	var transportErr *services.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if transportErr.Status != http.StatusInternalServerError {
		t.Errorf("expected status 500 in error, got %d", transportErr.Status)
	}
}

func TestLoginFailure(t *testing.T) {
	_, svc := newMemberAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	err := svc.Login(context.Background())
	var transportErr *services.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}
