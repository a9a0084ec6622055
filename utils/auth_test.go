// utils/auth_test.go
package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func guardedRouter(t *testing.T, tokenHash string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/run-job", AdminGuard(tokenHash), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	return r
}

func requestWithAuth(r *gin.Engine, header string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/run-job", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(w, req)
	return w.Code
}

func TestAdminGuardOpenWithoutHash(t *testing.T) {
	r := guardedRouter(t, "")
	if code := requestWithAuth(r, ""); code != http.StatusOK {
		t.Errorf("expected open access without a configured hash, got %d", code)
	}
}

func TestAdminGuardAcceptsBearerToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	r := guardedRouter(t, string(hash))

	if code := requestWithAuth(r, "Bearer secret"); code != http.StatusOK {
		t.Errorf("expected Bearer token to be accepted, got %d", code)
	}
	if code := requestWithAuth(r, "bearer secret"); code != http.StatusOK {
		t.Errorf("expected lowercase scheme to be accepted, got %d", code)
	}
}

func TestAdminGuardRejectsBadTokens(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	r := guardedRouter(t, string(hash))

	if code := requestWithAuth(r, ""); code != http.StatusUnauthorized {
		t.Errorf("expected missing token to be rejected, got %d", code)
	}
	if code := requestWithAuth(r, "Bearer wrong"); code != http.StatusUnauthorized {
		t.Errorf("expected wrong token to be rejected, got %d", code)
	}
	// A missing separator must not be sliced as a valid scheme.
	if code := requestWithAuth(r, "Bearersecret"); code != http.StatusUnauthorized {
		t.Errorf("expected malformed scheme to be rejected, got %d", code)
	}
}

func TestAdminGuardAcceptsQueryToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	r := guardedRouter(t, string(hash))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/run-job?token=secret", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected query token to be accepted, got %d", w.Code)
	}
}
