package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"tlbc-notify-backend/config"
	"tlbc-notify-backend/models"

	"github.com/golang-jwt/jwt/v5"
)

// MembershipService is the client for the church membership API. The
// access token is process-wide, acquired lazily and refreshed when it
// expires or a request comes back 401.
type MembershipService struct {
	baseURL  string
	username string
	password string
	pageSize int
	maxPages int
	client   *http.Client

	accessToken string
}

func NewMembershipService(cfg *config.Config) *MembershipService {
	return &MembershipService{
		baseURL:  cfg.APIBaseURL,
		username: cfg.APIUsername,
		password: cfg.APIPassword,
		pageSize: cfg.PageSize,
		maxPages: cfg.MaxPages,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type loginResponse struct {
	Access string `json:"access"`
}

type usersPage struct {
	Results []models.Recipient `json:"results"`
	Next    string             `json:"next"`
}

// Login authenticates against POST /login/ and stores the access token.
func (s *MembershipService) Login(ctx context.Context) error {
	body, err := json.Marshal(map[string]string{
		"username": s.username,
		"password": s.password,
	})
	if err != nil {
		return &TransportError{Op: "login", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/login/", bytes.NewReader(body))
	if err != nil {
		return &TransportError{Op: "login", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return &TransportError{Op: "login", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &TransportError{Op: "login", Status: resp.StatusCode}
	}

	var lr loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return &TransportError{Op: "login", Err: err}
	}
	if lr.Access == "" {
		return &TransportError{Op: "login", Err: fmt.Errorf("no access token in response")}
	}

	s.accessToken = lr.Access
	log.Println("Membership API login successful")
	return nil
}

// ensureToken logs in when there is no token yet or the current one is
// at or past its exp claim. The token is parsed unverified: we are the
// consumer of the token, not its issuer.
func (s *MembershipService) ensureToken(ctx context.Context) error {
	if s.accessToken != "" && !s.tokenExpired() {
		return nil
	}
	return s.Login(ctx)
}

func (s *MembershipService) tokenExpired() bool {
	token, _, err := jwt.NewParser().ParseUnverified(s.accessToken, jwt.MapClaims{})
	if err != nil {
		// Opaque token; keep it until the server rejects it.
		return false
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	// Refresh a minute early so a token does not expire mid-fetch.
	return time.Now().After(exp.Add(-time.Minute))
}

// FetchAllRecipients walks the paginated users endpoint, following the
// server-supplied next cursor until it is empty, and returns every
// record. Zero results is an empty slice, not an error. A next cursor
// that never terminates fails with PaginationLoopError.
func (s *MembershipService) FetchAllRecipients(ctx context.Context) ([]models.Recipient, error) {
	if err := s.ensureToken(ctx); err != nil {
		return nil, err
	}

	all := []models.Recipient{}
	nextURL := fmt.Sprintf("%s/users/?limit=%d", s.baseURL, s.pageSize)
	pageCount := 0

	for nextURL != "" {
		pageCount++
		if pageCount > s.maxPages {
			return nil, &PaginationLoopError{Pages: s.maxPages}
		}

		page, err := s.fetchPage(ctx, nextURL)
		if err != nil {
			return nil, err
		}

		all = append(all, page.Results...)
		nextURL = page.Next
	}

	log.Printf("Fetched %d members from API across %d pages", len(all), pageCount)
	return all, nil
}

// fetchPage requests a single page. A 401 triggers one re-login and one
// retry of the same page before giving up.
func (s *MembershipService) fetchPage(ctx context.Context, url string) (*usersPage, error) {
	page, status, err := s.getPage(ctx, url)
	if status == http.StatusUnauthorized {
		log.Println("Access token rejected, re-authenticating")
		if err := s.Login(ctx); err != nil {
			return nil, err
		}
		page, status, err = s.getPage(ctx, url)
	}
	if err != nil {
		return nil, &TransportError{Op: "fetch users", Err: err}
	}
	if status != http.StatusOK {
		return nil, &TransportError{Op: "fetch users", Status: status}
	}
	return page, nil
}

func (s *MembershipService) getPage(ctx context.Context, url string) (*usersPage, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+s.accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, resp.StatusCode, nil
	}

	var page usersPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, resp.StatusCode, err
	}
	return &page, resp.StatusCode, nil
}
