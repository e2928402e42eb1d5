package google

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestAuthURL_CarriesExpectedParams(t *testing.T) {
	t.Parallel()
	c := New("client-id", "shh", "https://app.test/cb", nil)

	raw := c.AuthURL("the-state")
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	q := u.Query()
	if q.Get("client_id") != "client-id" {
		t.Fatalf("client_id: %q", q.Get("client_id"))
	}
	if q.Get("redirect_uri") != "https://app.test/cb" {
		t.Fatalf("redirect_uri: %q", q.Get("redirect_uri"))
	}
	if q.Get("response_type") != "code" {
		t.Fatalf("response_type: %q", q.Get("response_type"))
	}
	if q.Get("state") != "the-state" {
		t.Fatalf("state: %q", q.Get("state"))
	}
	if !strings.Contains(q.Get("scope"), "email") {
		t.Fatalf("scope: %q", q.Get("scope"))
	}
}

func TestExchangeCode_Success(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Error(err)
		}
		if r.Form.Get("code") != "the-code" || r.Form.Get("grant_type") != "authorization_code" {
			t.Errorf("unexpected form: %v", r.Form)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"Bearer","expires_in":3600}`))
	}))
	defer srv.Close()

	c := New("id", "secret", "https://app.test/cb", nil)
	c.TokenEndpoint = srv.URL

	tr, err := c.ExchangeCode(context.Background(), "the-code")
	if err != nil {
		t.Fatal(err)
	}
	if tr.AccessToken != "tok" {
		t.Fatalf("access token: %q", tr.AccessToken)
	}
}

func TestExchangeCode_MissingToken(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token_type":"Bearer"}`))
	}))
	defer srv.Close()

	c := New("id", "secret", "https://app.test/cb", nil)
	c.TokenEndpoint = srv.URL

	if _, err := c.ExchangeCode(context.Background(), "x"); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("want ErrMissingToken, got %v", err)
	}
}

func TestExchangeCode_NonSuccessCapturesBody(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer srv.Close()

	c := New("id", "secret", "https://app.test/cb", nil)
	c.TokenEndpoint = srv.URL

	_, err := c.ExchangeCode(context.Background(), "stale")
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("want HTTPError, got %v", err)
	}
	if httpErr.Status != http.StatusBadRequest {
		t.Fatalf("status: %d", httpErr.Status)
	}
	if !strings.Contains(httpErr.Body, "invalid_grant") {
		t.Fatalf("body not captured: %q", httpErr.Body)
	}
}

func TestFetchProfile_Success(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("authorization: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"g123","email":"casey@example.com","name":"Casey"}`))
	}))
	defer srv.Close()

	c := New("id", "secret", "https://app.test/cb", nil)
	c.UserinfoEndpoint = srv.URL

	p, err := c.FetchProfile(context.Background(), "tok")
	if err != nil {
		t.Fatal(err)
	}
	if p.SubjectID != "g123" || p.Email != "casey@example.com" || p.Name != "Casey" {
		t.Fatalf("profile: %+v", p)
	}
}

func TestFetchProfile_MissingSubject(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"email":"casey@example.com"}`))
	}))
	defer srv.Close()

	c := New("id", "secret", "https://app.test/cb", nil)
	c.UserinfoEndpoint = srv.URL

	if _, err := c.FetchProfile(context.Background(), "tok"); err == nil {
		t.Fatal("expected error for missing subject id")
	}
}
