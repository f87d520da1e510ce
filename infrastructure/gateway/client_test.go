package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/pedrops164/ShortsCreator/domain/models"
)

// staticTokens is a minimal ports.TokenSource for tests.
type staticTokens struct {
	token       string
	invalidated atomic.Int32
}

func (s *staticTokens) Token(ctx context.Context) (string, error) { return s.token, nil }
func (s *staticTokens) Invalidate()                               { s.invalidated.Add(1) }
func (s *staticTokens) Authenticated() bool                       { return s.token != "" }

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *staticTokens) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	tokens := &staticTokens{token: "test-token"}
	return NewClient(srv.URL, tokens), tokens
}

func TestRequestHeaders(t *testing.T) {
	var gotAuth, gotAccept, gotRequestID string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		gotRequestID = r.Header.Get("X-Request-ID")
		json.NewEncoder(w).Encode([]models.Content{})
	})

	if _, err := client.ListContent(context.Background(), nil); err != nil {
		t.Fatalf("ListContent: %v", err)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q", gotAccept)
	}
	if gotRequestID == "" {
		t.Error("X-Request-ID not set")
	}
}

func TestListContentStatusFilter(t *testing.T) {
	var gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode([]models.Content{})
	})

	_, err := client.ListContent(context.Background(),
		[]models.ContentStatus{models.StatusDraft, models.StatusProcessing})
	if err != nil {
		t.Fatalf("ListContent: %v", err)
	}
	if gotQuery != "statuses=DRAFT%2CPROCESSING" {
		t.Errorf("query = %q", gotQuery)
	}
}

func TestCreateVsUpdatePaths(t *testing.T) {
	type seen struct{ method, path string }
	var calls []seen
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, seen{r.Method, r.URL.Path})
		json.NewEncoder(w).Encode(models.Content{ID: "c-1", TemplateID: models.TemplateRedditStory})
	})

	params := &models.RedditStoryParams{Username: "storyteller"}
	if _, err := client.CreateDraft(context.Background(), models.TemplateRedditStory, params); err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}
	if _, err := client.UpdateDraft(context.Background(), "c-1", params); err != nil {
		t.Fatalf("UpdateDraft: %v", err)
	}

	if calls[0].method != http.MethodPost || calls[0].path != "/content/drafts" {
		t.Errorf("create = %+v", calls[0])
	}
	if calls[1].method != http.MethodPut || calls[1].path != "/content/c-1" {
		t.Errorf("update = %+v", calls[1])
	}
}

func TestContentParamsDecode(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"id": "c-1",
			"templateId": "reddit_story_v1",
			"status": "DRAFT",
			"templateParams": {"username": "storyteller", "postTitle": "A story"}
		}`))
	})

	content, err := client.GetContent(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("GetContent: %v", err)
	}
	p, ok := content.Params.(*models.RedditStoryParams)
	if !ok {
		t.Fatalf("Params type = %T", content.Params)
	}
	if p.Username != "storyteller" || p.PostTitle != "A story" {
		t.Errorf("params = %+v", p)
	}
	if content.Title() != "A story" {
		t.Errorf("Title = %q", content.Title())
	}
}

func TestUnknownTemplateKeepsRawParams(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"id": "c-2",
			"templateId": "slideshow_v2",
			"status": "DRAFT",
			"templateParams": {"slides": [1, 2, 3]}
		}`))
	})

	content, err := client.GetContent(context.Background(), "c-2")
	if err != nil {
		t.Fatalf("GetContent: %v", err)
	}
	if content.Params != nil {
		t.Fatalf("Params = %+v, want nil for unknown template", content.Params)
	}
	if len(content.RawParams) == 0 {
		t.Fatal("raw params were dropped")
	}
	if content.Title() != "Untitled" {
		t.Errorf("Title = %q", content.Title())
	}
}

func TestErrorTaxonomy(t *testing.T) {
	t.Run("structured API error", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusPaymentRequired)
			w.Write([]byte(`{"errorCode": "INSUFFICIENT_FUNDS", "message": "Insufficient balance."}`))
		})

		err := client.RequestGeneration(context.Background(), "c-1")
		apiErr, ok := AsAPIError(err)
		if !ok {
			t.Fatalf("err = %v, want APIError", err)
		}
		if apiErr.ErrorCode != "INSUFFICIENT_FUNDS" || apiErr.Message != "Insufficient balance." {
			t.Errorf("apiErr = %+v, fields must be verbatim", apiErr)
		}
		if apiErr.Status != http.StatusPaymentRequired {
			t.Errorf("Status = %d", apiErr.Status)
		}
	})

	t.Run("403 is an auth error", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		})
		err := client.DeleteContent(context.Background(), "c-1")
		if !IsAuthError(err) {
			t.Fatalf("err = %v, want AuthError", err)
		}
	})

	t.Run("unstructured body is a plain error", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("upstream timeout"))
		})
		err := client.RequestGeneration(context.Background(), "c-1")
		if err == nil {
			t.Fatal("expected error")
		}
		if _, ok := AsAPIError(err); ok {
			t.Fatal("plain body must not decode into APIError")
		}
		if IsAuthError(err) {
			t.Fatal("502 is not an auth error")
		}
	})
}

func TestUnauthorizedRetriesOnce(t *testing.T) {
	var attempts atomic.Int32
	client, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode([]models.Content{})
	})

	if _, err := client.ListContent(context.Background(), nil); err != nil {
		t.Fatalf("ListContent after retry: %v", err)
	}
	if attempts.Load() != 2 {
		t.Fatalf("attempts = %d, want 2", attempts.Load())
	}
	if tokens.invalidated.Load() != 1 {
		t.Fatalf("invalidated = %d, want 1", tokens.invalidated.Load())
	}
}

func TestUnauthorizedTwiceSurfacesAuthError(t *testing.T) {
	client, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.ListContent(context.Background(), nil)
	if !IsAuthError(err) {
		t.Fatalf("err = %v, want AuthError", err)
	}
	if tokens.invalidated.Load() != 1 {
		t.Fatalf("invalidated = %d, want exactly one refresh attempt", tokens.invalidated.Load())
	}
}

// expiringTokens loses its token on Invalidate, like a session whose
// refresh credentials are gone.
type expiringTokens struct {
	token string
}

func (s *expiringTokens) Token(ctx context.Context) (string, error) {
	if s.token == "" {
		return "", errors.New("no active session")
	}
	return s.token, nil
}
func (s *expiringTokens) Invalidate()         { s.token = "" }
func (s *expiringTokens) Authenticated() bool { return s.token != "" }

func TestTokenRefreshFailureIsAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL, &expiringTokens{token: "stale-token"})

	_, err := client.ListContent(context.Background(), nil)
	if !IsAuthError(err) {
		t.Fatalf("err = %v, want AuthError after failed token refresh", err)
	}
}

func TestGetDownloadURL(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/content/c-1/download-url" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"url": "https://files.example.com/v.mp4?sig=abc"})
	})

	url, err := client.GetDownloadURL(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("GetDownloadURL: %v", err)
	}
	if url != "https://files.example.com/v.mp4?sig=abc" {
		t.Errorf("url = %q", url)
	}
}

func TestGetPrice(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.PriceQuote{FinalPrice: 15, Currency: "USD"})
	})
	quote, err := client.GetPrice(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("GetPrice: %v", err)
	}
	if quote.FinalPrice != 15 || quote.Currency != "USD" {
		t.Errorf("quote = %+v", quote)
	}
}
