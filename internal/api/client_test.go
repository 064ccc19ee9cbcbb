package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/marcus/userdash/internal/models"
)

// recordedRequest captures what the fake collection received
type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   string
	CT     string
}

// newFakeServer serves a fixed response and records the last request
func newFakeServer(t *testing.T, status int, body string) (*httptest.Server, *recordedRequest, *atomic.Int32) {
	t.Helper()
	rec := &recordedRequest{}
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		data, _ := io.ReadAll(r.Body)
		*rec = recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Body:   string(data),
			CT:     r.Header.Get("Content-Type"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(ts.Close)
	return ts, rec, &calls
}

func TestListPage(t *testing.T) {
	users := make([]models.User, 10)
	for i := range users {
		users[i] = models.User{ID: models.ID(strings.Repeat("x", i+1)), FirstName: "User"}
	}
	data, _ := json.Marshal(map[string]any{"data": users, "items": 25, "pages": 3})

	ts, rec, _ := newFakeServer(t, http.StatusOK, string(data))
	c := NewClient(ts.URL + "/users")

	page, err := c.ListPage(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if len(page.Items) != 10 {
		t.Errorf("Items: got %d, want 10", len(page.Items))
	}
	if page.TotalCount != 25 {
		t.Errorf("TotalCount: got %d, want 25", page.TotalCount)
	}
	if page.TotalPages(10) != 3 {
		t.Errorf("TotalPages: got %d, want 3", page.TotalPages(10))
	}
	if rec.Method != http.MethodGet || rec.Path != "/users" {
		t.Errorf("request: got %s %s", rec.Method, rec.Path)
	}
	if rec.Query != "_page=1&_per_page=10" {
		t.Errorf("query: got %q", rec.Query)
	}
}

func TestListPageBareArray(t *testing.T) {
	ts, _, _ := newFakeServer(t, http.StatusOK, `[{"id":1,"firstName":"Ann"},{"id":"2","firstName":"Bob"}]`)
	c := NewClient(ts.URL + "/users")

	page, err := c.ListPage(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if len(page.Items) != 2 || page.TotalCount != 2 {
		t.Errorf("got %d items, total %d; want 2, 2", len(page.Items), page.TotalCount)
	}
	if page.Items[0].ID != "1" || page.Items[1].ID != "2" {
		t.Errorf("ids: got %q, %q", page.Items[0].ID, page.Items[1].ID)
	}
}

func TestListPageEmptyData(t *testing.T) {
	ts, _, _ := newFakeServer(t, http.StatusOK, `{"data":null,"items":0}`)
	c := NewClient(ts.URL + "/users")

	page, err := c.ListPage(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if page.Items == nil {
		t.Error("Items should be empty slice, not nil")
	}
}

func TestListPageInvalidArgs(t *testing.T) {
	ts, _, calls := newFakeServer(t, http.StatusOK, `{"data":[],"items":0}`)
	c := NewClient(ts.URL + "/users")

	tests := []struct {
		page, size int
	}{
		{0, 10},
		{-1, 10},
		{1, 0},
	}
	for _, tt := range tests {
		if _, err := c.ListPage(context.Background(), tt.page, tt.size); err == nil {
			t.Errorf("ListPage(%d, %d): expected error", tt.page, tt.size)
		}
	}
	if calls.Load() != 0 {
		t.Errorf("expected no requests for invalid args, got %d", calls.Load())
	}
}

func TestListPageErrors(t *testing.T) {
	t.Run("non-success status is NetworkError", func(t *testing.T) {
		ts, _, _ := newFakeServer(t, http.StatusInternalServerError, `{"message":"db down"}`)
		c := NewClient(ts.URL + "/users")

		_, err := c.ListPage(context.Background(), 1, 10)
		var netErr *NetworkError
		if !errors.As(err, &netErr) {
			t.Fatalf("expected *NetworkError, got %T: %v", err, err)
		}
		if netErr.Status != http.StatusInternalServerError {
			t.Errorf("Status: got %d", netErr.Status)
		}
		if netErr.Message != "db down" {
			t.Errorf("Message: got %q, want %q", netErr.Message, "db down")
		}
		if !IsTransient(err) {
			t.Error("5xx should be transient")
		}
	})

	t.Run("invalid JSON is ParseError", func(t *testing.T) {
		ts, _, _ := newFakeServer(t, http.StatusOK, `<html>oops</html>`)
		c := NewClient(ts.URL + "/users")

		_, err := c.ListPage(context.Background(), 1, 10)
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("expected *ParseError, got %T: %v", err, err)
		}
	})

	t.Run("transport failure is NetworkError", func(t *testing.T) {
		ts := httptest.NewServer(http.NotFoundHandler())
		url := ts.URL
		ts.Close()

		c := NewClient(url + "/users")
		_, err := c.ListPage(context.Background(), 1, 10)
		var netErr *NetworkError
		if !errors.As(err, &netErr) {
			t.Fatalf("expected *NetworkError, got %T: %v", err, err)
		}
		if netErr.Status != 0 {
			t.Errorf("Status: got %d, want 0 for transport failure", netErr.Status)
		}
		if !IsTransient(err) {
			t.Error("transport failure should be transient")
		}
	})
}

func TestCreate(t *testing.T) {
	ts, rec, _ := newFakeServer(t, http.StatusCreated,
		`{"id":"ab12","firstName":"Alice","lastName":"Jones","email":"a@b.com","department":"Eng"}`)
	c := NewClient(ts.URL + "/users")

	draft := models.Draft{FirstName: "Alice", LastName: "Jones", Email: "a@b.com", Department: "Eng"}
	u, err := c.Create(context.Background(), draft)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID != "ab12" {
		t.Errorf("ID: got %q, want ab12", u.ID)
	}
	if rec.Method != http.MethodPost || rec.Path != "/users" {
		t.Errorf("request: got %s %s", rec.Method, rec.Path)
	}
	if rec.CT != "application/json" {
		t.Errorf("Content-Type: got %q", rec.CT)
	}

	var sent map[string]any
	if err := json.Unmarshal([]byte(rec.Body), &sent); err != nil {
		t.Fatalf("body not JSON: %v", err)
	}
	if _, hasID := sent["id"]; hasID {
		t.Error("create body must not carry an id")
	}
	if sent["firstName"] != "Alice" || sent["department"] != "Eng" {
		t.Errorf("body: got %v", sent)
	}
}

func TestCreateFailure(t *testing.T) {
	ts, _, _ := newFakeServer(t, http.StatusBadRequest, `{"error":"email taken"}`)
	c := NewClient(ts.URL + "/users")

	_, err := c.Create(context.Background(), models.Draft{FirstName: "Alice"})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := UserMessage(err, "fallback"); got != "email taken" {
		t.Errorf("UserMessage: got %q, want %q", got, "email taken")
	}
	if IsTransient(err) {
		t.Error("4xx should not be transient")
	}
}

func TestUpdate(t *testing.T) {
	ts, rec, _ := newFakeServer(t, http.StatusOK,
		`{"id":7,"firstName":"Alice","lastName":"Smith","email":"a@b.com","department":"Ops"}`)
	c := NewClient(ts.URL + "/users/")

	u, err := c.Update(context.Background(), "7", models.Draft{FirstName: "Alice", LastName: "Smith", Email: "a@b.com", Department: "Ops"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if u.ID != "7" || u.LastName != "Smith" {
		t.Errorf("user: got %+v", u)
	}
	if rec.Method != http.MethodPut || rec.Path != "/users/7" {
		t.Errorf("request: got %s %s", rec.Method, rec.Path)
	}
}

func TestUpdateNotFound(t *testing.T) {
	ts, _, _ := newFakeServer(t, http.StatusNotFound, ``)
	c := NewClient(ts.URL + "/users")

	_, err := c.Update(context.Background(), "missing", models.Draft{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if got := UserMessage(err, "Failed to save user"); got != "Failed to save user" {
		t.Errorf("UserMessage fallback: got %q", got)
	}
}

func TestRemove(t *testing.T) {
	ts, rec, _ := newFakeServer(t, http.StatusOK, ``)
	c := NewClient(ts.URL + "/users")

	ok, err := c.Remove(context.Background(), "a b")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !ok {
		t.Error("Remove: expected true")
	}
	if rec.Method != http.MethodDelete || rec.Path != "/users/a b" {
		t.Errorf("request: got %s %s", rec.Method, rec.Path)
	}
}

func TestRemoveFailure(t *testing.T) {
	ts, _, _ := newFakeServer(t, http.StatusNotFound, `Not Found`)
	c := NewClient(ts.URL + "/users")

	ok, err := c.Remove(context.Background(), "1")
	if ok {
		t.Error("Remove: expected false")
	}
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected *NetworkError, got %v", err)
	}
	if netErr.Message != "Not Found" {
		t.Errorf("Message: got %q", netErr.Message)
	}
}

func TestEmptyIDRejected(t *testing.T) {
	ts, _, calls := newFakeServer(t, http.StatusOK, `{}`)
	c := NewClient(ts.URL + "/users")
	ctx := context.Background()

	if _, err := c.Update(ctx, "", models.Draft{}); err == nil {
		t.Error("Update with empty id should fail")
	}
	if _, err := c.Remove(ctx, ""); err == nil {
		t.Error("Remove with empty id should fail")
	}
	if _, err := c.Get(ctx, ""); err == nil {
		t.Error("Get with empty id should fail")
	}
	if calls.Load() != 0 {
		t.Errorf("expected no requests, got %d", calls.Load())
	}
}

func TestGet(t *testing.T) {
	ts, rec, _ := newFakeServer(t, http.StatusOK, `{"id":"3","firstName":"Cy","lastName":"Young","email":"c@y.org","department":null}`)
	c := NewClient(ts.URL + "/users")

	u, err := c.Get(context.Background(), "3")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if u.FirstName != "Cy" || u.Department != nil {
		t.Errorf("user: got %+v", u)
	}
	if rec.Path != "/users/3" {
		t.Errorf("path: got %q", rec.Path)
	}
}

func TestTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(ts.Close)

	c := NewClient(ts.URL+"/users", WithTimeout(50*time.Millisecond))
	_, err := c.ListPage(context.Background(), 1, 10)
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected *NetworkError on timeout, got %v", err)
	}
}

func TestServerMessage(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{``, ""},
		{`{"message":"bad"}`, "bad"},
		{`{"error":"nope"}`, "nope"},
		{`{"error":{"message":"nested"}}`, "nested"},
		{`plain text`, "plain text"},
		{`<html>err</html>`, ""},
		{`{"other":1}`, ""},
	}
	for _, tt := range tests {
		if got := serverMessage([]byte(tt.body)); got != tt.want {
			t.Errorf("serverMessage(%q) = %q, want %q", tt.body, got, tt.want)
		}
	}
}
