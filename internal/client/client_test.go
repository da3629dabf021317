package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/testutil"
)

func TestHealth(t *testing.T) {
	f := testutil.NewFakeService(t)
	c := New(f.URL())

	h, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if h.Status != "ok" {
		t.Errorf("status = %q, want ok", h.Status)
	}
}

func TestHealthUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := New(srv.URL)

	_, err := c.Health(context.Background())
	var ue *apperr.UnreachableError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want UnreachableError", err)
	}
}

func TestHealthNonSuccessIsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	c := New(srv.URL)

	_, err := c.Health(context.Background())
	var ue *apperr.UnreachableError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want UnreachableError", err)
	}
}

func TestCRUDRoundtrip(t *testing.T) {
	f := testutil.NewFakeService(t)
	c := New(f.URL())
	ctx := context.Background()

	created, err := c.Create(ctx, "Hello", "World")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 || created.Title != "Hello" {
		t.Fatalf("created = %+v", created)
	}

	notes, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("len(notes) = %d, want 1", len(notes))
	}

	title := "Updated"
	updated, err := c.Update(ctx, created.ID, models.NotePatch{Title: &title})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "Updated" || updated.Content != "World" {
		t.Errorf("updated = %+v", updated)
	}

	got, err := c.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Updated" {
		t.Errorf("got.Title = %q", got.Title)
	}

	if err := c.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	notes, err = c.List(ctx)
	if err != nil {
		t.Fatalf("List after delete: %v", err)
	}
	if len(notes) != 0 {
		t.Errorf("len(notes) = %d, want 0", len(notes))
	}
}

func TestRequestErrorFromDetailBody(t *testing.T) {
	f := testutil.NewFakeService(t)
	f.FailCreate = http.StatusInternalServerError
	f.FailMessage = "database exploded"
	c := New(f.URL())

	_, err := c.Create(context.Background(), "x", "y")
	var re *apperr.RequestError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want RequestError", err)
	}
	if re.Status != http.StatusInternalServerError {
		t.Errorf("status = %d", re.Status)
	}
	if re.Message != "database exploded" {
		t.Errorf("message = %q", re.Message)
	}
}

func TestRequestErrorFallbackMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>nope</html>"))
	}))
	t.Cleanup(srv.Close)
	c := New(srv.URL)

	_, err := c.List(context.Background())
	var re *apperr.RequestError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want RequestError", err)
	}
	if re.Message != "502 Bad Gateway" {
		t.Errorf("message = %q, want fallback", re.Message)
	}
}

func TestRequestErrorLegacyErrorField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"already exists"}`))
	}))
	t.Cleanup(srv.Close)
	c := New(srv.URL)

	_, err := c.Create(context.Background(), "x", "y")
	var re *apperr.RequestError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want RequestError", err)
	}
	if re.Message != "already exists" {
		t.Errorf("message = %q", re.Message)
	}
}

func TestListTimeoutIsUnreachable(t *testing.T) {
	// A client-side timeout on a stalled service is a transport failure,
	// not a cancellation the caller asked for.
	f := testutil.NewFakeService(t)
	f.ListGate = make(chan struct{})
	c := New(f.URL()).WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond})

	_, err := c.List(context.Background())
	var ue *apperr.UnreachableError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want UnreachableError", err)
	}
}

func TestListCancellation(t *testing.T) {
	f := testutil.NewFakeService(t)
	f.ListGate = make(chan struct{})
	c := New(f.URL())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.List(ctx)
		done <- err
	}()

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("cancelled List did not return")
	}
}
