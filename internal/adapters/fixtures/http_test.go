package fixtures_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"lightbnb/internal/adapters/fixtures"
	"lightbnb/internal/domain"
)

func TestHTTPSource_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			// two transient failures
			w.WriteHeader(500)
		default:
			if r.URL.Path != "/users.json" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			_, _ = w.Write([]byte(`{"1":{"id":1}}`))
		}
	}))
	defer ts.Close()

	src, err := fixtures.NewHTTPSource(ts.URL+"/", 100) // high RPS for tests
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	b, err := src.Fetch(ctx, fixtures.UsersFile)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if string(b) != `{"1":{"id":1}}` {
		t.Fatalf("unexpected body: %s", b)
	}
	if atomic.LoadInt32(&hits) < 3 {
		t.Fatalf("expected at least 3 calls due to retries, got %d", hits)
	}
}

func TestHTTPSource_404IsNotFound(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	src, err := fixtures.NewHTTPSource(ts.URL, 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err = src.Fetch(ctx, fixtures.ReviewsFile)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHTTPSource_Forbidden(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	src, _ := fixtures.NewHTTPSource(ts.URL, 100)
	if _, err := src.Fetch(context.Background(), fixtures.UsersFile); !errors.Is(err, fixtures.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestNewHTTPSource_RequiresBase(t *testing.T) {
	if _, err := fixtures.NewHTTPSource("", 1); err == nil {
		t.Fatal("expected error for empty base URL")
	}
}

func TestLoad_OverHTTP_OptionalFilesMissing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"1":{"id":1,"name":"A","email":"a@b.com","password":"x"}}`))
	})
	mux.HandleFunc("/properties.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"7":{"owner_id":1,"title":"T","city":"Van","cost_per_night":1000}}`))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	src, _ := fixtures.NewHTTPSource(ts.URL, 100)
	ds, err := fixtures.Load(context.Background(), src)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ds.Users) != 1 || ds.Users[0].Password != "x" {
		t.Fatalf("unexpected users: %+v", ds.Users)
	}
	if len(ds.Properties) != 1 || ds.Properties[0].ID != 7 {
		t.Fatalf("expected property id taken from key, got %+v", ds.Properties)
	}
	if len(ds.Reservations) != 0 || len(ds.Reviews) != 0 {
		t.Fatalf("optional files should be empty: %+v", ds)
	}
}
