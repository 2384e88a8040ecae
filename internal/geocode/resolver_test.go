package geocode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"sync"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL}), srv
}

func TestReverse_DisplayName(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reverse" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"display_name": "City Hospital, Main St"})
	})

	label, err := client.Reverse(context.Background(), 51.5, -0.1)
	if err != nil {
		t.Fatalf("Reverse failed: %v", err)
	}
	if label != "City Hospital, Main St" {
		t.Errorf("label = %q", label)
	}
}

func TestSearch_ParsesCoordinates(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]string{
			{"lat": "51.5", "lon": "-0.1", "display_name": "London"},
			{"lat": "bad", "lon": "-0.1", "display_name": "dropped"},
		})
	})

	places, err := client.Search(context.Background(), "london")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(places) != 1 {
		t.Fatalf("expected 1 parsable place, got %d", len(places))
	}
	if places[0].Lat != 51.5 || places[0].Lng != -0.1 {
		t.Errorf("coords = %v/%v", places[0].Lat, places[0].Lng)
	}
}

func TestResolver_FallbackOnAPIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	res := NewResolver(client)

	label, superseded := res.Reverse(context.Background(), "session-1", 12.34567, 76.54321)
	if superseded {
		t.Fatal("single request cannot be superseded")
	}
	if label != "12.34567, 76.54321" {
		t.Errorf("fallback label = %q", label)
	}
}

func TestResolver_DiscardsSupersededResponse(t *testing.T) {
	release := make(chan struct{})
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("lat") == "1" {
			<-release // first lookup hangs until the second finished
		}
		json.NewEncoder(w).Encode(map[string]string{"display_name": "somewhere"})
	})
	res := NewResolver(client)

	var wg sync.WaitGroup
	var firstSuperseded bool

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstSuperseded = res.Reverse(context.Background(), "session-1", 1, 1)
	}()

	// wait until the slow request registered its sequence
	for !res.Current("session-1", 1) {
		runtime.Gosched()
	}

	_, secondSuperseded := res.Reverse(context.Background(), "session-1", 2, 2)
	close(release)
	wg.Wait()

	if !firstSuperseded {
		t.Error("stale response must report superseded")
	}
	if secondSuperseded {
		t.Error("latest response must not be superseded")
	}
}

func TestResolver_KeysAreIndependent(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"display_name": "x"})
	})
	res := NewResolver(client)

	_, s1 := res.Reverse(context.Background(), "a", 1, 1)
	_, s2 := res.Reverse(context.Background(), "b", 2, 2)
	if s1 || s2 {
		t.Error("lookups under different keys must not supersede each other")
	}
}
