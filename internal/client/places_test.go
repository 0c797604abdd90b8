// ABOUTME: Tests for the place autocomplete endpoint
// ABOUTME: Verifies the short-query suppression never touches the network

package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchPlacesShortQueryNoNetwork(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no request should be sent for query %q", r.URL.Query().Get("q"))
	}))
	defer server.Close()

	c := New(server.URL, nil)

	for _, query := range []string{"", "a", "ab"} {
		results, err := c.SearchPlaces(context.Background(), query)
		if err != nil {
			t.Fatalf("query %q: expected no error, got %v", query, err)
		}
		if results != nil {
			t.Errorf("query %q: expected nil results, got %v", query, results)
		}
	}
}

func TestSearchPlacesMultibyteRunesCount(t *testing.T) {
	// Three runes of Devanagari are a valid query even though the byte
	// count is well past the threshold
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results": []}`))
	}))
	defer server.Close()

	c := New(server.URL, nil)

	if _, err := c.SearchPlaces(context.Background(), "पुणे!"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gotQuery != "पुणे!" {
		t.Errorf("expected the query to reach the backend, got %q", gotQuery)
	}
}

func TestSearchPlacesResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/nominatim-search" {
			t.Errorf("expected path /api/nominatim-search, got %s", r.URL.Path)
		}
		if r.URL.Query().Get("q") != "Pune" {
			t.Errorf("expected q=Pune, got %q", r.URL.Query().Get("q"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results": [{"display_name": "Pune, Maharashtra, India", "lat": "18.5204", "lon": "73.8567"}]}`))
	}))
	defer server.Close()

	c := New(server.URL, nil)

	results, err := c.SearchPlaces(context.Background(), "Pune")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	lat, lon, err := results[0].Coordinates()
	if err != nil {
		t.Fatalf("expected parseable coordinates, got %v", err)
	}
	if lat != 18.5204 || lon != 73.8567 {
		t.Errorf("expected 18.5204/73.8567, got %v/%v", lat, lon)
	}
}
