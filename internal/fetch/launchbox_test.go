package fetch

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/franz/rom-janitor/internal/config"
)

func TestLaunchBoxSearch(t *testing.T) {
	var captured *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		if r.URL.Path != "/api/v1/games/search" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": 123, "name": "Super Mario Bros.", "platform": "Nintendo Entertainment System",
			 "region": "North America", "releaseyear": 1985, "developer": "Nintendo", "publisher": "Nintendo"},
			{"id": {"bad": "shape"}, "name": "Broken Row"},
			{"id": 456, "name": "Super Mario Bros. 2", "releaseyear": 1988}
		]`))
	}))
	defer server.Close()

	lb := NewLaunchBox(&config.Config{LaunchBoxURL: server.URL})
	entries, err := lb.Search("super mario", "Nintendo - Nintendo Entertainment System")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if got := captured.URL.Query().Get("name"); got != "super mario" {
		t.Errorf("name param = %q", got)
	}
	if got := captured.URL.Query().Get("platform"); got != "Nintendo Entertainment System" {
		t.Errorf("platform param = %q, expected mapped platform name", got)
	}

	// The malformed row is skipped, the rest convert
	if len(entries) != 2 {
		t.Fatalf("entries = %d, expected 2", len(entries))
	}

	first := entries[0]
	if first.Name != "Super Mario Bros." {
		t.Errorf("Name = %q", first.Name)
	}
	if first.ReleaseYear != 1985 {
		t.Errorf("ReleaseYear = %d, expected 1985", first.ReleaseYear)
	}
	if first.Developer != "Nintendo" {
		t.Errorf("Developer = %q", first.Developer)
	}
	if first.CRC != "" {
		t.Errorf("CRC = %q, expected none from an online source", first.CRC)
	}
	if first.Source != SourceLaunchBox {
		t.Errorf("Source = %q, expected %q", first.Source, SourceLaunchBox)
	}
	if first.SourceID != "123" {
		t.Errorf("SourceID = %q, expected 123", first.SourceID)
	}
	wantURL := server.URL + "/games/details/123-super-mario-bros"
	if first.SourceURL != wantURL {
		t.Errorf("SourceURL = %q, expected %q", first.SourceURL, wantURL)
	}
}

func TestLaunchBoxSearchUnknownSystem(t *testing.T) {
	var captured *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	lb := NewLaunchBox(&config.Config{LaunchBoxURL: server.URL})
	entries, err := lb.Search("tetris", "some-homebrew-system")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %d, expected none", len(entries))
	}
	if captured.URL.Query().Has("platform") {
		t.Error("platform param sent for a system with no mapping")
	}
}

func TestLaunchBoxSearchNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	lb := NewLaunchBox(&config.Config{LaunchBoxURL: server.URL})
	entries, err := lb.Search("nothing", "")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if entries != nil {
		t.Errorf("entries = %v, expected none for 404", entries)
	}
}

func TestLaunchBoxSearchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	lb := NewLaunchBox(&config.Config{LaunchBoxURL: server.URL})
	if _, err := lb.Search("anything", ""); err == nil {
		t.Error("expected error on server failure")
	}
}

func TestLaunchBoxSearchSendsAPIKey(t *testing.T) {
	var captured *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	lb := NewLaunchBox(&config.Config{LaunchBoxURL: server.URL, LaunchBoxKey: "secret"})
	if _, err := lb.Search("tetris", ""); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if got := captured.URL.Query().Get("apikey"); got != "secret" {
		t.Errorf("apikey param = %q", got)
	}
}
