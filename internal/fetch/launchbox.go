package fetch

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/franz/rom-janitor/internal/config"
	"github.com/franz/rom-janitor/internal/gamedb"
	"github.com/franz/rom-janitor/internal/util"
)

// SourceLaunchBox marks entries that came from the LaunchBox Games
// Database instead of a local reference database.
const SourceLaunchBox = "launchbox"

// launchBoxPlatforms maps libretro system names to the platform names
// the LaunchBox search API expects. Systems not listed here are
// searched without a platform filter.
var launchBoxPlatforms = map[string]string{
	"Nintendo - Nintendo Entertainment System":       "Nintendo Entertainment System",
	"Nintendo - Super Nintendo Entertainment System": "Super Nintendo Entertainment System",
	"Nintendo - Game Boy":                            "Nintendo Game Boy",
	"Nintendo - Game Boy Color":                      "Nintendo Game Boy Color",
	"Nintendo - Game Boy Advance":                    "Nintendo Game Boy Advance",
	"Nintendo - Nintendo 64":                         "Nintendo 64",
	"Sega - Master System - Mark III":                "Sega Master System",
	"Sega - Mega Drive - Genesis":                    "Sega Genesis",
	"Sega - Game Gear":                               "Sega Game Gear",
	"Sony - PlayStation":                             "Sony Playstation",
	"Arcade":                                         "Arcade",
}

var detailsSlugRe = regexp.MustCompile(`[^a-z0-9-]`)

// LaunchBox searches the LaunchBox Games Database for game metadata.
// It is the fallback when the local reference database has no usable
// candidate; results carry provenance fields so a confirmed match can
// be traced back to its source.
type LaunchBox struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewLaunchBox creates a search client from the configured endpoint
func NewLaunchBox(cfg *config.Config) *LaunchBox {
	return &LaunchBox{
		baseURL:    strings.TrimRight(cfg.LaunchBoxURL, "/"),
		apiKey:     cfg.LaunchBoxKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// launchBoxGame is the wire shape of one search result
type launchBoxGame struct {
	ID          json.Number `json:"id"`
	Name        string      `json:"name"`
	Platform    string      `json:"platform"`
	Region      string      `json:"region"`
	ReleaseYear json.Number `json:"releaseyear"`
	Developer   string      `json:"developer"`
	Publisher   string      `json:"publisher"`
}

// Search queries the games search endpoint and converts the results to
// database entries. LaunchBox carries no checksums, so the entries come
// back without a CRC and a match confirmed from them stays name-based.
func (l *LaunchBox) Search(query, system string) ([]gamedb.Entry, error) {
	params := url.Values{}
	params.Set("name", query)
	if platform, ok := launchBoxPlatforms[system]; ok {
		params.Set("platform", platform)
	}
	if l.apiKey != "" {
		params.Set("apikey", l.apiKey)
	}

	searchURL := l.baseURL + "/api/v1/games/search?" + params.Encode()

	req, err := http.NewRequest(http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s from search", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// Decode item by item so one malformed result does not discard the
	// whole response
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	entries := make([]gamedb.Entry, 0, len(raw))
	for _, item := range raw {
		var game launchBoxGame
		if err := json.Unmarshal(item, &game); err != nil {
			util.DebugLog("Skipping malformed search result: %v", err)
			continue
		}
		if game.Name == "" {
			continue
		}
		entries = append(entries, l.toEntry(game))
	}
	return entries, nil
}

func (l *LaunchBox) toEntry(game launchBoxGame) gamedb.Entry {
	year, _ := game.ReleaseYear.Int64()
	return gamedb.Entry{
		Name:        game.Name,
		Region:      game.Region,
		ReleaseYear: int(year),
		Developer:   game.Developer,
		Publisher:   game.Publisher,
		Source:      SourceLaunchBox,
		SourceID:    game.ID.String(),
		SourceURL:   l.detailsURL(game),
	}
}

// detailsURL builds the human-readable game page URL from the numeric
// id and a slug of the name
func (l *LaunchBox) detailsURL(game launchBoxGame) string {
	slug := strings.ToLower(game.Name)
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = detailsSlugRe.ReplaceAllString(slug, "")
	return fmt.Sprintf("%s/games/details/%s-%s", l.baseURL, game.ID.String(), slug)
}
