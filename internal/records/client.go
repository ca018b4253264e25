package records

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// battlesSelect embeds the battle_participants join rows so a single query
// returns everything the aggregation pass needs.
const battlesSelect = "*,participants:battle_participants(participant_id,team)"

// APIClient is a Supabase REST (PostgREST) client that implements the
// RecordStore interface.
type APIClient struct {
	httpClient *http.Client
	BaseURL    string
	apiKey     string
}

// NewClient creates a new record store client.
func NewClient(baseURL, apiKey string) RecordStore {
	return &APIClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		BaseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// Ensure APIClient implements the RecordStore interface.
var _ RecordStore = (*APIClient)(nil)

// GetBattles fetches all battles with their embedded participation rows,
// newest first.
func (c *APIClient) GetBattles(ctx context.Context) ([]Battle, error) {
	query := url.Values{}
	query.Set("select", battlesSelect)
	query.Set("order", "created_at.desc")

	var battles []Battle
	if err := c.get(ctx, "battles", query, &battles); err != nil {
		return nil, fmt.Errorf("error fetching battles from record store: %w", err)
	}
	log.Debug("Fetched battles", "count", len(battles))
	return battles, nil
}

// GetProfiles fetches display profiles for the given participant ids.
func (c *APIClient) GetProfiles(ctx context.Context, ids []string) ([]Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := url.Values{}
	query.Set("select", "id,nickname,avatar,email")
	query.Set("id", "in.("+strings.Join(ids, ",")+")")

	var profiles []Profile
	if err := c.get(ctx, "profiles", query, &profiles); err != nil {
		return nil, fmt.Errorf("error fetching profiles from record store: %w", err)
	}
	log.Debug("Fetched profiles", "count", len(profiles), "requested", len(ids))
	return profiles, nil
}

// InsertProfiles inserts profile rows.
func (c *APIClient) InsertProfiles(ctx context.Context, profiles []Profile) error {
	return c.post(ctx, "profiles", profiles)
}

// InsertBattles inserts battle rows. Embedded participants are not sent; use
// InsertParticipations for the join rows.
func (c *APIClient) InsertBattles(ctx context.Context, battles []Battle) error {
	rows := make([]map[string]any, 0, len(battles))
	for _, b := range battles {
		row := map[string]any{
			"id":         b.ID,
			"match_id":   b.MatchID,
			"sport":      b.Sport,
			"created_at": b.CreatedAt.Format(time.RFC3339),
		}
		if b.WinnerTeam != "" {
			row["winner_team"] = b.WinnerTeam
		}
		rows = append(rows, row)
	}
	return c.post(ctx, "battles", rows)
}

// InsertParticipations inserts battle_participants rows.
func (c *APIClient) InsertParticipations(ctx context.Context, rows []ParticipationRow) error {
	return c.post(ctx, "battle_participants", rows)
}

func (c *APIClient) get(ctx context.Context, table string, query url.Values, out any) error {
	endpoint := fmt.Sprintf("%s/rest/v1/%s?%s", c.BaseURL, table, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	log.Debug("Requesting records", "table", table, "url", endpoint)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Error("Received non-OK HTTP status from record store", "table", table, "status", resp.StatusCode, "body", string(body))
		return fmt.Errorf("received non-OK HTTP status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *APIClient) post(ctx context.Context, table string, rows any) error {
	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal rows: %w", err)
	}

	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.BaseURL, table)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Prefer", "return=minimal")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Error("Insert rejected by record store", "table", table, "status", resp.StatusCode, "body", string(body))
		return fmt.Errorf("received non-OK HTTP status: %d", resp.StatusCode)
	}
	log.Info("Inserted records", "table", table)
	return nil
}

func (c *APIClient) setHeaders(req *http.Request) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
}
