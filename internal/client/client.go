// Package client loads the participant list from the leaderboard API and
// turns it into a ranked, renderable view.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"leetboard/internal/common"
	"leetboard/internal/domain/model"
)

const (
	ErrorMessage = "Failed to load leaderboard data. Please check backend availability."
	EmptyMessage = "No participant data available."
)

type State int

const (
	StateLoading State = iota
	StateError
	StateLoaded
	StateEmpty
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StateLoaded:
		return "loaded"
	case StateEmpty:
		return "empty"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// View is the outcome of one load. Exactly one State applies.
type View struct {
	State    State
	Snapshot []model.ParticipantStats // ranked; set only for StateLoaded
	Message  string
	Err      error
}

type Client struct {
	apiURL     string
	httpClient *http.Client
}

func New(apiURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{apiURL: apiURL, httpClient: httpClient}
}

// Load issues a single query and settles into error, empty or loaded.
// There is no retry.
func (c *Client) Load(ctx context.Context) View {
	participants, err := c.fetch(ctx)
	if err != nil {
		log.Printf("ERROR: Failed to fetch participants: %v", err)
		return View{State: StateError, Message: ErrorMessage, Err: err}
	}
	if len(participants) == 0 {
		return View{State: StateEmpty, Message: EmptyMessage}
	}
	return View{State: StateLoaded, Snapshot: model.SortSnapshot(participants)}
}

func (c *Client) fetch(ctx context.Context) ([]model.ParticipantStats, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/api/participants", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: HTTP error! status: %d", common.ErrServiceUnavailable, resp.StatusCode)
	}

	var participants []model.ParticipantStats
	if err := json.NewDecoder(resp.Body).Decode(&participants); err != nil {
		return nil, fmt.Errorf("%w: decode participants: %v", common.ErrServiceUnavailable, err)
	}
	return participants, nil
}
