package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"

	"leetboard/internal/common"
	"leetboard/internal/domain/model"
)

// StatsProvider resolves one username against the external stats source.
type StatsProvider interface {
	FetchStats(ctx context.Context, username string) (*model.ParticipantStats, error)
}

// maxBodyBytes bounds upstream bodies; submissionCalendar makes them a few KB.
const maxBodyBytes = 1 << 20

type LeetCodeStatsProvider struct {
	baseURL         string
	profileTemplate string
	httpClient      *http.Client
}

func NewLeetCodeStatsProvider(baseURL, profileTemplate string, httpClient *http.Client) *LeetCodeStatsProvider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &LeetCodeStatsProvider{
		baseURL:         baseURL,
		profileTemplate: profileTemplate,
		httpClient:      httpClient,
	}
}

func (p *LeetCodeStatsProvider) FetchStats(ctx context.Context, username string) (*model.ParticipantStats, error) {
	endpoint := p.baseURL + "/" + url.PathEscape(username)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", username, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request stats for %s: %w: %v", username, common.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read stats for %s: %w: %v", username, common.ErrUpstream, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("stats for %s: %w: status %d", username, common.ErrUpstream, resp.StatusCode)
	}

	fields, err := decodeObject(body)
	if err != nil {
		return nil, fmt.Errorf("decode stats for %s: %w: %v", username, common.ErrUpstream, err)
	}

	// The provider answers unknown users with 200 and status "error".
	if status, ok := fields["status"].(string); ok && status != "success" {
		msg, _ := fields["message"].(string)
		return nil, fmt.Errorf("stats for %s: %w: upstream status %q: %s", username, common.ErrUpstream, status, msg)
	}

	return &model.ParticipantStats{
		Username:       username,
		ProfileURL:     model.ProfileURL(p.profileTemplate, username),
		WorldwideRank:  positiveInt(fields["ranking"]),
		ProblemsSolved: nonNegativeInt(fields["totalSolved"]),
		EasySolved:     nonNegativeInt(fields["easySolved"]),
		MediumSolved:   nonNegativeInt(fields["mediumSolved"]),
		HardSolved:     nonNegativeInt(fields["hardSolved"]),
		ContestRating:  float(fields["contestRating"]),
	}, nil
}

func decodeObject(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, fmt.Errorf("body is not a JSON object")
	}
	return fields, nil
}

// Anything that is not a whole JSON number is treated as absent.
func integer(v any) (int, bool) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	if i, err := n.Int64(); err == nil {
		if i > math.MaxInt32 || i < math.MinInt32 {
			return 0, false
		}
		return int(i), true
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func nonNegativeInt(v any) *int {
	i, ok := integer(v)
	if !ok || i < 0 {
		return nil
	}
	return &i
}

func positiveInt(v any) *int {
	i, ok := integer(v)
	if !ok || i <= 0 {
		return nil
	}
	return &i
}

func float(v any) *float64 {
	n, ok := v.(json.Number)
	if !ok {
		return nil
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
