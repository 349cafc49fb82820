package rerank

// client for jina-style /v1/rerank APIs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

type Driver struct {
	client   *http.Client
	endpoint string
	token    string
	model    string
}

func New(endpoint, token, model string) *Driver {
	return &Driver{
		client:   &http.Client{},
		endpoint: endpoint,
		token:    token,
		model:    model,
	}
}

type RerankRequestBody struct {
	Model     string   `json:"model"`
	Query     string   `json:"query"`
	TopN      int      `json:"top_n"`
	Documents []string `json:"documents"`
}

type RerankResponse struct {
	Model   string               `json:"model"`
	Results []RerankResponseItem `json:"results"`
}

type RerankResponseItem struct {
	Index          int     `json:"index"`
	RelevanceScore float64 `json:"relevance_score"`
}

// Rerank scores docs against query and returns at most topN items, highest
// relevance first. Index refers back into the docs slice.
func (s *Driver) Rerank(ctx context.Context, query string, docs []string, topN int) ([]RerankResponseItem, error) {
	slog.Debug("Rerank", slog.String("endpoint", s.endpoint), slog.String("model", s.model))
	request := RerankRequestBody{
		Model:     s.model,
		Query:     query,
		TopN:      topN,
		Documents: docs,
	}

	raw, _ := json.Marshal(request)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	if s.token != "" {
		req.Header.Add("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Failed to request rerank api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Failed to request rerank api, %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var result RerankResponse
	if err = json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("Failed to unmarshal rerank response, %w", err)
	}

	return result.Results, nil
}
