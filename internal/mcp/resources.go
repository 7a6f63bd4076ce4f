package mcp

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Resource URIs.
const (
	URIQueryMetrics = "everyfind://query_metrics"
	URISettings     = "everyfind://settings"
)

// QueryMetricsOutput is the JSON structure for the query_metrics resource.
type QueryMetricsOutput struct {
	Provider            string           `json:"provider"`
	ProviderReady       bool             `json:"provider_ready"`
	TotalQueries        int64            `json:"total_queries"`
	SupersededPct       float64          `json:"superseded_pct"`
	Outcomes            map[string]int64 `json:"outcomes"`
	TopTerms            []QueryTermCount `json:"top_terms"`
	ZeroResultQueries   []string         `json:"zero_result_queries"`
	LatencyDistribution map[string]int64 `json:"latency_distribution"`
}

// QueryTermCount represents a term and its frequency.
type QueryTermCount struct {
	Term  string `json:"term"`
	Count int64  `json:"count"`
}

func (s *Server) registerResources() {
	s.mcp.AddResource(
		&mcp.Resource{
			Name:        "query_metrics",
			URI:         URIQueryMetrics,
			Description: "Query outcomes, latency and frequent terms for this session",
			MIMEType:    "application/json",
		},
		s.readQueryMetrics,
	)
	s.mcp.AddResource(
		&mcp.Resource{
			Name:        "settings",
			URI:         URISettings,
			Description: "The plugin settings currently in effect",
			MIMEType:    "application/json",
		},
		s.readSettings,
	)
}

func (s *Server) readQueryMetrics(_ context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	out, err := s.queryMetrics()
	if err != nil {
		return nil, err
	}
	return jsonResource(URIQueryMetrics, out)
}

func (s *Server) queryMetrics() (*QueryMetricsOutput, error) {
	metrics := s.backend.Metrics()
	if metrics == nil {
		return nil, NewInvalidParamsError("query metrics not available")
	}
	snapshot := metrics.Snapshot()

	out := &QueryMetricsOutput{
		Provider:            s.backend.ProviderName(),
		ProviderReady:       s.backend.ProviderReady(),
		TotalQueries:        snapshot.TotalQueries,
		SupersededPct:       snapshot.SupersededPercentage(),
		Outcomes:            make(map[string]int64, len(snapshot.Outcomes)),
		TopTerms:            make([]QueryTermCount, 0, len(snapshot.TopTerms)),
		ZeroResultQueries:   snapshot.ZeroResultQueries,
		LatencyDistribution: make(map[string]int64, len(snapshot.LatencyDistribution)),
	}
	for o, n := range snapshot.Outcomes {
		out.Outcomes[string(o)] = n
	}
	for _, tc := range snapshot.TopTerms {
		out.TopTerms = append(out.TopTerms, QueryTermCount{Term: tc.Term, Count: tc.Count})
	}
	for b, n := range snapshot.LatencyDistribution {
		out.LatencyDistribution[string(b)] = n
	}
	return out, nil
}

func (s *Server) readSettings(_ context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	settings := s.backend.Settings()
	if settings == nil {
		return nil, NewInvalidParamsError("plugin is not initialized")
	}
	return jsonResource(URISettings, settings)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	content, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, MapError(err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(content),
			},
		},
	}, nil
}
