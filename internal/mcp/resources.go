// ABOUTME: MCP resource implementations for the trainer.
// ABOUTME: Provides trainer://clients, trainer://sessions/recent and trainer://plans resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/trainer/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const recentSessions = 10

func (s *Server) registerResources() {
	// trainer://clients - Every client with their latest composition figures
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "trainer://clients",
		Name:        "Clients",
		Description: "All clients with their latest weight and body fat",
		MIMEType:    "application/json",
	}, s.handleClientsResource)

	// trainer://sessions/recent - Last completed sessions
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "trainer://sessions/recent",
		Name:        "Recent Sessions",
		Description: "The 10 most recent completed workout sessions",
		MIMEType:    "application/json",
	}, s.handleRecentSessionsResource)

	// trainer://plans - Plan catalogue
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "trainer://plans",
		Name:        "Workout Plans",
		Description: "All workout plans with item counts",
		MIMEType:    "application/json",
	}, s.handlePlansResource)
}

// Resource handlers

func (s *Server) handleClientsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	clients, err := s.repo.ListClients(false)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	entries := make([]map[string]any, 0, len(clients))
	for _, c := range clients {
		entry := map[string]any{
			"id":     c.ID.String(),
			"name":   c.Name,
			"active": c.Active,
		}
		if c.Goal != nil {
			entry["goal"] = *c.Goal
		}
		for _, pt := range []models.ProgressType{models.ProgressWeight, models.ProgressBodyFat} {
			if p, err := s.repo.GetLatestProgress(c.ID, pt); err == nil {
				entry[string(pt)] = map[string]any{
					"value":       p.Value,
					"unit":        p.Unit,
					"recorded_at": p.RecordedAt.Format(time.RFC3339),
				}
			}
		}
		entries = append(entries, entry)
	}

	return jsonResource("trainer://clients", map[string]any{
		"clients": entries,
		"count":   len(entries),
	})
}

func (s *Server) handleRecentSessionsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	sessions, err := s.repo.ListSessions(nil, recentSessions)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	summaries := make([]sessionSummary, 0, len(sessions))
	for _, se := range sessions {
		summaries = append(summaries, summarizeSession(se))
	}

	return jsonResource("trainer://sessions/recent", map[string]any{
		"sessions": summaries,
		"count":    len(summaries),
	})
}

func (s *Server) handlePlansResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	plans, err := s.repo.ListPlans(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	entries := make([]map[string]any, 0, len(plans))
	for _, p := range plans {
		items := make([]string, 0, len(p.Items))
		for _, it := range p.Items {
			items = append(items, it.Name())
		}
		entry := map[string]any{
			"id":           p.ID.String(),
			"name":         p.Name,
			"items":        items,
			"total_series": p.TotalSeries(),
		}
		if p.ClientID != nil {
			entry["client_id"] = p.ClientID.String()
		}
		entries = append(entries, entry)
	}

	return jsonResource("trainer://plans", map[string]any{
		"plans": entries,
		"count": len(entries),
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
