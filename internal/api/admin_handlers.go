package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/hangarbay/hangar-server/internal/ingest"
)

func (s *Server) registerAdminRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "trigger-sync",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/sync",
		Summary:     "Run a catalog sync",
		Description: "Runs the full ingest pipeline against the external feed and returns the per-kind report. One sync at a time; a concurrent request gets 409.",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleTriggerSync)

	huma.Register(s.api, huma.Operation{
		OperationID:   "set-starship-active",
		Method:        http.MethodPatch,
		Path:          "/api/v1/admin/starships/{id}/active",
		Summary:       "Activate or retire a catalog starship",
		Tags:          []string{"Admin"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleSetStarshipActive)
}

// === DTOs ===

// KindCountsResponse is the per-kind insert/update/skip tally of a sync run.
type KindCountsResponse struct {
	Inserted int64 `json:"inserted"`
	Updated  int64 `json:"updated"`
	Skipped  int64 `json:"skipped"`
}

// SyncReportResponse summarizes one pipeline run.
type SyncReportResponse struct {
	Counts       map[string]KindCountsResponse `json:"counts"`
	EdgesCleared int64                         `json:"edges_cleared"`
	EdgesAdded   int64                         `json:"edges_added"`
	Retired      int64                         `json:"retired"`
}

// SyncReportOutput wraps the sync report for Huma.
type SyncReportOutput struct {
	Body SyncReportResponse
}

// SetActiveRequest flips the activation flag of a catalog starship.
type SetActiveRequest struct {
	Active bool `json:"active" doc:"New activation state"`
}

// SetActiveInput wraps the activation request for Huma.
type SetActiveInput struct {
	ID   int64 `path:"id" doc:"Catalog starship ID"`
	Body SetActiveRequest
}

// === Handlers ===

func (s *Server) handleTriggerSync(ctx context.Context, _ *struct{}) (*SyncReportOutput, error) {
	caller, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	report, err := s.services.Sync.Run(ctx, caller)
	if err != nil {
		return nil, err
	}

	return &SyncReportOutput{Body: mapSyncReport(report)}, nil
}

func (s *Server) handleSetStarshipActive(ctx context.Context, input *SetActiveInput) (*EmptyOutput, error) {
	caller, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	err = s.services.Catalog.SetStarshipActive(ctx, caller, input.ID, input.Body.Active)
	if err != nil {
		return nil, err
	}
	return &EmptyOutput{}, nil
}

func mapSyncReport(report *ingest.Report) SyncReportResponse {
	resp := SyncReportResponse{
		Counts:       make(map[string]KindCountsResponse, len(report.Counts)),
		EdgesCleared: report.EdgesCleared,
		EdgesAdded:   report.EdgesAdded,
		Retired:      report.Retired,
	}
	for kind, counts := range report.Counts {
		resp.Counts[string(kind)] = KindCountsResponse{
			Inserted: counts.Inserted,
			Updated:  counts.Updated,
			Skipped:  counts.Skipped,
		}
	}
	return resp
}
