package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"biosense/app"
	"biosense/domain/biometrics"
	"biosense/domain/causality"
	"biosense/domain/core"
	apperrors "biosense/internal/errors"
)

// handleCaptureIntent records an action intent against the user's most
// recent biometric state. Capture is non-blocking: earlier pending events
// never delay a new one.
func (s *Server) handleCaptureIntent(w http.ResponseWriter, r *http.Request) {
	userID, err := core.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, s.log, apperrors.WithCode(apperrors.CodeBadInput, err))
		return
	}

	var intent app.Intent
	if err := json.NewDecoder(r.Body).Decode(&intent); err != nil {
		writeError(w, s.log, apperrors.New(apperrors.CodeBadInput, "invalid intent payload"))
		return
	}
	intent.UserID = userID
	if _, err := causality.ParseActionDomain(string(intent.Domain)); err != nil {
		writeError(w, s.log, apperrors.WithCode(apperrors.CodeBadInput, err))
		return
	}

	before, err := s.latestSnapshot(r, userID)
	if err != nil {
		writeError(w, s.log, err)
		return
	}

	event, err := s.c.Capture.Capture(r.Context(), intent, before)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// latestSnapshot finds the before-state for a new event. An intent without
// any biometric history has nothing to measure against.
func (s *Server) latestSnapshot(r *http.Request, userID core.UserID) (biometrics.Snapshot, error) {
	snapshots, err := s.c.Snapshots.GetSnapshots(r.Context(), userID)
	if err != nil {
		return biometrics.Snapshot{}, err
	}
	if len(snapshots) == 0 {
		return biometrics.Snapshot{}, apperrors.New(apperrors.CodeBadInput,
			"no biometric snapshot on record; ingest one before capturing intents")
	}
	return snapshots[len(snapshots)-1], nil
}

type ingestResponse struct {
	Snapshot biometrics.Snapshot `json:"snapshot"`
	Resolved int                 `json:"resolved"`
	Expired  int                 `json:"expired"`
	Pending  int                 `json:"pending"`
}

// handleIngestSnapshot records a daily snapshot and opportunistically scans
// the user's pending events against it.
func (s *Server) handleIngestSnapshot(w http.ResponseWriter, r *http.Request) {
	userID, err := core.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, s.log, apperrors.WithCode(apperrors.CodeBadInput, err))
		return
	}

	var snapshot biometrics.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
		writeError(w, s.log, apperrors.New(apperrors.CodeBadInput, "invalid snapshot payload"))
		return
	}
	if snapshot.ID == "" {
		snapshot.ID = core.SnapshotID(core.NewID())
	}

	result, err := s.c.Intake.Ingest(r.Context(), userID, snapshot)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, ingestResponse{
		Snapshot: snapshot,
		Resolved: result.Resolved,
		Expired:  result.Expired,
		Pending:  result.Skipped,
	})
}

// handleGetProfile returns the user's causal profile. A user without
// resolved history gets the empty profile, never an error.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := core.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, s.log, apperrors.WithCode(apperrors.CodeBadInput, err))
		return
	}
	writeJSON(w, http.StatusOK, s.c.ProfileCache.Get(r.Context(), userID))
}

type trendRequest struct {
	Metric  string                     `json:"metric"`
	Data    []float64                  `json:"data"`
	Flags   []biometrics.ConfoundFlags `json:"flags,omitempty"`
	Options app.ReportOptions          `json:"options"`
}

// handleTrendReport runs the confound-adjusted trend pipeline over a series
// the caller supplies. Flags may be omitted when no confounds are declared.
func (s *Server) handleTrendReport(w http.ResponseWriter, r *http.Request) {
	if _, err := core.ParseUserID(chi.URLParam(r, "userID")); err != nil {
		writeError(w, s.log, apperrors.WithCode(apperrors.CodeBadInput, err))
		return
	}

	var req trendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.log, apperrors.New(apperrors.CodeBadInput, "invalid trend payload"))
		return
	}
	metric, err := biometrics.ParseMetricKind(req.Metric)
	if err != nil {
		writeError(w, s.log, apperrors.WithCode(apperrors.CodeBadInput, err))
		return
	}
	flags := req.Flags
	if flags == nil {
		flags = make([]biometrics.ConfoundFlags, len(req.Data))
	}

	report, err := s.c.Trends.Report(req.Data, flags, metric, req.Options)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
