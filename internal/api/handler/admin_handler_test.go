package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/biohealth/ponto/internal/core/domain"
	"github.com/biohealth/ponto/internal/core/ports"
)

type stubAudit struct{ limit int }

func (s *stubAudit) List(_ context.Context, limit int) ([]*domain.AuditEntry, error) {
	s.limit = limit
	return []*domain.AuditEntry{{ID: "a1", Action: domain.AuditEventRegistered}}, nil
}

type stubRepair struct{ report *ports.RepairReport }

func (s stubRepair) Run(context.Context) (*ports.RepairReport, error) { return s.report, nil }

func TestAdminHandler_AuditLimit(t *testing.T) {
	tests := []struct {
		query string
		code  int
		limit int
	}{
		{"", http.StatusOK, defaultAuditLimit},
		{"?limit=5", http.StatusOK, 5},
		{"?limit=0", http.StatusBadRequest, 0},
		{"?limit=abc", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		audit := &stubAudit{}
		h := NewAdminHandler(audit, stubRepair{})
		c, rec := newContext(http.MethodGet, "/v1/audit"+tt.query, "")
		run(t, h.Audit, c)
		if rec.Code != tt.code || audit.limit != tt.limit {
			t.Fatalf("%q: expected %d/%d, got %d/%d", tt.query, tt.code, tt.limit, rec.Code, audit.limit)
		}
	}
}

func TestAdminHandler_RepairEmptyLists(t *testing.T) {
	h := NewAdminHandler(&stubAudit{}, stubRepair{report: &ports.RepairReport{Closed: []string{"e1"}}})

	c, rec := newContext(http.MethodPost, "/v1/admin/repair", "")
	run(t, h.Repair, c)

	var resp map[string][]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp["closed"]) != 1 || resp["reopened"] == nil {
		t.Fatalf("unexpected report %v (%s)", resp, rec.Body.String())
	}
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestReadinessHandler(t *testing.T) {
	tests := map[string]struct {
		deps map[string]Pinger
		want int
	}{
		"all up":   {map[string]Pinger{"store": stubPinger{}, "scan_guard": stubPinger{}}, http.StatusOK},
		"one down": {map[string]Pinger{"store": stubPinger{}, "scan_guard": stubPinger{errors.New("refused")}}, http.StatusServiceUnavailable},
		"nil skip": {map[string]Pinger{"store": stubPinger{}, "scan_guard": nil}, http.StatusOK},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c, rec := newContext(http.MethodGet, "/health/ready", "")
			run(t, NewReadinessHandler(tt.deps).Readiness, c)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		code int
		ok   bool
	}{
		{domain.NewValidationError("name", "is required"), http.StatusUnprocessableEntity, true},
		{domain.ErrEventNotFound, http.StatusNotFound, true},
		{domain.ErrWorkerNotIdentified, http.StatusNotFound, true},
		{domain.ErrForbidden, http.StatusForbidden, true},
		{domain.ErrDuplicateScan, http.StatusConflict, true},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, true},
		{errors.New("boom"), http.StatusInternalServerError, false},
	}
	for _, tt := range tests {
		code, _, ok := ErrorStatus(tt.err)
		if code != tt.code || ok != tt.ok {
			t.Errorf("ErrorStatus(%v) = %d/%v, want %d/%v", tt.err, code, ok, tt.code, tt.ok)
		}
	}
}
