package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitter/internal/calculator"
	"github.com/mmynk/splitter/internal/metrics"
	"github.com/mmynk/splitter/internal/models"
	"github.com/mmynk/splitter/internal/storage"
	"github.com/mmynk/splitter/pkg/api"
	"github.com/mmynk/splitter/pkg/api/apiconnect"
)

// BillService implements the Connect BillService
type BillService struct {
	apiconnect.UnimplementedBillServiceHandler
	store   storage.Store
	metrics *metrics.Recorder
}

// NewBillService creates a new BillService with the given storage backend.
// recorder may be nil.
func NewBillService(store storage.Store, recorder *metrics.Recorder) *BillService {
	return &BillService{store: store, metrics: recorder}
}

// evaluate runs one full recomputation of form.
func (s *BillService) evaluate(source string, form models.Form) calculator.Result {
	start := time.Now()
	result := calculator.Evaluate(form)
	s.metrics.ObserveRecompute(source, time.Since(start))

	slog.Debug("Bill recomputed",
		"source", source,
		"items", len(result.Bill.Items),
		"participants", len(result.Bill.Participants),
		"total", result.Summary.Total,
	)
	if result.Summary.MalformedItems > 0 {
		slog.Debug("Items with malformed prices counted as zero", "count", result.Summary.MalformedItems)
	}
	return result
}

// Calculate handles stateless bill calculation
func (s *BillService) Calculate(ctx context.Context, req *connect.Request[api.CalculateRequest]) (*connect.Response[api.CalculateResponse], error) {
	result := s.evaluate("calculate", formFromAPI(req.Msg.Form))
	return connect.NewResponse(&api.CalculateResponse{
		Result: resultToAPI(result),
	}), nil
}

// Baseline returns the reset baseline, or the sample bill, evaluated.
func (s *BillService) Baseline(ctx context.Context, req *connect.Request[api.BaselineRequest]) (*connect.Response[api.BaselineResponse], error) {
	form := calculator.Reset()
	if req.Msg.Sample {
		form = calculator.Sample()
	}
	return connect.NewResponse(&api.BaselineResponse{
		Form:   formToAPI(form),
		Result: resultToAPI(s.evaluate("baseline", form)),
	}), nil
}

// CreateSession starts a new session.
func (s *BillService) CreateSession(ctx context.Context, req *connect.Request[api.CreateSessionRequest]) (*connect.Response[api.SessionResponse], error) {
	form := calculator.Reset()
	switch {
	case req.Msg.Form != nil:
		form = formFromAPI(req.Msg.Form)
	case req.Msg.Sample:
		form = calculator.Sample()
	}

	session := &models.Session{Form: form}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, storeError("CreateSession", err)
	}
	slog.Info("Session created", "session_id", session.ID)

	return connect.NewResponse(&api.SessionResponse{
		Session: sessionToAPI(session, s.evaluate("create", session.Form)),
	}), nil
}

// GetSession retrieves a session and recomputes it.
func (s *BillService) GetSession(ctx context.Context, req *connect.Request[api.GetSessionRequest]) (*connect.Response[api.SessionResponse], error) {
	if req.Msg.SessionID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("session_id is required"))
	}

	session, err := s.store.GetSession(ctx, req.Msg.SessionID)
	if err != nil {
		return nil, storeError("GetSession", err)
	}

	return connect.NewResponse(&api.SessionResponse{
		Session: sessionToAPI(session, s.evaluate("get", session.Form)),
	}), nil
}

// UpdateSession replaces the whole form of a session.
func (s *BillService) UpdateSession(ctx context.Context, req *connect.Request[api.UpdateSessionRequest]) (*connect.Response[api.SessionResponse], error) {
	if err := validateRevision(req.Msg.SessionID, req.Msg.Revision); err != nil {
		return nil, err
	}
	if req.Msg.Form == nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("form is required"))
	}

	return s.commit(ctx, "update", req.Msg.SessionID, req.Msg.Revision, formFromAPI(req.Msg.Form))
}

// AssignItem overrides who shares one item of a session.
func (s *BillService) AssignItem(ctx context.Context, req *connect.Request[api.AssignItemRequest]) (*connect.Response[api.SessionResponse], error) {
	if err := validateRevision(req.Msg.SessionID, req.Msg.Revision); err != nil {
		return nil, err
	}

	session, err := s.store.GetSession(ctx, req.Msg.SessionID)
	if err != nil {
		return nil, storeError("AssignItem", err)
	}
	if req.Msg.Revision <= session.Revision {
		return nil, connect.NewError(connect.CodeAborted,
			fmt.Errorf("%w: got %d, stored %d", storage.ErrStaleRevision, req.Msg.Revision, session.Revision))
	}

	var form models.Form
	if req.Msg.Clear {
		form = calculator.ClearOverride(session.Form, req.Msg.ItemIndex)
	} else {
		form, err = calculator.Override(session.Form, req.Msg.ItemIndex, req.Msg.Participants)
		if err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
	}

	slog.Debug("Item assigned",
		"session_id", session.ID,
		"item_index", req.Msg.ItemIndex,
		"participants", req.Msg.Participants,
		"clear", req.Msg.Clear,
	)
	return s.commit(ctx, "assign", session.ID, req.Msg.Revision, form)
}

// ResetSession restores the baseline form.
func (s *BillService) ResetSession(ctx context.Context, req *connect.Request[api.ResetSessionRequest]) (*connect.Response[api.SessionResponse], error) {
	if err := validateRevision(req.Msg.SessionID, req.Msg.Revision); err != nil {
		return nil, err
	}
	return s.commit(ctx, "reset", req.Msg.SessionID, req.Msg.Revision, calculator.Reset())
}

// DeleteSession removes a session.
func (s *BillService) DeleteSession(ctx context.Context, req *connect.Request[api.DeleteSessionRequest]) (*connect.Response[api.DeleteSessionResponse], error) {
	if req.Msg.SessionID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("session_id is required"))
	}
	if err := s.store.DeleteSession(ctx, req.Msg.SessionID); err != nil {
		return nil, storeError("DeleteSession", err)
	}
	slog.Info("Session deleted", "session_id", req.Msg.SessionID)
	return connect.NewResponse(&api.DeleteSessionResponse{}), nil
}

// commit stores form as the given revision of a session and returns the
// recomputed session.
func (s *BillService) commit(ctx context.Context, source, sessionID string, revision int64, form models.Form) (*connect.Response[api.SessionResponse], error) {
	session := &models.Session{ID: sessionID, Form: form, Revision: revision}
	if err := s.store.UpdateSession(ctx, session); err != nil {
		return nil, storeError(source, err)
	}

	stored, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, storeError(source, err)
	}

	return connect.NewResponse(&api.SessionResponse{
		Session: sessionToAPI(stored, s.evaluate(source, stored.Form)),
	}), nil
}

// SweepIdleSessions removes sessions idle for longer than ttl.
func (s *BillService) SweepIdleSessions(ctx context.Context, ttl time.Duration) (int64, error) {
	n, err := s.store.DeleteIdleSessions(ctx, time.Now().Add(-ttl))
	if err != nil {
		return 0, err
	}
	s.metrics.ObserveSwept(n)
	if n > 0 {
		slog.Info("Idle sessions swept", "count", n, "ttl", ttl)
	}
	return n, nil
}

// RunSweeper calls SweepIdleSessions every interval until ctx is done.
func (s *BillService) RunSweeper(ctx context.Context, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.SweepIdleSessions(ctx, ttl); err != nil {
				slog.Error("Session sweep failed", "error", err)
			}
		}
	}
}

func validateRevision(sessionID string, revision int64) error {
	if sessionID == "" {
		return connect.NewError(connect.CodeInvalidArgument, errors.New("session_id is required"))
	}
	if revision <= 0 {
		return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("revision must be positive, got %d", revision))
	}
	return nil
}

// storeError maps storage errors to Connect codes.
func storeError(op string, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrStaleRevision):
		slog.Debug(op+" rejected a stale revision", "error", err)
		return connect.NewError(connect.CodeAborted, err)
	default:
		slog.Error(op+" failed", "error", err)
		return connect.NewError(connect.CodeInternal, err)
	}
}
