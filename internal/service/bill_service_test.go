package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mmynk/splitter/internal/metrics"
	"github.com/mmynk/splitter/internal/middleware"
	"github.com/mmynk/splitter/internal/storage/sqlite"
	"github.com/mmynk/splitter/pkg/api"
	"github.com/mmynk/splitter/pkg/api/apiconnect"
)

type testEnv struct {
	client   apiconnect.BillServiceClient
	service  *BillService
	recorder *metrics.Recorder
}

// setupTestServer creates a test server backed by a temporary SQLite database
func setupTestServer(t *testing.T) (*testEnv, func()) {
	t.Helper()

	// Create temp database
	tmpFile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	recorder := metrics.New("test", prometheus.NewRegistry())
	svc := NewBillService(store, recorder)
	path, handler := apiconnect.NewBillServiceHandler(svc, connect.WithInterceptors(
		middleware.LoggingInterceptor(),
		middleware.MetricsInterceptor(recorder),
	))

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)

	client := apiconnect.NewBillServiceClient(http.DefaultClient, server.URL)

	cleanup := func() {
		server.Close()
		store.Close()
		os.Remove(tmpFile.Name())
	}

	return &testEnv{client: client, service: svc, recorder: recorder}, cleanup
}

func calculate(t *testing.T, client apiconnect.BillServiceClient, form *api.Form) *api.Result {
	t.Helper()
	resp, err := client.Calculate(context.Background(), connect.NewRequest(&api.CalculateRequest{Form: form}))
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	return resp.Msg.Result
}

func TestCalculate_EvenSplit(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()

	result := calculate(t, env.client, &api.Form{
		ItemsText:        "soup 100",
		ParticipantsText: "A\nB",
	})

	if len(result.Splits) != 2 {
		t.Fatalf("expected 2 splits, got %d", len(result.Splits))
	}
	for i, name := range []string{"A", "B"} {
		split := result.Splits[i]
		if split.Name != name {
			t.Errorf("splits[%d].Name = %q, want %q", i, split.Name, name)
		}
		if split.TotalOwed != 50 {
			t.Errorf("expected %s total to be 50, got %f", name, split.TotalOwed)
		}
		if split.TotalOwedText != "50.00" {
			t.Errorf("expected %s total text to be 50.00, got %q", name, split.TotalOwedText)
		}
	}

	if got := testutil.ToFloat64(env.recorder.Recomputations.WithLabelValues("calculate")); got != 1 {
		t.Errorf("recomputations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(env.recorder.RPCs.WithLabelValues(apiconnect.BillServiceCalculateProcedure, "ok")); got != 1 {
		t.Errorf("rpc count = %v, want 1", got)
	}
}

func TestCalculate_TaxCompounding(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()

	result := calculate(t, env.client, &api.Form{
		ItemsText:        "soup 100",
		ParticipantsText: "A\nB",
		GSTRate:          10,
		ServiceTaxRate:   10,
	})

	for _, split := range result.Splits {
		if split.UntaxedShare != 50 {
			t.Errorf("%s untaxed share = %f, want 50", split.Name, split.UntaxedShare)
		}
		if split.UntaxedShareText != "50.00" {
			t.Errorf("%s untaxed share text = %q, want 50.00", split.Name, split.UntaxedShareText)
		}
		if split.TotalOwedText != "60.50" {
			t.Errorf("%s total = %q, want 60.50", split.Name, split.TotalOwedText)
		}
		if split.GSTRate != 10 || split.ServiceTaxRate != 10 {
			t.Errorf("%s rates = %v/%v, want 10/10", split.Name, split.GSTRate, split.ServiceTaxRate)
		}
	}
	if result.Summary.Total != 121 {
		t.Errorf("summary total = %f, want 121", result.Summary.Total)
	}
}

func TestCalculate_Overrides(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()

	result := calculate(t, env.client, &api.Form{
		ItemsText:        "crab 90\nsoup 100",
		ParticipantsText: "A\nB\nC",
		Overrides: []*api.Override{
			{ItemIndex: 0, Participants: []string{"A", "A"}},
			{ItemIndex: 1, Participants: []string{}},
			{ItemIndex: 7, Participants: []string{"B"}},
		},
	})

	if got := result.Items[0].Participants; len(got) != 1 || got[0] != "A" {
		t.Errorf("crab participants = %v, want [A]", got)
	}
	if got := result.Items[1].Participants; len(got) != 0 {
		t.Errorf("soup participants = %v, want none", got)
	}
	if result.Splits[0].TotalOwed != 90 {
		t.Errorf("A total = %f, want 90", result.Splits[0].TotalOwed)
	}
	for _, split := range result.Splits[1:] {
		if split.TotalOwed != 0 {
			t.Errorf("%s total = %f, want 0", split.Name, split.TotalOwed)
		}
	}
	if result.Summary.Unassigned != 100 {
		t.Errorf("unassigned = %f, want 100", result.Summary.Unassigned)
	}
}

func TestCalculate_MalformedInput(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()

	result := calculate(t, env.client, &api.Form{
		ItemsText:        "soup abc\nrice\ntea 4",
		ParticipantsText: "A\nB\n",
	})

	if len(result.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(result.Items))
	}
	if !result.Items[0].Malformed || !result.Items[1].Malformed || result.Items[2].Malformed {
		t.Errorf("malformed flags = %v %v %v, want true true false",
			result.Items[0].Malformed, result.Items[1].Malformed, result.Items[2].Malformed)
	}
	if result.Summary.MalformedItems != 2 {
		t.Errorf("malformed count = %d, want 2", result.Summary.MalformedItems)
	}
	if len(result.Splits) != 2 {
		t.Fatalf("splits = %d, want 2 (trailing blank line is not a participant)", len(result.Splits))
	}
	for _, split := range result.Splits {
		if split.TotalOwed != 2 {
			t.Errorf("%s total = %f, want 2", split.Name, split.TotalOwed)
		}
	}
}

func TestCalculate_Overflow(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()

	tests := []struct {
		name string
		form *api.Form
	}{
		{
			name: "prices",
			form: &api.Form{ItemsText: "a 1e308\nb 1e308", ParticipantsText: "A"},
		},
		{
			name: "rates",
			form: &api.Form{ItemsText: "soup 10", ParticipantsText: "A", GSTRate: 1e308, ServiceTaxRate: 1e308},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := calculate(t, env.client, tt.form)

			if len(result.Splits) != 1 {
				t.Fatalf("splits = %d, want 1", len(result.Splits))
			}
			if result.Splits[0].TotalOwed != 0 {
				t.Errorf("total = %v, want 0", result.Splits[0].TotalOwed)
			}
			if result.Summary.Total != 0 {
				t.Errorf("summary total = %v, want 0", result.Summary.Total)
			}
		})
	}
}

func TestCalculate_EmptyRequest(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()

	result := calculate(t, env.client, nil)
	if len(result.Items) != 0 || len(result.Splits) != 0 {
		t.Errorf("expected an empty result, got %d items and %d splits", len(result.Items), len(result.Splits))
	}
}

func TestBaseline(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()

	resp, err := env.client.Baseline(context.Background(), connect.NewRequest(&api.BaselineRequest{}))
	if err != nil {
		t.Fatalf("Baseline failed: %v", err)
	}
	form := resp.Msg.Form
	if form.ItemsText != "" || form.ParticipantsText != "" || form.GSTRate != 9 || form.ServiceTaxRate != 10 {
		t.Errorf("baseline form = %+v, want empty text with 9/10", form)
	}

	resp, err = env.client.Baseline(context.Background(), connect.NewRequest(&api.BaselineRequest{Sample: true}))
	if err != nil {
		t.Fatalf("Baseline failed: %v", err)
	}
	if len(resp.Msg.Result.Items) != 9 || len(resp.Msg.Result.Splits) != 9 {
		t.Errorf("sample = %d items, %d splits, want 9/9", len(resp.Msg.Result.Items), len(resp.Msg.Result.Splits))
	}
}

func TestSessionLifecycle(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	created, err := env.client.CreateSession(ctx, connect.NewRequest(&api.CreateSessionRequest{
		Form: &api.Form{ItemsText: "soup 90", ParticipantsText: "A\nB\nC"},
	}))
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	session := created.Msg.Session
	if session.ID == "" {
		t.Fatal("expected session ID")
	}
	if session.Revision != 0 {
		t.Errorf("revision = %d, want 0", session.Revision)
	}
	if len(session.Result.Splits) != 3 || session.Result.Splits[0].TotalOwed != 30 {
		t.Fatalf("unexpected initial result: %+v", session.Result.Splits)
	}

	// Participant removed: the divisor shrinks.
	updated, err := env.client.UpdateSession(ctx, connect.NewRequest(&api.UpdateSessionRequest{
		SessionID: session.ID,
		Revision:  1,
		Form:      &api.Form{ItemsText: "soup 90", ParticipantsText: "A\nB"},
	}))
	if err != nil {
		t.Fatalf("UpdateSession failed: %v", err)
	}
	if got := updated.Msg.Session.Result.Splits; len(got) != 2 || got[0].TotalOwed != 45 {
		t.Errorf("after removing C: %+v", got)
	}

	// A late edit carrying an older revision must not win.
	_, err = env.client.UpdateSession(ctx, connect.NewRequest(&api.UpdateSessionRequest{
		SessionID: session.ID,
		Revision:  1,
		Form:      &api.Form{ItemsText: "stale 1", ParticipantsText: "Z"},
	}))
	if connect.CodeOf(err) != connect.CodeAborted {
		t.Errorf("stale update: code = %v, want aborted", connect.CodeOf(err))
	}

	got, err := env.client.GetSession(ctx, connect.NewRequest(&api.GetSessionRequest{SessionID: session.ID}))
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.Msg.Session.Revision != 1 || got.Msg.Session.Form.ItemsText != "soup 90" {
		t.Errorf("session = rev %d %q, want rev 1 soup 90", got.Msg.Session.Revision, got.Msg.Session.Form.ItemsText)
	}

	assigned, err := env.client.AssignItem(ctx, connect.NewRequest(&api.AssignItemRequest{
		SessionID:    session.ID,
		Revision:     2,
		ItemIndex:    0,
		Participants: []string{"B", "B"},
	}))
	if err != nil {
		t.Fatalf("AssignItem failed: %v", err)
	}
	result := assigned.Msg.Session.Result
	if result.Splits[0].TotalOwed != 0 || result.Splits[1].TotalOwed != 90 {
		t.Errorf("after assign: A=%f B=%f, want 0/90", result.Splits[0].TotalOwed, result.Splits[1].TotalOwed)
	}
	if overrides := assigned.Msg.Session.Form.Overrides; len(overrides) != 1 || len(overrides[0].Participants) != 1 {
		t.Errorf("overrides = %+v, want one deduplicated override", overrides)
	}

	cleared, err := env.client.AssignItem(ctx, connect.NewRequest(&api.AssignItemRequest{
		SessionID: session.ID,
		Revision:  3,
		ItemIndex: 0,
		Clear:     true,
	}))
	if err != nil {
		t.Fatalf("AssignItem(clear) failed: %v", err)
	}
	if got := cleared.Msg.Session.Result.Splits[0].TotalOwed; got != 45 {
		t.Errorf("after clear: A=%f, want 45", got)
	}

	reset, err := env.client.ResetSession(ctx, connect.NewRequest(&api.ResetSessionRequest{
		SessionID: session.ID,
		Revision:  4,
	}))
	if err != nil {
		t.Fatalf("ResetSession failed: %v", err)
	}
	form := reset.Msg.Session.Form
	if form.ItemsText != "" || form.ParticipantsText != "" || form.GSTRate != 9 || form.ServiceTaxRate != 10 || len(form.Overrides) != 0 {
		t.Errorf("reset form = %+v, want baseline", form)
	}

	if _, err := env.client.DeleteSession(ctx, connect.NewRequest(&api.DeleteSessionRequest{SessionID: session.ID})); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	_, err = env.client.GetSession(ctx, connect.NewRequest(&api.GetSessionRequest{SessionID: session.ID}))
	if connect.CodeOf(err) != connect.CodeNotFound {
		t.Errorf("get after delete: code = %v, want not_found", connect.CodeOf(err))
	}
}

func TestCreateSession_Sources(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	baseline, err := env.client.CreateSession(ctx, connect.NewRequest(&api.CreateSessionRequest{}))
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if f := baseline.Msg.Session.Form; f.GSTRate != 9 || f.ServiceTaxRate != 10 || f.ItemsText != "" {
		t.Errorf("default session form = %+v, want baseline", f)
	}

	sample, err := env.client.CreateSession(ctx, connect.NewRequest(&api.CreateSessionRequest{Sample: true}))
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if n := len(sample.Msg.Session.Result.Splits); n != 9 {
		t.Errorf("sample session splits = %d, want 9", n)
	}
}

func TestAssignItem_Errors(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	created, err := env.client.CreateSession(ctx, connect.NewRequest(&api.CreateSessionRequest{
		Form: &api.Form{ItemsText: "soup 90", ParticipantsText: "A\nB"},
	}))
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	id := created.Msg.Session.ID

	tests := []struct {
		name string
		req  *api.AssignItemRequest
		code connect.Code
	}{
		{
			name: "index out of range",
			req:  &api.AssignItemRequest{SessionID: id, Revision: 1, ItemIndex: 3, Participants: []string{"A"}},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "missing revision",
			req:  &api.AssignItemRequest{SessionID: id, ItemIndex: 0},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "missing session id",
			req:  &api.AssignItemRequest{Revision: 1},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "unknown session",
			req:  &api.AssignItemRequest{SessionID: "nope", Revision: 1},
			code: connect.CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.client.AssignItem(ctx, connect.NewRequest(tt.req))
			if connect.CodeOf(err) != tt.code {
				t.Errorf("code = %v, want %v (err: %v)", connect.CodeOf(err), tt.code, err)
			}
		})
	}

	if _, err := env.client.AssignItem(ctx, connect.NewRequest(&api.AssignItemRequest{
		SessionID: id, Revision: 5, ItemIndex: 0, Participants: []string{"A"},
	})); err != nil {
		t.Fatalf("AssignItem failed: %v", err)
	}
	_, err = env.client.AssignItem(ctx, connect.NewRequest(&api.AssignItemRequest{
		SessionID: id, Revision: 4, ItemIndex: 0, Participants: []string{"B"},
	}))
	if connect.CodeOf(err) != connect.CodeAborted {
		t.Errorf("stale assign: code = %v, want aborted", connect.CodeOf(err))
	}
}

func TestUpdateSession_Errors(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	_, err := env.client.UpdateSession(ctx, connect.NewRequest(&api.UpdateSessionRequest{
		SessionID: "nope", Revision: 1, Form: &api.Form{},
	}))
	if connect.CodeOf(err) != connect.CodeNotFound {
		t.Errorf("unknown session: code = %v, want not_found", connect.CodeOf(err))
	}

	_, err = env.client.UpdateSession(ctx, connect.NewRequest(&api.UpdateSessionRequest{
		SessionID: "nope", Revision: 1,
	}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("missing form: code = %v, want invalid_argument", connect.CodeOf(err))
	}
}

func TestSweepIdleSessions(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	created, err := env.client.CreateSession(ctx, connect.NewRequest(&api.CreateSessionRequest{}))
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	n, err := env.service.SweepIdleSessions(ctx, time.Hour)
	if err != nil {
		t.Fatalf("SweepIdleSessions failed: %v", err)
	}
	if n != 0 {
		t.Errorf("swept %d fresh sessions, want 0", n)
	}

	n, err = env.service.SweepIdleSessions(ctx, -time.Hour)
	if err != nil {
		t.Fatalf("SweepIdleSessions failed: %v", err)
	}
	if n != 1 {
		t.Errorf("swept %d sessions, want 1", n)
	}
	if got := testutil.ToFloat64(env.recorder.SessionsSwept); got != 1 {
		t.Errorf("swept metric = %v, want 1", got)
	}

	_, err = env.client.GetSession(ctx, connect.NewRequest(&api.GetSessionRequest{SessionID: created.Msg.Session.ID}))
	if connect.CodeOf(err) != connect.CodeNotFound {
		t.Errorf("code = %v, want not_found", connect.CodeOf(err))
	}
}
