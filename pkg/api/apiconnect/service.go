// Package apiconnect wires the splitter.v1.BillService messages to Connect.
package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitter/pkg/api"
)

const (
	// BillServiceName is the fully-qualified name of the BillService service.
	BillServiceName = "splitter.v1.BillService"
)

// Procedure paths of the BillService.
const (
	BillServiceCalculateProcedure     = "/splitter.v1.BillService/Calculate"
	BillServiceBaselineProcedure      = "/splitter.v1.BillService/Baseline"
	BillServiceCreateSessionProcedure = "/splitter.v1.BillService/CreateSession"
	BillServiceGetSessionProcedure    = "/splitter.v1.BillService/GetSession"
	BillServiceUpdateSessionProcedure = "/splitter.v1.BillService/UpdateSession"
	BillServiceAssignItemProcedure    = "/splitter.v1.BillService/AssignItem"
	BillServiceResetSessionProcedure  = "/splitter.v1.BillService/ResetSession"
	BillServiceDeleteSessionProcedure = "/splitter.v1.BillService/DeleteSession"
)

// BillServiceClient is a client for the splitter.v1.BillService service.
type BillServiceClient interface {
	Calculate(context.Context, *connect.Request[api.CalculateRequest]) (*connect.Response[api.CalculateResponse], error)
	Baseline(context.Context, *connect.Request[api.BaselineRequest]) (*connect.Response[api.BaselineResponse], error)
	CreateSession(context.Context, *connect.Request[api.CreateSessionRequest]) (*connect.Response[api.SessionResponse], error)
	GetSession(context.Context, *connect.Request[api.GetSessionRequest]) (*connect.Response[api.SessionResponse], error)
	UpdateSession(context.Context, *connect.Request[api.UpdateSessionRequest]) (*connect.Response[api.SessionResponse], error)
	AssignItem(context.Context, *connect.Request[api.AssignItemRequest]) (*connect.Response[api.SessionResponse], error)
	ResetSession(context.Context, *connect.Request[api.ResetSessionRequest]) (*connect.Response[api.SessionResponse], error)
	DeleteSession(context.Context, *connect.Request[api.DeleteSessionRequest]) (*connect.Response[api.DeleteSessionResponse], error)
}

// NewBillServiceClient constructs a client for the splitter.v1.BillService
// service. The JSON codec is always used; opts may add interceptors and the like.
func NewBillServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BillServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)
	return &billServiceClient{
		calculate: connect.NewClient[api.CalculateRequest, api.CalculateResponse](
			httpClient, baseURL+BillServiceCalculateProcedure, opts...),
		baseline: connect.NewClient[api.BaselineRequest, api.BaselineResponse](
			httpClient, baseURL+BillServiceBaselineProcedure, opts...),
		createSession: connect.NewClient[api.CreateSessionRequest, api.SessionResponse](
			httpClient, baseURL+BillServiceCreateSessionProcedure, opts...),
		getSession: connect.NewClient[api.GetSessionRequest, api.SessionResponse](
			httpClient, baseURL+BillServiceGetSessionProcedure, opts...),
		updateSession: connect.NewClient[api.UpdateSessionRequest, api.SessionResponse](
			httpClient, baseURL+BillServiceUpdateSessionProcedure, opts...),
		assignItem: connect.NewClient[api.AssignItemRequest, api.SessionResponse](
			httpClient, baseURL+BillServiceAssignItemProcedure, opts...),
		resetSession: connect.NewClient[api.ResetSessionRequest, api.SessionResponse](
			httpClient, baseURL+BillServiceResetSessionProcedure, opts...),
		deleteSession: connect.NewClient[api.DeleteSessionRequest, api.DeleteSessionResponse](
			httpClient, baseURL+BillServiceDeleteSessionProcedure, opts...),
	}
}

type billServiceClient struct {
	calculate     *connect.Client[api.CalculateRequest, api.CalculateResponse]
	baseline      *connect.Client[api.BaselineRequest, api.BaselineResponse]
	createSession *connect.Client[api.CreateSessionRequest, api.SessionResponse]
	getSession    *connect.Client[api.GetSessionRequest, api.SessionResponse]
	updateSession *connect.Client[api.UpdateSessionRequest, api.SessionResponse]
	assignItem    *connect.Client[api.AssignItemRequest, api.SessionResponse]
	resetSession  *connect.Client[api.ResetSessionRequest, api.SessionResponse]
	deleteSession *connect.Client[api.DeleteSessionRequest, api.DeleteSessionResponse]
}

func (c *billServiceClient) Calculate(ctx context.Context, req *connect.Request[api.CalculateRequest]) (*connect.Response[api.CalculateResponse], error) {
	return c.calculate.CallUnary(ctx, req)
}

func (c *billServiceClient) Baseline(ctx context.Context, req *connect.Request[api.BaselineRequest]) (*connect.Response[api.BaselineResponse], error) {
	return c.baseline.CallUnary(ctx, req)
}

func (c *billServiceClient) CreateSession(ctx context.Context, req *connect.Request[api.CreateSessionRequest]) (*connect.Response[api.SessionResponse], error) {
	return c.createSession.CallUnary(ctx, req)
}

func (c *billServiceClient) GetSession(ctx context.Context, req *connect.Request[api.GetSessionRequest]) (*connect.Response[api.SessionResponse], error) {
	return c.getSession.CallUnary(ctx, req)
}

func (c *billServiceClient) UpdateSession(ctx context.Context, req *connect.Request[api.UpdateSessionRequest]) (*connect.Response[api.SessionResponse], error) {
	return c.updateSession.CallUnary(ctx, req)
}

func (c *billServiceClient) AssignItem(ctx context.Context, req *connect.Request[api.AssignItemRequest]) (*connect.Response[api.SessionResponse], error) {
	return c.assignItem.CallUnary(ctx, req)
}

func (c *billServiceClient) ResetSession(ctx context.Context, req *connect.Request[api.ResetSessionRequest]) (*connect.Response[api.SessionResponse], error) {
	return c.resetSession.CallUnary(ctx, req)
}

func (c *billServiceClient) DeleteSession(ctx context.Context, req *connect.Request[api.DeleteSessionRequest]) (*connect.Response[api.DeleteSessionResponse], error) {
	return c.deleteSession.CallUnary(ctx, req)
}

// BillServiceHandler is an implementation of the splitter.v1.BillService service.
type BillServiceHandler interface {
	Calculate(context.Context, *connect.Request[api.CalculateRequest]) (*connect.Response[api.CalculateResponse], error)
	Baseline(context.Context, *connect.Request[api.BaselineRequest]) (*connect.Response[api.BaselineResponse], error)
	CreateSession(context.Context, *connect.Request[api.CreateSessionRequest]) (*connect.Response[api.SessionResponse], error)
	GetSession(context.Context, *connect.Request[api.GetSessionRequest]) (*connect.Response[api.SessionResponse], error)
	UpdateSession(context.Context, *connect.Request[api.UpdateSessionRequest]) (*connect.Response[api.SessionResponse], error)
	AssignItem(context.Context, *connect.Request[api.AssignItemRequest]) (*connect.Response[api.SessionResponse], error)
	ResetSession(context.Context, *connect.Request[api.ResetSessionRequest]) (*connect.Response[api.SessionResponse], error)
	DeleteSession(context.Context, *connect.Request[api.DeleteSessionRequest]) (*connect.Response[api.DeleteSessionResponse], error)
}

// NewBillServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewBillServiceHandler(svc BillServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)
	handlers := map[string]http.Handler{
		BillServiceCalculateProcedure:     connect.NewUnaryHandler(BillServiceCalculateProcedure, svc.Calculate, opts...),
		BillServiceBaselineProcedure:      connect.NewUnaryHandler(BillServiceBaselineProcedure, svc.Baseline, opts...),
		BillServiceCreateSessionProcedure: connect.NewUnaryHandler(BillServiceCreateSessionProcedure, svc.CreateSession, opts...),
		BillServiceGetSessionProcedure:    connect.NewUnaryHandler(BillServiceGetSessionProcedure, svc.GetSession, opts...),
		BillServiceUpdateSessionProcedure: connect.NewUnaryHandler(BillServiceUpdateSessionProcedure, svc.UpdateSession, opts...),
		BillServiceAssignItemProcedure:    connect.NewUnaryHandler(BillServiceAssignItemProcedure, svc.AssignItem, opts...),
		BillServiceResetSessionProcedure:  connect.NewUnaryHandler(BillServiceResetSessionProcedure, svc.ResetSession, opts...),
		BillServiceDeleteSessionProcedure: connect.NewUnaryHandler(BillServiceDeleteSessionProcedure, svc.DeleteSession, opts...),
	}
	return "/" + BillServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler, ok := handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		handler.ServeHTTP(w, r)
	})
}

// UnimplementedBillServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedBillServiceHandler struct{}

func (UnimplementedBillServiceHandler) Calculate(context.Context, *connect.Request[api.CalculateRequest]) (*connect.Response[api.CalculateResponse], error) {
	return nil, unimplemented("Calculate")
}

func (UnimplementedBillServiceHandler) Baseline(context.Context, *connect.Request[api.BaselineRequest]) (*connect.Response[api.BaselineResponse], error) {
	return nil, unimplemented("Baseline")
}

func (UnimplementedBillServiceHandler) CreateSession(context.Context, *connect.Request[api.CreateSessionRequest]) (*connect.Response[api.SessionResponse], error) {
	return nil, unimplemented("CreateSession")
}

func (UnimplementedBillServiceHandler) GetSession(context.Context, *connect.Request[api.GetSessionRequest]) (*connect.Response[api.SessionResponse], error) {
	return nil, unimplemented("GetSession")
}

func (UnimplementedBillServiceHandler) UpdateSession(context.Context, *connect.Request[api.UpdateSessionRequest]) (*connect.Response[api.SessionResponse], error) {
	return nil, unimplemented("UpdateSession")
}

func (UnimplementedBillServiceHandler) AssignItem(context.Context, *connect.Request[api.AssignItemRequest]) (*connect.Response[api.SessionResponse], error) {
	return nil, unimplemented("AssignItem")
}

func (UnimplementedBillServiceHandler) ResetSession(context.Context, *connect.Request[api.ResetSessionRequest]) (*connect.Response[api.SessionResponse], error) {
	return nil, unimplemented("ResetSession")
}

func (UnimplementedBillServiceHandler) DeleteSession(context.Context, *connect.Request[api.DeleteSessionRequest]) (*connect.Response[api.DeleteSessionResponse], error) {
	return nil, unimplemented("DeleteSession")
}

func unimplemented(method string) error {
	return connect.NewError(connect.CodeUnimplemented, errors.New(BillServiceName+"."+method+" is not implemented"))
}
