package employeev1

import (
	"context"

	"github.com/ogurasousui/codex-org-hierarchy/internal/adapters/grpc/codec"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "hierarchy.employee.v1.EmployeeService"

const (
	EmployeeService_CreateEmployee_FullMethodName     = "/" + ServiceName + "/CreateEmployee"
	EmployeeService_GetEmployee_FullMethodName        = "/" + ServiceName + "/GetEmployee"
	EmployeeService_ListEmployees_FullMethodName      = "/" + ServiceName + "/ListEmployees"
	EmployeeService_UpdateEmployee_FullMethodName     = "/" + ServiceName + "/UpdateEmployee"
	EmployeeService_DeleteEmployee_FullMethodName     = "/" + ServiceName + "/DeleteEmployee"
	EmployeeService_SetManager_FullMethodName         = "/" + ServiceName + "/SetManager"
	EmployeeService_GetHierarchyForest_FullMethodName = "/" + ServiceName + "/GetHierarchyForest"
	EmployeeService_GetDepartments_FullMethodName     = "/" + ServiceName + "/GetDepartments"
	EmployeeService_GetManagers_FullMethodName        = "/" + ServiceName + "/GetManagers"
)

// EmployeeServiceServer はサーバー側の実装が満たすインターフェースです。
type EmployeeServiceServer interface {
	CreateEmployee(context.Context, *CreateEmployeeRequest) (*CreateEmployeeResponse, error)
	GetEmployee(context.Context, *GetEmployeeRequest) (*GetEmployeeResponse, error)
	ListEmployees(context.Context, *ListEmployeesRequest) (*ListEmployeesResponse, error)
	UpdateEmployee(context.Context, *UpdateEmployeeRequest) (*UpdateEmployeeResponse, error)
	DeleteEmployee(context.Context, *DeleteEmployeeRequest) (*DeleteEmployeeResponse, error)
	SetManager(context.Context, *SetManagerRequest) (*SetManagerResponse, error)
	GetHierarchyForest(context.Context, *GetHierarchyForestRequest) (*GetHierarchyForestResponse, error)
	GetDepartments(context.Context, *GetDepartmentsRequest) (*GetDepartmentsResponse, error)
	GetManagers(context.Context, *GetManagersRequest) (*GetManagersResponse, error)
	mustEmbedUnimplementedEmployeeServiceServer()
}

// UnimplementedEmployeeServiceServer は前方互換のために埋め込みます。
type UnimplementedEmployeeServiceServer struct{}

func (UnimplementedEmployeeServiceServer) CreateEmployee(context.Context, *CreateEmployeeRequest) (*CreateEmployeeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateEmployee not implemented")
}
func (UnimplementedEmployeeServiceServer) GetEmployee(context.Context, *GetEmployeeRequest) (*GetEmployeeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetEmployee not implemented")
}
func (UnimplementedEmployeeServiceServer) ListEmployees(context.Context, *ListEmployeesRequest) (*ListEmployeesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListEmployees not implemented")
}
func (UnimplementedEmployeeServiceServer) UpdateEmployee(context.Context, *UpdateEmployeeRequest) (*UpdateEmployeeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateEmployee not implemented")
}
func (UnimplementedEmployeeServiceServer) DeleteEmployee(context.Context, *DeleteEmployeeRequest) (*DeleteEmployeeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteEmployee not implemented")
}
func (UnimplementedEmployeeServiceServer) SetManager(context.Context, *SetManagerRequest) (*SetManagerResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SetManager not implemented")
}
func (UnimplementedEmployeeServiceServer) GetHierarchyForest(context.Context, *GetHierarchyForestRequest) (*GetHierarchyForestResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetHierarchyForest not implemented")
}
func (UnimplementedEmployeeServiceServer) GetDepartments(context.Context, *GetDepartmentsRequest) (*GetDepartmentsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetDepartments not implemented")
}
func (UnimplementedEmployeeServiceServer) GetManagers(context.Context, *GetManagersRequest) (*GetManagersResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetManagers not implemented")
}
func (UnimplementedEmployeeServiceServer) mustEmbedUnimplementedEmployeeServiceServer() {}

// RegisterEmployeeServiceServer は srv を s に登録します。
func RegisterEmployeeServiceServer(s grpc.ServiceRegistrar, srv EmployeeServiceServer) {
	s.RegisterService(&EmployeeService_ServiceDesc, srv)
}

// unaryHandler は 1 メソッド分の grpc.MethodHandler を組み立てます。
func unaryHandler[Req any, Resp any](fullMethod string, call func(EmployeeServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(EmployeeServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(EmployeeServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// EmployeeService_ServiceDesc は EmployeeService の grpc.ServiceDesc です。
var EmployeeService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*EmployeeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateEmployee", Handler: unaryHandler(EmployeeService_CreateEmployee_FullMethodName, EmployeeServiceServer.CreateEmployee)},
		{MethodName: "GetEmployee", Handler: unaryHandler(EmployeeService_GetEmployee_FullMethodName, EmployeeServiceServer.GetEmployee)},
		{MethodName: "ListEmployees", Handler: unaryHandler(EmployeeService_ListEmployees_FullMethodName, EmployeeServiceServer.ListEmployees)},
		{MethodName: "UpdateEmployee", Handler: unaryHandler(EmployeeService_UpdateEmployee_FullMethodName, EmployeeServiceServer.UpdateEmployee)},
		{MethodName: "DeleteEmployee", Handler: unaryHandler(EmployeeService_DeleteEmployee_FullMethodName, EmployeeServiceServer.DeleteEmployee)},
		{MethodName: "SetManager", Handler: unaryHandler(EmployeeService_SetManager_FullMethodName, EmployeeServiceServer.SetManager)},
		{MethodName: "GetHierarchyForest", Handler: unaryHandler(EmployeeService_GetHierarchyForest_FullMethodName, EmployeeServiceServer.GetHierarchyForest)},
		{MethodName: "GetDepartments", Handler: unaryHandler(EmployeeService_GetDepartments_FullMethodName, EmployeeServiceServer.GetDepartments)},
		{MethodName: "GetManagers", Handler: unaryHandler(EmployeeService_GetManagers_FullMethodName, EmployeeServiceServer.GetManagers)},
	},
}

// EmployeeServiceClient は EmployeeService のクライアントです。
type EmployeeServiceClient interface {
	CreateEmployee(ctx context.Context, in *CreateEmployeeRequest, opts ...grpc.CallOption) (*CreateEmployeeResponse, error)
	GetEmployee(ctx context.Context, in *GetEmployeeRequest, opts ...grpc.CallOption) (*GetEmployeeResponse, error)
	ListEmployees(ctx context.Context, in *ListEmployeesRequest, opts ...grpc.CallOption) (*ListEmployeesResponse, error)
	UpdateEmployee(ctx context.Context, in *UpdateEmployeeRequest, opts ...grpc.CallOption) (*UpdateEmployeeResponse, error)
	DeleteEmployee(ctx context.Context, in *DeleteEmployeeRequest, opts ...grpc.CallOption) (*DeleteEmployeeResponse, error)
	SetManager(ctx context.Context, in *SetManagerRequest, opts ...grpc.CallOption) (*SetManagerResponse, error)
	GetHierarchyForest(ctx context.Context, in *GetHierarchyForestRequest, opts ...grpc.CallOption) (*GetHierarchyForestResponse, error)
	GetDepartments(ctx context.Context, in *GetDepartmentsRequest, opts ...grpc.CallOption) (*GetDepartmentsResponse, error)
	GetManagers(ctx context.Context, in *GetManagersRequest, opts ...grpc.CallOption) (*GetManagersResponse, error)
}

type employeeServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewEmployeeServiceClient は JSON コーデックで通信するクライアントを返します。
func NewEmployeeServiceClient(cc grpc.ClientConnInterface) EmployeeServiceClient {
	return &employeeServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	callOpts := append([]grpc.CallOption{grpc.CallContentSubtype(codec.Name)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, callOpts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *employeeServiceClient) CreateEmployee(ctx context.Context, in *CreateEmployeeRequest, opts ...grpc.CallOption) (*CreateEmployeeResponse, error) {
	return invoke[CreateEmployeeResponse](ctx, c.cc, EmployeeService_CreateEmployee_FullMethodName, in, opts)
}

func (c *employeeServiceClient) GetEmployee(ctx context.Context, in *GetEmployeeRequest, opts ...grpc.CallOption) (*GetEmployeeResponse, error) {
	return invoke[GetEmployeeResponse](ctx, c.cc, EmployeeService_GetEmployee_FullMethodName, in, opts)
}

func (c *employeeServiceClient) ListEmployees(ctx context.Context, in *ListEmployeesRequest, opts ...grpc.CallOption) (*ListEmployeesResponse, error) {
	return invoke[ListEmployeesResponse](ctx, c.cc, EmployeeService_ListEmployees_FullMethodName, in, opts)
}

func (c *employeeServiceClient) UpdateEmployee(ctx context.Context, in *UpdateEmployeeRequest, opts ...grpc.CallOption) (*UpdateEmployeeResponse, error) {
	return invoke[UpdateEmployeeResponse](ctx, c.cc, EmployeeService_UpdateEmployee_FullMethodName, in, opts)
}

func (c *employeeServiceClient) DeleteEmployee(ctx context.Context, in *DeleteEmployeeRequest, opts ...grpc.CallOption) (*DeleteEmployeeResponse, error) {
	return invoke[DeleteEmployeeResponse](ctx, c.cc, EmployeeService_DeleteEmployee_FullMethodName, in, opts)
}

func (c *employeeServiceClient) SetManager(ctx context.Context, in *SetManagerRequest, opts ...grpc.CallOption) (*SetManagerResponse, error) {
	return invoke[SetManagerResponse](ctx, c.cc, EmployeeService_SetManager_FullMethodName, in, opts)
}

func (c *employeeServiceClient) GetHierarchyForest(ctx context.Context, in *GetHierarchyForestRequest, opts ...grpc.CallOption) (*GetHierarchyForestResponse, error) {
	return invoke[GetHierarchyForestResponse](ctx, c.cc, EmployeeService_GetHierarchyForest_FullMethodName, in, opts)
}

func (c *employeeServiceClient) GetDepartments(ctx context.Context, in *GetDepartmentsRequest, opts ...grpc.CallOption) (*GetDepartmentsResponse, error) {
	return invoke[GetDepartmentsResponse](ctx, c.cc, EmployeeService_GetDepartments_FullMethodName, in, opts)
}

func (c *employeeServiceClient) GetManagers(ctx context.Context, in *GetManagersRequest, opts ...grpc.CallOption) (*GetManagersResponse, error) {
	return invoke[GetManagersResponse](ctx, c.cc, EmployeeService_GetManagers_FullMethodName, in, opts)
}
