// api/board/v1/service.go
package boardv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/gurkanbulca/taskboard/pkg/jsoncodec"
)

const ServiceName = "board.v1.BoardService"

// Full method names, as seen by interceptors.
const (
	MethodCreateProject = "/board.v1.BoardService/CreateProject"
	MethodGetBoard      = "/board.v1.BoardService/GetBoard"
	MethodCreateTask    = "/board.v1.BoardService/CreateTask"
	MethodUpdateTask    = "/board.v1.BoardService/UpdateTask"
	MethodDeleteTask    = "/board.v1.BoardService/DeleteTask"
	MethodReorderTasks  = "/board.v1.BoardService/ReorderTasks"
	MethodWatchBoard    = "/board.v1.BoardService/WatchBoard"
)

// BoardServiceServer is the server API for the board service.
type BoardServiceServer interface {
	CreateProject(context.Context, *CreateProjectRequest) (*CreateProjectResponse, error)
	GetBoard(context.Context, *GetBoardRequest) (*GetBoardResponse, error)
	CreateTask(context.Context, *CreateTaskRequest) (*CreateTaskResponse, error)
	UpdateTask(context.Context, *UpdateTaskRequest) (*UpdateTaskResponse, error)
	DeleteTask(context.Context, *DeleteTaskRequest) (*emptypb.Empty, error)
	ReorderTasks(context.Context, *ReorderTasksRequest) (*ReorderTasksResponse, error)
	WatchBoard(*WatchBoardRequest, WatchBoardServer) error
}

// WatchBoardServer is the server side of the WatchBoard stream.
type WatchBoardServer interface {
	Send(*BoardEvent) error
	grpc.ServerStream
}

// UnimplementedBoardServiceServer can be embedded to satisfy the interface.
type UnimplementedBoardServiceServer struct{}

func (UnimplementedBoardServiceServer) CreateProject(context.Context, *CreateProjectRequest) (*CreateProjectResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateProject not implemented")
}
func (UnimplementedBoardServiceServer) GetBoard(context.Context, *GetBoardRequest) (*GetBoardResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetBoard not implemented")
}
func (UnimplementedBoardServiceServer) CreateTask(context.Context, *CreateTaskRequest) (*CreateTaskResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateTask not implemented")
}
func (UnimplementedBoardServiceServer) UpdateTask(context.Context, *UpdateTaskRequest) (*UpdateTaskResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateTask not implemented")
}
func (UnimplementedBoardServiceServer) DeleteTask(context.Context, *DeleteTaskRequest) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteTask not implemented")
}
func (UnimplementedBoardServiceServer) ReorderTasks(context.Context, *ReorderTasksRequest) (*ReorderTasksResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ReorderTasks not implemented")
}
func (UnimplementedBoardServiceServer) WatchBoard(*WatchBoardRequest, WatchBoardServer) error {
	return status.Error(codes.Unimplemented, "method WatchBoard not implemented")
}

// RegisterBoardServiceServer registers srv on s.
func RegisterBoardServiceServer(s grpc.ServiceRegistrar, srv BoardServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ServiceDesc describes board.v1.BoardService for grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BoardServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateProject", Handler: unaryHandler(MethodCreateProject, BoardServiceServer.CreateProject)},
		{MethodName: "GetBoard", Handler: unaryHandler(MethodGetBoard, BoardServiceServer.GetBoard)},
		{MethodName: "CreateTask", Handler: unaryHandler(MethodCreateTask, BoardServiceServer.CreateTask)},
		{MethodName: "UpdateTask", Handler: unaryHandler(MethodUpdateTask, BoardServiceServer.UpdateTask)},
		{MethodName: "DeleteTask", Handler: unaryHandler(MethodDeleteTask, BoardServiceServer.DeleteTask)},
		{MethodName: "ReorderTasks", Handler: unaryHandler(MethodReorderTasks, BoardServiceServer.ReorderTasks)},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "WatchBoard",
			Handler:       watchBoardHandler,
			ServerStreams: true,
		},
	},
	Metadata: "api/board/v1/service.go",
}

func unaryHandler[Req any, Resp any](method string, call func(BoardServiceServer, context.Context, *Req) (Resp, error)) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(BoardServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: method,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(BoardServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func watchBoardHandler(srv interface{}, stream grpc.ServerStream) error {
	in := new(WatchBoardRequest)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(BoardServiceServer).WatchBoard(in, &watchBoardServer{stream})
}

type watchBoardServer struct {
	grpc.ServerStream
}

func (x *watchBoardServer) Send(m *BoardEvent) error {
	return x.ServerStream.SendMsg(m)
}

// BoardServiceClient is a client for board.v1.BoardService. Every call is
// sent with the JSON content-subtype.
type BoardServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewBoardServiceClient wraps a connection
func NewBoardServiceClient(cc grpc.ClientConnInterface) *BoardServiceClient {
	return &BoardServiceClient{cc: cc}
}

func (c *BoardServiceClient) CreateProject(ctx context.Context, in *CreateProjectRequest, opts ...grpc.CallOption) (*CreateProjectResponse, error) {
	out := new(CreateProjectResponse)
	if err := c.cc.Invoke(ctx, MethodCreateProject, in, out, callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BoardServiceClient) GetBoard(ctx context.Context, in *GetBoardRequest, opts ...grpc.CallOption) (*GetBoardResponse, error) {
	out := new(GetBoardResponse)
	if err := c.cc.Invoke(ctx, MethodGetBoard, in, out, callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BoardServiceClient) CreateTask(ctx context.Context, in *CreateTaskRequest, opts ...grpc.CallOption) (*CreateTaskResponse, error) {
	out := new(CreateTaskResponse)
	if err := c.cc.Invoke(ctx, MethodCreateTask, in, out, callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BoardServiceClient) UpdateTask(ctx context.Context, in *UpdateTaskRequest, opts ...grpc.CallOption) (*UpdateTaskResponse, error) {
	out := new(UpdateTaskResponse)
	if err := c.cc.Invoke(ctx, MethodUpdateTask, in, out, callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BoardServiceClient) DeleteTask(ctx context.Context, in *DeleteTaskRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, MethodDeleteTask, in, out, callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BoardServiceClient) ReorderTasks(ctx context.Context, in *ReorderTasksRequest, opts ...grpc.CallOption) (*ReorderTasksResponse, error) {
	out := new(ReorderTasksResponse)
	if err := c.cc.Invoke(ctx, MethodReorderTasks, in, out, callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

// WatchBoardClient receives board events.
type WatchBoardClient interface {
	Recv() (*BoardEvent, error)
	grpc.ClientStream
}

func (c *BoardServiceClient) WatchBoard(ctx context.Context, in *WatchBoardRequest, opts ...grpc.CallOption) (WatchBoardClient, error) {
	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[0], MethodWatchBoard, callOptions(opts)...)
	if err != nil {
		return nil, err
	}
	x := &watchBoardClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type watchBoardClient struct {
	grpc.ClientStream
}

func (x *watchBoardClient) Recv() (*BoardEvent, error) {
	m := new(BoardEvent)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func callOptions(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(jsoncodec.Name)}, opts...)
}
