package grpc

import (
	"context"
	"errors"
	"strings"

	"github.com/vibast-solutions/ms-go-accounts/app/mapper"
	"github.com/vibast-solutions/ms-go-accounts/app/service"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const AccountsServiceName = "accounts.v1.AccountsService"

type AccountsServiceServer interface {
	GetAccount(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error)
}

// AccountsServiceDesc describes the internal accounts API. Requests and
// responses use well-known protobuf types so no generated code is needed.
var AccountsServiceDesc = grpc.ServiceDesc{
	ServiceName: AccountsServiceName,
	HandlerType: (*AccountsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetAccount", Handler: getAccountHandler},
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterAccountsServiceServer(s grpc.ServiceRegistrar, srv AccountsServiceServer) {
	s.RegisterService(&AccountsServiceDesc, srv)
}

func getAccountHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AccountsServiceServer).GetAccount(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + AccountsServiceName + "/GetAccount",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AccountsServiceServer).GetAccount(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

type accountReader interface {
	GetAccount(ctx context.Context, userID string) (*service.Account, error)
}

type Server struct {
	accounts accountReader
}

func NewServer(accounts accountReader) *Server {
	return &Server{accounts: accounts}
}

func (s *Server) GetAccount(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	l := loggerWithContext(ctx)
	userID := strings.TrimSpace(req.GetValue())
	if userID == "" {
		return nil, status.Error(codes.InvalidArgument, "user id is required")
	}

	account, err := s.accounts.GetAccount(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return nil, status.Error(codes.NotFound, "account not found")
		}
		l.WithError(err).WithField("user_id", userID).Error("Get account failed")
		return nil, status.Error(codes.Internal, "internal server error")
	}

	out, err := mapper.AccountToStruct(mapper.AccountToResponse(account.User, account.Subscription))
	if err != nil {
		l.WithError(err).Error("Account encoding failed")
		return nil, status.Error(codes.Internal, "internal server error")
	}
	return out, nil
}
