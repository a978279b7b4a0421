// internal/middleware/auth.go
package middleware

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/gurkanbulca/taskboard/pkg/auth"
)

// AuthInterceptor provides authentication middleware
type AuthInterceptor struct {
	tokenManager  *auth.TokenManager
	publicMethods map[string]bool
}

// NewAuthInterceptor creates a new auth interceptor
func NewAuthInterceptor(tokenManager *auth.TokenManager) *AuthInterceptor {
	// Define which methods don't require authentication
	publicMethods := map[string]bool{
		"/grpc.health.v1.Health/Check": true,
		"/grpc.health.v1.Health/Watch": true,
	}

	return &AuthInterceptor{
		tokenManager:  tokenManager,
		publicMethods: publicMethods,
	}
}

// Unary returns a unary server interceptor for authentication
func (a *AuthInterceptor) Unary() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if a.isPublic(info.FullMethod) {
			return handler(ctx, req)
		}

		newCtx, err := a.authenticate(ctx)
		if err != nil {
			return nil, err
		}
		return handler(newCtx, req)
	}
}

// Stream returns a stream server interceptor for authentication
func (a *AuthInterceptor) Stream() grpc.StreamServerInterceptor {
	return func(
		srv interface{},
		stream grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		if a.isPublic(info.FullMethod) {
			return handler(srv, stream)
		}

		newCtx, err := a.authenticate(stream.Context())
		if err != nil {
			return err
		}
		return handler(srv, &wrappedServerStream{
			ServerStream: stream,
			ctx:          newCtx,
		})
	}
}

func (a *AuthInterceptor) isPublic(method string) bool {
	return a.publicMethods[method] || strings.HasPrefix(method, "/grpc.reflection.")
}

// authenticate extracts and validates the JWT token from metadata
func (a *AuthInterceptor) authenticate(ctx context.Context) (context.Context, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing metadata")
	}

	authHeaders := md.Get("authorization")
	if len(authHeaders) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing authorization header")
	}

	ctx, err := a.AuthenticateHeader(ctx, authHeaders[0])
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}
	return ctx, nil
}

// AuthenticateHeader validates an Authorization header value and returns ctx
// carrying the caller's identity. The HTTP gateway shares it.
func (a *AuthInterceptor) AuthenticateHeader(ctx context.Context, header string) (context.Context, error) {
	token, err := auth.ExtractTokenFromHeader(header)
	if err != nil {
		return nil, err
	}
	claims, err := a.tokenManager.ValidateAccessToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, auth.ErrExpiredToken
		}
		return nil, auth.ErrInvalidToken
	}
	return WithUser(ctx, claims), nil
}
