// internal/middleware/context_extractor.go
package middleware

import (
	"context"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"

	"github.com/gurkanbulca/taskboard/pkg/auth"
)

// ContextKeys for storing request metadata
type ContextKey string

const (
	ContextKeyIPAddress   ContextKey = "ip_address"
	ContextKeyUserAgent   ContextKey = "user_agent"
	ContextKeyUserID      ContextKey = "user_id"
	ContextKeyUserEmail   ContextKey = "user_email"
	ContextKeyDisplayName ContextKey = "display_name"
)

// MetadataExtractorInterceptor extracts client metadata and adds it to context
type MetadataExtractorInterceptor struct{}

func NewMetadataExtractorInterceptor() *MetadataExtractorInterceptor {
	return &MetadataExtractorInterceptor{}
}

// Unary returns a unary server interceptor for metadata extraction
func (m *MetadataExtractorInterceptor) Unary() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		return handler(m.enrichContext(ctx), req)
	}
}

// Stream returns a stream server interceptor for metadata extraction
func (m *MetadataExtractorInterceptor) Stream() grpc.StreamServerInterceptor {
	return func(
		srv interface{},
		stream grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		return handler(srv, &wrappedServerStream{
			ServerStream: stream,
			ctx:          m.enrichContext(stream.Context()),
		})
	}
}

func (m *MetadataExtractorInterceptor) enrichContext(ctx context.Context) context.Context {
	if ip := extractIPAddress(ctx); ip != "" {
		ctx = context.WithValue(ctx, ContextKeyIPAddress, ip)
	}
	if ua := extractUserAgent(ctx); ua != "" {
		ctx = context.WithValue(ctx, ContextKeyUserAgent, ua)
	}
	return ctx
}

func extractIPAddress(ctx context.Context) string {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return ""
	}
	if tcpAddr, ok := p.Addr.(*net.TCPAddr); ok {
		return tcpAddr.IP.String()
	}

	addr := p.Addr.String()
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

func extractUserAgent(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	for _, header := range []string{"user-agent", "grpc-user-agent", "x-user-agent"} {
		if values := md.Get(header); len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

// wrappedServerStream replaces the context of a grpc.ServerStream
type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *wrappedServerStream) Context() context.Context {
	return s.ctx
}

// WithUser stores the authenticated identity in ctx
func WithUser(ctx context.Context, claims *auth.Claims) context.Context {
	ctx = context.WithValue(ctx, ContextKeyUserID, claims.UserID)
	ctx = context.WithValue(ctx, ContextKeyUserEmail, claims.Email)
	ctx = context.WithValue(ctx, ContextKeyDisplayName, claims.DisplayName)
	return ctx
}

func GetIPAddressFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(ContextKeyIPAddress).(string)
	return ip
}

func GetUserAgentFromContext(ctx context.Context) string {
	ua, _ := ctx.Value(ContextKeyUserAgent).(string)
	return ua
}

func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(ContextKeyUserID).(string)
	return userID, ok && userID != ""
}

func GetUserEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(ContextKeyUserEmail).(string)
	return email, ok
}

func GetDisplayNameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(ContextKeyDisplayName).(string)
	return name, ok
}

// ClientInfo is everything the interceptors learned about the caller
type ClientInfo struct {
	IPAddress   string
	UserAgent   string
	UserID      string
	UserEmail   string
	DisplayName string
}

func GetClientInfoFromContext(ctx context.Context) *ClientInfo {
	info := &ClientInfo{
		IPAddress: GetIPAddressFromContext(ctx),
		UserAgent: GetUserAgentFromContext(ctx),
	}
	info.UserID, _ = GetUserIDFromContext(ctx)
	info.UserEmail, _ = GetUserEmailFromContext(ctx)
	info.DisplayName, _ = GetDisplayNameFromContext(ctx)
	return info
}
