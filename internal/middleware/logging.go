// internal/middleware/logging.go
package middleware

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// LoggingInterceptor writes one log line per call
type LoggingInterceptor struct {
	logger *log.Entry
}

func NewLoggingInterceptor(logger *log.Entry) *LoggingInterceptor {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &LoggingInterceptor{logger: logger}
}

func (l *LoggingInterceptor) Unary() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		l.log(ctx, info.FullMethod, start, err)
		return resp, err
	}
}

func (l *LoggingInterceptor) Stream() grpc.StreamServerInterceptor {
	return func(
		srv interface{},
		stream grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		start := time.Now()
		err := handler(srv, stream)
		l.log(stream.Context(), info.FullMethod, start, err)
		return err
	}
}

func (l *LoggingInterceptor) log(ctx context.Context, method string, start time.Time, err error) {
	code := status.Code(err)
	entry := l.logger.WithFields(log.Fields{
		"method":   method,
		"code":     code.String(),
		"duration": time.Since(start),
	})
	if ip := GetIPAddressFromContext(ctx); ip != "" {
		entry = entry.WithField("ip", ip)
	}
	if userID, ok := GetUserIDFromContext(ctx); ok {
		entry = entry.WithField("user_id", userID)
	}

	switch code {
	case codes.OK:
		entry.Info("request completed")
	case codes.Internal, codes.Unknown, codes.DataLoss, codes.Unavailable:
		entry.WithError(err).Error("request failed")
	default:
		entry.WithError(err).Warn("request rejected")
	}
}
