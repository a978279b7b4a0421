// internal/httpapi/handlers.go
package httpapi

import (
	"context"
	"io"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	boardv1 "github.com/gurkanbulca/taskboard/api/board/v1"
)

const maxBodySize = 1 << 20

// Authenticator resolves an Authorization header into a context carrying
// the caller
type Authenticator interface {
	AuthenticateHeader(ctx context.Context, header string) (context.Context, error)
}

// Validator checks request messages the same way the gRPC interceptor does
type Validator interface {
	Validate(req interface{}) error
}

// HealthChecker reports whether the backing stores are reachable
type HealthChecker func(ctx context.Context) error

type errorResponse struct {
	Error string `json:"error"`
}

type reorderBody struct {
	Tasks []boardv1.TaskOrder `json:"tasks"`
}

// Register wires up all gateway routes on the provided Echo instance.
func Register(e *echo.Echo, svc boardv1.BoardServiceServer, auth Authenticator, v Validator, health HealthChecker) {
	e.GET("/healthz", healthz(health))

	g := e.Group("/api", authenticate(auth))
	g.GET("/projects/:id/board", getBoard(svc, v))
	g.POST("/projects/:id/tasks", createTask(svc, v))
	g.POST("/projects/:id/tasks/reorder", reorderTasks(svc, v))
}

func healthz(check HealthChecker) echo.HandlerFunc {
	return func(c echo.Context) error {
		if check != nil {
			if err := check(c.Request().Context()); err != nil {
				log.WithError(err).Warn("health check failed")
				return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "unavailable"})
			}
		}
		return c.NoContent(http.StatusOK)
	}
}

func authenticate(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, err := auth.AuthenticateHeader(c.Request().Context(), c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
			}
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func getBoard(svc boardv1.BoardServiceServer, v Validator) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := &boardv1.GetBoardRequest{ProjectID: c.Param("id")}
		if err := v.Validate(req); err != nil {
			return writeError(c, err)
		}
		resp, err := svc.GetBoard(c.Request().Context(), req)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, resp)
	}
}

func createTask(svc boardv1.BoardServiceServer, v Validator) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req boardv1.CreateTaskRequest
		if err := decode(c, &req); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
		}
		req.ProjectID = c.Param("id")
		if err := v.Validate(&req); err != nil {
			return writeError(c, err)
		}
		resp, err := svc.CreateTask(c.Request().Context(), &req)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusCreated, resp)
	}
}

func reorderTasks(svc boardv1.BoardServiceServer, v Validator) echo.HandlerFunc {
	return func(c echo.Context) error {
		var body reorderBody
		if err := decode(c, &body); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
		}
		req := &boardv1.ReorderTasksRequest{ProjectID: c.Param("id"), Tasks: body.Tasks}
		if err := v.Validate(req); err != nil {
			return writeError(c, err)
		}
		resp, err := svc.ReorderTasks(c.Request().Context(), req)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, resp)
	}
}

func decode(c echo.Context, v interface{}) error {
	dec := sonic.ConfigStd.NewDecoder(io.LimitReader(c.Request().Body, maxBodySize))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeError renders a gRPC status as an HTTP error
func writeError(c echo.Context, err error) error {
	st := status.Convert(err)
	code := HTTPStatus(st.Code())
	if code >= http.StatusInternalServerError {
		log.WithError(err).WithField("path", c.Path()).Error("request failed")
	}
	return c.JSON(code, errorResponse{Error: st.Message()})
}

// HTTPStatus maps a gRPC code onto the closest HTTP status
func HTTPStatus(code codes.Code) int {
	switch code {
	case codes.OK:
		return http.StatusOK
	case codes.InvalidArgument, codes.OutOfRange, codes.FailedPrecondition:
		return http.StatusBadRequest
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists, codes.Aborted:
		return http.StatusConflict
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.Unimplemented:
		return http.StatusNotImplemented
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	case codes.Canceled:
		return 499
	default:
		return http.StatusInternalServerError
	}
}
