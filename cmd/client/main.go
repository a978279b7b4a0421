// cmd/client/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	boardv1 "github.com/gurkanbulca/taskboard/api/board/v1"
)

var Version = "dev"

type globalFlags struct {
	addr  string
	token string
}

func main() {
	_ = godotenv.Load()

	flags := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:           "taskboard",
		Short:         "Taskboard - command line client for project boards",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&flags.addr, "addr", envOr("TASKBOARD_ADDR", "localhost:50051"), "gRPC server address")
	rootCmd.PersistentFlags().StringVar(&flags.token, "token", os.Getenv("TASKBOARD_TOKEN"), "Bearer token (or TASKBOARD_TOKEN)")

	rootCmd.AddCommand(tokenCmd())
	rootCmd.AddCommand(projectCmd(flags))
	rootCmd.AddCommand(taskCmd(flags))
	rootCmd.AddCommand(boardCmd(flags))
	rootCmd.AddCommand(moveCmd(flags))
	rootCmd.AddCommand(watchCmd(flags))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// dial connects to the server and attaches the bearer token to every call
func (f *globalFlags) dial() (*boardv1.BoardServiceClient, func(), error) {
	if f.token == "" {
		return nil, nil, fmt.Errorf("no token: pass --token or set TASKBOARD_TOKEN (see 'taskboard token')")
	}
	authorize := func(ctx context.Context) context.Context {
		return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+f.token)
	}

	conn, err := grpc.NewClient(f.addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithChainUnaryInterceptor(func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
			return invoker(authorize(ctx), method, req, reply, cc, opts...)
		}),
		grpc.WithChainStreamInterceptor(func(ctx context.Context, desc *grpc.StreamDesc, cc *grpc.ClientConn, method string, streamer grpc.Streamer, opts ...grpc.CallOption) (grpc.ClientStream, error) {
			return streamer(authorize(ctx), desc, cc, method, opts...)
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to %s: %w", f.addr, err)
	}
	return boardv1.NewBoardServiceClient(conn), func() { _ = conn.Close() }, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
