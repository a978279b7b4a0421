// cmd/client/board.go
package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc/status"

	boardv1 "github.com/gurkanbulca/taskboard/api/board/v1"
	"github.com/gurkanbulca/taskboard/internal/board"
	"github.com/gurkanbulca/taskboard/internal/client"
)

func boardCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "board [project-id]",
		Short: "Show a project's board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, done, err := flags.dial()
			if err != nil {
				return err
			}
			defer done()

			project, b, users, err := client.NewRemote(api).LoadBoard(cmd.Context(), args[0])
			if err != nil {
				return rpcError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), client.RenderBoard(project, b, users, client.DefaultStyles()))
			return nil
		},
	}
}

func moveCmd(flags *globalFlags) *cobra.Command {
	var (
		projectID string
		to        string
		over      string
		rollback  bool
		timeout   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "move [task-id]",
		Short: "Drag a task onto another task or to the end of a column",
		Long: `Replays a drag and drop of one card.

With --over the card takes the place of that task, in whichever column it
is. Otherwise it is dropped on the column given by --to and lands at its end.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var dest board.Status
			if over == "" {
				s, err := board.ParseStatus(to)
				if err != nil {
					return err
				}
				dest = s
			}

			api, done, err := flags.dial()
			if err != nil {
				return err
			}
			defer done()

			remote := client.NewRemote(api)
			project, b, users, err := remote.LoadBoard(cmd.Context(), projectID)
			if err != nil {
				return rpcError(err)
			}

			styles := client.DefaultStyles()
			syncer := board.NewSynchronizer(remote, client.NewConsoleNotifier(cmd.OutOrStdout()), board.WithTimeout(timeout))
			var opts []board.ControllerOption
			if rollback {
				opts = append(opts, board.WithRollbackOnFailure())
			}
			ctl := board.NewController(projectID, b, users, syncer, opts...)
			defer ctl.Close()

			result, err := client.Move(ctl, args[0], dest, over)
			if err != nil {
				return err
			}
			if result != board.DropReordered {
				return fmt.Errorf("drop %s", result)
			}
			ctl.Wait()

			fmt.Fprintln(cmd.OutOrStdout(), client.RenderBoard(project, ctl.Board(), ctl.Users(), styles))
			return nil
		},
	}
	cmd.Flags().StringVarP(&projectID, "project", "p", "", "Project ID")
	cmd.Flags().StringVar(&to, "to", "", "Destination column: todo, in_progress or done")
	cmd.Flags().StringVar(&over, "over", "", "Drop onto this task and take its place")
	cmd.Flags().BoolVar(&rollback, "rollback", false, "Restore the local board when saving fails")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Timeout for saving the new order")
	_ = cmd.MarkFlagRequired("project")
	cmd.MarkFlagsOneRequired("to", "over")
	cmd.MarkFlagsMutuallyExclusive("to", "over")
	return cmd
}

func watchCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [project-id]",
		Short: "Re-render a board whenever it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, done, err := flags.dial()
			if err != nil {
				return err
			}
			defer done()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			remote := client.NewRemote(api)
			styles := client.DefaultStyles()

			render := func() error {
				project, b, users, err := remote.LoadBoard(ctx, args[0])
				if err != nil {
					return rpcError(err)
				}
				fmt.Fprintln(out, client.RenderBoard(project, b, users, styles))
				return nil
			}
			if err := render(); err != nil {
				return err
			}

			stream, err := api.WatchBoard(ctx, &boardv1.WatchBoardRequest{ProjectID: args[0]})
			if err != nil {
				return rpcError(err)
			}
			for {
				ev, err := stream.Recv()
				if errors.Is(err, io.EOF) {
					return nil
				}
				if err != nil {
					return rpcError(err)
				}
				fmt.Fprintln(out, styles.Muted.Render(fmt.Sprintf("%s %s", ev.At.Local().Format(time.TimeOnly), ev.Type)))
				if err := render(); err != nil {
					return err
				}
			}
		},
	}
}

// rpcError strips the gRPC status prefix from server errors
func rpcError(err error) error {
	if s, ok := status.FromError(err); ok {
		return fmt.Errorf("%s: %s", s.Code(), s.Message())
	}
	return err
}
