package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/opengov-in/rti-sahayak/pkg/client"
)

// NewTrackCmd creates the track command group covering the lifecycle
// transitions of an already drafted request.
func NewTrackCmd() *cobra.Command {
	trackCmd := &cobra.Command{
		Use:   "track",
		Short: "Advance a request through its lifecycle",
		Long:  "File a drafted request with the government gateway, then record the\nacknowledgement, the PIO response, and the final closure as they arrive.",
	}

	trackCmd.AddCommand(
		newSignalCmd("file", "File a drafted request through the government gateway",
			func(rc *client.RequestsClient, ctx context.Context, ref string) (*client.Request, error) {
				return rc.File(ctx, ref)
			}),
		newSignalCmd("ack", "Record the PIO acknowledgement",
			func(rc *client.RequestsClient, ctx context.Context, ref string) (*client.Request, error) {
				return rc.Acknowledge(ctx, ref)
			}),
		newSignalCmd("response", "Record that the PIO responded",
			func(rc *client.RequestsClient, ctx context.Context, ref string) (*client.Request, error) {
				return rc.RecordResponse(ctx, ref)
			}),
		newSignalCmd("close", "Mark the request resolved",
			func(rc *client.RequestsClient, ctx context.Context, ref string) (*client.Request, error) {
				return rc.Close(ctx, ref)
			}),
	)

	return trackCmd
}

func newSignalCmd(use, short string, call func(*client.RequestsClient, context.Context, string) (*client.Request, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <ref-number>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			req, err := call(cliCtx.Client.Requests(), ctx, args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, cliCtx, req)
		},
	}
}
