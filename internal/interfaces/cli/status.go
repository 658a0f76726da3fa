package cli

import (
	"github.com/spf13/cobra"

	"github.com/opengov-in/rti-sahayak/pkg/client"
)

var (
	listOpenOnly bool
	listLimit    int
)

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <ref-number>",
		Short: "Show one request by reference number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			req, err := cliCtx.Client.Requests().Get(ctx, args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, cliCtx, req)
		},
	}
}

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			reqs, err := cliCtx.Client.Requests().List(ctx, client.ListOptions{
				OpenOnly: listOpenOnly,
				Limit:    listLimit,
			})
			if err != nil {
				return err
			}
			return printResult(cmd, cliCtx, reqs)
		},
	}

	cmd.Flags().BoolVar(&listOpenOnly, "open", false, "only requests awaiting a response")
	cmd.Flags().IntVar(&listLimit, "limit", 50, "maximum number of requests")

	return cmd
}
