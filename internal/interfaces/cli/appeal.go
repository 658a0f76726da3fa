package cli

import (
	"github.com/spf13/cobra"
)

// NewAppealCmd creates the appeal command showing the escalation view of a
// request: deadline standing, reminder state, and any filed first appeal.
func NewAppealCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "appeal <ref-number>",
		Short: "Show deadline standing and first-appeal status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			status, err := cliCtx.Client.Requests().Appeal(ctx, args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, cliCtx, status)
		},
	}
}
