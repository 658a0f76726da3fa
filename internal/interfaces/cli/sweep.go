package cli

import (
	"github.com/spf13/cobra"

	"github.com/opengov-in/rti-sahayak/internal/infrastructure/monitoring/logging"
)

// NewSweepCmd creates the sweep command triggering one on-demand escalation
// sweep on the server.
func NewSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run one escalation sweep now",
		Long:  "Scan filed requests against the statutory response window: send\nreminders ahead of the deadline and file first appeals for elapsed ones.\nThe sweep is idempotent, so running it again is safe.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			result, err := cliCtx.Client.Ops().RunSweep(ctx)
			if err != nil {
				return err
			}

			if result.Failures > 0 {
				cliCtx.Logger.Warn("sweep finished with failures",
					logging.Int("failures", result.Failures))
			}

			return printResult(cmd, cliCtx, result)
		},
	}
}
