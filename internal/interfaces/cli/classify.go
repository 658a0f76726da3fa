package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewClassifyCmd creates the classify command, a dry-run preview of the
// routing decision without drafting anything.
func NewClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <query text>",
		Short: "Preview the category and office a grievance would route to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			queryText := strings.TrimSpace(strings.Join(args, " "))
			if queryText == "" {
				return fmt.Errorf("grievance text is required")
			}

			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			result, err := cliCtx.Client.Ops().Classify(ctx, queryText)
			if err != nil {
				return err
			}
			return printResult(cmd, cliCtx, result)
		},
	}
}
