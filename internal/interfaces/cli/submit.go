package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opengov-in/rti-sahayak/internal/infrastructure/monitoring/logging"
	"github.com/opengov-in/rti-sahayak/pkg/client"
)

var (
	submitName     string
	submitAddress  string
	submitEmail    string
	submitPhone    string
	submitBPL      bool
	submitBPLCard  string
	submitLanguage string
	submitFile     string
)

// NewSubmitCmd creates the submit command. The grievance text comes either
// from positional arguments or from a file.
func NewSubmitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit [query text]",
		Short: "Draft a new RTI application from a grievance",
		Long:  "Classify a citizen grievance, route it to the responsible office,\nresolve the fee, and draft the application. The request stays in the\ndrafted state until filed with 'rtictl track file'.",
		Example: `  rtictl submit --name "Asha Kulkarni" --address "Pune" "no water supply in my area for 2 weeks"
  rtictl submit --name "Ravi" --address "Delhi" --bpl --bpl-card BPL-123 --query-file grievance.txt`,
		RunE: runSubmit,
	}

	cmd.Flags().StringVar(&submitName, "name", "", "applicant name (required)")
	cmd.Flags().StringVar(&submitAddress, "address", "", "applicant postal address (required)")
	cmd.Flags().StringVar(&submitEmail, "email", "", "applicant email")
	cmd.Flags().StringVar(&submitPhone, "phone", "", "applicant phone")
	cmd.Flags().BoolVar(&submitBPL, "bpl", false, "applicant holds a below-poverty-line card")
	cmd.Flags().StringVar(&submitBPLCard, "bpl-card", "", "BPL card number (required for the fee exemption)")
	cmd.Flags().StringVar(&submitLanguage, "lang", "en", "query language code (en, hi)")
	cmd.Flags().StringVar(&submitFile, "query-file", "", "read the grievance text from a file")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("address")

	return cmd
}

func runSubmit(cmd *cobra.Command, args []string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	queryText, err := resolveQueryText(args, submitFile)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd, cliCtx)
	defer cancel()

	req, err := cliCtx.Client.Requests().Submit(ctx, client.SubmitInput{
		Applicant: client.Applicant{
			Name:          submitName,
			Address:       submitAddress,
			Email:         submitEmail,
			Phone:         submitPhone,
			BPL:           submitBPL,
			BPLCardNumber: submitBPLCard,
		},
		QueryText: queryText,
		Language:  submitLanguage,
	})
	if err != nil {
		return err
	}

	cliCtx.Logger.Debug("request drafted",
		logging.String("ref_number", req.RefNumber),
		logging.String("office_id", req.OfficeID))

	return printResult(cmd, cliCtx, req)
}

// resolveQueryText joins positional args or reads the query file; exactly
// one source must be present.
func resolveQueryText(args []string, file string) (string, error) {
	fromArgs := strings.TrimSpace(strings.Join(args, " "))

	if file != "" {
		if fromArgs != "" {
			return "", fmt.Errorf("provide the grievance as arguments or via --query-file, not both")
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read query file: %w", err)
		}
		text := strings.TrimSpace(string(data))
		if text == "" {
			return "", fmt.Errorf("query file %s is empty", file)
		}
		return text, nil
	}

	if fromArgs == "" {
		return "", fmt.Errorf("grievance text is required (as arguments or via --query-file)")
	}
	return fromArgs, nil
}
