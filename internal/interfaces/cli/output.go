package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/opengov-in/rti-sahayak/pkg/client"
)

// printResult renders data on stdout in the configured output format. Text
// rendering is type-aware; anything unrecognized falls back to JSON.
func printResult(cmd *cobra.Command, cliCtx *CLIContext, data interface{}) error {
	if strings.EqualFold(cliCtx.OutputFormat, "json") {
		return printJSON(cmd, data)
	}

	switch v := data.(type) {
	case *client.Request:
		fmt.Fprint(cmd.OutOrStdout(), formatRequest(v))
	case []client.Request:
		fmt.Fprint(cmd.OutOrStdout(), formatRequestList(v))
	case *client.AppealStatus:
		fmt.Fprint(cmd.OutOrStdout(), formatAppealStatus(v))
	case *client.ClassifyResult:
		fmt.Fprint(cmd.OutOrStdout(), formatClassifyResult(v))
	case *client.SweepResult:
		fmt.Fprint(cmd.OutOrStdout(), formatSweepResult(v))
	default:
		return printJSON(cmd, data)
	}
	return nil
}

func printJSON(cmd *cobra.Command, data interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func formatRequest(req *client.Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Reference:  %s\n", req.RefNumber)
	fmt.Fprintf(&b, "Status:     %s\n", req.Status)
	fmt.Fprintf(&b, "Applicant:  %s\n", req.Applicant.Name)
	fmt.Fprintf(&b, "Category:   %s (confidence %.2f)\n", req.Classification.CategoryID, req.Classification.Confidence)
	fmt.Fprintf(&b, "Office:     %s\n", req.OfficeID)
	fmt.Fprintf(&b, "Fee:        Rs. %d\n", req.Fee)
	if req.Subject != "" {
		fmt.Fprintf(&b, "Subject:    %s\n", req.Subject)
	}
	if req.GatewayAckID != "" {
		fmt.Fprintf(&b, "Gateway ack: %s\n", req.GatewayAckID)
	}
	if req.FiledAt != nil {
		fmt.Fprintf(&b, "Filed:      %s\n", req.FiledAt.Format("2006-01-02"))
	}
	if req.ResponseDeadline != nil {
		fmt.Fprintf(&b, "Deadline:   %s (%s)\n", req.ResponseDeadline.Format("2006-01-02"), deadlineNote(*req.ResponseDeadline))
	}
	if len(req.Questions) > 0 {
		fmt.Fprintf(&b, "Questions:\n")
		for i, q := range req.Questions {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, q)
		}
	}

	return b.String()
}

func formatRequestList(reqs []client.Request) string {
	if len(reqs) == 0 {
		return "No requests found.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-20s %-16s %-12s %s\n", "REFERENCE", "STATUS", "OFFICE", "DEADLINE")
	for _, req := range reqs {
		deadline := "-"
		if req.ResponseDeadline != nil {
			deadline = req.ResponseDeadline.Format("2006-01-02")
		}
		fmt.Fprintf(&b, "%-20s %-16s %-12s %s\n", req.RefNumber, req.Status, req.OfficeID, deadline)
	}
	fmt.Fprintf(&b, "\n%d request(s)\n", len(reqs))
	return b.String()
}

func formatAppealStatus(status *client.AppealStatus) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Reference:  %s\n", status.RefNumber)
	fmt.Fprintf(&b, "Status:     %s\n", status.Status)
	if status.ResponseDeadline != nil {
		fmt.Fprintf(&b, "Deadline:   %s\n", status.ResponseDeadline.Format("2006-01-02"))
	}
	if status.DaysRemaining >= 0 {
		fmt.Fprintf(&b, "Days left:  %d\n", status.DaysRemaining)
	} else {
		fmt.Fprintf(&b, "Overdue by: %d day(s)\n", -status.DaysRemaining)
	}
	fmt.Fprintf(&b, "Reminder:   %s\n", yesNo(status.ReminderSent))
	if status.Appeal != nil {
		fmt.Fprintf(&b, "Appeal:     filed %s (ground: %s)\n",
			status.Appeal.FiledAt.Format("2006-01-02"), status.Appeal.Ground)
	} else {
		fmt.Fprintf(&b, "Appeal:     none\n")
	}

	return b.String()
}

func formatClassifyResult(result *client.ClassifyResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Category:   %s (confidence %.2f)\n", result.Classification.CategoryID, result.Classification.Confidence)
	if result.Classification.Slots.Region != "" {
		fmt.Fprintf(&b, "Region:     %s\n", result.Classification.Slots.Region)
	}
	if result.Classification.Slots.TimeWindow != "" {
		fmt.Fprintf(&b, "Period:     %s\n", result.Classification.Slots.TimeWindow)
	}
	if result.OfficeID != "" {
		fmt.Fprintf(&b, "Office:     %s", result.OfficeID)
		if result.OfficeName != "" {
			fmt.Fprintf(&b, " (%s)", result.OfficeName)
		}
		b.WriteString("\n")
	} else {
		fmt.Fprintf(&b, "Office:     unresolved\n")
	}

	return b.String()
}

func formatSweepResult(result *client.SweepResult) string {
	return fmt.Sprintf("Sweep complete: scanned %d, reminders %d, appeals %d, failures %d\n",
		result.Scanned, result.Reminders, result.Appeals, result.Failures)
}

func deadlineNote(deadline time.Time) string {
	days := int(time.Until(deadline).Hours() / 24)
	if days < 0 {
		return fmt.Sprintf("overdue by %d day(s)", -days)
	}
	return fmt.Sprintf("%d day(s) left", days)
}

func yesNo(v bool) string {
	if v {
		return "sent"
	}
	return "not sent"
}
