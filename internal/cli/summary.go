package cli

import (
	"time"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show age, weight change and record counts",
		Run:   runSummary,
	}

	RootCmd.AddCommand(cmd)
}

func runSummary(cmd *cobra.Command, args []string) {
	rep := loadReport(cmd)

	sum, err := rep.Summary(time.Now())
	if err != nil {
		exitErr("summary", err)
	}
	printJSON(cmd.OutOrStdout(), sum)
}
