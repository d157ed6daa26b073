package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rcliao/babylog/internal/dataset"
	"github.com/rcliao/babylog/internal/report"
	"github.com/rcliao/babylog/internal/timeline"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "chart <name>",
		Short: "Render a chart table",
		Long: "Render a chart table from the current imports. Charts: " +
			strings.Join(report.ChartNames, ", ") + ".\n" +
			"--start, --end and --sort apply to the timeline, which otherwise covers\n" +
			"the last tracking.timeline_days days of data.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: report.ChartNames,
		Run:       runChart,
	}

	cmd.Flags().StringP("out-format", "o", "json", "Output format: json or csv")
	cmd.Flags().String("start", "", "Timeline start (YYYY-MM-DD or YYYY-MM-DD HH:MM)")
	cmd.Flags().String("end", "", "Timeline end (YYYY-MM-DD or YYYY-MM-DD HH:MM)")
	cmd.Flags().Bool("sort", false, "Order timeline rows by start instead of by category")

	RootCmd.AddCommand(cmd)
}

func runChart(cmd *cobra.Command, args []string) {
	outFormat, _ := cmd.Flags().GetString("out-format")
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")
	sortByStart, _ := cmd.Flags().GetBool("sort")
	name := strings.ToLower(args[0])

	if !slices.Contains(report.ChartNames, name) {
		exitErr("chart", fmt.Errorf("%w %q (want one of %s)", report.ErrUnknownChart, name, strings.Join(report.ChartNames, ", ")))
	}
	window, err := timeline.ParseWindow(start, end, sortByStart)
	if err != nil {
		exitErr("chart", err)
	}

	rep := loadReport(cmd)

	var tbl *dataset.Table
	if name == report.ChartTimeline {
		if window.Start == nil && window.End == nil {
			def := rep.DefaultWindow()
			window.Start, window.End = def.Start, def.End
		}
		tbl = rep.Timeline(window)
	} else if tbl, err = rep.Chart(name); err != nil {
		exitErr("chart", err)
	}

	if err := writeTable(cmd.OutOrStdout(), tbl, outFormat); err != nil {
		exitErr("write chart", err)
	}
}
