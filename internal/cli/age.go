package cli

import (
	"errors"
	"time"

	"github.com/rcliao/babylog/internal/numeric"
	"github.com/rcliao/babylog/internal/reference"
	"github.com/spf13/cobra"
)

type ageResult struct {
	Birthdate string  `json:"birthdate"`
	At        string  `json:"at"`
	Age       string  `json:"age"`
	AgeDays   int     `json:"age_days"`
	AgeWeeks  float64 `json:"age_weeks"`
}

func init() {
	cmd := &cobra.Command{
		Use:   "age [date]",
		Short: "Show the age at a date (default now)",
		Args:  cobra.MaximumNArgs(1),
		Run:   runAge,
	}

	RootCmd.AddCommand(cmd)
}

func runAge(cmd *cobra.Command, args []string) {
	if cfg.Tracking.Birthdate == "" {
		exitErr("age", errors.New("no birthdate configured (set tracking.birthdate or BABYLOG_TRACKING_BIRTHDATE)"))
	}
	meta, err := reference.NewMetadata(cfg.Tracking.Birthdate, time.Now())
	if err != nil {
		exitErr("age", err)
	}

	at := time.Now()
	if len(args) == 1 {
		if at, err = parseDate(args[0]); err != nil {
			exitErr("age", err)
		}
	}

	printJSON(cmd.OutOrStdout(), ageAt(meta, at))
}

func ageAt(meta reference.Metadata, at time.Time) ageResult {
	days := meta.AgeInDays(at)
	return ageResult{
		Birthdate: meta.Birthdate.Format(time.DateOnly),
		At:        at.Format(time.RFC3339),
		Age:       reference.FormatAge(days),
		AgeDays:   meta.AgeDay(at),
		AgeWeeks:  numeric.Round(days/7, 1),
	}
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{time.DateOnly, cfg.Tracking.DateFormat, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("expected YYYY-MM-DD, " + cfg.Tracking.DateFormat + " or RFC 3339")
}
