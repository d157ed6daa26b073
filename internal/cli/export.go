package cli

import (
	"github.com/rcliao/babylog/internal/model"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored records as JSON",
		Long:  "Export the raw records of the current import of every kind. Filter with --kind.",
		Run:   runExport,
	}

	cmd.Flags().StringP("kind", "k", "", "Filter by kind")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	kind, _ := cmd.Flags().GetString("kind")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	records, err := s.ExportAll(cmd.Context(), normalizeKind(kind))
	if err != nil {
		exitErr("export", err)
	}
	if records == nil {
		records = []model.StoredRecord{}
	}
	printJSON(cmd.OutOrStdout(), records)
}
