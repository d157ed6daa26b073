package cli

import (
	"github.com/rcliao/babylog/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "imports",
		Short: "List stored imports",
		Long:  "List the current import of every kind, or every version with --history.",
		Run:   runImports,
	}

	cmd.Flags().StringP("kind", "k", "", "Filter by kind")
	cmd.Flags().Bool("history", false, "Include superseded versions")
	cmd.Flags().IntP("limit", "l", 0, "Max results (0 for all)")

	RootCmd.AddCommand(cmd)
}

func runImports(cmd *cobra.Command, args []string) {
	kind, _ := cmd.Flags().GetString("kind")
	history, _ := cmd.Flags().GetBool("history")
	limit, _ := cmd.Flags().GetInt("limit")

	kind = normalizeKind(kind)

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	imports, err := s.List(cmd.Context(), store.ListParams{
		Kind:    kind,
		History: history,
		Limit:   limit,
	})
	if err != nil {
		exitErr("list imports", err)
	}
	printJSON(cmd.OutOrStdout(), imports)
}
