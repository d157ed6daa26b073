package cli

import (
	"github.com/rcliao/babylog/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "get <kind>",
		Short: "Show the current import of a kind",
		Args:  cobra.ExactArgs(1),
		Run:   runGet,
	}

	cmd.Flags().Bool("history", false, "Return all versions (newest first)")
	cmd.Flags().IntP("version", "v", 0, "Specific version number")

	RootCmd.AddCommand(cmd)
}

func runGet(cmd *cobra.Command, args []string) {
	history, _ := cmd.Flags().GetBool("history")
	version, _ := cmd.Flags().GetInt("version")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	imports, err := s.Get(cmd.Context(), store.GetParams{
		Kind:    normalizeKind(args[0]),
		History: history,
		Version: version,
	})
	if err != nil {
		exitErr("get", err)
	}

	if history || len(imports) > 1 {
		printJSON(cmd.OutOrStdout(), imports)
	} else {
		printJSON(cmd.OutOrStdout(), imports[0])
	}
}
