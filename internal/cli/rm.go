package cli

import (
	"errors"
	"fmt"

	"github.com/rcliao/babylog/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rm [import-id]",
		Short: "Delete an import",
		Long: "Delete one import by ID, or the current import of --kind. A soft delete\n" +
			"makes the previous version of that kind current again.",
		Args: cobra.MaximumNArgs(1),
		Run:  runRm,
	}

	cmd.Flags().StringP("kind", "k", "", "Delete the current import of this kind")
	cmd.Flags().Bool("all-versions", false, "With --kind, delete every version")
	cmd.Flags().Bool("hard", false, "Permanent delete (irreversible)")

	RootCmd.AddCommand(cmd)
}

func runRm(cmd *cobra.Command, args []string) {
	kind, _ := cmd.Flags().GetString("kind")
	allVersions, _ := cmd.Flags().GetBool("all-versions")
	hard, _ := cmd.Flags().GetBool("hard")

	var id string
	if len(args) == 1 {
		id = args[0]
	}
	if id == "" && kind == "" {
		exitErr("rm", errors.New("an import ID or --kind is required"))
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	err = s.Rm(cmd.Context(), store.RmParams{
		ID:          id,
		Kind:        normalizeKind(kind),
		AllVersions: allVersions,
		Hard:        hard,
	})
	if err != nil {
		exitErr("rm", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"id":%q,"kind":%q,"hard":%t}`+"\n", id, kind, hard)
}
