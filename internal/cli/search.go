package cli

import (
	"strings"

	"github.com/rcliao/babylog/internal/model"
	"github.com/rcliao/babylog/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Search stored records",
		Long:  "Case-insensitive substring search over the fields of current records.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSearch,
	}

	cmd.Flags().StringP("kind", "k", "", "Filter by kind")
	cmd.Flags().IntP("limit", "l", 20, "Max results")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	kind, _ := cmd.Flags().GetString("kind")
	limit, _ := cmd.Flags().GetInt("limit")
	query := strings.Join(args, " ")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	results, err := s.Search(cmd.Context(), store.SearchParams{
		Query: query,
		Kind:  normalizeKind(kind),
		Limit: limit,
	})
	if err != nil {
		exitErr("search", err)
	}
	if results == nil {
		results = []model.StoredRecord{}
	}
	printJSON(cmd.OutOrStdout(), results)
}
