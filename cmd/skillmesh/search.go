package skillmesh

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skillmesh/skillmesh/pkg/search"
	"github.com/skillmesh/skillmesh/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the skill index",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, client, err := loadAll()
		if err != nil {
			return err
		}
		defer client.Close()

		if _, err := client.Reindex(cmd.Context(), false); err != nil {
			return err
		}

		limit, _ := cmd.Flags().GetInt("limit")
		preset, _ := cmd.Flags().GetString("preset")
		category, _ := cmd.Flags().GetString("category")
		toolchain, _ := cmd.Flags().GetString("toolchain")
		tags, _ := cmd.Flags().GetStringSlice("tags")

		results, err := client.Search(cmd.Context(), search.Request{
			Query:  strings.Join(args, " "),
			Limit:  limit,
			Preset: types.WeightPreset(preset),
			Filters: types.SearchFilters{
				Toolchain: toolchain,
				Category:  category,
				Tags:      tags,
			},
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	},
}

func init() {
	searchCmd.Flags().Int("limit", 10, "maximum number of results")
	searchCmd.Flags().String("preset", string(types.PresetSemanticFocused), "weight preset (semantic_focused, balanced, graph_focused)")
	searchCmd.Flags().String("category", "", "filter by category")
	searchCmd.Flags().String("toolchain", "", "filter by toolchain")
	searchCmd.Flags().StringSlice("tags", nil, "filter by tags")
	rootCmd.AddCommand(searchCmd)
}
