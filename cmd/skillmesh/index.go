package skillmesh

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillmesh/skillmesh/pkg/recommend"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Reindex the skill corpus",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, client, err := loadAll()
		if err != nil {
			return err
		}
		defer client.Close()

		force, _ := cmd.Flags().GetBool("force")
		stats, err := client.Reindex(cmd.Context(), force)
		if err != nil {
			return err
		}

		log.Info("skills indexed",
			"total_skills", stats.TotalSkills,
			"graph_nodes", stats.GraphNodes,
			"graph_edges", stats.GraphEdges,
			"forced", force)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, client, err := loadAll()
		if err != nil {
			return err
		}
		defer client.Close()

		if _, err := client.Reindex(cmd.Context(), false); err != nil {
			return err
		}
		stats, err := client.Stats()
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend skills for a project or a seed skill",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, client, err := loadAll()
		if err != nil {
			return err
		}
		defer client.Close()

		if _, err := client.Reindex(cmd.Context(), false); err != nil {
			return err
		}

		projectPath, _ := cmd.Flags().GetString("project")
		skillID, _ := cmd.Flags().GetString("skill")
		limit, _ := cmd.Flags().GetInt("limit")

		result, err := client.Recommend(cmd.Context(), recommend.Request{
			ProjectPath: projectPath,
			SkillID:     skillID,
			Limit:       limit,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	indexCmd.Flags().Bool("force", false, "re-embed and re-graph every skill")
	recommendCmd.Flags().String("project", "", "project directory to detect a toolchain from")
	recommendCmd.Flags().String("skill", "", "seed skill ID")
	recommendCmd.Flags().Int("limit", 10, "maximum number of recommendations")
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(recommendCmd)
}
