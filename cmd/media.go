package cmd

import (
	"fmt"
	"time"

	"github.com/loreycode/cms-api/internal/db"
	"github.com/loreycode/cms-api/internal/server"
	"github.com/spf13/cobra"
)

var pruneOlderThan time.Duration

var mediaCmd = &cobra.Command{
	Use:   "media",
	Short: "Media library maintenance",
}

var mediaPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete stored files that have no media record",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := db.Open(cmd.Context(), appConfig)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer conn.Close()

		media, err := server.NewMediaService(cmd.Context(), appConfig, conn, nil)
		if err != nil {
			return err
		}

		grace := pruneOlderThan
		if grace < 0 {
			grace = appConfig.Media.PruneGrace
		}
		pruned, err := media.PruneOrphans(cmd.Context(), grace)
		if err != nil {
			return err
		}
		for _, key := range pruned {
			fmt.Fprintln(cmd.OutOrStdout(), key)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "pruned %d file(s)\n", len(pruned))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mediaCmd)
	mediaCmd.AddCommand(mediaPruneCmd)
	mediaPruneCmd.Flags().DurationVar(&pruneOlderThan, "older-than", -1, "minimum age of an orphan (defaults to MEDIA_PRUNE_GRACE)")
}
