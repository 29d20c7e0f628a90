package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/loreycode/cms-api/internal/mq"
	"github.com/spf13/cobra"
)

var watchChannel string

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect content change events",
}

var eventsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print events from a channel as JSON lines",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		queue, err := mq.Open(ctx, appConfig)
		if err != nil {
			return err
		}
		if queue == nil {
			return errors.New("no message queue configured; set MQ_BACKEND")
		}
		defer queue.Close()

		channel := watchChannel
		if channel == "" {
			channel = appConfig.MQ.ContentChannel
		}
		out := cmd.OutOrStdout()
		err = queue.Subscribe(ctx, channel, func(_ context.Context, msg mq.Message) error {
			_, err := fmt.Fprintln(out, string(msg.Data))
			return err
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsWatchCmd)
	eventsWatchCmd.Flags().StringVar(&watchChannel, "channel", "", "channel to watch (defaults to MQ_CONTENT_CHANNEL)")
}
