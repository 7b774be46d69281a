package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/minio/minio-go/v7/pkg/notification"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var processEventCmd = &cobra.Command{
	Use:   "process-event [file]",
	Short: "Feed a bucket notification through the file pipeline",
	Long: `process-event reads a bucket notification (the JSON body a storage webhook
receives) from a file, or from stdin when no file is given, and processes its
object-created records. Use it to replay notifications that were lost.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		info, err := readNotification(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}

		c, err := wire(cmd.Context(), prometheus.NewRegistry())
		if err != nil {
			return err
		}
		defer c.Close()

		res := c.processor.ProcessEvent(cmd.Context(), info)
		fmt.Fprintf(cmd.OutOrStdout(), "processed=%d failed=%d\n", res.Processed, res.Failed)
		if res.Failed > 0 {
			return fmt.Errorf("%d record(s) failed", res.Failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(processEventCmd)
}

func readNotification(stdin io.Reader, args []string) (notification.Info, error) {
	r := stdin
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return notification.Info{}, fmt.Errorf("open %s: %w", args[0], err)
		}
		defer f.Close()
		r = f
	}

	var info notification.Info
	if err := json.NewDecoder(r).Decode(&info); err != nil {
		return notification.Info{}, fmt.Errorf("decode notification: %w", err)
	}
	return info, nil
}
