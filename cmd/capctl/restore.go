package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rawbytedev/capsule/stream"
)

var restoreCmd = &cobra.Command{
	Use:   "restore <snapshot-file>",
	Short: "Decode a stream snapshot and report its contents",
	Args:  cobra.ExactArgs(1),
	RunE:  runRestore,
}

func init() {
	restoreCmd.Flags().String("out", "", "write the restored raw stream bytes to this file")
}

func runRestore(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	s, err := stream.Restore(data)
	if err != nil {
		logger.Error("snapshot rejected", zap.Error(err))
		return err
	}

	fmt.Printf("width:   %s\n", s.Width())
	fmt.Printf("entries: %d bytes\n", s.Remaining())
	fmt.Printf("frame:   %d bytes\n", len(data))

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		if err := os.WriteFile(out, s.Bytes(), 0o644); err != nil {
			return err
		}
		logger.Info("raw stream written", zap.String("path", out))
	}
	return nil
}
