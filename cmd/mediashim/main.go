// Command mediashim captures camera snapshots and renders test scenes with the
// mediashim packages, writing the pixels as PNG files.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfg = viper.New()

var rootCmd = &cobra.Command{
	Use:   "mediashim",
	Short: "Capture camera snapshots and render scenes to PNG",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return cfg.BindPFlags(cmd.Flags())
	},
	SilenceUsage: true,
}

func init() {
	cfg.SetEnvPrefix("MEDIASHIM")
	cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	cfg.AutomaticEnv()

	rootCmd.PersistentFlags().Int("width", 640, "surface width in pixels")
	rootCmd.PersistentFlags().Int("height", 480, "surface height in pixels")
	rootCmd.PersistentFlags().StringP("out", "o", "out.png", "PNG file to write")

	rootCmd.AddCommand(snapshotCmd, renderCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
