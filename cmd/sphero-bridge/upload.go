package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spheroedu/bridge/internal/api"
	"github.com/spheroedu/bridge/internal/config"
	"github.com/spheroedu/bridge/pkg/core"
)

var uploadMeta core.UploadMetadata

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload an exported session file to the classroom server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("upload")
		if err != nil {
			return err
		}
		defer a.Close()

		meta := uploadMeta
		if meta.Tag == "" {
			meta.Tag = config.GetString("defaultTag")
		}

		apiCfg := config.GetAPIConfig()
		client := api.New(apiCfg.ServerURL, apiCfg.APIKey, apiCfg.Timeout)
		if err := client.Healthcheck(cmd.Context()); err != nil {
			return fmt.Errorf("classroom server at %s: %w", apiCfg.ServerURL, err)
		}
		if err := client.Upload(cmd.Context(), args[0], meta); err != nil {
			return err
		}
		a.Logger.Info("Uploaded session", "file", args[0], "server", apiCfg.ServerURL)
		return nil
	},
}

func init() {
	f := uploadCmd.Flags()
	f.StringVar(&uploadMeta.SessionUUID, "session", "", "session id")
	f.StringVar(&uploadMeta.Program, "program", "", "program name")
	f.StringVar(&uploadMeta.Robot, "robot", "", "robot model")
	f.Float64Var(&uploadMeta.DurationSec, "duration", 0, "session duration in seconds")
	f.StringVar(&uploadMeta.Tag, "tag", "", "session tag, defaults to defaultTag")
}
