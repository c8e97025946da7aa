package commands

import (
	"errors"
	"io/fs"

	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"

	"floorplan-viewer/internal/logger"
	"floorplan-viewer/internal/planfile"
	"floorplan-viewer/internal/viewerconfig"
)

var (
	configPath string
	logPath    string
	cacheDir   string

	opts viewerconfig.Options
	log  *logger.Logger
)

func Execute() error {
	root := &cobra.Command{
		Use:          "floorview",
		Short:        "Interactive 3D viewer for floorplans",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Variables already set in the environment win over .env.
			if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if configPath == "" {
				configPath = viewerconfig.Path()
			}
			log = logger.New(logPath)
			o, err := viewerconfig.Load(configPath)
			if err != nil {
				return err
			}
			opts = o
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "viewer options file (default $FLOORVIEW_CONFIG or "+viewerconfig.ConfigPath+")")
	root.PersistentFlags().StringVar(&logPath, "log", logger.LogFilePath, "log file; empty keeps logs in memory")
	root.PersistentFlags().StringVar(&cacheDir, "cache", planfile.CacheDir, "where downloaded and unpacked plans go")

	root.AddCommand(viewCmd(), exportCmd(), configCmd())
	return root.Execute()
}
