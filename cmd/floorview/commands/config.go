package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"floorplan-viewer/internal/viewerconfig"
)

func configCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage viewer options",
	}
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default options to the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if exists(configPath) && !force {
				return fmt.Errorf("%s exists (use --force to overwrite)", configPath)
			}
			if err := viewerconfig.Save(configPath, viewerconfig.Default()); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the options in effect",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("%+v\n", opts)
			return nil
		},
	}
	cmd.AddCommand(initCmd, showCmd)
	return cmd
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
