package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"igmobile/pkg/config"
	"igmobile/pkg/device"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Configuration is loaded from, highest priority first:
  - Command line flags
  - IGMOBILE_* environment variables and .env files
  - Configuration file
  - Default values`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the default values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configFile
		if path == "" {
			path = ".igmobile.yaml"
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
		if err := config.DefaultConfig().Save(path); err != nil {
			return err
		}
		out.Success("Configuration written to " + path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration with secrets masked",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		masked := *cfg
		masked.Account.Password = mask(masked.Account.Password)
		masked.State.Passphrase = mask(masked.State.Passphrase)

		data, err := yaml.Marshal(&masked)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Print(string(data))
		return nil
	},
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List the device presets new sessions can emulate",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range device.Presets() {
			d, err := device.New(name)
			if err != nil {
				return err
			}
			marker := ""
			if name == cfg.Device.Preset {
				marker = "(default)"
			}
			out.Item(name, d.HardwareManufacturer+" "+d.HardwareModel, marker)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd, devicesCmd)
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "********"
}
