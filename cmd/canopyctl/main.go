// canopyctl is a small operator CLI over the platform API client: device and
// group administration, interface management, plane health checks and live
// room watching.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/canopyhq/canopy-go/canopy"
	"github.com/canopyhq/canopy-go/utils"
)

var (
	configFile string
	logLevel   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "canopyctl",
		Short:         "Administer a realm on the platform control plane",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			utils.SetLogging(logLevel, "")
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c",
		defaultConfigPath(), "client configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "loglevel", "warn",
		"log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newDevicesCommand(),
		newGroupsCommand(),
		newInterfacesCommand(),
		newHealthCommand(),
		newWatchCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "canopyctl:", err)
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "canopyctl.yaml"
	}
	return home + "/.config/canopyctl.yaml"
}

// newClient loads the configuration and builds the API client.
func newClient() (*canopy.Client, error) {
	cfg, err := canopy.LoadConfig(configFile)
	if err != nil {
		return nil, err
	}
	return canopy.NewCanopyClient(cfg), nil
}
