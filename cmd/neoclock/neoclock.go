package neoclock

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "neoclock",
	Short: "Drive an LED matrix clock",
	Long: `neoclock composes clocks, calendars, tickers, gifs and other widgets
onto a small LED matrix and takes control messages over MQTT or HTTP.`,
	PersistentPreRun: bindFlags,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.neoclock.toml)")
}

func initConfig() {
	if cfgFile != "" {
		slog.Info("Using config file", "path", cfgFile)
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("toml")
		viper.SetConfigName(".neoclock")
	}

	viper.SetEnvPrefix("neoclock")
	viper.AutomaticEnv()

	// Names the first deployments used.
	cobra.CheckErr(viper.BindEnv("host", "NEOCLOCK_HOST", "NEOCLOCK_HOSTNAME"))
	cobra.CheckErr(viper.BindEnv("deviceid", "NEOCLOCK_DEVICEID", "NEOCLOCK_DEVICE_ID"))

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			slog.Error("Error reading config file", "error", err)
			os.Exit(1)
		}

		slog.Debug("No config file found, using flags and environment")
	}
}

// set values to the PFlag variables from config, if they are set. Priority is still given to explicitly provided CLI flags.
func bindFlags(cmd *cobra.Command, _ []string) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Viper compares keys case-insensitively, so dropping the hyphens is enough.
		configName := strings.ReplaceAll(f.Name, "-", "")

		if !f.Changed && viper.IsSet(configName) {
			val := viper.Get(configName)

			err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val))
			if err != nil {
				slog.Error("Error setting flag from config", "flag", f.Name, "error", err)
				panic(err)
			}

			slog.Debug("Flag set from config", "flag", f.Name)
		}
	})
}
