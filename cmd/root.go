// Package cmd implements the cover-generator command-line interface.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonesrussell/north-cloud/cover-generator/cmd/common"
	"github.com/jonesrussell/north-cloud/cover-generator/cmd/generate"
	"github.com/jonesrussell/north-cloud/cover-generator/cmd/httpd"
	"github.com/jonesrussell/north-cloud/cover-generator/cmd/infer"
	"github.com/jonesrussell/north-cloud/cover-generator/cmd/watch"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "cover-generator",
	Short: "Generate article cover images from editor pages",
	Long: `cover-generator reads the article title from a WeChat, Xiumi or 135
editor page (or takes one directly), submits it to a Coze workflow and
prints the generated cover image URL.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		return initConfig()
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is ./config.yaml or ./config/config.yaml)")
	flags.Bool("debug", false, "enable debug logging")
	flags.String("log-format", "", "log format: json or console")

	must(viper.BindPFlag(common.KeyConfig, flags.Lookup("config")))
	must(viper.BindPFlag(common.KeyDebug, flags.Lookup("debug")))
	must(viper.BindPFlag(common.KeyLogFormat, flags.Lookup("log-format")))

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cover-generator %s\n", version.Version)
		},
	})
	rootCmd.AddCommand(infer.Command())
	rootCmd.AddCommand(generate.Command())
	rootCmd.AddCommand(watch.Command())
	rootCmd.AddCommand(httpd.Command())
}

// initConfig resolves the config file path. An explicit --config or
// COVER_CONFIG wins; otherwise the usual locations are searched. A missing
// file is fine, defaults and the environment still apply.
func initConfig() error {
	viper.SetEnvPrefix("cover")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if viper.GetString(common.KeyConfig) != "" {
		return nil
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".cover-generator"))
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	viper.Set(common.KeyConfig, viper.ConfigFileUsed())
	return nil
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
