package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fivetwenty-io/aadgraph/cmd/aadgraph/commands"
	"github.com/fivetwenty-io/aadgraph/internal/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "aadgraph",
	Short: "Azure AD Graph API CLI",
	Long: `A command-line interface for the Azure AD Graph API.

Requests are authenticated with an application's client credentials. Resource
paths are relative to the tenant and may contain positional placeholders:

  aadgraph get 'users/{0}/memberOf' alice@contoso.onmicrosoft.com
  aadgraph objects 'users/{0}/memberOf' Group alice@contoso.onmicrosoft.com`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is $HOME/.aadgraph/config.yml)")
	flags.StringP("tenant", "t", "", "tenant domain or ID")
	flags.String("client-id", "", "application (client) ID")
	flags.String("client-secret", "", "application key (prompted when omitted on a terminal)")
	flags.String("api-version", "", "api-version query parameter (default "+constants.DefaultAPIVersion+")")
	flags.String("api-endpoint", "", "Graph API base URL (default "+constants.DefaultAPIEndpoint+")")
	flags.String("login-endpoint", "", "identity endpoint base URL (default "+constants.DefaultLoginEndpoint+")")
	flags.Duration("timeout", constants.DefaultHTTPTimeout, "HTTP timeout per request")
	flags.StringP("output", "o", constants.FormatTable, "output format (table, json, yaml)")
	flags.BoolP("verbose", "v", false, "verbose output")

	// Bind flags to viper
	for key, flag := range map[string]string{
		"config":         "config",
		"tenant":         "tenant",
		"client_id":      "client-id",
		"client_secret":  "client-secret",
		"api_version":    "api-version",
		"api_endpoint":   "api-endpoint",
		"login_endpoint": "login-endpoint",
		"timeout":        "timeout",
		"output":         "output",
		"verbose":        "verbose",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}

	// Add commands
	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewGetCommand())
	rootCmd.AddCommand(commands.NewPostCommand())
	rootCmd.AddCommand(commands.NewPutCommand())
	rootCmd.AddCommand(commands.NewPatchCommand())
	rootCmd.AddCommand(commands.NewDeleteCommand())
	rootCmd.AddCommand(commands.NewObjectsCommand())
}

func initConfig() {
	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in ~/.aadgraph/config.yml
		viper.AddConfigPath(filepath.Join(home, commands.ConfigDirName))
		viper.SetConfigType("yml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match, e.g. AADGRAPH_CLIENT_SECRET
	viper.SetEnvPrefix("AADGRAPH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
