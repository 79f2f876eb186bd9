package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fivetwenty-io/aadgraph/internal/constants"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ConfigDirName is the directory under $HOME holding config.yml.
const ConfigDirName = ".aadgraph"

// Masked replaces secrets in displayed configuration.
const Masked = "***"

// Config represents the CLI configuration.
type Config struct {
	Tenant        string `json:"tenant,omitempty"         yaml:"tenant,omitempty"`
	ClientID      string `json:"client_id,omitempty"      yaml:"client_id,omitempty"`
	ClientSecret  string `json:"client_secret,omitempty"  yaml:"client_secret,omitempty"`
	APIVersion    string `json:"api_version,omitempty"    yaml:"api_version,omitempty"`
	APIEndpoint   string `json:"api_endpoint,omitempty"   yaml:"api_endpoint,omitempty"`
	LoginEndpoint string `json:"login_endpoint,omitempty" yaml:"login_endpoint,omitempty"`
	Timeout       string `json:"timeout,omitempty"        yaml:"timeout,omitempty"`
	Output        string `json:"output,omitempty"         yaml:"output,omitempty"`
}

// configFields maps configuration keys to their fields.
func configFields(config *Config) map[string]*string {
	return map[string]*string{
		"tenant":         &config.Tenant,
		"client_id":      &config.ClientID,
		"client_secret":  &config.ClientSecret,
		"api_version":    &config.APIVersion,
		"api_endpoint":   &config.APIEndpoint,
		"login_endpoint": &config.LoginEndpoint,
		"timeout":        &config.Timeout,
		"output":         &config.Output,
	}
}

// ConfigKeys returns the settable configuration keys in sorted order.
func ConfigKeys() []string {
	fields := configFields(&Config{})

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage the tenant, credentials and endpoints stored in $HOME/" + ConfigDirName + "/config.yml",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective configuration from file, environment and flags. The client secret is masked.",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}

			return showConfig(cmd.OutOrStdout(), maskSecrets(loadConfig()), format)
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value. Valid keys: " + joinKeys(),
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadFileConfig()

			err := setConfigValue(config, args[0], args[1])
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			value := args[1]
			if args[0] == "client_secret" {
				value = Masked
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", args[0], value)

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a configuration value. Valid keys: " + joinKeys(),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadFileConfig()

			err := setConfigValue(config, args[0], "")
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", args[0])

			return nil
		},
	}
}

// loadConfig returns the effective configuration: flags, then environment,
// then the config file.
func loadConfig() *Config {
	config := &Config{}
	for key, field := range configFields(config) {
		*field = viper.GetString(key)
	}

	return config
}

// loadFileConfig returns only what the config file holds, so that flags and
// environment variables are never written back to it.
func loadFileConfig() *Config {
	config := &Config{}

	data, err := os.ReadFile(configFilePath()) // #nosec G304 -- path comes from --config or the home directory
	if err != nil {
		return config
	}

	_ = yaml.Unmarshal(data, config)

	return config
}

func setConfigValue(config *Config, key, value string) error {
	field, ok := configFields(config)[key]
	if !ok {
		return fmt.Errorf("%w: %s (valid keys: %s)", constants.ErrUnknownConfigKey, key, joinKeys())
	}

	if key == "output" && value != "" {
		err := validateOutputFormat(value)
		if err != nil {
			return err
		}
	}

	*field = value

	return nil
}

func configFilePath() string {
	if configFile := viper.ConfigFileUsed(); configFile != "" {
		return configFile
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(ConfigDirName, "config.yml")
	}

	return filepath.Join(home, ConfigDirName, "config.yml")
}

func saveConfigStruct(config *Config) error {
	return writeConfigFile(configFilePath(), config)
}

func writeConfigFile(path string, config *Config) error {
	err := os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(path, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func maskSecrets(config *Config) *Config {
	masked := *config
	if masked.ClientSecret != "" {
		masked.ClientSecret = Masked
	}

	return &masked
}

func showConfig(w io.Writer, config *Config, format string) error {
	switch format {
	case constants.FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		return encoder.Encode(config)
	case constants.FormatYAML:
		return yaml.NewEncoder(w).Encode(config)
	default:
		table := tablewriter.NewWriter(w)
		table.Header("Property", "Value")

		fields := configFields(config)
		for _, key := range ConfigKeys() {
			_ = table.Append([]string{key, *fields[key]})
		}

		err := table.Render()
		if err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}

		return nil
	}
}

func joinKeys() string {
	return strings.Join(ConfigKeys(), ", ")
}
