//nolint:testpackage // Need access to internal types
package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fivetwenty-io/aadgraph/internal/constants"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestConfigKeys(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{
		"api_endpoint", "api_version", "client_id", "client_secret",
		"login_endpoint", "output", "tenant", "timeout",
	}, ConfigKeys())
}

func TestSetConfigValue(t *testing.T) {
	t.Parallel()

	config := &Config{}

	require.NoError(t, setConfigValue(config, "tenant", "contoso.onmicrosoft.com"))
	require.NoError(t, setConfigValue(config, "client_secret", "s3cret"))
	require.NoError(t, setConfigValue(config, "output", "yaml"))
	assert.Equal(t, "contoso.onmicrosoft.com", config.Tenant)
	assert.Equal(t, "s3cret", config.ClientSecret)
	assert.Equal(t, "yaml", config.Output)

	require.ErrorIs(t, setConfigValue(config, "output", "xml"), constants.ErrInvalidOutputFormat)
	assert.Equal(t, "yaml", config.Output)

	require.NoError(t, setConfigValue(config, "output", ""))
	assert.Empty(t, config.Output)

	err := setConfigValue(config, "password", "x")
	require.ErrorIs(t, err, constants.ErrUnknownConfigKey)
	assert.Contains(t, err.Error(), "client_id")
}

func TestWriteConfigFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ConfigDirName, "config.yml")

	err := writeConfigFile(path, &Config{Tenant: "contoso", ClientID: "app-id"})
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(constants.ConfigFilePerm), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded Config
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, Config{Tenant: "contoso", ClientID: "app-id"}, decoded)
	assert.NotContains(t, string(data), "client_secret")
}

func TestMaskSecrets(t *testing.T) {
	t.Parallel()

	config := &Config{Tenant: "contoso", ClientSecret: "s3cret"}

	masked := maskSecrets(config)
	assert.Equal(t, Masked, masked.ClientSecret)
	assert.Equal(t, "contoso", masked.Tenant)
	assert.Equal(t, "s3cret", config.ClientSecret)

	assert.Empty(t, maskSecrets(&Config{}).ClientSecret)
}

func TestShowConfig(t *testing.T) {
	t.Parallel()

	config := maskSecrets(&Config{Tenant: "contoso", ClientSecret: "s3cret"})

	var buf bytes.Buffer
	require.NoError(t, showConfig(&buf, config, constants.FormatJSON))
	assert.JSONEq(t, `{"tenant":"contoso","client_secret":"***"}`, buf.String())

	buf.Reset()
	require.NoError(t, showConfig(&buf, config, constants.FormatTable))
	assert.Contains(t, buf.String(), "contoso")
	assert.NotContains(t, buf.String(), "s3cret")
}

// The tests below drive the config command group against a temporary config
// file through the global viper instance and therefore do not run in parallel.

func TestConfigCommand_SetAndUnset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")

	withViper(t, nil)
	viper.SetConfigFile(path)

	run := func(args ...string) string {
		t.Helper()

		var buf bytes.Buffer

		cmd := NewConfigCommand()
		cmd.SetOut(&buf)
		cmd.SetArgs(args)
		require.NoError(t, cmd.Execute())

		return buf.String()
	}

	assert.Equal(t, "Set tenant = contoso\n", run("set", "tenant", "contoso"))
	assert.Equal(t, "Set client_secret = ***\n", run("set", "client_secret", "s3cret"))

	config := loadFileConfig()
	assert.Equal(t, "contoso", config.Tenant)
	assert.Equal(t, "s3cret", config.ClientSecret)

	assert.Equal(t, "Unset client_secret\n", run("unset", "client_secret"))

	config = loadFileConfig()
	assert.Equal(t, "contoso", config.Tenant)
	assert.Empty(t, config.ClientSecret)
}

func TestConfigCommand_SetDoesNotPersistFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")

	withViper(t, map[string]interface{}{"client_secret": "from-env"})
	viper.SetConfigFile(path)

	cmd := NewConfigCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"set", "tenant", "contoso"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "from-env")
}

func TestConfigCommand_SetRejectsUnknownKey(t *testing.T) {
	withViper(t, nil)
	viper.SetConfigFile(filepath.Join(t.TempDir(), "config.yml"))

	cmd := NewConfigCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"set", "password", "x"})

	err := cmd.Execute()
	require.ErrorIs(t, err, constants.ErrUnknownConfigKey)
}

func TestConfigCommand_Show(t *testing.T) {
	withViper(t, map[string]interface{}{
		"tenant":        "contoso",
		"client_id":     "app-id",
		"client_secret": "s3cret",
		"output":        "json",
	})

	var buf bytes.Buffer

	cmd := NewConfigCommand()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"show"})
	require.NoError(t, cmd.Execute())

	var shown map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &shown))
	assert.Equal(t, "contoso", shown["tenant"])
	assert.Equal(t, "app-id", shown["client_id"])
	assert.Equal(t, Masked, shown["client_secret"])
}
