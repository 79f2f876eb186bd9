//nolint:testpackage // Need access to internal types
package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fivetwenty-io/aadgraph/internal/constants"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandStructure(t *testing.T) {
	t.Parallel()

	t.Run("get", func(t *testing.T) {
		t.Parallel()

		cmd := NewGetCommand()
		assert.Equal(t, "get PATH [ARG...]", cmd.Use)
		assert.NotNil(t, cmd.RunE)
		assert.NotNil(t, cmd.Flags().Lookup("raw"))
		assert.Nil(t, cmd.Flags().Lookup("data"))
		require.Error(t, cmd.Args(cmd, []string{}))
	})

	writeCommands := []struct {
		name string
		new  func() *cobra.Command
	}{
		{name: "post", new: NewPostCommand},
		{name: "put", new: NewPutCommand},
		{name: "patch", new: NewPatchCommand},
	}

	for _, tc := range writeCommands {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cmd := tc.new()
			assert.Equal(t, tc.name+" PATH [ARG...]", cmd.Use)
			assert.NotNil(t, cmd.Flags().Lookup("data"))
			assert.NotNil(t, cmd.Flags().Lookup("data-file"))
			assert.NotNil(t, cmd.Flags().Lookup("form"))
			assert.Equal(t, "d", cmd.Flags().Lookup("data").Shorthand)
		})
	}

	t.Run("delete", func(t *testing.T) {
		t.Parallel()

		cmd := NewDeleteCommand()
		assert.Equal(t, "delete PATH [ARG...]", cmd.Use)
		assert.Nil(t, cmd.Flags().Lookup("data"))
	})

	t.Run("objects", func(t *testing.T) {
		t.Parallel()

		cmd := NewObjectsCommand()
		assert.Equal(t, "objects PATH TYPE [ARG...]", cmd.Use)
		assert.NotNil(t, cmd.Flags().Lookup("columns"))
		require.Error(t, cmd.Args(cmd, []string{"users"}))
		require.NoError(t, cmd.Args(cmd, []string{"users", "User"}))
	})

	t.Run("config", func(t *testing.T) {
		t.Parallel()

		cmd := NewConfigCommand()
		assert.Equal(t, "config", cmd.Use)

		for _, name := range []string{"show", "set", "unset"} {
			assert.NotNil(t, findSubcommand(cmd, name), name)
		}

		set := findSubcommand(cmd, "set")
		require.Error(t, set.Args(set, []string{"tenant"}))
		require.NoError(t, set.Args(set, []string{"tenant", "contoso"}))
		assert.Contains(t, set.Long, "client_secret")
	})

	t.Run("version", func(t *testing.T) {
		t.Parallel()

		cmd := NewVersionCommand("1.0.0", "abc123", "2024-01-01")
		assert.Equal(t, "version", cmd.Use)
		assert.NotNil(t, cmd.RunE)
	})
}

func TestResourcePath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "users", resourcePath([]string{"users"}))
	assert.Equal(t, "users/alice@contoso.com/memberOf", resourcePath([]string{"users/{0}/memberOf", "alice@contoso.com"}))
	assert.Equal(t, "groups/g%201/members", resourcePath([]string{"groups/{0}/members", "g 1"}))
}

//nolint:funlen
func TestBodyFlags(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	jsonFile := filepath.Join(dir, "body.json")
	require.NoError(t, os.WriteFile(jsonFile, []byte(`{"accountEnabled":false}`), 0o600))

	yamlFile := filepath.Join(dir, "body.yaml")
	require.NoError(t, os.WriteFile(yamlFile, []byte("displayName: Sales\nmailEnabled: false\n"), 0o600))

	badJSONFile := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badJSONFile, []byte(`{"broken"`), 0o600))

	textFile := filepath.Join(dir, "body.txt")
	require.NoError(t, os.WriteFile(textFile, []byte("x"), 0o600))

	t.Run("no body", func(t *testing.T) {
		t.Parallel()

		body, err := (&bodyFlags{}).body()
		require.NoError(t, err)
		assert.Nil(t, body)
	})

	t.Run("inline json", func(t *testing.T) {
		t.Parallel()

		body, err := (&bodyFlags{data: `{"a":1}`}).body()
		require.NoError(t, err)
		assert.JSONEq(t, `{"a":1}`, string(body.(json.RawMessage)))
	})

	t.Run("invalid inline json", func(t *testing.T) {
		t.Parallel()

		_, err := (&bodyFlags{data: `{a:1}`}).body()
		require.ErrorIs(t, err, ErrInvalidJSONData)
	})

	t.Run("json file", func(t *testing.T) {
		t.Parallel()

		body, err := (&bodyFlags{dataFile: jsonFile}).body()
		require.NoError(t, err)
		assert.JSONEq(t, `{"accountEnabled":false}`, string(body.(json.RawMessage)))
	})

	t.Run("invalid json file", func(t *testing.T) {
		t.Parallel()

		_, err := (&bodyFlags{dataFile: badJSONFile}).body()
		require.ErrorIs(t, err, ErrInvalidJSONData)
	})

	t.Run("yaml file", func(t *testing.T) {
		t.Parallel()

		body, err := (&bodyFlags{dataFile: yamlFile}).body()
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{"displayName": "Sales", "mailEnabled": false}, body)
	})

	t.Run("unsupported file", func(t *testing.T) {
		t.Parallel()

		_, err := (&bodyFlags{dataFile: textFile}).body()
		require.ErrorIs(t, err, constants.ErrUnsupportedDataFile)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := (&bodyFlags{dataFile: filepath.Join(dir, "missing.json")}).body()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read data file")
	})

	t.Run("form", func(t *testing.T) {
		t.Parallel()

		body, err := (&bodyFlags{form: "a=1&b=2"}).body()
		require.NoError(t, err)
		assert.Equal(t, "a=1&b=2", body)
	})

	t.Run("conflicting flags", func(t *testing.T) {
		t.Parallel()

		_, err := (&bodyFlags{data: `{}`, form: "a=1"}).body()
		require.ErrorIs(t, err, constants.ErrConflictingBodyFlags)
	})
}
