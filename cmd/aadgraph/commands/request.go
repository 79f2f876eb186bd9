package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/fivetwenty-io/aadgraph/internal/constants"
	"github.com/fivetwenty-io/aadgraph/pkg/graph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// ErrInvalidJSONData is returned when --data or a .json data file does not
// hold valid JSON.
var ErrInvalidJSONData = errors.New("request data is not valid JSON")

// bodyFlags holds the mutually exclusive request body flags.
type bodyFlags struct {
	data     string
	dataFile string
	form     string
}

func (f *bodyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.data, "data", "d", "", "JSON request body")
	cmd.Flags().StringVarP(&f.dataFile, "data-file", "f", "", "read the request body from a .json or .yaml file")
	cmd.Flags().StringVar(&f.form, "form", "", "form-encoded request body, e.g. 'a=1&b=2'")
}

// body returns the request body selected by the flags, or nil.
func (f *bodyFlags) body() (interface{}, error) {
	set := 0

	for _, value := range []string{f.data, f.dataFile, f.form} {
		if value != "" {
			set++
		}
	}

	if set > 1 {
		return nil, constants.ErrConflictingBodyFlags
	}

	switch {
	case f.data != "":
		return jsonBody([]byte(f.data))
	case f.dataFile != "":
		return readDataFile(f.dataFile)
	case f.form != "":
		return f.form, nil
	default:
		return nil, nil
	}
}

func jsonBody(data []byte) (json.RawMessage, error) {
	if !json.Valid(data) {
		return nil, ErrInvalidJSONData
	}

	return json.RawMessage(data), nil
}

func readDataFile(path string) (interface{}, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return jsonBody(data)
	case ".yaml", ".yml":
		var body interface{}

		err = yaml.Unmarshal(data, &body)
		if err != nil {
			return nil, fmt.Errorf("failed to parse YAML data file: %w", err)
		}

		return body, nil
	default:
		return nil, fmt.Errorf("%w: %s", constants.ErrUnsupportedDataFile, path)
	}
}

// resourcePath expands the PATH argument with the remaining positional args.
func resourcePath(args []string) string {
	values := make([]interface{}, 0, len(args)-1)
	for _, arg := range args[1:] {
		values = append(values, arg)
	}

	return graph.FormatPath(args[0], values...)
}

// NewGetCommand creates the get command.
func NewGetCommand() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "get PATH [ARG...]",
		Short: "Fetch a resource",
		Long: `Fetch a tenant-relative resource. {0}, {1}, ... in PATH are replaced by
the following arguments. Collection envelopes are unwrapped unless --raw is set.`,
		Example: `  aadgraph get users
  aadgraph get 'users/{0}' alice@contoso.onmicrosoft.com -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := runRequest(cmd, http.MethodGet, resourcePath(args), nil)
			if err != nil {
				return err
			}

			if !raw {
				result = graph.Unwrap(result)
			}

			return writeResult(cmd, result)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print the response body without unwrapping \"value\"")

	return cmd
}

// NewPostCommand creates the post command.
func NewPostCommand() *cobra.Command {
	return newWriteCommand(http.MethodPost, "Create a resource or invoke an action")
}

// NewPutCommand creates the put command.
func NewPutCommand() *cobra.Command {
	return newWriteCommand(http.MethodPut, "Replace a resource")
}

// NewPatchCommand creates the patch command.
func NewPatchCommand() *cobra.Command {
	return newWriteCommand(http.MethodPatch, "Update a resource")
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete PATH [ARG...]",
		Short:   "Delete a resource",
		Example: `  aadgraph delete 'groups/{0}/$links/members/{1}' GROUP_ID USER_ID`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := runRequest(cmd, http.MethodDelete, resourcePath(args), nil)
			if err != nil {
				return err
			}

			return writeResult(cmd, result)
		},
	}
}

func newWriteCommand(method, short string) *cobra.Command {
	flags := &bodyFlags{}
	name := strings.ToLower(method)

	cmd := &cobra.Command{
		Use:   name + " PATH [ARG...]",
		Short: short,
		Long: short + `. The body comes from --data (JSON), --data-file (.json or .yaml)
or --form (form-encoded). {0}, {1}, ... in PATH are replaced by the following arguments.`,
		Example: fmt.Sprintf(`  aadgraph %s 'users/{0}' alice@contoso.onmicrosoft.com --data '{"accountEnabled": false}'`, name),
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := flags.body()
			if err != nil {
				return err
			}

			result, err := runRequest(cmd, method, resourcePath(args), body)
			if err != nil {
				return err
			}

			return writeResult(cmd, result)
		},
	}

	flags.register(cmd)

	return cmd
}

func runRequest(cmd *cobra.Command, method, path string, body interface{}) (json.RawMessage, error) {
	if _, err := outputFormat(); err != nil {
		return nil, err
	}

	client, logger, err := createClient(cmd)
	if err != nil {
		return nil, err
	}

	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := client.Execute(ctx, method, path, body)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", method, path, err)
	}

	return result, nil
}

func writeResult(cmd *cobra.Command, result json.RawMessage) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	return renderResult(cmd.OutOrStdout(), result, format)
}
