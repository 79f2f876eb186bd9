package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/fivetwenty-io/aadgraph/internal/constants"
	"github.com/fivetwenty-io/aadgraph/pkg/graph"
	"github.com/fivetwenty-io/aadgraph/pkg/graphclient"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// createClient builds a graph client from the effective configuration. The
// returned logger must be synced by the caller.
func createClient(cmd *cobra.Command) (graph.Client, *zap.Logger, error) {
	config := loadConfig()

	if config.Tenant == "" {
		return nil, nil, constants.ErrTenantRequired
	}

	if config.ClientID == "" {
		return nil, nil, constants.ErrClientIDRequired
	}

	if config.ClientSecret == "" {
		secret, err := promptSecret(cmd)
		if err != nil {
			return nil, nil, err
		}

		config.ClientSecret = secret
	}

	timeout := constants.DefaultHTTPTimeout

	if config.Timeout != "" {
		parsed, err := time.ParseDuration(config.Timeout)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid timeout %q: %w", config.Timeout, err)
		}

		timeout = parsed
	}

	verbose := viper.GetBool("verbose")

	logger, err := newLogger(verbose)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	client, err := graphclient.New(&graph.Config{
		Tenant:        config.Tenant,
		ClientID:      config.ClientID,
		ClientSecret:  config.ClientSecret,
		APIVersion:    config.APIVersion,
		APIEndpoint:   config.APIEndpoint,
		LoginEndpoint: config.LoginEndpoint,
		HTTPTimeout:   timeout,
		Debug:         verbose,
		Logger:        NewZapLogger(logger),
		UserAgent:     "aadgraph-cli",
	})
	if err != nil {
		_ = logger.Sync()

		return nil, nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, logger, nil
}

// promptSecret reads the client secret from the terminal without echo.
func promptSecret(cmd *cobra.Command) (string, error) {
	fd := int(os.Stdin.Fd()) // #nosec G115 -- file descriptors fit in int
	if !term.IsTerminal(fd) {
		return "", constants.ErrClientSecretRequired
	}

	_, _ = fmt.Fprint(cmd.ErrOrStderr(), "Client secret: ")

	secretBytes, err := term.ReadPassword(fd)

	_, _ = fmt.Fprintln(cmd.ErrOrStderr())

	if err != nil {
		return "", fmt.Errorf("failed to read client secret: %w", err)
	}

	if len(secretBytes) == 0 {
		return "", constants.ErrClientSecretRequired
	}

	return string(secretBytes), nil
}
