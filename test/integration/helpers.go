//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"strings"
	"testing"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	Tenant       string
	ClientID     string
	ClientSecret string
	UserName     string
	BinaryPath   string
	Verbose      bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		Tenant:       os.Getenv("AADGRAPH_TENANT"),
		ClientID:     os.Getenv("AADGRAPH_CLIENT_ID"),
		ClientSecret: os.Getenv("AADGRAPH_CLIENT_SECRET"),
		UserName:     os.Getenv("AADGRAPH_TEST_USER"),
		BinaryPath:   getBinaryPath(),
		Verbose:      os.Getenv("AADGRAPH_VERBOSE") == "true",
	}
}

// getBinaryPath determines the path to the aadgraph binary
func getBinaryPath() string {
	if path := os.Getenv("AADGRAPH_BINARY_PATH"); path != "" {
		return path
	}

	for _, candidate := range []string{"../../aadgraph", "./aadgraph", "../aadgraph"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "aadgraph"
}

// SkipIfMissingConfig skips test if required config is missing
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.Tenant == "" || config.ClientID == "" || config.ClientSecret == "" {
		t.Skip("AADGRAPH_TENANT, AADGRAPH_CLIENT_ID or AADGRAPH_CLIENT_SECRET not set, skipping integration test")
	}

	if _, err := exec.LookPath(config.BinaryPath); err != nil {
		t.Skipf("aadgraph binary not found at %s, skipping integration test", config.BinaryPath)
	}
}

// CommandRunner runs the aadgraph binary with credentials taken from the
// environment and an isolated config file.
type CommandRunner struct {
	config     *TestConfig
	configFile string
	t          *testing.T
}

// NewCommandRunner creates a new command runner
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	t.Helper()

	return &CommandRunner{
		config:     config,
		configFile: t.TempDir() + "/config.yml",
		t:          t,
	}
}

// Run executes an aadgraph command and returns output
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	args = append([]string{"--config", runner.configFile}, args...)

	cmd := exec.Command(runner.config.BinaryPath, args...) // #nosec G204 -- test binary

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf
	cmd.Env = os.Environ()

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.BinaryPath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// DecodeJSON parses command output produced with --output json
func DecodeJSON(t *testing.T, output string, target interface{}) {
	t.Helper()

	if err := json.Unmarshal([]byte(strings.TrimSpace(output)), target); err != nil {
		t.Fatalf("Output is not valid JSON: %v\n%s", err, output)
	}
}

// AssertYAMLOutput verifies command output looks like YAML
func AssertYAMLOutput(t *testing.T, output string) {
	t.Helper()

	output = strings.TrimSpace(output)
	if strings.Contains(output, "---") || strings.Contains(output, ":") {
		return
	}

	t.Errorf("Output does not appear to be YAML: %s", output)
}
