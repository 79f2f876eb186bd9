package constants

import "errors"

// Configuration errors.
var (
	ErrTenantRequired       = errors.New("tenant is required (use --tenant or 'aadgraph config set tenant')")
	ErrClientIDRequired     = errors.New("client ID is required (use --client-id or 'aadgraph config set client_id')")
	ErrClientSecretRequired = errors.New("client secret is required (use --client-secret, AADGRAPH_CLIENT_SECRET, or an interactive prompt)")
	ErrUnknownConfigKey     = errors.New("unknown configuration key")
	ErrInvalidOutputFormat  = errors.New("invalid output format, expected table, json or yaml")
)

// Request body errors.
var (
	ErrConflictingBodyFlags = errors.New("only one of --data, --data-file and --form may be set")
	ErrUnsupportedDataFile  = errors.New("unsupported data file extension, expected .json, .yaml or .yml")
)
