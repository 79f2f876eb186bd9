package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// Service endpoints.
const (
	// DefaultLoginEndpoint is the identity host that issues client-credentials tokens.
	DefaultLoginEndpoint = "https://login.windows.net"

	// DefaultAPIEndpoint is the Graph API host. It is also the OAuth2 "resource".
	DefaultAPIEndpoint = "https://graph.windows.net"

	// DefaultAPIVersion is appended to every resource request as api-version.
	DefaultAPIVersion = "1.5"

	// TokenPathSuffix follows the tenant in the identity endpoint path.
	TokenPathSuffix = "/oauth2/token"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second
)

// Token handling.
const (
	// TokenExpirationBuffer is subtracted from a token's expiry when expiry checking is enabled.
	TokenExpirationBuffer = 30 * time.Second
)

// OData response fields.
const (
	// ValueField holds the item collection of a list response.
	ValueField = "value"

	// ObjectTypeField is the discriminator used to filter heterogeneous collections.
	ObjectTypeField = "objectType"

	// ObjectIDField identifies a directory object.
	ObjectIDField = "objectId"
)

// Content types.
const (
	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"
)

// Output formats.
const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTable = "table"
)

// Validation and limits.
const (
	// MinimumArgumentCount is the minimum number of command line arguments.
	MinimumArgumentCount = 2

	// StringTruncationLimit is the width at which table cells are shortened.
	StringTruncationLimit = 60
)
