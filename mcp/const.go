package mcp

// Server identity reported by /health and the version command.
const (
	ServerName    = "mcp-toolserver"
	ServerVersion = "1.0"
)

// APIPrefix is the versioned mount point kept as an alias of the root routes.
const APIPrefix = "/mcp/v1"

// DefaultToolsDir is the discovery directory used when none is configured.
const DefaultToolsDir = "tools.d"
