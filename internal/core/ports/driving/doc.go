// Package driving defines the primary (inbound) ports: interfaces the
// core services expose to driving adapters (CLI, MCP server, TUI).
//
// # Import Rules
//
//   - Can Import: domain, standard library
//   - Cannot Import: services, adapters, connectors
package driving
