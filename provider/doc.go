// Package provider defines the function namespace the registry dispatches
// to, and ships two implementations of it.
//
// A [Namespace] maps bare function names to [Function] values. The registry
// never looks functions up by reflection: whatever bridges names to code
// lives behind this interface.
//
//   - [Static] is populated in process with [FuncOf] values.
//   - [MCPNamespace] exposes the tools of a remote MCP server, one function
//     per tool.
//   - [Store] combines several namespaces, resolving each name in the first
//     namespace (by provider ID) that has it.
//
// # Errors
//
// Functions report argument-shape problems with [*ParameterError], which
// unwraps to [ErrInvalidParameters]. Every other error is treated by the
// dispatcher as a provider failure.
package provider
