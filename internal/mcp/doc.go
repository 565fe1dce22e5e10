// Package mcp holds tool-level helpers layered over the line protocol.
//
// It decodes tools/list, tools/call and initialize replies into the
// official MCP SDK types, validates tool arguments against a tool's input
// schema, and provides a small in-process tool Registry that test servers
// use to answer tool requests with real tool definitions.
package mcp
