// Package headless implements the platform interfaces without a real UI.
// Every action is recorded so replays and the MCP server can report what
// the engine asked the host to do.
package headless
