// Package cli provides the interactive HireHub command-line client.
//
// It wires configuration, the session store, the HTTP client with its
// response policies, the session manager and the notification panel, and
// serves a REPL on top of them. On start the previous session is restored;
// notifications are refreshed in the background when polling is enabled.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
