// Package cli provides the interactive MyMoment terminal client.
//
// It wires configuration, the selected backend (memory, sqlite, files or
// remote), the session gate, the entry controllers and an interactive REPL.
// Typical flow: register or log in, list and search entries, write new ones
// and edit or delete existing ones by ID prefix.
//
// With the remote backend a background watcher pings the server and the
// prompt shows whether the client is online. The files backend runs a
// watcher that picks up entry files changed by other processes.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
