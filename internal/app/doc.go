// Package app wires the pieces together: logger, document loader, catalog,
// pipeline, run store, and the optional preview server.
package app
