// Package server provides a small http.Server wrapper with environment-based
// configuration and graceful shutdown wired for the errgroup pattern.
package server
