// Package server exposes the song library, translation and analysis
// functions as a JSON HTTP API built on gorilla/mux.
package server
