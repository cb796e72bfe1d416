// Package store keeps the song library in a local SQLite database. Songs
// are listed newest first; saving a song whose name and artist match an
// existing one (ignoring case) replaces it in place. The library can be
// exported to and merged from a JSON array of songs.
package store
