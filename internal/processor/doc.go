// Package processor contains the core workflow of geet. It fetches or reads
// lyrics, translates them, fills in missing pronunciations, saves the result
// to the library and exports Anki decks. This package serves as the main
// coordinator between all other components.
package processor
