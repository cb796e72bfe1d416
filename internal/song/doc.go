// Package song defines the song and lyric line records shared by the
// library store, the translators and the analysis packages.
package song
