// Package crossref cross-references saved songs by their Punjabi lyric text.
//
// Lines are normalized (lower-cased, a fixed ASCII punctuation set removed,
// trimmed) and split on whitespace. Contiguous two- and three-word spans of
// the resulting tokens are the phrases used to relate songs:
//
//   - FindSimilarSongs ranks songs by how many unique phrases they share
//     with a target song.
//   - FindSongsWithPhrase locates every line containing a phrase.
//   - ExtractCommonThemes counts frequent non-stop-word tokens across a
//     collection.
//
// There is no stemming and no script-aware segmentation; Gurmukhi and
// Devanagari punctuation passes through untouched.
//
// All functions are pure over the songs passed in. They never modify their
// input and are safe for concurrent use by multiple goroutines.
package crossref
