// Package phonetic fills in Latin-script pronunciation guides for Punjabi
// lyric lines using OpenAI's GPT models. It is used when a translation
// provider leaves the pronunciation of a Gurmukhi or Devanagari line blank.
package phonetic
