// Package lyrics obtains raw song lyrics, either from a lyrics.ovh style
// HTTP API or from the USLT frame of a local MP3 file.
package lyrics
