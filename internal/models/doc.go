// Package models lists the OpenAI chat models usable for lyrics
// translation with the configured API key.
package models
