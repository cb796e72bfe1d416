// Package translation turns Punjabi lyrics into line-by-line Hindi and
// English translations with cultural notes and a pronunciation guide,
// using an LLM provider (OpenAI or Gemini). Providers can be wrapped in a
// circuit breaker and a result cache (in memory or Redis).
package translation
