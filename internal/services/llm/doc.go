// Package llm provides an OpenRouter chat client for subtitle translation.
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.Complete: send system/user prompts, receive the plain-text reply.
// Client.HealthCheck: verify API key and model availability.
//
// # Configuration
//
// Requires api_key and model, optionally base_url, referer, title, timeout.
// The base URL defaults to the OpenRouter chat completions endpoint.
//
// # Retry Behaviour
//
// The client retries on HTTP 408/429/5xx errors, network timeouts, and
// empty-content replies with exponential backoff (base 1s, max 10s, up to
// 5 attempts by default). A Retry-After header takes precedence over the
// computed backoff. Context cancellation aborts retries immediately.
//
// Transport-level retries here are independent of the translation retry in
// the translator package, which re-sends a chunk when the reply parses but
// fails validation.
package llm
