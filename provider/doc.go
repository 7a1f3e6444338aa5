// Package provider contains typed adapters for the remote services the
// content pipeline calls out to: web search, news, and LLM content
// generation.
//
// Each adapter is a thin layer over a resilient client: it shapes the
// request, decodes the response, and nothing else. Resilience, caching,
// and telemetry live in the client stack the adapter is constructed with.
package provider
