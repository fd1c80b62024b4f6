// Package fetch performs single HTTP GET requests over a shared,
// connection-pooled client.
//
// The Client is the run's connection context: created once by the crawl
// coordinator, shared read-only by every concurrent fetch, and torn down
// after all page processing completes. Each Fetch is exactly one attempt,
// no retries, with a per-request timeout so a stuck host cannot hang the
// run. Failures are classified into TransportError (DNS, connect, timeout,
// reset) and StatusError (non-2xx response); callers decide what to do
// with them.
//
// Bodies are read fully (up to a configurable cap) and decoded to UTF-8
// text honoring the charset declared in the Content-Type header.
package fetch
