// Package retry implements the fetch layer's retry policy: a fixed
// request budget per fetch, a constant delay after transient failures,
// and an exponential backoff that doubles on each consecutive HTTP 429
// within the same call.
//
// Basic usage:
//
//	env, err := retry.DoWithResult(func() (*ergast.Envelope, error) {
//		return client.Get(ctx, url)
//	}, cfg)
//
// Schema/parse errors are not retried: a malformed response will not
// improve on a second request, and masking it as "no data" hides real
// schema-mismatch bugs.
package retry
