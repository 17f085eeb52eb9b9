// Package retry re-runs failing operations with backoff.
//
// The crawler uses it for listing pages only, and only when
// source.page_retries is above zero:
//
//	body, err := retry.DoWithResult(ctx, fetchPage, retry.Attempts(2, log))
//
// Errors from pkg/errors are retried when their type is retryable
// (transport, network, rate_limit, server_error). Context cancellation is
// never retried.
package retry
