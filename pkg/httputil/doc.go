// Package httputil provides the HTTP plumbing shared by the generator
// client and the image fetcher.
//
// # Overview
//
//   - [Do]: an instrumented request that reports to observability hooks
//   - [Retry]: automatic retry with exponential backoff
//   - [Fetcher]: downloads slide images, with caching and size limits
//
// # Retry
//
// [Retry] only retries errors wrapped in [RetryableError]. [CheckStatus]
// wraps 5xx and 429 responses that way, so a typical call reads:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := httputil.Do(ctx, client, req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    defer resp.Body.Close()
//	    return httputil.CheckStatus(resp)
//	})
//
// # Images
//
// [Fetcher] implements the image source used by the PPTX writer and the PNG
// renderer. Remote images are cached for a day under the slidecraft cache
// directory; local paths and file:// URLs are read from disk.
package httputil
