// Package downloader retrieves raw stream bytes into local storage.
package downloader

import "context"

// Fetcher streams the bytes behind a URL into a file at destPath.
// Implementations must release the connection and the file handle on
// every exit path, including failure.
type Fetcher interface {
	Fetch(ctx context.Context, url, destPath string) error
}
