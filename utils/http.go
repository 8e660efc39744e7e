package utils

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// MaxDeckListSize caps attachment downloads; deck lists are a few KB.
const MaxDeckListSize = 1 << 20

var HTTPClient = &http.Client{
	Timeout: 30 * time.Second,
}

// Download fetches an attachment body, refusing anything over limit bytes.
func Download(ctx context.Context, url string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download %s: unexpected status %d", url, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("download %s: file larger than %d bytes", url, limit)
	}
	return body, nil
}
