package rebalance

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// contains http utils to deal with remote snapshot sources

// httpGet performs an HTTP GET and returns the response body. The caller
// closes it.
func httpGet(ctx context.Context, client *http.Client, addr string, header http.Header) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	return resp.Body, nil
}
