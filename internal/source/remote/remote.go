// Package remote loads the dataset with a single HTTP GET.
package remote

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"toheoje/internal/core"
)

const defaultTimeout = 30 * time.Second

type Source struct {
	url    string
	client *resty.Client
}

// New returns a source for url. The load is never retried.
func New(url string, timeout time.Duration) *Source {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "toheoje/1.0")
	return &Source{url: url, client: client}
}

func (s *Source) Name() string { return "remote:" + s.url }

func (s *Source) Load(ctx context.Context) ([]core.Record, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		Get(s.url)
	if err != nil {
		return nil, core.NewLoadError(s.Name(), core.ErrFetch, err)
	}
	if !resp.IsSuccess() {
		le := core.NewLoadError(s.Name(), core.ErrStatus, fmt.Errorf("GET %s: %s", s.url, resp.Status()))
		le.StatusCode = resp.StatusCode()
		return nil, le
	}

	records, err := core.DecodeRecords(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, core.NewLoadError(s.Name(), core.ErrDecode, err)
	}
	return records, nil
}
