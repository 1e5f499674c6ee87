package util

import (
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/jxo-me/cfddns/core/logger"
	xlogger "github.com/jxo-me/cfddns/sdk/logger"
)

const (
	DefaultHTTPTimeout = 30 * time.Second
	// MaxBodySize caps how much of a response body is read.
	MaxBodySize = 1 << 20
)

type HTTPClientOptions struct {
	Timeout      time.Duration
	Retries      int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	Logger       logger.ILogger
}

type HTTPClientOption func(opts *HTTPClientOptions)

func TimeoutHTTPClientOption(timeout time.Duration) HTTPClientOption {
	return func(opts *HTTPClientOptions) {
		opts.Timeout = timeout
	}
}

func RetriesHTTPClientOption(retries int, waitMin, waitMax time.Duration) HTTPClientOption {
	return func(opts *HTTPClientOptions) {
		opts.Retries = retries
		opts.RetryWaitMin = waitMin
		opts.RetryWaitMax = waitMax
	}
}

func LoggerHTTPClientOption(log logger.ILogger) HTTPClientOption {
	return func(opts *HTTPClientOptions) {
		opts.Logger = log
	}
}

// CreateHTTPClient returns a plain *http.Client backed by a retrying
// transport. With zero retries every request is attempted exactly once.
func CreateHTTPClient(opts ...HTTPClientOption) *http.Client {
	options := HTTPClientOptions{Timeout: DefaultHTTPTimeout}
	for _, opt := range opts {
		opt(&options)
	}

	client := retryablehttp.NewClient()
	client.HTTPClient.Timeout = options.Timeout
	client.RetryMax = options.Retries
	if options.RetryWaitMin > 0 {
		client.RetryWaitMin = options.RetryWaitMin
	}
	if options.RetryWaitMax > 0 {
		client.RetryWaitMax = options.RetryWaitMax
	}
	if client.RetryWaitMax < client.RetryWaitMin {
		client.RetryWaitMax = client.RetryWaitMin
	}
	client.ErrorHandler = passthroughResponse
	if options.Logger != nil {
		client.Logger = xlogger.NewLeveledLogger(options.Logger)
	} else {
		client.Logger = nil
	}
	return client.StandardClient()
}

// passthroughResponse hands the last response back to the caller once retries
// are exhausted, so error envelopes (5xx, 429) can still be decoded.
func passthroughResponse(resp *http.Response, err error, _ int) (*http.Response, error) {
	if resp != nil {
		return resp, nil
	}
	return nil, err
}

// ReadBody reads at most MaxBodySize bytes and closes the body.
func ReadBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
}
