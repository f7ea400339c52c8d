// Package dataset keeps a local copy of the AWS Spot Advisor dataset in
// step with the remote one. Synchronization pairs a content checksum over
// the cached file with conditional HTTP revalidation, so an unchanged
// remote costs one 304 round trip and no transfer.
package dataset

import (
	"context"
	"crypto/tls"
	"os"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/pkg/errors"

	"spotsieve/pkg/known"
	"spotsieve/pkg/models"
)

// ErrNotModifiedLoop is returned when the remote keeps answering 304 while
// no local copy of the dataset exists. Retrying further cannot succeed.
var ErrNotModifiedLoop = errors.New("repeated HTTP 304 without local dataset")

// Client fetches the spot advisor dataset over HTTPS.
type Client struct {
	hc      *client.Client
	timeout time.Duration
}

// NewClient returns a dataset client with the given per request timeout.
func NewClient(timeout time.Duration) *Client {
	hClient, _ := client.NewClient(client.WithTLSConfig(&tls.Config{
		InsecureSkipVerify: true,
	}))

	return &Client{hc: hClient, timeout: timeout}
}

type fetchResult struct {
	statusCode   int
	body         []byte
	etag         string
	lastModified string
}

// Synchronize brings the local dataset copy at path in line with url and
// returns the parsed dataset together with the cache state to persist.
//
// When the file at path no longer matches state.DataChecksum the stored
// HTTP validators are dropped and an unconditional fetch is issued. A 304
// answer means the local copy is current and is loaded from disk; a 304
// with no local file contradicts itself, so the whole state is cleared and
// the fetch retried exactly once before giving up with ErrNotModifiedLoop.
// A 200 answer is parsed, written to path and the checksum recomputed from
// the written file.
//
// The returned state is only meaningful when the error is nil.
func (c *Client) Synchronize(ctx context.Context, url, path string, state models.CacheState) (*models.AdvisorData, models.CacheState, error) {
	etag, lastModified := state.HTTPETag, state.HTTPLastModified
	if !checksumValid(path, state.DataChecksum) {
		hlog.Debugf("dataset '%s' SHA256 checksum mismatch, fetching fresh data", path)
		etag, lastModified = "", ""
	}

	retried := false
	for {
		res, err := c.fetch(ctx, url, etag, lastModified)
		if err != nil {
			return nil, state, err
		}

		switch res.statusCode {
		case consts.StatusNotModified:
			hlog.Debug("no change in data, local copy will be used")
			raw, err := os.ReadFile(path)
			if os.IsNotExist(err) {
				if retried {
					return nil, state, errors.WithStack(ErrNotModifiedLoop)
				}
				hlog.Errorf("dataset file '%s' does not exist, trying to fetch fresh data", path)
				state = models.CacheState{}
				etag, lastModified = "", ""
				retried = true

				continue
			}
			if err != nil {
				return nil, state, errors.Wrapf(err, "read dataset '%s'", path)
			}

			var data *models.AdvisorData
			if err := sonic.Unmarshal(raw, &data); err != nil {
				return nil, state, errors.Wrapf(err, "parse dataset '%s'", path)
			}

			state.HTTPETag = res.etag
			state.HTTPLastModified = res.lastModified

			return data, state, nil

		case consts.StatusOK:
			hlog.Debug("change in data detected, local copy will be overwritten")
			var data *models.AdvisorData
			if err := sonic.Unmarshal(res.body, &data); err != nil {
				return nil, state, errors.Wrap(err, "parse fetched dataset")
			}
			if err := os.WriteFile(path, res.body, 0644); err != nil {
				return nil, state, errors.Wrapf(err, "write dataset '%s'", path)
			}

			state.DataChecksum = FileChecksum(path)
			state.HTTPETag = res.etag
			state.HTTPLastModified = res.lastModified

			return data, state, nil

		default:
			hlog.Debugf("HTTP rsp body: '%s'", res.body)

			return nil, state, errors.Errorf("unexpected HTTP status code '%d'", res.statusCode)
		}
	}
}

// fetch issues one GET against url. Conditional headers are sent only for
// non-empty validators. The response body and caching headers are copied
// out before the hertz buffers are recycled.
func (c *Client) fetch(ctx context.Context, url, etag, lastModified string) (*fetchResult, error) {
	req, resp := protocol.AcquireRequest(), protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()
	req.SetMethod(consts.MethodGet)
	req.SetRequestURI(url)
	req.Header.Set("User-Agent", known.UserAgent)
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}
	if lastModified != "" {
		req.Header.Set("If-Modified-Since", lastModified)
	}

	hlog.Debugf("HTTP req GET %s", url)
	if err := c.hc.DoTimeout(ctx, req, resp, c.timeout); err != nil {
		return nil, errors.Wrapf(err, "fetch '%s'", url)
	}
	hlog.Debugf("HTTP rsp status code: %d", resp.StatusCode())

	result := &fetchResult{
		statusCode: resp.StatusCode(),
		body:       append([]byte(nil), resp.Body()...),
	}
	resp.Header.VisitAll(func(key, value []byte) {
		switch strings.ToLower(string(key)) {
		case "etag":
			result.etag = string(value)
		case "last-modified":
			result.lastModified = string(value)
		}
	})

	return result, nil
}
