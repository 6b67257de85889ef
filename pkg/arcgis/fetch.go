package arcgis

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/datasciencecampus/geosnap/internal/geotable"
)

// FetchPage performs one synchronous request against the endpoint with the
// given query parameters. A non-2xx status fails immediately with the status
// code and reason phrase; there is no retry. On success the body is parsed
// as a feature collection and a geometry table tagged with the declared CRS
// is constructed alongside it.
func (c *Client) FetchPage(ctx context.Context, endpoint string, params url.Values) (*Page, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "arcgis: rate limit")
	}

	reqURL := endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "arcgis: build request")
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "arcgis: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, eris.Errorf("arcgis: server returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "arcgis: read body")
	}

	var fc FeatureCollection
	if err := json.Unmarshal(body, &fc); err != nil {
		return nil, eris.Wrap(err, "arcgis: parse response")
	}

	page := &Page{Collection: &fc}
	table, err := geotable.FromFeatures(fc.Features, page.CRSName())
	if err != nil {
		return nil, err
	}
	page.Table = table

	zap.L().Debug("fetched feature page",
		zap.String("endpoint", endpoint),
		zap.Int("records", table.Len()),
		zap.String("state", page.State().String()),
	)

	return page, nil
}

// FetchAll repeatedly fetches pages until the server stops declaring that
// the transfer limit was exceeded, concatenating all pages into one table
// with a contiguous row index. params must include the result-offset key and
// is mutated in place: after each page the offset is incremented by that
// page's record count, so callers must not share the same Values across
// concurrent fetches.
func (c *Client) FetchAll(ctx context.Context, endpoint string, params url.Values) (*geotable.Table, error) {
	if !params.Has(ResultOffsetKey) {
		return nil, eris.Errorf("arcgis: params missing %s", ResultOffsetKey)
	}
	offset, err := strconv.Atoi(params.Get(ResultOffsetKey))
	if err != nil {
		return nil, eris.Wrapf(err, "arcgis: parse %s", ResultOffsetKey)
	}

	page, err := c.FetchPage(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}

	all := page.Table
	pages := 1

	for page.State() == PageTruncated {
		offset += page.Table.Len()
		params.Set(ResultOffsetKey, strconv.Itoa(offset))

		page, err = c.FetchPage(ctx, endpoint, params)
		if err != nil {
			return nil, err
		}
		all.Append(page.Table)
		pages++
	}

	if page.State() == PageUnmarked {
		// The transfer-limit property vanished rather than turning false.
		// The server does this on the last page, so pagination completes,
		// but a truncated response would look identical.
		zap.L().Debug("pagination ended without transfer-limit marker",
			zap.String("endpoint", endpoint),
			zap.Int("pages", pages),
		)
	}

	all.Renumber()

	zap.L().Info("paginated fetch complete",
		zap.String("endpoint", endpoint),
		zap.Int("pages", pages),
		zap.Int("records", all.Len()),
	)

	return all, nil
}
