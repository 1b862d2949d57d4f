package sources

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"

	"github.com/cenkalti/backoff/v5"
)

// fetchCSV downloads url and parses it as CSV. Client errors (4xx) are not
// retried.
func (l *Loader) fetchCSV(ctx context.Context, name, url string) ([][]string, error) {
	var records [][]string

	err := l.retry.Do(ctx, "fetch-"+name, func() error {
		ctx, cancel := context.WithTimeout(ctx, l.cfg.HTTPTimeout)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request: %w", err))
		}
		req.Header.Set("Accept", "text/csv")

		resp, err := l.client.Do(req)
		if err != nil {
			return fmt.Errorf("get %s: %w", name, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			_, _ = io.Copy(io.Discard, resp.Body)
			err := fmt.Errorf("get %s: unexpected status %s", name, resp.Status)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return backoff.Permanent(err)
			}
			return err
		}

		r := csv.NewReader(resp.Body)
		r.FieldsPerRecord = -1
		r.TrimLeadingSpace = true
		recs, err := r.ReadAll()
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		records = recs
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.Debug("fetched source", "source", name, "rows", len(records))
	return records, nil
}
