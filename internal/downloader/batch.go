package downloader

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"firestige.xyz/crxfetch/internal/webstore"
)

// DownloadAll runs the fetch→decode→persist sequence for each id with a
// bounded worker pool. Per-id downloads share no mutable state, so the
// workers need no coordination beyond the job channel. Results come
// back in completion order, one per input id.
func (d *Downloader) DownloadAll(ctx context.Context, ids []string) []Result {
	if len(ids) == 0 {
		return nil
	}

	// Reject the whole batch up front on malformed ids, before any
	// network traffic.
	if d.cfg.Security.ValidateExtensionID {
		var invalid []string
		for _, id := range ids {
			if !webstore.ValidID(id) {
				invalid = append(invalid, id)
			}
		}
		if len(invalid) > 0 {
			results := make([]Result, 0, len(invalid))
			for _, id := range invalid {
				results = append(results, Result{ID: id, Err: fmt.Errorf("downloader: invalid extension id %q", id)})
			}
			return results
		}
	}

	workers := d.cfg.Performance.MaxConcurrentDownloads
	if workers < 1 {
		workers = 1
	}
	if workers > len(ids) {
		workers = len(ids)
	}

	jobs := make(chan string)
	out := make(chan Result, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				path, meta, err := d.Download(ctx, id, "")
				out <- Result{ID: id, Path: path, Meta: meta, Err: err}
			}
		}()
	}

	logrus.WithFields(logrus.Fields{"count": len(ids), "workers": workers}).Info("starting batch download")
	for _, id := range ids {
		jobs <- id
	}
	close(jobs)
	wg.Wait()
	close(out)

	results := make([]Result, 0, len(ids))
	failed := 0
	for r := range out {
		if r.Err != nil {
			failed++
			logrus.WithField("id", r.ID).WithError(r.Err).Error("download failed")
		}
		results = append(results, r)
	}
	logrus.WithFields(logrus.Fields{
		"succeeded": len(results) - failed,
		"failed":    failed,
	}).Info("batch download completed")
	return results
}

// ReadIDFile reads extension ids from a text file, one per line. Blank
// lines and lines starting with # are skipped.
func ReadIDFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("downloader: open id list: %w", err)
	}
	defer f.Close()

	var ids []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("downloader: read id list: %w", err)
	}
	return ids, nil
}
