package downloader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/frederic-klein/yanm/internal/dist"
)

// Job represents a download job.
type Job struct {
	URL      string
	DestPath string
	Name     string // label shown in progress output; empty reports no progress
}

// Result represents a download result.
type Result struct {
	Job   Job
	Error error
}

// ProgressFunc receives the bytes written so far for a job. total is -1
// when the server did not send a length.
type ProgressFunc func(name string, written, total int64)

// Downloader handles parallel HTTP downloads.
type Downloader struct {
	workers  int
	dir      string
	client   *http.Client
	progress ProgressFunc
	logger   *slog.Logger
}

// NewDownloader creates a new downloader with the specified number of workers.
func NewDownloader(workers int, dir string, client *http.Client, logger *slog.Logger) *Downloader {
	if workers < 1 {
		workers = 1
	}
	if client == nil {
		client = &http.Client{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Downloader{
		workers: workers,
		dir:     dir,
		client:  client,
		logger:  logger,
	}
}

// OnProgress registers fn to receive progress updates.
func (d *Downloader) OnProgress(fn ProgressFunc) {
	d.progress = fn
}

// Download downloads multiple files in parallel. Results are returned in
// job order.
func (d *Downloader) Download(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, len(jobs))
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		for i, job := range jobs {
			results[i] = Result{Job: job, Error: fmt.Errorf("%w: creating %s: %v", dist.ErrSystem, d.dir, err)}
		}
		return results
	}

	jobChan := make(chan int, len(jobs))

	var wg sync.WaitGroup
	for range min(d.workers, len(jobs)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobChan {
				results[i] = Result{Job: jobs[i], Error: d.downloadOne(ctx, jobs[i])}
			}
		}()
	}

	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)
	wg.Wait()

	return results
}

func (d *Downloader) downloadOne(ctx context.Context, job Job) error {
	// Check if already downloaded
	if _, err := os.Stat(job.DestPath); err == nil {
		d.logger.Debug("using downloaded file", "path", job.DestPath)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(job.DestPath), 0o755); err != nil {
		return fmt.Errorf("%w: creating directory: %v", dist.ErrSystem, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, job.URL, nil)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", dist.ErrDownload, job.URL, err)
	}
	d.logger.Info("downloading", "url", job.URL)
	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", dist.ErrDownload, job.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s: HTTP %d", dist.ErrDownload, job.URL, resp.StatusCode)
	}

	// Write to temp file first, then rename
	tmpPath := job.DestPath + ".tmp"
	out, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("%w: creating file: %v", dist.ErrSystem, err)
	}

	var w io.Writer = out
	if d.progress != nil && job.Name != "" {
		w = &progressWriter{w: out, name: job.Name, total: resp.ContentLength, fn: d.progress}
	}
	_, err = io.Copy(w, resp.Body)
	out.Close()
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %s: %v", dist.ErrDownload, job.URL, err)
	}

	if err := os.Rename(tmpPath, job.DestPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: renaming file: %v", dist.ErrSystem, err)
	}

	return nil
}

// Path returns where a file named name is downloaded to.
func (d *Downloader) Path(name string) string {
	return filepath.Join(d.dir, name)
}

type progressWriter struct {
	w       io.Writer
	name    string
	written int64
	total   int64
	fn      ProgressFunc
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.written += int64(n)
	p.fn(p.name, p.written, p.total)
	return n, err
}
