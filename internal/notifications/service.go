package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"reclaim/internal/config"
)

const userAgent = "Reclaim/0.1.0"

// Merge describes a resolved duplicate pair: the loser was (or is about to
// be) removed in favor of the keeper.
type Merge struct {
	KeeperPath     string
	LoserPath      string
	PerceptualHash string
}

// Service defines the notification surface exposed to the resolution driver.
type Service interface {
	// NotifyMerge reports a merge to the sink. A sink that is down or
	// unreachable is not an error; the update is skipped silently.
	NotifyMerge(ctx context.Context, merge Merge) error
}

// NewService builds a notification service backed by the configured sink.
// When no sink URL is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	base := strings.TrimSpace(cfg.Sink.URL)
	if base == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Sink.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &httpService{
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

type httpService struct {
	base   string
	client *http.Client
}

func (s *httpService) NotifyMerge(ctx context.Context, merge Merge) error {
	if !s.alive(ctx) {
		return nil
	}

	params := url.Values{}
	params.Set("keeper_path", merge.KeeperPath)
	params.Set("loser_path", merge.LoserPath)
	params.Set("keeper_name", filepath.Base(merge.KeeperPath))
	params.Set("loser_name", filepath.Base(merge.LoserPath))
	params.Set("phash", merge.PerceptualHash)

	endpoint := s.base + "/update?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build update request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send merge update: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("sink returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// alive probes the sink's health endpoint. Any error counts as "not ready".
func (s *httpService) alive(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.base+"/health-check", nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

type noopService struct{}

func (noopService) NotifyMerge(context.Context, Merge) error { return nil }
