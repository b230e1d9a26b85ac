package network

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"stock-digest/src/logger"
	"stock-digest/src/models"
)

type NetworkManager struct {
	Config *models.MConfig
	Client *http.Client
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewNetworkManager(cfg *models.MConfig, log *logger.Logger) *NetworkManager {
	return &NetworkManager{
		Config: cfg,
		Logger: log,
		Client: &http.Client{
			Timeout: time.Duration(cfg.Network.RequestTimeout) * time.Second,
		},
	}
}

// -----------------------------------------------------------------------------

// Get performs a GET request with retries and exponential backoff.
func (nm *NetworkManager) Get(ctx context.Context, urlStr string, params map[string]string) ([]byte, error) {
	reqUrl, err := url.Parse(urlStr)
	if err != nil {
		return nil, err
	}

	q := reqUrl.Query()
	for k, v := range params {
		q.Add(k, v)
	}
	reqUrl.RawQuery = q.Encode()

	finalUrl := reqUrl.String()

	maxRetries := nm.Config.Network.MaxRetries
	var lastErr error

	for i := 0; i <= maxRetries; i++ {
		if i > 0 {
			select {
			case <-time.After(time.Duration(i*i) * time.Second):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, finalUrl, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", nm.Config.Network.UserAgent)

		resp, err := nm.Client.Do(req)
		if err != nil {
			lastErr = err
			nm.Logger.Debug("Request failed (attempt %d/%d): %v", i+1, maxRetries+1, err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusForbidden {
			resp.Body.Close()
			lastErr = fmt.Errorf("blocked (status %d)", resp.StatusCode)
			nm.Logger.Warning("Request blocked (%d), backing off", resp.StatusCode)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("bad status: %d", resp.StatusCode)
			nm.Logger.Debug("Bad status %d for %s", resp.StatusCode, urlStr)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		return body, nil
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}
