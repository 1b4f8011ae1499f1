package screenshot

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Provider relays board screenshots from the external rendering service.
// The renderer is a black box: the backend never generates or stores
// images, it only streams the renderer's response through.
type Provider struct {
	baseURL string
	client  *http.Client
	logger  *zap.SugaredLogger
}

func NewProvider(baseURL string, logger *zap.Logger) *Provider {
	return &Provider{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger.Sugar(),
	}
}

// Fetch requests the rendered screenshot for a board. The caller owns the
// response body and must close it.
func (p *Provider) Fetch(ctx context.Context, boardID string) (*http.Response, error) {
	url := fmt.Sprintf("%s/boards/%s/screenshot", p.baseURL, boardID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Warnw("Screenshot service unreachable", "board_id", boardID, "error", err)
		return nil, err
	}

	return resp, nil
}
