package internal

import (
	"fmt"

	"github.com/sacsbd/sacs-tui/config"
	"github.com/sacsbd/sacs-tui/internal/kpi"
	"github.com/sacsbd/sacs-tui/internal/transport"
)

// Services holds the initialized dashboard services for one server.
type Services struct {
	KPIs kpi.ServiceAPI
}

// NewServices creates a Services container from the given service interfaces.
func NewServices(k kpi.ServiceAPI) *Services {
	return &Services{
		KPIs: k,
	}
}

// Connect builds the HTTP transport and services for a server profile.
func Connect(cfg config.ServerConfig, userAgent string) (*Services, error) {
	client, err := transport.New(transport.Config{
		BaseURL:            cfg.BaseURL,
		SessionID:          cfg.SessionID,
		CSRFToken:          cfg.CSRFToken,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
		Timeout:            cfg.Timeout,
		UserAgent:          userAgent,
	})
	if err != nil {
		return nil, fmt.Errorf("creating client for %s: %w", cfg.BaseURL, err)
	}
	return NewServices(kpi.NewService(client, cfg.KPIsPath, cfg.MetricsPath)), nil
}
