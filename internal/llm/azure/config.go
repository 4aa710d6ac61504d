package azure

import (
	"log/slog"
	"net/http"
	"os"
	"time"
)

// Config for the Azure OpenAI client. Temperature is intentionally absent:
// extraction runs at temperature 0 so repeated calls over the same text are
// deterministic.
type Config struct {
	Endpoint   string        // e.g. https://myresource.openai.azure.com; falls back to env AZURE_OPENAI_ENDPOINT
	APIKey     string        // falls back to env AZURE_OPENAI_API_KEY
	Deployment string        // deployment name of the chat model
	APIVersion string        // default 2024-02-15-preview
	Timeout    time.Duration // http client timeout
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = os.Getenv("AZURE_OPENAI_ENDPOINT")
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("AZURE_OPENAI_API_KEY")
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2024-02-15-preview"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}
