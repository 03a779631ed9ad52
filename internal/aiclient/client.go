// Package aiclient talks to the external priority-scoring service.
// The service exposes a single trigger operation; its results land in the
// Prioridades_internacion table and are read back from the database.
package aiclient

import (
	"context"
	"encoding/json"
	"fmt"

	"bed-management-backend/internal/config"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// TriggerRequest is the body sent to the scorer's trigger endpoint
type TriggerRequest struct {
	Parametro1 string `json:"parametro1"`
}

type Client struct {
	httpClient  *resty.Client
	triggerPath string
	payload     TriggerRequest
	logger      *zap.Logger
}

func NewClient(cfg config.AIConfig, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient:  httpClient,
		triggerPath: cfg.TriggerPath,
		payload:     TriggerRequest{Parametro1: cfg.TriggerParam},
		logger:      logger,
	}
}

// Trigger asks the scorer to recompute priorities. Only the HTTP outcome is
// consumed; the response body has no defined schema. It returns the payload
// that was sent.
func (c *Client) Trigger(ctx context.Context) (json.RawMessage, error) {
	body, err := json.Marshal(c.payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode trigger payload: %w", err)
	}

	c.logger.Info("Calling AI scorer", zap.String("path", c.triggerPath))

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		Post(c.triggerPath)
	if err != nil {
		c.logger.Error("AI scorer call failed", zap.Error(err))
		return body, fmt.Errorf("failed to call AI scorer: %w", err)
	}

	if resp.IsError() {
		c.logger.Error("AI scorer returned error",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("body", resp.String()),
		)
		return body, fmt.Errorf("AI scorer returned status %d", resp.StatusCode())
	}

	c.logger.Info("AI scorer accepted trigger", zap.Int("status_code", resp.StatusCode()))
	return body, nil
}
