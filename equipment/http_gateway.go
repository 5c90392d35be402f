// equipment/http_gateway.go

package equipment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	logger "github.com/gatewise/gatewise/logging"
)

// HTTPGateway talks to door controllers over their IP-addressed HTTP
// endpoint. The device protocol details stop here; the rest of the system
// only sees the Gateway contract.
type HTTPGateway struct {
	client  *http.Client
	timeout time.Duration
}

var _ Gateway = &HTTPGateway{}

// NewHTTPGateway creates a gateway whose individual calls are bounded by the
// given timeout.
func NewHTTPGateway(timeout time.Duration) *HTTPGateway {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPGateway{
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

func (g *HTTPGateway) Grant(ctx context.Context, req GrantRequest) error {
	start := time.Now()
	err := g.post(ctx, req.EquipmentIP, "/api/v1/access", req)
	if err != nil {
		logger.Warn("Equipment grant call failed",
			zap.String("equipmentID", req.EquipmentID),
			zap.String("equipmentIP", req.EquipmentIP),
			zap.String("personID", req.PersonID),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return &CallError{EquipmentID: req.EquipmentID, EquipmentIP: req.EquipmentIP, Err: err}
	}
	logger.Debug("Equipment grant call succeeded",
		zap.String("equipmentID", req.EquipmentID),
		zap.String("personID", req.PersonID),
		zap.Duration("duration", time.Since(start)))
	return nil
}

func (g *HTTPGateway) Revoke(ctx context.Context, req RevokeRequest) error {
	start := time.Now()
	err := g.post(ctx, req.EquipmentIP, "/api/v1/access/revoke", req)
	if err != nil {
		logger.Warn("Equipment revoke call failed",
			zap.String("equipmentID", req.EquipmentID),
			zap.String("equipmentIP", req.EquipmentIP),
			zap.String("personID", req.PersonID),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return &CallError{EquipmentID: req.EquipmentID, EquipmentIP: req.EquipmentIP, Err: err}
	}
	logger.Debug("Equipment revoke call succeeded",
		zap.String("equipmentID", req.EquipmentID),
		zap.String("personID", req.PersonID),
		zap.Duration("duration", time.Since(start)))
	return nil
}

func (g *HTTPGateway) post(ctx context.Context, ip, path string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	url := fmt.Sprintf("http://%s%s", ip, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("device returned status %d: %s", resp.StatusCode, string(msg))
	}

	return nil
}
