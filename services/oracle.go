package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bellapacxx/lottery-backend/utils/logger"
)

// OracleNotifier tells the external randomness oracle that a request is
// waiting. The oracle answers later, out of band, through the
// /api/randomness/callback endpoint; a failed or ignored notify is not
// retried.
type OracleNotifier struct {
	url    string
	client *http.Client
}

func NewOracleNotifier(url string) *OracleNotifier {
	return &OracleNotifier{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type oracleRequest struct {
	RequestID uint64 `json:"request_id"`
	NumValues int    `json:"num_values"`
}

// NotifyRequest posts the request to the oracle. Errors are logged only; the
// engine treats non-delivery as permanent.
func (o *OracleNotifier) NotifyRequest(requestID uint64, numValues int) {
	if err := o.post(oracleRequest{RequestID: requestID, NumValues: numValues}); err != nil {
		logger.Errorf("[Oracle] notify for request %d failed: %v", requestID, err)
	}
}

func (o *OracleNotifier) post(payload oracleRequest) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, o.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("oracle responded with status %d", resp.StatusCode)
	}
	return nil
}
