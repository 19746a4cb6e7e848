package service

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// NotifyService informs an external sink (e.g. a chat webhook) about
// noteworthy events. Fire-and-forget: a failed notification never rolls
// back the operation that triggered it.
type NotifyService interface {
	GiftCodeIssued(code string, points int, expiresAt time.Time)
}

type notifyService struct {
	webhookURL string
	client     *http.Client
}

func NewNotifyService(webhookURL string) NotifyService {
	return &notifyService{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 5 * time.Second},
	}
}

func (s *notifyService) GiftCodeIssued(code string, points int, expiresAt time.Time) {
	if s.webhookURL == "" {
		return
	}

	go func() {
		payload, err := json.Marshal(map[string]interface{}{
			"event":      "gift_code_issued",
			"code":       code,
			"points":     points,
			"expires_at": expiresAt,
		})
		if err != nil {
			return
		}

		resp, err := s.client.Post(s.webhookURL, "application/json", bytes.NewReader(payload))
		if err != nil {
			log.Printf("❌ Failed to notify webhook about gift code %s: %v", code, err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			log.Printf("❌ Webhook returned status %d for gift code %s", resp.StatusCode, code)
		}
	}()
}
