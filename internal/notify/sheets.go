package notify

import (
	"context"
	"net/http"
	"time"

	"darmenu/internal/core"
)

// SheetsChannel appends the order to a spreadsheet through an Apps Script
// web app. The body is JSON sent as text/plain so the script accepts it
// without a preflight.
type SheetsChannel struct {
	webAppURL string
	client    *http.Client
}

func NewSheetsChannel(webAppURL string) *SheetsChannel {
	return &SheetsChannel{webAppURL: webAppURL, client: defaultHTTPClient}
}

func (s *SheetsChannel) Name() string { return "google_sheets" }

type sheetsRow struct {
	core.OrderNotes
	ReservationID string `json:"reservationId,omitempty"`
	Status        string `json:"status"`
	CreatedAt     string `json:"createdAt"`
}

func (s *SheetsChannel) Send(ctx context.Context, ev OrderEvent, _ string) error {
	status := "received"
	if ev.Cancelled() {
		status = "cancelled"
	}
	created := ev.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	return postJSON(ctx, s.client, s.webAppURL, "text/plain;charset=UTF-8", sheetsRow{
		OrderNotes:    ev.Order,
		ReservationID: ev.ReservationID,
		Status:        status,
		CreatedAt:     created.UTC().Format(time.RFC3339),
	}, nil)
}
