package notify

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const sendgridEndpoint = "/v3/mail/send"

// EmailChannel mails the order summary to the restaurant through SendGrid.
type EmailChannel struct {
	key        string
	from       *sgmail.Email
	to         *sgmail.Email
	restaurant string
	host       string
}

func NewEmailChannel(apiKey, fromEmail, toEmail, restaurant string) *EmailChannel {
	return &EmailChannel{
		key:        apiKey,
		from:       sgmail.NewEmail(restaurant, fromEmail),
		to:         sgmail.NewEmail(restaurant, toEmail),
		restaurant: restaurant,
		host:       "https://api.sendgrid.com",
	}
}

func (e *EmailChannel) Name() string { return "email" }

func (e *EmailChannel) subject(ev OrderEvent) string {
	if ev.Cancelled() {
		return "Order Cancelled - " + e.restaurant
	}
	return "New Order - " + e.restaurant
}

func (e *EmailChannel) Send(ctx context.Context, ev OrderEvent, message string) error {
	p := sgmail.NewPersonalization()
	p.Subject = e.subject(ev)
	p.AddTos(e.to)

	m := sgmail.NewV3Mail()
	m.SetFrom(e.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", message))

	req := sendgrid.GetRequest(e.key, sendgridEndpoint, e.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return err
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}
