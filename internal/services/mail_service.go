package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

// MailService delivers transactional email through an HTTP mail API.
// Delivery is best-effort everywhere it is used: a failed send is logged and
// never blocks or reverses the operation that triggered it.
type MailService struct {
	apiURL string
	apiKey string
	from   string
	client *http.Client
}

// NewMailService creates a new MailService.
func NewMailService(apiURL, apiKey, from string) *MailService {
	return &MailService{
		apiURL: apiURL,
		apiKey: apiKey,
		from:   from,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

type mailMessage struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Send delivers one message to the recipient.
func (s *MailService) Send(recipient, subject, body string) error {
	if s.apiURL == "" {
		log.Printf("[Mail] API not configured, skipping send to %s (%s)", recipient, subject)
		return nil
	}

	payload, err := json.Marshal(mailMessage{
		From:    s.from,
		To:      recipient,
		Subject: subject,
		Body:    body,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, s.apiURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("[Mail] Failed to send to %s: %v", recipient, err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[Mail] Unexpected status sending to %s: %d", recipient, resp.StatusCode)
		return fmt.Errorf("mail API returned status %d", resp.StatusCode)
	}

	return nil
}

// OrderConfirmation holds what goes into the buyer's confirmation email.
type OrderConfirmation struct {
	Recipient   string
	BuyerName   string
	OrderID     string
	MealNames   []string
	TotalAmount float64
	DetailsLink string
}

// SendOrderConfirmation emails the buyer their order summary and the link to
// the order-details page.
func (s *MailService) SendOrderConfirmation(conf OrderConfirmation) error {
	name := conf.BuyerName
	if name == "" {
		name = "Customer"
	}

	body := fmt.Sprintf(
		"Dear %s, your order for %s (Total: ₹%.2f) was successful. Use the link provided to view your order details. Order ID: %s.",
		name,
		strings.Join(conf.MealNames, ", "),
		conf.TotalAmount,
		conf.OrderID,
	)
	if conf.DetailsLink != "" {
		body += "\n\n" + conf.DetailsLink
	}

	return s.Send(conf.Recipient, "Meal Order Confirmed & Details Link Generated", body)
}
