package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
)

// TelegramService pushes operational alerts to the mess admin chat.
type TelegramService struct {
	botToken    string
	adminChatID string
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, adminChatID string) *TelegramService {
	return &TelegramService{
		botToken:    botToken,
		adminChatID: adminChatID,
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends a message to the specified chat.
func (s *TelegramService) SendMessage(chatID, text string) error {
	if s.botToken == "" {
		log.Println("[Telegram] Bot token not configured")
		return nil
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.botToken)

	msg := telegramMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("[Telegram] Failed to send message: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Telegram] Unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// SendToAdmin sends a message to the admin chat.
func (s *TelegramService) SendToAdmin(text string) error {
	if s.adminChatID == "" {
		log.Println("[Telegram] Admin chat ID not configured")
		return nil
	}
	return s.SendMessage(s.adminChatID, text)
}

// MealOrderNotification contains order data for the admin alert.
type MealOrderNotification struct {
	OrderID     string
	BuyerName   string
	BuyerEmail  string
	BuyerRole   string
	Meals       []MealLineNotification
	TotalAmount float64
	CouponCode  string
}

// MealLineNotification is one ordered meal in the alert.
type MealLineNotification struct {
	Name     string
	MealType string
	Price    float64
}

// NotifyNewOrder alerts the admin chat about a freshly placed order.
func (s *TelegramService) NotifyNewOrder(order MealOrderNotification) error {
	if s.adminChatID == "" {
		return nil
	}

	var mealList strings.Builder
	for i, meal := range order.Meals {
		mealList.WriteString(fmt.Sprintf("%d. <b>%s</b> (%s) ₹%.2f\n", i+1, meal.Name, meal.MealType, meal.Price))
	}

	couponLine := "issuance failed, needs repair"
	if order.CouponCode != "" {
		couponLine = order.CouponCode
	}

	message := fmt.Sprintf(`<b>🍽 NEW MEAL ORDER</b>
<b>📋 Order:</b> %s
<b>👤 Buyer:</b> %s (%s)
<b>📧 Email:</b> %s
<b>🥗 Meals:</b>
%s
<b>💰 Total:</b> ₹%.2f
<b>🎟 Coupon:</b> %s`,
		order.OrderID,
		order.BuyerName,
		order.BuyerRole,
		order.BuyerEmail,
		mealList.String(),
		order.TotalAmount,
		couponLine,
	)

	return s.SendToAdmin(strings.TrimSpace(message))
}

// NotifyCouponIssueFailure flags an order whose coupon write failed so an
// operator can reissue it.
func (s *TelegramService) NotifyCouponIssueFailure(orderID string, reason error) error {
	if s.adminChatID == "" {
		return nil
	}

	message := fmt.Sprintf(`<b>⚠️ COUPON ISSUANCE FAILED</b>
<b>📋 Order:</b> %s
<b>❌ Reason:</b> %v
Order stands; reissue the coupon from the missing-coupon report.`,
		orderID,
		reason,
	)

	return s.SendToAdmin(strings.TrimSpace(message))
}
