package service

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/bytedance/sonic"

	"ebivilapaula_backend/internals/configs"
)

// Service delivers checkout PINs to guardians over the Meta Cloud API.
// Every send is best-effort: errors are logged and swallowed, the caller
// never blocks on the network and never sees a failure.
type Service struct {
	cfg    configs.WhatsAppConfig
	client *http.Client

	queue chan pinMessage
	done  chan struct{}
}

type pinMessage struct {
	Phone     string
	ChildName string
	PinCode   string
}

func New(cfg configs.WhatsAppConfig) *Service {
	return &Service{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		queue:  make(chan pinMessage, 128),
		done:   make(chan struct{}),
	}
}

// StartWorker runs the dispatch loop. The add-presence transaction only pays
// for a channel send; the HTTP round trip happens here.
func (s *Service) StartWorker() {
	go func() {
		defer close(s.done)
		for msg := range s.queue {
			s.sendNow(msg)
		}
	}()
}

// StopWorker drains the queue and waits for the loop to finish.
func (s *Service) StopWorker() {
	close(s.queue)
	select {
	case <-s.done:
	case <-time.After(15 * time.Second):
		log.Println("[WARN] whatsapp worker did not drain in time")
	}
}

// SendPin enqueues a PIN notification. Never returns an error; a full queue
// drops the message with a log line.
func (s *Service) SendPin(guardianPhone, childName, pinCode string) {
	select {
	case s.queue <- pinMessage{Phone: guardianPhone, ChildName: childName, PinCode: pinCode}:
	default:
		log.Printf("[WARN] whatsapp queue full, dropping PIN message for %s", childName)
	}
}

func (s *Service) sendNow(msg pinMessage) {
	if !s.cfg.Enabled {
		return
	}
	if s.cfg.PhoneNumberID == "" || s.cfg.AccessToken == "" {
		log.Println("[WARN] WhatsApp config missing, skipping send")
		return
	}
	if s.cfg.TemplateName == "" {
		log.Println("[WARN] WhatsApp template name missing, skipping send")
		return
	}

	toNumber := formatPhoneE164(msg.Phone, s.cfg.DefaultCountryCode)
	if toNumber == "" {
		log.Printf("[WARN] invalid phone for WhatsApp: %s", msg.Phone)
		return
	}

	payload := s.buildTemplatePayload(toNumber, msg.PinCode, msg.ChildName)
	body, err := sonic.Marshal(payload)
	if err != nil {
		log.Printf("[ERROR] whatsapp payload marshal: %v", err)
		return
	}

	url := fmt.Sprintf("https://graph.facebook.com/%s/%s/messages", s.cfg.APIVersion, s.cfg.PhoneNumberID)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		log.Printf("[ERROR] whatsapp request build: %v", err)
		return
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("[ERROR] whatsapp send: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Printf("[WARN] WhatsApp send failed: %s", string(respBody))
	}
}

func (s *Service) buildTemplatePayload(toNumber, pinCode, childName string) map[string]interface{} {
	return map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                toNumber,
		"type":              "template",
		"template": map[string]interface{}{
			"name":     s.cfg.TemplateName,
			"language": map[string]string{"code": s.cfg.TemplateLanguage},
			"components": []map[string]interface{}{
				{
					"type": "body",
					"parameters": []map[string]string{
						{"type": "text", "text": childName},
						{"type": "text", "text": pinCode},
					},
				},
			},
		},
	}
}

// formatPhoneE164 normalizes a phone for dispatch: a leading "+" keeps the
// digits as-is; short local numbers get the default country code; anything
// longer than 11 digits is assumed to already carry one.
func formatPhoneE164(phone, defaultCountryCode string) string {
	var b strings.Builder
	for _, ch := range phone {
		if unicode.IsDigit(ch) {
			b.WriteRune(ch)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}

	if strings.HasPrefix(strings.TrimSpace(phone), "+") {
		return "+" + digits
	}

	if len(digits) <= 11 {
		return "+" + defaultCountryCode + digits
	}

	return "+" + digits
}
