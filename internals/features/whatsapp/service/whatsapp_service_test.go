package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ebivilapaula_backend/internals/configs"
)

func TestFormatPhoneE164(t *testing.T) {
	cases := []struct {
		name  string
		phone string
		want  string
	}{
		{"already e164", "+5511988887777", "+5511988887777"},
		{"plus with punctuation", "+55 (11) 98888-7777", "+5511988887777"},
		{"local mobile gets country code", "11988887777", "+5511988887777"},
		{"local with punctuation", "(11) 98888-7777", "+5511988887777"},
		{"short landline gets country code", "1133334444", "+551133334444"},
		{"long number kept bare", "005511988887777", "+005511988887777"},
		{"empty", "", ""},
		{"no digits", "abc", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, formatPhoneE164(tc.phone, "55"))
		})
	}
}

func TestSendPin_DropsWhenQueueFull(t *testing.T) {
	s := New(configs.WhatsAppConfig{Enabled: false})
	s.queue = make(chan pinMessage, 1)

	s.SendPin("11988887777", "Pedro", "1234")
	s.SendPin("11988887777", "Pedro", "5678") // dropped, must not block

	assert.Len(t, s.queue, 1)
}

func TestStartStopWorker_DrainsQueue(t *testing.T) {
	s := New(configs.WhatsAppConfig{Enabled: false})
	s.SendPin("11988887777", "Pedro", "1234")

	s.StartWorker()
	s.StopWorker()

	assert.Empty(t, s.queue)
}

func TestBuildTemplatePayload(t *testing.T) {
	s := New(configs.WhatsAppConfig{
		TemplateName:     "ebi_pin",
		TemplateLanguage: "pt_BR",
	})

	payload := s.buildTemplatePayload("+5511988887777", "1234", "Pedro")
	assert.Equal(t, "whatsapp", payload["messaging_product"])
	assert.Equal(t, "+5511988887777", payload["to"])

	tpl := payload["template"].(map[string]interface{})
	assert.Equal(t, "ebi_pin", tpl["name"])

	components := tpl["components"].([]map[string]interface{})
	params := components[0]["parameters"].([]map[string]string)
	assert.Equal(t, "Pedro", params[0]["text"])
	assert.Equal(t, "1234", params[1]["text"])
}
