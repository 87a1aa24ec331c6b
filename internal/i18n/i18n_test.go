package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		lang string
		key  string
		args map[string]string
		want string
	}{
		{name: "plain", lang: "en", key: "main_menu", want: "Main Menu"},
		{name: "args", lang: "en", key: "order_confirmed", args: map[string]string{"time": "Today 14:00"}, want: "Your order is confirmed! Delivery time: Today 14:00"},
		{name: "translated", lang: "ru", key: "main_menu", want: "Главное меню"},
		{name: "admin flow translated", lang: "uz", key: "promo_exists", want: "Bu promokod allaqachon mavjud."},
		{name: "unknown language", lang: "de", key: "cart_empty", want: "Cart is empty."},
		{name: "unknown key", lang: "en", key: "nope", want: "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.lang, tt.key, tt.args))
		})
	}
}

// Every language must define the keys users see during ordering.
func TestLanguagesCoverOrderingFlow(t *testing.T) {
	keys := []string{
		"enter_name", "enter_phone", "invalid_phone", "main_menu", "choose_store",
		"cart_empty", "invalid_promo", "invalid_delivery_time", "delivery_time_too_soon",
		"insufficient_coins", "order_confirmed", "invalid_feedback", "invalid_coin_amount",
		"pending_coin_request", "error",
	}
	for _, lang := range Languages {
		for _, key := range keys {
			_, ok := messages[lang][key]
			assert.True(t, ok, "%s/%s", lang, key)
		}
	}
}

func TestLanguagesDefineEveryKey(t *testing.T) {
	for _, lang := range Languages {
		for key := range messages[DefaultLanguage] {
			_, ok := messages[lang][key]
			assert.True(t, ok, "%s/%s", lang, key)
		}
		assert.Len(t, messages[lang], len(messages[DefaultLanguage]), lang)
	}
}

func TestDays(t *testing.T) {
	assert.Equal(t, []string{"ertaga"}, Days("uz").Tomorrow)
	assert.Equal(t, []string{"today"}, Days("xx").Today)
}
