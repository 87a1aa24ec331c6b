package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sol1corejz/storebot/internal/bot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	fail     bool
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return tgbotapi.Message{}, errors.New("bad gateway")
	}
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

type fakeHandler struct {
	mu     sync.Mutex
	events []bot.Event
	out    bot.Outcome
}

func (h *fakeHandler) Handle(_ context.Context, ev bot.Event) bot.Outcome {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, ev)
	return h.out
}

func message(uid int64) *tgbotapi.Message {
	return &tgbotapi.Message{From: &tgbotapi.User{ID: uid}, Chat: &tgbotapi.Chat{ID: uid}}
}

func TestEventFromUpdate(t *testing.T) {
	command := message(7)
	command.Text = "/start"
	command.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}}

	text := message(7)
	text.Text = "tomorrow 14:00"

	loc := message(7)
	loc.Location = &tgbotapi.Location{Latitude: 41.3, Longitude: 69.2}

	photo := message(7)
	photo.Photo = []tgbotapi.PhotoSize{
		{FileID: "small", Width: 90, Height: 90},
		{FileID: "large", Width: 1280, Height: 960},
		{FileID: "medium", Width: 320, Height: 240},
	}

	contact := message(7)
	contact.Contact = &tgbotapi.Contact{PhoneNumber: "998901234567"}

	tests := []struct {
		name    string
		upd     tgbotapi.Update
		kind    bot.EventKind
		text    string
		payload string
		photo   string
		ok      bool
	}{
		{name: "command", upd: tgbotapi.Update{Message: command}, kind: bot.EventCommand, text: "/start", ok: true},
		{name: "text", upd: tgbotapi.Update{Message: text}, kind: bot.EventText, text: "tomorrow 14:00", ok: true},
		{name: "location", upd: tgbotapi.Update{Message: loc}, kind: bot.EventLocation, ok: true},
		{name: "largest photo", upd: tgbotapi.Update{Message: photo}, kind: bot.EventPhoto, photo: "large", ok: true},
		{name: "contact as phone text", upd: tgbotapi.Update{Message: contact}, kind: bot.EventText, text: "+998901234567", ok: true},
		{
			name:    "callback",
			upd:     tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{ID: "q", From: &tgbotapi.User{ID: 7}, Data: "add:3"}},
			kind:    bot.EventButton,
			payload: "add:3",
			ok:      true,
		},
		{name: "empty message", upd: tgbotapi.Update{Message: message(7)}},
		{name: "no sender", upd: tgbotapi.Update{Message: &tgbotapi.Message{Text: "hi"}}},
		{name: "edited message", upd: tgbotapi.Update{EditedMessage: text}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := EventFromUpdate(tt.upd)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, int64(7), ev.UserID)
			assert.Equal(t, tt.kind, ev.Kind)
			assert.Equal(t, tt.text, ev.Text)
			assert.Equal(t, tt.payload, ev.Payload)
			assert.Equal(t, tt.photo, ev.PhotoRef)
		})
	}
}

func TestEventFromUpdate_Location(t *testing.T) {
	m := message(7)
	m.Location = &tgbotapi.Location{Latitude: 41.3, Longitude: 69.2}

	ev, ok := EventFromUpdate(tgbotapi.Update{Message: m})
	require.True(t, ok)
	require.NotNil(t, ev.Location)
	assert.Equal(t, 41.3, ev.Location.Latitude)
	assert.Equal(t, 69.2, ev.Location.Longitude)
}

func TestRender_InlineChoices(t *testing.T) {
	in := bot.Instruction{
		Kind:    bot.ShowChoices,
		UserID:  7,
		Lang:    "en",
		Message: bot.Message{Key: "main_menu"},
		Choices: [][]bot.Choice{
			{{Label: bot.Message{Key: "btn_start_ordering"}, Payload: "start_ordering"}, {Label: bot.Message{Raw: "Tsum"}, Payload: "store:1"}},
			{{Label: bot.Message{Key: "btn_help"}, Payload: "help"}},
		},
	}

	m, ok := Render(in).(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(7), m.ChatID)
	assert.Equal(t, in.Text(), m.Text)

	kb, ok := m.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, kb.InlineKeyboard, 2)
	require.Len(t, kb.InlineKeyboard[0], 2)
	assert.Equal(t, "Tsum", kb.InlineKeyboard[0][1].Text)
	require.NotNil(t, kb.InlineKeyboard[0][1].CallbackData)
	assert.Equal(t, "store:1", *kb.InlineKeyboard[0][1].CallbackData)
}

func TestRender_DropsOversizedPayloads(t *testing.T) {
	in := bot.Instruction{
		Kind:    bot.ShowChoices,
		UserID:  7,
		Lang:    "en",
		Message: bot.Message{Key: "choose_category"},
		Choices: [][]bot.Choice{
			{{Label: bot.Message{Raw: "long"}, Payload: bot.Payload(bot.ActCategory, strings.Repeat("к", 30))}},
			{{Label: bot.Message{Raw: "ok"}, Payload: bot.Payload(bot.ActCategory, "cream")}},
		},
	}

	m, ok := Render(in).(tgbotapi.MessageConfig)
	require.True(t, ok)
	kb, ok := m.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, kb.InlineKeyboard, 1)
	for _, row := range kb.InlineKeyboard {
		for _, b := range row {
			require.NotNil(t, b.CallbackData)
			assert.LessOrEqual(t, len(*b.CallbackData), bot.MaxPayloadBytes)
		}
	}
	assert.Equal(t, "category:cream", *kb.InlineKeyboard[0][0].CallbackData)
}

func TestRender_LocationRequest(t *testing.T) {
	in := bot.Instruction{Kind: bot.ShowMessage, UserID: 7, Lang: "en", Message: bot.Message{Key: "send_location"}, RequestLocation: true}

	m, ok := Render(in).(tgbotapi.MessageConfig)
	require.True(t, ok)
	kb, ok := m.ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, kb.Keyboard, 1)
	assert.True(t, kb.Keyboard[0][0].RequestLocation)
	assert.Equal(t, "Send location", kb.Keyboard[0][0].Text)
	assert.True(t, kb.OneTimeKeyboard)
}

func TestRender_Photo(t *testing.T) {
	in := bot.Instruction{
		Kind:    bot.NotifyAdmin,
		UserID:  1,
		Lang:    "en",
		Message: bot.Message{Raw: "receipt"},
		Photo:   "file-1",
		Choices: [][]bot.Choice{{{Label: bot.Message{Raw: "Approve"}, Payload: "approve_coin:1"}}},
	}

	p, ok := Render(in).(tgbotapi.PhotoConfig)
	require.True(t, ok)
	assert.Equal(t, "receipt", p.Caption)
	assert.Equal(t, tgbotapi.FileID("file-1"), p.File)
	_, ok = p.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	assert.True(t, ok)

	in.Photo = "https://example.com/cream.jpg"
	p, ok = Render(in).(tgbotapi.PhotoConfig)
	require.True(t, ok)
	assert.Equal(t, tgbotapi.FileURL("https://example.com/cream.jpg"), p.File)
}

func TestDispatch_KeepsGoingOnFailure(t *testing.T) {
	api := &fakeAPI{fail: true}
	a := New(api, &fakeHandler{}, 1)

	assert.NotPanics(t, func() {
		a.Dispatch(context.Background(), []bot.Instruction{
			{Kind: bot.ShowMessage, UserID: 7, Message: bot.Message{Raw: "one"}},
			{Kind: bot.ShowMessage, UserID: 7, Message: bot.Message{Raw: "two"}},
		})
	})
	assert.Empty(t, api.sent)
}

func TestHandleUpdate(t *testing.T) {
	api := &fakeAPI{}
	h := &fakeHandler{out: bot.Outcome{Instructions: []bot.Instruction{
		{Kind: bot.ShowMessage, UserID: 7, Message: bot.Message{Raw: "hello"}},
	}}}
	a := New(api, h, 1)

	a.HandleUpdate(context.Background(), tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{ID: "q1", From: &tgbotapi.User{ID: 7}, Data: "help"},
	})

	require.Len(t, h.events, 1)
	assert.Equal(t, "help", h.events[0].Payload)
	assert.Len(t, api.requests, 1)
	require.Len(t, api.sent, 1)

	h.out = bot.Outcome{Ignored: true}
	text := message(7)
	text.Text = "hi"
	a.HandleUpdate(context.Background(), tgbotapi.Update{Message: text})
	assert.Len(t, api.sent, 1)
}

func TestServe_PreservesPerUserOrder(t *testing.T) {
	api := &fakeAPI{}
	h := &fakeHandler{}
	a := New(api, h, 4)

	updates := make(chan tgbotapi.Update)
	done := make(chan struct{})
	go func() {
		a.Serve(context.Background(), updates)
		close(done)
	}()

	want := []string{"1", "2", "3", "4", "5"}
	for _, s := range want {
		m := message(42)
		m.Text = s
		updates <- tgbotapi.Update{Message: m}
	}
	close(updates)
	<-done

	var got []string
	for _, ev := range h.events {
		got = append(got, ev.Text)
	}
	assert.Equal(t, want, got)
}
