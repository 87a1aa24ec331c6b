// Package telegram adapts the Bot API to engine events and renders engine
// instructions as Telegram messages.
package telegram

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sol1corejz/storebot/internal/bot"
	"github.com/sol1corejz/storebot/internal/errs"
	"github.com/sol1corejz/storebot/internal/i18n"
	"github.com/sol1corejz/storebot/internal/logger"
	"github.com/sol1corejz/storebot/internal/models"
	"go.uber.org/zap"
)

const defaultWorkers = 8

// Sender is the part of *tgbotapi.BotAPI the adapter needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Handler interface {
	Handle(ctx context.Context, ev bot.Event) bot.Outcome
}

type Adapter struct {
	api     Sender
	handler Handler
	workers int
}

func New(api Sender, handler Handler, workers int) *Adapter {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Adapter{api: api, handler: handler, workers: workers}
}

// Serve consumes updates until ctx is done or the channel closes. Updates of
// one user always land on the same worker, so they are handled in order.
func (a *Adapter) Serve(ctx context.Context, updates <-chan tgbotapi.Update) {
	queues := make([]chan tgbotapi.Update, a.workers)
	var wg sync.WaitGroup
	for i := range queues {
		queues[i] = make(chan tgbotapi.Update, 64)
		wg.Add(1)
		go func(q <-chan tgbotapi.Update) {
			defer wg.Done()
			for upd := range q {
				a.HandleUpdate(ctx, upd)
			}
		}(queues[i])
	}
	defer func() {
		for _, q := range queues {
			close(q)
		}
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("Telegram adapter stopped")
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			uid, ok := senderID(upd)
			if !ok {
				continue
			}
			idx := int(uid % int64(a.workers))
			if idx < 0 {
				idx = -idx
			}
			select {
			case queues[idx] <- upd:
			case <-ctx.Done():
				return
			}
		}
	}
}

// HandleUpdate runs one update through the engine and dispatches the result.
func (a *Adapter) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if cq := upd.CallbackQuery; cq != nil {
		if _, err := a.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
			logger.Log.Warn("Failed to answer callback", zap.Error(err))
		}
	}

	ev, ok := EventFromUpdate(upd)
	if !ok {
		return
	}
	out := a.handler.Handle(ctx, ev)
	if out.Ignored {
		return
	}
	a.Dispatch(ctx, out.Instructions)
}

func senderID(upd tgbotapi.Update) (int64, bool) {
	switch {
	case upd.CallbackQuery != nil && upd.CallbackQuery.From != nil:
		return upd.CallbackQuery.From.ID, true
	case upd.Message != nil && upd.Message.From != nil:
		return upd.Message.From.ID, true
	}
	return 0, false
}

// EventFromUpdate converts an update into an engine event. Updates the
// engine has no use for (edits, channel posts, stickers) report false.
func EventFromUpdate(upd tgbotapi.Update) (bot.Event, bool) {
	if cq := upd.CallbackQuery; cq != nil {
		if cq.From == nil || cq.Data == "" {
			return bot.Event{}, false
		}
		return bot.Button(cq.From.ID, cq.Data), true
	}

	m := upd.Message
	if m == nil || m.From == nil {
		return bot.Event{}, false
	}
	uid := m.From.ID

	switch {
	case m.Location != nil:
		return bot.Location(uid, models.Location{Latitude: m.Location.Latitude, Longitude: m.Location.Longitude}), true
	case len(m.Photo) > 0:
		return bot.Photo(uid, largestPhoto(m.Photo)), true
	case m.Contact != nil:
		phone := strings.TrimSpace(m.Contact.PhoneNumber)
		if phone != "" && !strings.HasPrefix(phone, "+") {
			phone = "+" + phone
		}
		return bot.Text(uid, phone), true
	case m.IsCommand():
		return bot.Command(uid, m.Text), true
	case m.Text != "":
		return bot.Text(uid, m.Text), true
	}
	return bot.Event{}, false
}

func largestPhoto(sizes []tgbotapi.PhotoSize) string {
	best := sizes[0]
	for _, p := range sizes[1:] {
		if p.Width*p.Height > best.Width*best.Height {
			best = p
		}
	}
	return best.FileID
}

// Dispatch sends every instruction. A failed send is logged and the rest
// are still attempted.
func (a *Adapter) Dispatch(_ context.Context, instructions []bot.Instruction) {
	for _, in := range instructions {
		if _, err := a.api.Send(Render(in)); err != nil {
			logger.Log.Error("Failed to deliver instruction",
				zap.Int64("userID", in.UserID),
				zap.Stringer("kind", in.Kind),
				zap.String("key", in.Message.Key),
				zap.Error(fmt.Errorf("%w: %v", errs.ErrTransportFailure, err)))
		}
	}
}

// Render builds the Bot API request for one instruction.
func Render(in bot.Instruction) tgbotapi.Chattable {
	text := in.Text()

	if in.Photo != "" {
		photo := tgbotapi.NewPhoto(in.UserID, photoFile(in.Photo))
		photo.Caption = text
		if len(in.Choices) > 0 {
			photo.ReplyMarkup = inlineKeyboard(in)
		}
		return photo
	}

	m := tgbotapi.NewMessage(in.UserID, text)
	switch {
	case in.RequestLocation:
		kb := tgbotapi.NewReplyKeyboard(tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButtonLocation(i18n.Render(in.Lang, "btn_send_location", nil)),
		))
		kb.OneTimeKeyboard = true
		kb.ResizeKeyboard = true
		m.ReplyMarkup = kb
	case len(in.Choices) > 0:
		m.ReplyMarkup = inlineKeyboard(in)
	}
	return m
}

func inlineKeyboard(in bot.Instruction) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(in.Choices))
	for _, choices := range in.Choices {
		row := make([]tgbotapi.InlineKeyboardButton, 0, len(choices))
		for _, c := range choices {
			if len(c.Payload) == 0 || len(c.Payload) > bot.MaxPayloadBytes {
				logger.Log.Error("Dropping button with oversized payload",
					zap.Int64("userID", in.UserID), zap.Int("bytes", len(c.Payload)))
				continue
			}
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(c.Label.Render(in.Lang), c.Payload))
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// photoFile accepts both Telegram file ids and public URLs from the seed file.
func photoFile(ref string) tgbotapi.RequestFileData {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return tgbotapi.FileURL(ref)
	}
	return tgbotapi.FileID(ref)
}
