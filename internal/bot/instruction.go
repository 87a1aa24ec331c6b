package bot

import (
	"context"

	"github.com/sol1corejz/storebot/internal/i18n"
)

type InstructionKind int

const (
	ShowMessage InstructionKind = iota + 1
	ShowChoices
	NotifyAdmin
	NotifyUser
)

func (k InstructionKind) String() string {
	switch k {
	case ShowMessage:
		return "show_message"
	case ShowChoices:
		return "show_choices"
	case NotifyAdmin:
		return "notify_admin"
	case NotifyUser:
		return "notify_user"
	}
	return "unknown"
}

// Message is either a localized template reference or raw text.
type Message struct {
	Key  string
	Args map[string]string
	Raw  string
}

func (m Message) Render(lang string) string {
	if m.Key == "" {
		return m.Raw
	}
	return i18n.Render(lang, m.Key, m.Args)
}

func msg(key string, args map[string]string) Message {
	return Message{Key: key, Args: args}
}

func raw(text string) Message {
	return Message{Raw: text}
}

type Choice struct {
	Label   Message
	Payload string
}

func button(key, payload string) Choice {
	return Choice{Label: msg(key, nil), Payload: payload}
}

func rawButton(label, payload string) Choice {
	return Choice{Label: raw(label), Payload: payload}
}

// Instruction is one outbound effect for the transport to render. UserID is
// the recipient: the acting user for Show*, the target for Notify*.
type Instruction struct {
	Kind            InstructionKind
	UserID          int64
	Lang            string
	Message         Message
	Choices         [][]Choice
	Photo           string
	RequestLocation bool
}

func (in Instruction) Text() string {
	return in.Message.Render(in.Lang)
}

// Dispatcher delivers instructions. Delivery is best effort: failures are
// logged by the implementation and never reported back.
type Dispatcher interface {
	Dispatch(ctx context.Context, instructions []Instruction)
}
