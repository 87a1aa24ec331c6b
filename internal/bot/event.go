package bot

import (
	"strings"

	"github.com/google/uuid"
	"github.com/sol1corejz/storebot/internal/models"
)

type EventKind int

const (
	EventCommand EventKind = iota + 1
	EventText
	EventButton
	EventLocation
	EventPhoto
)

func (k EventKind) String() string {
	switch k {
	case EventCommand:
		return "command"
	case EventText:
		return "text"
	case EventButton:
		return "button"
	case EventLocation:
		return "location"
	case EventPhoto:
		return "photo"
	}
	return "unknown"
}

// Event is one typed user input delivered by the transport.
type Event struct {
	ID       uuid.UUID
	UserID   int64
	Kind     EventKind
	Text     string
	Payload  string
	Location *models.Location
	PhotoRef string
}

func Command(userID int64, command string) Event {
	return Event{ID: uuid.New(), UserID: userID, Kind: EventCommand, Text: command}
}

func Text(userID int64, text string) Event {
	return Event{ID: uuid.New(), UserID: userID, Kind: EventText, Text: text}
}

func Button(userID int64, payload string) Event {
	return Event{ID: uuid.New(), UserID: userID, Kind: EventButton, Payload: payload}
}

func Location(userID int64, loc models.Location) Event {
	return Event{ID: uuid.New(), UserID: userID, Kind: EventLocation, Location: &loc}
}

func Photo(userID int64, ref string) Event {
	return Event{ID: uuid.New(), UserID: userID, Kind: EventPhoto, PhotoRef: ref}
}

// command returns the bare command name, "/start@storebot arg" → "/start".
func (ev Event) command() string {
	fields := strings.Fields(ev.Text)
	if len(fields) == 0 {
		return ""
	}
	name, _, _ := strings.Cut(fields[0], "@")
	return strings.ToLower(name)
}
