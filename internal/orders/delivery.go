package orders

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sol1corejz/storebot/internal/errs"
	"github.com/sol1corejz/storebot/internal/i18n"
)

const slotMinutes = 30

type Day int

const (
	Today Day = iota
	Tomorrow
)

func (d Day) String() string {
	if d == Tomorrow {
		return "Tomorrow"
	}
	return "Today"
}

// DeliveryTime is a normalized customer-chosen delivery time.
type DeliveryTime struct {
	Day    Day
	Hour   int
	Minute int
}

func (d DeliveryTime) String() string {
	return fmt.Sprintf("%s %02d:%02d", d.Day, d.Hour, d.Minute)
}

var clockPattern = regexp.MustCompile(`^(\d{1,2})[:.]?(\d{2})`)

// DeliveryPlanner resolves the three delivery-time policies in the store's
// time zone.
type DeliveryPlanner struct {
	MinLead  time.Duration
	Location *time.Location
}

func (p DeliveryPlanner) loc() *time.Location {
	if p.Location == nil {
		return time.Local
	}
	return p.Location
}

// AdminDefault is the placeholder stored when the admin picks the time.
func (p DeliveryPlanner) AdminDefault() string {
	return fmt.Sprintf("Admin will choose (default %d min)", int(p.MinLead.Minutes()))
}

// NextSlot rounds now+MinLead up to the next half-hour boundary.
func (p DeliveryPlanner) NextSlot(now time.Time) string {
	now = now.In(p.loc())
	earliest := now.Add(p.MinLead)

	hour := time.Date(earliest.Year(), earliest.Month(), earliest.Day(), earliest.Hour(), 0, 0, 0, p.loc())
	slot := hour.Add(time.Duration((earliest.Minute()/slotMinutes+1)*slotMinutes) * time.Minute)

	day := Today
	if !sameDay(slot, now) {
		day = Tomorrow
	}
	return DeliveryTime{Day: day, Hour: slot.Hour(), Minute: slot.Minute()}.String()
}

// ParseCustom reads "<day keyword> H:MM" in the user's language. A missing
// keyword or unreadable clock yields errs.ErrInvalidDeliveryTime; a time
// closer than MinLead yields errs.ErrDeliveryTimeTooSoon. Both are wrapped
// in a ValidationError.
func (p DeliveryPlanner) ParseCustom(text, lang string, now time.Time) (DeliveryTime, error) {
	now = now.In(p.loc())
	text = strings.ToLower(strings.TrimSpace(text))

	day, rest, ok := matchDay(text, i18n.Days(lang))
	if !ok {
		return DeliveryTime{}, errs.ValidationWrap("invalid_delivery_time", errs.ErrInvalidDeliveryTime)
	}

	m := clockPattern.FindStringSubmatch(rest)
	if m == nil {
		return DeliveryTime{}, errs.ValidationWrap("invalid_delivery_time", errs.ErrInvalidDeliveryTime)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return DeliveryTime{}, errs.ValidationWrap("invalid_delivery_time", errs.ErrInvalidDeliveryTime)
	}

	at := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, p.loc())
	if day == Tomorrow {
		at = at.AddDate(0, 0, 1)
	}
	if at.Before(now.Add(p.MinLead)) {
		return DeliveryTime{}, errs.ValidationWrap("delivery_time_too_soon", errs.ErrDeliveryTimeTooSoon)
	}

	return DeliveryTime{Day: day, Hour: hour, Minute: minute}, nil
}

func matchDay(text string, kw i18n.DayKeywords) (Day, string, bool) {
	for _, c := range []struct {
		day   Day
		words []string
	}{{Today, kw.Today}, {Tomorrow, kw.Tomorrow}} {
		for _, w := range c.words {
			if strings.Contains(text, w) {
				return c.day, strings.TrimSpace(strings.Replace(text, w, "", 1)), true
			}
		}
	}
	return Today, "", false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
