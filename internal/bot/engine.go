// Package bot is the conversation state machine. Engine.Handle maps a
// session's current state and an inbound event to outbound instructions
// and the next state, delegating to pricing, ledger and orders.
package bot

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sol1corejz/storebot/internal/errs"
	"github.com/sol1corejz/storebot/internal/i18n"
	"github.com/sol1corejz/storebot/internal/ledger"
	"github.com/sol1corejz/storebot/internal/logger"
	"github.com/sol1corejz/storebot/internal/models"
	"github.com/sol1corejz/storebot/internal/orders"
	"github.com/sol1corejz/storebot/internal/pricing"
	"github.com/sol1corejz/storebot/internal/session"
	"github.com/sol1corejz/storebot/internal/storage"
	"go.uber.org/zap"
)

var DefaultPhonePattern = regexp.MustCompile(`^\+998\d{9}$`)

type Quoter interface {
	Quote(ctx context.Context, req pricing.Request) (pricing.Quote, error)
}

type Settings struct {
	AdminIDs             []int64
	RestrictedCategories []string
	PageSize             int
	SupportContact       string
	CardNumber           string
	// ExchangeRate is UZS per coin.
	ExchangeRate decimal.Decimal
	PhonePattern *regexp.Regexp
}

type Config struct {
	Sessions session.Store
	Storage  storage.Storage
	Pricing  Quoter
	Ledger   *ledger.Ledger
	Orders   *orders.Service
	Planner  orders.DeliveryPlanner
	Settings Settings
	Now      func() time.Time
}

type Engine struct {
	sessions session.Store
	locker   *session.Locker
	store    storage.Storage
	pricing  Quoter
	ledger   *ledger.Ledger
	orders   *orders.Service
	planner  orders.DeliveryPlanner
	settings Settings
	now      func() time.Time

	admins     map[int64]struct{}
	restricted map[string]struct{}

	commands    map[string]route
	global      map[string]route
	adminGlobal map[string]route
	table       map[session.State]stateSpec
}

func New(cfg Config) *Engine {
	e := &Engine{
		sessions:   cfg.Sessions,
		locker:     session.NewLocker(),
		store:      cfg.Storage,
		pricing:    cfg.Pricing,
		ledger:     cfg.Ledger,
		orders:     cfg.Orders,
		planner:    cfg.Planner,
		settings:   cfg.Settings,
		now:        cfg.Now,
		admins:     make(map[int64]struct{}),
		restricted: make(map[string]struct{}),
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.settings.PageSize <= 0 {
		e.settings.PageSize = 5
	}
	if e.settings.PhonePattern == nil {
		e.settings.PhonePattern = DefaultPhonePattern
	}
	if e.settings.ExchangeRate.IsZero() {
		e.settings.ExchangeRate = decimal.NewFromInt(1)
	}
	for _, id := range cfg.Settings.AdminIDs {
		e.admins[id] = struct{}{}
	}
	for _, c := range cfg.Settings.RestrictedCategories {
		e.restricted[c] = struct{}{}
	}
	e.buildTable()
	return e
}

func (e *Engine) IsAdmin(userID int64) bool {
	_, ok := e.admins[userID]
	return ok
}

// Outcome is the result of one Handle call. Ignored is set when the current
// state does not accept the event; nothing changes in that case.
type Outcome struct {
	Instructions []Instruction
	State        session.State
	Ignored      bool
}

type turn struct {
	ctx   context.Context
	ev    Event
	s     *session.Session
	lang  string
	admin bool
	out   []Instruction
	after []func(context.Context) []Instruction
}

func (t *turn) show(m Message) {
	t.out = append(t.out, Instruction{Kind: ShowMessage, UserID: t.ev.UserID, Lang: t.lang, Message: m})
}

func (t *turn) showChoices(m Message, rows [][]Choice) {
	t.out = append(t.out, Instruction{Kind: ShowChoices, UserID: t.ev.UserID, Lang: t.lang, Message: m, Choices: rows})
}

func (t *turn) emit(in Instruction) {
	t.out = append(t.out, in)
}

// deferred registers work that must run after the acting user's lock is
// released, such as updating another user's session.
func (t *turn) deferred(fn func(context.Context) []Instruction) {
	t.after = append(t.after, fn)
}

// Handle processes one event for its user. Events of the same user are
// serialized; different users proceed in parallel.
func (e *Engine) Handle(ctx context.Context, ev Event) Outcome {
	log := logger.Log.With(
		zap.String("eventID", ev.ID.String()),
		zap.Int64("userID", ev.UserID),
		zap.Stringer("kind", ev.Kind))

	unlock := e.locker.Lock(ev.UserID)

	s, err := e.sessions.Get(ctx, ev.UserID)
	if err != nil {
		unlock()
		log.Error("Failed to load session", zap.Error(err))
		lang := i18n.DefaultLanguage
		return Outcome{
			Instructions: []Instruction{{Kind: ShowMessage, UserID: ev.UserID, Lang: lang, Message: msg("error", e.supportArgs())}},
			State:        session.Idle,
		}
	}
	s.EnsureCart()

	t := &turn{ctx: ctx, ev: ev, s: s, admin: e.IsAdmin(ev.UserID)}
	t.lang = e.language(ctx, ev.UserID, s)

	h, ok := e.route(s.State, ev, t.admin)
	if !ok {
		unlock()
		log.Debug("Event ignored", zap.String("state", string(s.State)))
		return Outcome{State: s.State, Ignored: true}
	}

	log.Debug("Handling event", zap.String("state", string(s.State)), zap.String("payload", ev.Payload))
	prev := s.State
	if err := h(e, t); err != nil {
		e.recover(t, prev, err, log)
	}

	if err := e.sessions.Put(ctx, ev.UserID, s); err != nil {
		log.Error("Failed to save session", zap.Error(err))
	}
	state := s.State
	unlock()

	out := t.out
	for _, fn := range t.after {
		out = append(out, fn(ctx)...)
	}
	return Outcome{Instructions: out, State: state}
}

// recover turns a handler error into user-facing effects. Validation errors
// re-prompt in the same state; anything else shows a generic apology,
// alerts the admins and returns to the main menu with the cart kept.
func (e *Engine) recover(t *turn, prev session.State, err error, log *zap.Logger) {
	if ve, ok := errs.AsValidation(err); ok {
		t.s.State = prev
		t.show(msg(ve.Key, e.promptArgs()))
		return
	}

	log.Error("Failed to handle event", zap.String("state", string(prev)), zap.Error(err))
	t.out = nil
	t.after = nil

	t.show(msg("error", e.supportArgs()))
	t.out = append(t.out, e.notifyAdmins(t.lang, msg("error_admin", map[string]string{
		"user_id": strconv.FormatInt(t.ev.UserID, 10),
		"error":   err.Error(),
	}), nil, "")...)

	t.s.PromoCode = ""
	t.s.DeliveryTime = ""
	t.s.PaymentType = ""
	t.s.Quote = nil
	t.s.ProductDraft = nil
	t.s.PromoDraft = nil

	if !t.s.Cart.Empty() {
		if err := e.showCart(t); err == nil {
			return
		}
	}
	e.showMainMenu(t)
}

func (e *Engine) language(ctx context.Context, userID int64, s *session.Session) string {
	if s.Language == "" {
		if u, err := e.store.GetUser(ctx, userID); err == nil && i18n.Supported(u.Language) {
			s.Language = u.Language
		}
	}
	if s.Language == "" {
		return i18n.DefaultLanguage
	}
	return s.Language
}

func (e *Engine) userLanguage(ctx context.Context, userID int64) string {
	if u, err := e.store.GetUser(ctx, userID); err == nil && i18n.Supported(u.Language) {
		return u.Language
	}
	return i18n.DefaultLanguage
}

func (e *Engine) supportArgs() map[string]string {
	return map[string]string{"support": e.settings.SupportContact}
}

// promptArgs are the arguments every validation message may reference.
func (e *Engine) promptArgs() map[string]string {
	return map[string]string{
		"support": e.settings.SupportContact,
		"minutes": strconv.Itoa(int(e.planner.MinLead.Minutes())),
		"rate":    e.settings.ExchangeRate.String(),
	}
}

func (e *Engine) notifyAdmins(lang string, m Message, rows [][]Choice, photo string) []Instruction {
	out := make([]Instruction, 0, len(e.settings.AdminIDs))
	for _, id := range e.settings.AdminIDs {
		out = append(out, Instruction{Kind: NotifyAdmin, UserID: id, Lang: lang, Message: m, Choices: rows, Photo: photo})
	}
	return out
}

func notifyUser(userID int64, lang string, m Message) Instruction {
	return Instruction{Kind: NotifyUser, UserID: userID, Lang: lang, Message: m}
}

// updateSession applies fn to another user's session under that user's lock.
func (e *Engine) updateSession(ctx context.Context, userID int64, fn func(*session.Session)) error {
	unlock := e.locker.Lock(userID)
	defer unlock()

	s, err := e.sessions.Get(ctx, userID)
	if err != nil {
		return err
	}
	s.EnsureCart()
	fn(s)
	return e.sessions.Put(ctx, userID, s)
}

// ConfirmOrder is the admin pending → confirmed transition. The owner is
// notified and asked for feedback.
func (e *Engine) ConfirmOrder(ctx context.Context, adminID, orderID int64) ([]Instruction, error) {
	order, err := e.orders.Confirm(ctx, orderID, adminID)
	if err != nil {
		return nil, err
	}
	return e.afterConfirm(ctx, order), nil
}

func (e *Engine) afterConfirm(ctx context.Context, order models.Order) []Instruction {
	lang := ""
	err := e.updateSession(ctx, order.UserID, func(s *session.Session) {
		s.State = session.AwaitingFeedback
		s.FeedbackOrderID = order.ID
		s.PendingAlert = false
		lang = s.Language
	})
	if err != nil {
		logger.Log.Error("Failed to start feedback collection", zap.Int64("orderID", order.ID), zap.Error(err))
	}
	if !i18n.Supported(lang) {
		lang = e.userLanguage(ctx, order.UserID)
	}

	return []Instruction{
		notifyUser(order.UserID, lang, msg("order_confirmed", map[string]string{"time": order.DeliveryTime})),
		notifyUser(order.UserID, lang, msg("feedback_prompt", nil)),
	}
}

// ResolveCoinRequest approves or rejects a top-up and notifies its owner.
func (e *Engine) ResolveCoinRequest(ctx context.Context, adminID, requestID int64, decision ledger.Decision) ([]Instruction, error) {
	req, err := e.ledger.Resolve(ctx, requestID, decision, adminID)
	if err != nil {
		return nil, err
	}

	lang := e.userLanguage(ctx, req.UserID)
	key := "coin_request_rejected"
	if req.Status == models.CoinRequestApproved {
		key = "coin_request_approved"
	}
	return []Instruction{
		notifyUser(req.UserID, lang, msg(key, map[string]string{"amount": req.Amount.StringFixed(pricing.Precision)})),
	}, nil
}

// SweepTimeouts auto-confirms orders no admin answered in time and returns
// one fallback notification per transitioned order.
func (e *Engine) SweepTimeouts(ctx context.Context) ([]Instruction, error) {
	confirmed, err := e.orders.SweepTimeouts(ctx)
	if err != nil {
		return nil, err
	}

	var out []Instruction
	for _, o := range confirmed {
		lang := e.userLanguage(ctx, o.UserID)
		id := strconv.FormatInt(o.ID, 10)
		out = append(out, notifyUser(o.UserID, lang, msg("order_auto_confirmed", map[string]string{
			"order_id": id,
			"time":     o.DeliveryTime,
		})))
		out = append(out, e.notifyAdmins(i18n.DefaultLanguage, msg("order_auto_admin", map[string]string{"order_id": id}), nil, "")...)
	}
	return out, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, errs.ErrNotFound)
}
