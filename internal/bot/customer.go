package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sol1corejz/storebot/internal/errs"
	"github.com/sol1corejz/storebot/internal/i18n"
	"github.com/sol1corejz/storebot/internal/ledger"
	"github.com/sol1corejz/storebot/internal/logger"
	"github.com/sol1corejz/storebot/internal/models"
	"github.com/sol1corejz/storebot/internal/orders"
	"github.com/sol1corejz/storebot/internal/pricing"
	"github.com/sol1corejz/storebot/internal/session"
	"go.uber.org/zap"
)

func (e *Engine) onStart(t *turn) error {
	t.s.Reset()

	user, err := e.store.GetUser(t.ctx, t.ev.UserID)
	if isNotFound(err) {
		t.s.State = session.AwaitingLanguage
		t.showChoices(msg("welcome", nil), languageRows())
		return nil
	}
	if err != nil {
		return err
	}
	if i18n.Supported(user.Language) {
		t.s.Language, t.lang = user.Language, user.Language
	}
	e.showMainMenu(t)
	return nil
}

// onMainMenu is the cancel path: every in-flight quote and draft is dropped.
func (e *Engine) onMainMenu(t *turn) error {
	t.s.ClearOrder()
	t.s.ProductDraft = nil
	t.s.PromoDraft = nil
	t.s.PendingCategory = ""
	t.s.CoinAmount = decimal.Zero
	e.showMainMenu(t)
	return nil
}

// requireUser loads the acting user; unregistered users are told to /start.
func (e *Engine) requireUser(t *turn) (models.User, error) {
	u, err := e.store.GetUser(t.ctx, t.ev.UserID)
	if isNotFound(err) {
		return models.User{}, errs.ValidationWrap("not_registered", err)
	}
	return u, err
}

func (e *Engine) onLanguage(t *turn) error {
	_, lang := parsePayload(t.ev.Payload)
	if !i18n.Supported(lang) {
		return errs.Validation("choose_language")
	}
	t.s.Language, t.lang = lang, lang

	_, err := e.store.GetUser(t.ctx, t.ev.UserID)
	if isNotFound(err) {
		t.s.State = session.AwaitingRegistrationName
		t.show(msg("enter_name", nil))
		return nil
	}
	if err != nil {
		return err
	}

	if err := e.store.UpdateUserLanguage(t.ctx, t.ev.UserID, lang); err != nil {
		return err
	}
	t.show(msg("language_changed", nil))
	e.showMainMenu(t)
	return nil
}

func (e *Engine) onRegistrationName(t *turn) error {
	name := strings.TrimSpace(t.ev.Text)
	if name == "" {
		return errs.Validation("invalid_name")
	}
	t.s.RegistrationName = name
	t.s.State = session.AwaitingRegistrationPhone
	t.show(msg("enter_phone", nil))
	return nil
}

func (e *Engine) onRegistrationPhone(t *turn) error {
	phone := strings.ReplaceAll(strings.TrimSpace(t.ev.Text), " ", "")
	if !e.settings.PhonePattern.MatchString(phone) {
		return errs.Validation("invalid_phone")
	}

	err := e.store.CreateUser(t.ctx, models.User{
		ID:        t.ev.UserID,
		Name:      t.s.RegistrationName,
		Phone:     phone,
		Language:  t.lang,
		CreatedAt: e.now(),
	})
	if err != nil {
		return err
	}
	logger.Log.Info("User registered", zap.Int64("userID", t.ev.UserID))

	t.s.RegistrationName = ""
	e.showMainMenu(t)
	return nil
}

func (e *Engine) onSettings(t *turn) error {
	t.showChoices(msg("settings", nil), [][]Choice{
		{button("btn_change_name", ActChangeName), button("btn_change_language", ActChangeLanguage)},
		backRow(ActMainMenu),
	})
	return nil
}

func (e *Engine) onChangeName(t *turn) error {
	if _, err := e.requireUser(t); err != nil {
		return err
	}
	t.s.State = session.AwaitingNewName
	t.show(msg("enter_new_name", nil))
	return nil
}

func (e *Engine) onNewName(t *turn) error {
	name := strings.TrimSpace(t.ev.Text)
	if name == "" {
		return errs.Validation("invalid_name")
	}
	if err := e.store.UpdateUserName(t.ctx, t.ev.UserID, name); err != nil {
		return err
	}
	t.show(msg("name_changed", nil))
	e.showMainMenu(t)
	return nil
}

func (e *Engine) onChangeLanguage(t *turn) error {
	t.s.State = session.AwaitingLanguage
	t.showChoices(msg("choose_language", nil), languageRows())
	return nil
}

func (e *Engine) onHelp(t *turn) error {
	t.showChoices(msg("help_info", e.supportArgs()), [][]Choice{backRow(ActMainMenu)})
	return nil
}

func (e *Engine) onMyCoins(t *turn) error {
	if _, err := e.requireUser(t); err != nil {
		return err
	}
	balance, err := e.ledger.Balance(t.ctx, t.ev.UserID)
	if err != nil {
		return err
	}
	t.showChoices(msg("my_coins", map[string]string{"coins": amount(balance)}), [][]Choice{
		{button("btn_buy_coins", ActBuyCoins), button("btn_go_back", ActMainMenu)},
	})
	return nil
}

func (e *Engine) onMyOrders(t *turn) error {
	history, err := e.orders.History(t.ctx, t.ev.UserID)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		t.showChoices(msg("no_orders", nil), [][]Choice{backRow(ActMainMenu)})
		return nil
	}

	lines := make([]string, 0, len(history))
	for _, o := range history {
		lines = append(lines, i18n.Render(t.lang, "order_line", map[string]string{
			"order_id": strconv.FormatInt(o.ID, 10),
			"status":   o.Status,
			"total":    amount(o.Total),
			"delivery": o.DeliveryTime,
		}))
	}
	t.showChoices(msg("my_orders", map[string]string{"orders": strings.Join(lines, "\n")}), [][]Choice{backRow(ActMainMenu)})
	return nil
}

func (e *Engine) onBuyCoins(t *turn) error {
	if _, err := e.requireUser(t); err != nil {
		return err
	}
	pending, err := e.ledger.HasPending(t.ctx, t.ev.UserID)
	if err != nil {
		return err
	}
	if pending {
		t.show(msg("pending_coin_request", nil))
		e.showMainMenu(t)
		return nil
	}
	t.s.State = session.AwaitingCoinAmount
	t.show(msg("choose_coin_amount", e.promptArgs()))
	return nil
}

func (e *Engine) onCoinAmount(t *turn) error {
	coins, err := ledger.ParseAmount(t.ev.Text)
	if err != nil {
		return err
	}
	t.s.CoinAmount = coins
	t.s.State = session.AwaitingCoinReceipt
	t.show(msg("send_coin_check", map[string]string{
		"amount": amount(coins),
		"uzs":    amount(coins.Mul(e.settings.ExchangeRate)),
		"card":   e.settings.CardNumber,
	}))
	return nil
}

func (e *Engine) onCoinReceipt(t *turn) error {
	req, err := e.ledger.RequestTopUp(t.ctx, t.ev.UserID, t.s.CoinAmount, t.ev.PhotoRef)
	if errors.Is(err, errs.ErrPendingRequestExists) {
		t.show(msg("pending_coin_request", nil))
		e.showMainMenu(t)
		return nil
	}
	if err != nil {
		return err
	}
	t.s.CoinAmount = decimal.Zero

	name := ""
	if u, err := e.store.GetUser(t.ctx, t.ev.UserID); err == nil {
		name = u.Name
	}
	t.show(msg("coin_request_sent", nil))
	t.out = append(t.out, e.notifyAdmins(t.lang, msg("coin_request_admin", map[string]string{
		"request_id": strconv.FormatInt(req.ID, 10),
		"user_id":    strconv.FormatInt(t.ev.UserID, 10),
		"user_name":  name,
		"amount":     amount(req.Amount),
		"uzs":        amount(req.Amount.Mul(e.settings.ExchangeRate)),
	}), [][]Choice{{
		button("btn_approve", Payload(ActApproveCoin, req.ID)),
		button("btn_reject", Payload(ActRejectCoin, req.ID)),
	}}, req.ReceiptRef)...)
	e.showMainMenu(t)
	return nil
}

func (e *Engine) onStartOrdering(t *turn) error {
	if _, err := e.requireUser(t); err != nil {
		return err
	}
	t.s.State = session.AwaitingLocation
	t.emit(Instruction{
		Kind:            ShowMessage,
		UserID:          t.ev.UserID,
		Lang:            t.lang,
		Message:         msg("send_location", nil),
		RequestLocation: true,
	})
	return nil
}

func (e *Engine) onLocation(t *turn) error {
	loc := *t.ev.Location
	t.s.Location = &loc
	t.s.Quote = nil
	return e.showStores(t)
}

func (e *Engine) onStore(t *turn) error {
	_, arg := parsePayload(t.ev.Payload)
	id, err := idArg(arg)
	if err != nil {
		return errs.ValidationWrap("choose_store", err)
	}
	if _, err := e.store.GetStore(t.ctx, id); err != nil {
		if isNotFound(err) {
			return errs.ValidationWrap("choose_store", err)
		}
		return err
	}

	// A cart belongs to one store.
	if t.s.StoreID != id {
		t.s.ClearOrder()
	}
	t.s.StoreID = id
	t.s.CategoryOffset = 0
	return e.showCategories(t)
}

func (e *Engine) onMoreCategories(t *turn) error {
	t.s.CategoryOffset += e.settings.PageSize
	return e.showCategories(t)
}

func (e *Engine) onCategory(t *turn) error {
	_, category := parsePayload(t.ev.Payload)
	if _, restricted := e.restricted[category]; restricted && !t.s.AgeConfirmed {
		t.s.PendingCategory = category
		t.s.State = session.AwaitingAgeConfirmation
		t.showChoices(msg("age_confirmation", nil), [][]Choice{
			{button("btn_age_yes", ActAgeYes), button("btn_age_no", ActAgeNo)},
		})
		return nil
	}
	t.s.Category = category
	t.s.ProductOffset = 0
	return e.showProducts(t)
}

func (e *Engine) onAgeYes(t *turn) error {
	t.s.AgeConfirmed = true
	t.s.Category = t.s.PendingCategory
	t.s.PendingCategory = ""
	t.s.ProductOffset = 0
	return e.showProducts(t)
}

func (e *Engine) onAgeNo(t *turn) error {
	t.s.PendingCategory = ""
	t.show(msg("age_denied", nil))
	return e.showCategories(t)
}

func (e *Engine) onMoreProducts(t *turn) error {
	t.s.ProductOffset += e.settings.PageSize
	return e.showProducts(t)
}

func (e *Engine) onSearch(t *turn) error {
	t.s.State = session.AwaitingSearchQuery
	t.show(msg("search_prompt", nil))
	return nil
}

func (e *Engine) onSearchQuery(t *turn) error {
	query := strings.TrimSpace(t.ev.Text)
	if query == "" {
		return errs.Validation("search_prompt")
	}
	products, err := e.store.SearchProducts(t.ctx, t.s.StoreID, query)
	if err != nil {
		return err
	}

	back := Payload(ActStore, t.s.StoreID)
	if len(products) == 0 {
		t.s.State = session.BrowsingCategories
		t.showChoices(msg("no_products", nil), [][]Choice{backRow(back)})
		return nil
	}
	t.s.State = session.BrowsingProducts
	t.s.Category = ""
	e.productCards(t, products)
	t.showChoices(msg("next_action", nil), [][]Choice{{button("btn_see_cart", ActSeeCart)}, backRow(back)})
	return nil
}

func (e *Engine) onAddToCart(t *turn) error {
	_, arg := parsePayload(t.ev.Payload)
	id, err := idArg(arg)
	if err != nil {
		return errs.ValidationWrap("product_not_found", err)
	}
	product, err := e.store.GetProduct(t.ctx, id)
	if isNotFound(err) || (err == nil && product.StoreID != t.s.StoreID) {
		return errs.Validation("product_not_found")
	}
	if err != nil {
		return err
	}

	t.s.Cart.Add(product.ID, 1)
	t.s.Quote = nil

	back := Payload(ActStore, t.s.StoreID)
	if t.s.Category != "" {
		back = Payload(ActCategory, t.s.Category)
	}
	t.showChoices(msg("added_to_cart", nil), [][]Choice{
		{button("btn_add_more", Payload(ActStore, t.s.StoreID)), button("btn_see_cart", ActSeeCart)},
		backRow(back),
	})
	return nil
}

func (e *Engine) onSeeCart(t *turn) error {
	return e.showCart(t)
}

func (e *Engine) onRemoveFromCart(t *turn) error {
	_, arg := parsePayload(t.ev.Payload)
	if id, err := idArg(arg); err == nil {
		t.s.Cart.Remove(id)
	}
	t.s.Quote = nil
	return e.showCart(t)
}

func (e *Engine) onFinishOrder(t *turn) error {
	if t.s.Cart.Empty() {
		t.show(msg("cart_empty", nil))
		e.showMainMenu(t)
		return nil
	}
	t.s.CheckoutKey = uuid.NewString()
	t.s.State = session.AwaitingPromoCode
	t.showChoices(msg("enter_promo", nil), [][]Choice{{button("btn_cancel", ActCancel)}})
	return nil
}

func (e *Engine) onPromoCode(t *turn) error {
	t.s.PromoCode = pricing.NormalizePromo(t.ev.Text)

	q, err := e.pricing.Quote(t.ctx, pricing.Request{
		Cart:     t.s.Cart,
		StoreID:  t.s.StoreID,
		Location: t.s.Location,
		Promo:    t.s.PromoCode,
	})
	switch {
	case errors.Is(err, errs.ErrInvalidPromo):
		t.s.PromoCode = ""
		t.show(msg("invalid_promo", nil))
		return e.showCart(t)
	case errors.Is(err, errs.ErrEmptyCart):
		t.s.ClearOrder()
		t.show(msg("cart_empty", nil))
		e.showMainMenu(t)
		return nil
	case err != nil:
		return err
	}

	t.s.Quote = &session.Quote{Subtotal: q.Subtotal, Discount: q.Discount, DeliveryFee: q.DeliveryFee, Total: q.Total}
	e.showDeliveryChoices(t, q)
	return nil
}

func (e *Engine) onDelivery(t *turn) error {
	_, choice := parsePayload(t.ev.Payload)
	switch choice {
	case DeliveryNext:
		t.s.DeliveryTime = e.planner.NextSlot(e.now())
	case DeliveryAdmin:
		t.s.DeliveryTime = e.planner.AdminDefault()
	case DeliveryCustom:
		t.s.State = session.AwaitingCustomDeliveryTime
		t.show(msg("enter_delivery_time", nil))
		return nil
	default:
		return errs.Validation("choose_delivery_time")
	}
	e.showPayment(t)
	return nil
}

func (e *Engine) onCustomDeliveryTime(t *turn) error {
	at, err := e.planner.ParseCustom(t.ev.Text, t.lang, e.now())
	if err != nil {
		return err
	}
	t.s.DeliveryTime = at.String()
	e.showPayment(t)
	return nil
}

// onPay submits the order. The cart survives every failure; only a
// committed order clears it.
func (e *Engine) onPay(t *turn) error {
	_, payment := parsePayload(t.ev.Payload)

	sub, err := e.orders.Submit(t.ctx, orders.SubmitRequest{
		UserID:       t.ev.UserID,
		StoreID:      t.s.StoreID,
		Cart:         t.s.Cart,
		Location:     t.s.Location,
		Promo:        t.s.PromoCode,
		DeliveryTime: t.s.DeliveryTime,
		PaymentType:  payment,
		CheckoutKey:  t.s.CheckoutKey,
	})
	switch {
	case errors.Is(err, errs.ErrDuplicateOrder):
		t.s.ClearOrder()
		t.show(msg("order_already_placed", nil))
		e.showMainMenu(t)
		return nil
	case errors.Is(err, errs.ErrInsufficientBalance):
		return e.backToCart(t, "insufficient_coins")
	case errors.Is(err, errs.ErrInvalidPromo):
		return e.backToCart(t, "invalid_promo")
	case errors.Is(err, errs.ErrEmptyCart):
		t.s.ClearOrder()
		t.show(msg("cart_empty", nil))
		e.showMainMenu(t)
		return nil
	case err != nil:
		return err
	}

	t.s.ClearOrder()
	t.s.PendingAlert = true
	t.show(msg("order_submitted", map[string]string{"order_id": strconv.FormatInt(sub.Order.ID, 10)}))
	t.out = append(t.out, e.notifyAdmins(t.lang, e.orderDetails(t.ctx, sub.Order),
		[][]Choice{{button("btn_confirm_order", Payload(ActConfirmOrder, sub.Order.ID))}}, "")...)
	e.showMainMenu(t)
	return nil
}

func (e *Engine) backToCart(t *turn, key string) error {
	t.s.PromoCode = ""
	t.s.DeliveryTime = ""
	t.s.PaymentType = ""
	t.show(msg(key, nil))
	return e.showCart(t)
}

func (e *Engine) orderDetails(ctx context.Context, o models.Order) Message {
	var user models.User
	if u, err := e.store.GetUser(ctx, o.UserID); err == nil {
		user = u
	}
	storeName := ""
	if st, err := e.store.GetStore(ctx, o.StoreID); err == nil {
		storeName = st.Name
	}
	promo := "-"
	if o.PromoCode != nil {
		promo = *o.PromoCode
	}
	return msg("order_details", map[string]string{
		"order_id":     strconv.FormatInt(o.ID, 10),
		"user_name":    user.Name,
		"phone":        user.Phone,
		"store":        storeName,
		"products":     o.Products,
		"payment":      o.PaymentType,
		"delivery":     o.DeliveryTime,
		"promo":        promo,
		"total":        amount(o.Total),
		"delivery_fee": amount(o.DeliveryFee),
	})
}

func (e *Engine) onFeedback(t *turn) error {
	rating, err := orders.ParseRating(t.ev.Text)
	if err != nil {
		return err
	}
	if t.s.FeedbackOrderID != 0 {
		if err := e.orders.RecordFeedback(t.ctx, t.s.FeedbackOrderID, t.ev.UserID, rating); err != nil && !isNotFound(err) {
			return err
		}
	}
	t.s.FeedbackOrderID = 0
	t.show(msg("feedback_thanks", map[string]string{"rating": strconv.Itoa(rating)}))
	if !t.s.Cart.Empty() {
		return e.showCart(t)
	}
	e.showMainMenu(t)
	return nil
}

// onFeedbackReminder answers stray presses while a rating is expected.
func (e *Engine) onFeedbackReminder(t *turn) error {
	t.show(msg("feedback_prompt", nil))
	return nil
}
