package bot

import (
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sol1corejz/storebot/internal/errs"
	"github.com/sol1corejz/storebot/internal/i18n"
	"github.com/sol1corejz/storebot/internal/models"
	"github.com/sol1corejz/storebot/internal/pricing"
	"github.com/sol1corejz/storebot/internal/session"
)

func amount(d decimal.Decimal) string {
	return d.StringFixed(pricing.Precision)
}

func languageRows() [][]Choice {
	row := make([]Choice, 0, len(i18n.Languages))
	for _, lang := range i18n.Languages {
		row = append(row, rawButton(i18n.LanguageName(lang), Payload(ActLanguage, lang)))
	}
	return [][]Choice{row}
}

func backRow(payload string) []Choice {
	return []Choice{button("btn_go_back", payload)}
}

func (e *Engine) showMainMenu(t *turn) {
	t.s.State = session.Idle
	rows := [][]Choice{
		{button("btn_start_ordering", ActStartOrdering), button("btn_my_coins", ActMyCoins)},
		{button("btn_my_orders", ActMyOrders), button("btn_help", ActHelp)},
		{button("btn_settings", ActSettings)},
	}
	if t.admin {
		rows = append(rows, []Choice{button("btn_admin_panel", ActAdminMenu)})
	}
	t.showChoices(msg("main_menu", nil), rows)
}

func (e *Engine) showStores(t *turn) error {
	stores, err := e.store.ListStores(t.ctx)
	if err != nil {
		return err
	}
	rows := make([][]Choice, 0, len(stores)+1)
	for _, st := range stores {
		rows = append(rows, []Choice{rawButton(st.Name, Payload(ActStore, st.ID))})
	}
	rows = append(rows, backRow(ActMainMenu))

	t.s.State = session.ChoosingStore
	t.showChoices(msg("choose_store", nil), rows)
	return nil
}

func (e *Engine) showCategories(t *turn) error {
	categories, err := e.store.ListCategories(t.ctx, t.s.StoreID)
	if err != nil {
		return err
	}
	t.s.State = session.BrowsingCategories

	if len(categories) == 0 {
		t.showChoices(msg("no_categories", nil), [][]Choice{backRow(ActMainMenu)})
		return nil
	}
	if t.s.CategoryOffset >= len(categories) {
		t.s.CategoryOffset = 0
	}
	end := min(t.s.CategoryOffset+e.settings.PageSize, len(categories))

	var rows [][]Choice
	for _, c := range categories[t.s.CategoryOffset:end] {
		rows = append(rows, []Choice{rawButton(c, Payload(ActCategory, c))})
	}
	if end < len(categories) {
		rows = append(rows, []Choice{button("btn_load_more", ActMoreCategories)})
	}
	rows = append(rows,
		[]Choice{button("btn_search", ActSearch), button("btn_see_cart", ActSeeCart)},
		backRow(ActMainMenu))
	t.showChoices(msg("choose_category", nil), rows)
	return nil
}

func (e *Engine) showProducts(t *turn) error {
	products, err := e.store.ListProducts(t.ctx, t.s.StoreID, t.s.Category, t.s.ProductOffset, e.settings.PageSize)
	if err != nil {
		return err
	}
	total, err := e.store.CountProducts(t.ctx, t.s.StoreID, t.s.Category)
	if err != nil {
		return err
	}

	t.s.State = session.BrowsingProducts
	back := Payload(ActStore, t.s.StoreID)
	if len(products) == 0 {
		t.showChoices(msg("no_products", nil), [][]Choice{backRow(back)})
		return nil
	}

	e.productCards(t, products)

	var nav [][]Choice
	if t.s.ProductOffset+len(products) < total {
		nav = append(nav, []Choice{button("btn_load_more", ActMoreProducts)})
	}
	nav = append(nav, []Choice{button("btn_see_cart", ActSeeCart)}, backRow(back))
	t.showChoices(msg("next_action", nil), nav)
	return nil
}

func (e *Engine) productCards(t *turn, products []models.Product) {
	for _, p := range products {
		t.emit(Instruction{
			Kind:   ShowChoices,
			UserID: t.ev.UserID,
			Lang:   t.lang,
			Message: msg("product_card", map[string]string{
				"name":        p.Name,
				"description": p.Description,
				"price":       amount(p.Price),
			}),
			Choices: [][]Choice{{button("btn_add_to_cart", Payload(ActAddToCart, p.ID))}},
			Photo:   p.Image,
		})
	}
}

// showCart quotes the cart without a promo and lists it with remove buttons.
func (e *Engine) showCart(t *turn) error {
	t.s.State = session.CartView
	back := ActMainMenu
	if t.s.StoreID != 0 {
		back = Payload(ActStore, t.s.StoreID)
	}

	if t.s.Cart.Empty() {
		t.s.Quote = nil
		t.showChoices(msg("cart_empty", nil), [][]Choice{backRow(back)})
		return nil
	}

	q, err := e.pricing.Quote(t.ctx, pricing.Request{Cart: t.s.Cart, StoreID: t.s.StoreID, Location: t.s.Location})
	if errors.Is(err, errs.ErrEmptyCart) {
		t.s.Cart = models.Cart{}
		t.s.Quote = nil
		t.showChoices(msg("cart_empty", nil), [][]Choice{backRow(back)})
		return nil
	}
	if err != nil {
		return err
	}
	t.s.Quote = &session.Quote{Subtotal: q.Subtotal, Discount: q.Discount, DeliveryFee: q.DeliveryFee, Total: q.Total}

	lines := make([]string, 0, len(q.Lines))
	rows := make([][]Choice, 0, len(q.Lines)+2)
	for _, l := range q.Lines {
		lines = append(lines, i18n.Render(t.lang, "cart_line", map[string]string{
			"name":  l.Name,
			"qty":   strconv.Itoa(l.Quantity),
			"total": amount(l.Total),
		}))
		rows = append(rows, []Choice{{
			Label:   msg("btn_remove", map[string]string{"name": l.Name}),
			Payload: Payload(ActRemoveFromCart, l.ProductID),
		}})
	}
	rows = append(rows,
		[]Choice{button("btn_add_more", back), button("btn_finish_order", ActFinishOrder)},
		[]Choice{button("btn_cancel", ActCancel)})

	t.showChoices(msg("cart_contents", map[string]string{
		"items":        strings.Join(lines, "\n"),
		"subtotal":     amount(q.Subtotal),
		"delivery_fee": amount(q.DeliveryFee),
		"total":        amount(q.Total),
	}), rows)
	return nil
}

func (e *Engine) showDeliveryChoices(t *turn, q pricing.Quote) {
	t.s.State = session.ChoosingDeliveryTime
	t.show(msg("total_with_delivery", map[string]string{
		"total":        amount(q.Total),
		"delivery_fee": amount(q.DeliveryFee),
		"discount":     amount(q.Discount),
	}))
	t.showChoices(msg("choose_delivery_time", nil), [][]Choice{
		{{
			Label:   msg("btn_next_slot", map[string]string{"time": e.planner.NextSlot(e.now())}),
			Payload: Payload(ActDelivery, DeliveryNext),
		}},
		{{
			Label:   msg("btn_admin_choose", e.promptArgs()),
			Payload: Payload(ActDelivery, DeliveryAdmin),
		}},
		{button("btn_set_time", Payload(ActDelivery, DeliveryCustom)), button("btn_cancel", ActCancel)},
	})
}

func (e *Engine) showPayment(t *turn) {
	t.s.State = session.ChoosingPayment
	t.showChoices(msg("choose_payment", nil), [][]Choice{
		{button("btn_pay_coins", Payload(ActPay, models.PaymentCoins)), button("btn_pay_cash", Payload(ActPay, models.PaymentCash))},
		{button("btn_cancel", ActCancel)},
	})
}
