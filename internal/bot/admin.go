package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sol1corejz/storebot/internal/errs"
	"github.com/sol1corejz/storebot/internal/ledger"
	"github.com/sol1corejz/storebot/internal/logger"
	"github.com/sol1corejz/storebot/internal/models"
	"github.com/sol1corejz/storebot/internal/pricing"
	"github.com/sol1corejz/storebot/internal/session"
	"go.uber.org/zap"
)

func (e *Engine) onAdminMenu(t *turn) error {
	stores, err := e.store.ListStores(t.ctx)
	if err != nil {
		return err
	}
	rows := make([][]Choice, 0, len(stores)+1)
	for _, st := range stores {
		rows = append(rows, []Choice{rawButton(st.Name, Payload(ActAdminStore, st.ID))})
	}
	rows = append(rows, backRow(ActMainMenu))

	t.s.ProductDraft = nil
	t.s.PromoDraft = nil
	t.s.State = session.AdminMenu
	t.showChoices(msg("admin_menu", nil), rows)
	return nil
}

func (e *Engine) onAdminStore(t *turn) error {
	_, arg := parsePayload(t.ev.Payload)
	id, err := idArg(arg)
	if err != nil {
		return errs.ValidationWrap("admin_menu", err)
	}
	t.s.AdminStoreID = id
	return e.showAdminStore(t)
}

func (e *Engine) showAdminStore(t *turn) error {
	st, err := e.store.GetStore(t.ctx, t.s.AdminStoreID)
	if isNotFound(err) {
		return errs.ValidationWrap("admin_menu", err)
	}
	if err != nil {
		return err
	}
	t.s.State = session.AdminStoreMenu
	t.showChoices(msg("admin_store_menu", map[string]string{"store": st.Name}), [][]Choice{
		{button("btn_add_product", ActAdminAddProduct), button("btn_view_products", ActAdminProducts)},
		{button("btn_manage_promos", ActAdminPromos), button("btn_go_back", ActAdminMenu)},
	})
	return nil
}

func (e *Engine) onAdminAddProduct(t *turn) error {
	t.s.ProductDraft = &session.ProductDraft{}
	t.s.State = session.AdminAwaitingProductName
	t.show(msg("enter_product_name", nil))
	return nil
}

func (e *Engine) draft(t *turn) *session.ProductDraft {
	if t.s.ProductDraft == nil {
		t.s.ProductDraft = &session.ProductDraft{}
	}
	return t.s.ProductDraft
}

func (e *Engine) onAdminProductName(t *turn) error {
	name := strings.TrimSpace(t.ev.Text)
	if name == "" {
		return errs.Validation("enter_product_name")
	}
	e.draft(t).Name = name
	t.s.State = session.AdminAwaitingProductDesc
	t.show(msg("enter_product_desc", nil))
	return nil
}

func (e *Engine) onAdminProductDesc(t *turn) error {
	e.draft(t).Description = strings.TrimSpace(t.ev.Text)
	t.s.State = session.AdminAwaitingProductPrice
	t.show(msg("enter_product_price", nil))
	return nil
}

func (e *Engine) onAdminProductPrice(t *turn) error {
	price, err := pricing.ParseAmount(t.ev.Text)
	if err != nil {
		return errs.ValidationWrap("invalid_product_price", err)
	}
	if !price.IsPositive() {
		return errs.Validation("invalid_product_price")
	}
	e.draft(t).Price = price
	t.s.State = session.AdminAwaitingProductCat
	t.show(msg("enter_product_category", nil))
	return nil
}

func (e *Engine) onAdminProductCategory(t *turn) error {
	category := strings.TrimSpace(t.ev.Text)
	if category == "" || len(category) > MaxArgBytes || strings.Contains(category, ":") {
		return errs.Validation("enter_product_category")
	}
	e.draft(t).Category = category
	t.s.State = session.AdminAwaitingProductImage
	t.show(msg("upload_product_image", nil))
	return nil
}

func (e *Engine) onAdminProductImage(t *turn) error {
	d := e.draft(t)
	id, err := e.store.CreateProduct(t.ctx, models.Product{
		Name:        d.Name,
		Description: d.Description,
		Image:       t.ev.PhotoRef,
		Price:       d.Price,
		Category:    d.Category,
		StoreID:     t.s.AdminStoreID,
	})
	if err != nil {
		return err
	}
	logger.Log.Info("Product added", zap.Int64("productID", id), zap.Int64("adminID", t.ev.UserID))

	t.s.ProductDraft = nil
	t.show(msg("product_added", map[string]string{"name": d.Name}))
	return e.showAdminStore(t)
}

func (e *Engine) onAdminProducts(t *turn) error {
	products, err := e.store.ListStoreProducts(t.ctx, t.s.AdminStoreID)
	if err != nil {
		return err
	}
	back := Payload(ActAdminStore, t.s.AdminStoreID)
	t.s.State = session.AdminStoreMenu
	if len(products) == 0 {
		t.showChoices(msg("no_products", nil), [][]Choice{backRow(back)})
		return nil
	}

	rows := make([][]Choice, 0, len(products)+1)
	for _, p := range products {
		rows = append(rows, []Choice{rawButton(p.Name, Payload(ActAdminProduct, p.ID))})
	}
	rows = append(rows, backRow(back))
	t.showChoices(msg("choose_product", nil), rows)
	return nil
}

func (e *Engine) onAdminProduct(t *turn) error {
	_, arg := parsePayload(t.ev.Payload)
	id, err := idArg(arg)
	if err != nil {
		return errs.ValidationWrap("product_not_found", err)
	}
	p, err := e.store.GetProduct(t.ctx, id)
	if isNotFound(err) {
		return errs.ValidationWrap("product_not_found", err)
	}
	if err != nil {
		return err
	}
	t.emit(Instruction{
		Kind:   ShowChoices,
		UserID: t.ev.UserID,
		Lang:   t.lang,
		Message: msg("admin_product_card", map[string]string{
			"name":     p.Name,
			"category": p.Category,
			"price":    amount(p.Price),
		}),
		Choices: [][]Choice{
			{button("btn_delete", Payload(ActAdminDeleteProduct, p.ID))},
			backRow(ActAdminProducts),
		},
		Photo: p.Image,
	})
	return nil
}

func (e *Engine) onAdminDeleteProduct(t *turn) error {
	_, arg := parsePayload(t.ev.Payload)
	id, err := idArg(arg)
	if err != nil {
		return errs.ValidationWrap("product_not_found", err)
	}
	if err := e.store.DeleteProduct(t.ctx, id); err != nil {
		if isNotFound(err) {
			return errs.ValidationWrap("product_not_found", err)
		}
		return err
	}
	logger.Log.Info("Product deleted", zap.Int64("productID", id), zap.Int64("adminID", t.ev.UserID))
	t.show(msg("product_deleted", nil))
	return e.onAdminProducts(t)
}

func (e *Engine) onAdminPromos(t *turn) error {
	promos, err := e.store.ListPromos(t.ctx)
	if err != nil {
		return err
	}
	rows := make([][]Choice, 0, len(promos)+1)
	for _, p := range promos {
		rows = append(rows, []Choice{rawButton(p.Code, Payload(ActAdminPromo, p.Code))})
	}
	rows = append(rows, []Choice{
		button("btn_add_promo", ActAdminAddPromo),
		button("btn_go_back", Payload(ActAdminStore, t.s.AdminStoreID)),
	})
	t.s.PromoDraft = nil
	t.s.State = session.AdminStoreMenu
	t.showChoices(msg("choose_promo", nil), rows)
	return nil
}

func (e *Engine) onAdminPromo(t *turn) error {
	_, code := parsePayload(t.ev.Payload)
	p, err := e.store.GetPromo(t.ctx, code)
	if isNotFound(err) {
		return errs.ValidationWrap("invalid_promo", err)
	}
	if err != nil {
		return err
	}
	t.showChoices(msg("promo_card", map[string]string{
		"code":     p.Code,
		"discount": p.Discount.String(),
		"usage":    strconv.Itoa(p.UsageCount),
		"max":      strconv.Itoa(p.MaxUses),
	}), [][]Choice{
		{button("btn_delete", Payload(ActAdminDeletePromo, p.Code))},
		backRow(ActAdminPromos),
	})
	return nil
}

func (e *Engine) onAdminDeletePromo(t *turn) error {
	_, code := parsePayload(t.ev.Payload)
	if err := e.store.DeletePromo(t.ctx, code); err != nil {
		if isNotFound(err) {
			return errs.ValidationWrap("invalid_promo", err)
		}
		return err
	}
	logger.Log.Info("Promo code deleted", zap.String("code", code), zap.Int64("adminID", t.ev.UserID))
	t.show(msg("promo_deleted", nil))
	return e.onAdminPromos(t)
}

func (e *Engine) onAdminAddPromo(t *turn) error {
	t.s.PromoDraft = &session.PromoDraft{}
	t.s.State = session.AdminAwaitingPromoCode
	t.show(msg("enter_promo_code", nil))
	return nil
}

func (e *Engine) onAdminPromoCode(t *turn) error {
	code := pricing.NormalizePromo(t.ev.Text)
	if code == "" || len(code) > MaxArgBytes || strings.ContainsAny(code, " :") {
		return errs.Validation("enter_promo_code")
	}
	t.s.PromoDraft = &session.PromoDraft{Code: code}
	t.s.State = session.AdminAwaitingPromoDiscount
	t.show(msg("enter_promo_discount", nil))
	return nil
}

func (e *Engine) onAdminPromoDiscount(t *turn) error {
	discount, err := pricing.ParseAmount(t.ev.Text)
	if err != nil {
		return errs.ValidationWrap("invalid_promo_discount", err)
	}
	if discount.LessThan(decimal.NewFromInt(1)) || discount.GreaterThan(decimal.NewFromInt(100)) {
		return errs.Validation("invalid_promo_discount")
	}
	if t.s.PromoDraft == nil {
		return errs.Validation("enter_promo_code")
	}
	t.s.PromoDraft.Discount = discount
	t.s.State = session.AdminAwaitingPromoMaxUses
	t.show(msg("enter_promo_max_uses", nil))
	return nil
}

func (e *Engine) onAdminPromoMaxUses(t *turn) error {
	maxUses, err := strconv.Atoi(strings.TrimSpace(t.ev.Text))
	if err != nil || maxUses <= 0 {
		return errs.Validation("invalid_promo_max_uses")
	}
	d := t.s.PromoDraft
	if d == nil {
		return errs.Validation("enter_promo_code")
	}

	err = e.store.CreatePromo(t.ctx, models.PromoCode{Code: d.Code, Discount: d.Discount, MaxUses: maxUses})
	if errors.Is(err, errs.ErrPromoExists) {
		t.show(msg("promo_exists", nil))
		return e.onAdminPromos(t)
	}
	if err != nil {
		return err
	}
	logger.Log.Info("Promo code added", zap.String("code", d.Code), zap.Int64("adminID", t.ev.UserID))

	t.show(msg("promo_added", map[string]string{"code": d.Code}))
	return e.onAdminPromos(t)
}

func (e *Engine) onConfirmOrder(t *turn) error {
	_, arg := parsePayload(t.ev.Payload)
	id, err := idArg(arg)
	if err != nil {
		t.show(msg("order_not_found", nil))
		return nil
	}

	order, err := e.orders.Confirm(t.ctx, id, t.ev.UserID)
	switch {
	case errors.Is(err, errs.ErrAlreadyResolved):
		t.show(msg("order_already_resolved", map[string]string{"order_id": arg}))
		return nil
	case isNotFound(err):
		t.show(msg("order_not_found", nil))
		return nil
	case err != nil:
		return err
	}

	t.show(msg("order_confirmed_admin", map[string]string{"order_id": arg}))
	t.deferred(func(ctx context.Context) []Instruction {
		return e.afterConfirm(ctx, order)
	})
	return nil
}

func (e *Engine) onApproveCoin(t *turn) error {
	return e.resolveCoin(t, ledger.Approve)
}

func (e *Engine) onRejectCoin(t *turn) error {
	return e.resolveCoin(t, ledger.Reject)
}

func (e *Engine) resolveCoin(t *turn, decision ledger.Decision) error {
	_, arg := parsePayload(t.ev.Payload)
	id, err := idArg(arg)
	if err != nil {
		t.show(msg("coin_request_processed", nil))
		return nil
	}

	notes, err := e.ResolveCoinRequest(t.ctx, t.ev.UserID, id, decision)
	if errors.Is(err, errs.ErrAlreadyResolved) || isNotFound(err) {
		t.show(msg("coin_request_processed", nil))
		return nil
	}
	if err != nil {
		return err
	}

	status := models.CoinRequestRejected
	if decision == ledger.Approve {
		status = models.CoinRequestApproved
	}
	t.show(msg("coin_request_resolved", map[string]string{"request_id": arg, "status": status}))
	t.out = append(t.out, notes...)
	return nil
}
