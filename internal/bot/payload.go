package bot

import (
	"strconv"
	"strings"

	"github.com/sol1corejz/storebot/internal/errs"
)

// Button payloads are "action" or "action:arg".
const (
	ActLanguage       = "lang"
	ActStartOrdering  = "start_ordering"
	ActMyCoins        = "my_coins"
	ActBuyCoins       = "buy_coins"
	ActMyOrders       = "my_orders"
	ActHelp           = "help"
	ActSettings       = "settings"
	ActChangeName     = "change_name"
	ActChangeLanguage = "change_language"
	ActMainMenu       = "main_menu"
	ActCancel         = "cancel"

	ActStore          = "store"
	ActCategory       = "category"
	ActMoreCategories = "more_categories"
	ActMoreProducts   = "more_products"
	ActSearch         = "search"
	ActAgeYes         = "age_yes"
	ActAgeNo          = "age_no"
	ActAddToCart      = "add"
	ActRemoveFromCart = "remove"
	ActSeeCart        = "see_cart"
	ActFinishOrder    = "finish_order"
	ActDelivery       = "delivery"
	ActPay            = "pay"

	ActConfirmOrder = "confirm_order"
	ActApproveCoin  = "approve_coin"
	ActRejectCoin   = "reject_coin"

	ActAdminMenu          = "admin_menu"
	ActAdminStore         = "admin_store"
	ActAdminAddProduct    = "admin_add_product"
	ActAdminProducts      = "admin_products"
	ActAdminProduct       = "admin_product"
	ActAdminDeleteProduct = "admin_delete_product"
	ActAdminPromos        = "admin_promos"
	ActAdminAddPromo      = "admin_add_promo"
	ActAdminPromo         = "admin_promo"
	ActAdminDeletePromo   = "admin_delete_promo"
)

const (
	// MaxPayloadBytes is the callback data limit of the chat platform.
	MaxPayloadBytes = 64
	// MaxArgBytes bounds free-text payload arguments such as promo codes
	// and category names, so the longest action still fits.
	MaxArgBytes = 40
)

const (
	DeliveryNext   = "next"
	DeliveryAdmin  = "admin"
	DeliveryCustom = "custom"
)

func Payload(action string, arg any) string {
	switch v := arg.(type) {
	case nil:
		return action
	case int64:
		return action + ":" + strconv.FormatInt(v, 10)
	case string:
		return action + ":" + v
	}
	return action
}

func parsePayload(p string) (action, arg string) {
	action, arg, _ = strings.Cut(p, ":")
	return action, arg
}

// idArg parses the numeric argument of a payload.
func idArg(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.ErrNotFound
	}
	return id, nil
}
