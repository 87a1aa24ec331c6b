package bot

import "github.com/sol1corejz/storebot/internal/session"

type route func(e *Engine, t *turn) error

// stateSpec lists the events a state accepts. Anything else is Ignored
// unless the state names an other route for non-text events.
type stateSpec struct {
	admin    bool
	text     route
	location route
	photo    route
	buttons  map[string]route
	other    route
}

type buttons map[string]route

func (e *Engine) buildTable() {
	e.commands = map[string]route{
		"/start": (*Engine).onStart,
		"/admin": (*Engine).onAdminMenu,
	}
	e.global = map[string]route{
		ActMainMenu: (*Engine).onMainMenu,
		ActCancel:   (*Engine).onMainMenu,
	}
	// Admin actions accepted in any state.
	e.adminGlobal = map[string]route{
		ActConfirmOrder: (*Engine).onConfirmOrder,
		ActApproveCoin:  (*Engine).onApproveCoin,
		ActRejectCoin:   (*Engine).onRejectCoin,
		ActAdminMenu:    (*Engine).onAdminMenu,
	}

	menu := buttons{
		ActStartOrdering:  (*Engine).onStartOrdering,
		ActMyCoins:        (*Engine).onMyCoins,
		ActBuyCoins:       (*Engine).onBuyCoins,
		ActMyOrders:       (*Engine).onMyOrders,
		ActHelp:           (*Engine).onHelp,
		ActSettings:       (*Engine).onSettings,
		ActChangeName:     (*Engine).onChangeName,
		ActChangeLanguage: (*Engine).onChangeLanguage,
		ActSeeCart:        (*Engine).onSeeCart,
	}
	browse := buttons{
		ActStore:          (*Engine).onStore,
		ActCategory:       (*Engine).onCategory,
		ActMoreCategories: (*Engine).onMoreCategories,
		ActSearch:         (*Engine).onSearch,
		ActSeeCart:        (*Engine).onSeeCart,
	}
	products := merge(browse, buttons{
		ActAddToCart:    (*Engine).onAddToCart,
		ActMoreProducts: (*Engine).onMoreProducts,
	})
	adminStore := buttons{
		ActAdminStore:         (*Engine).onAdminStore,
		ActAdminAddProduct:    (*Engine).onAdminAddProduct,
		ActAdminProducts:      (*Engine).onAdminProducts,
		ActAdminProduct:       (*Engine).onAdminProduct,
		ActAdminDeleteProduct: (*Engine).onAdminDeleteProduct,
		ActAdminPromos:        (*Engine).onAdminPromos,
		ActAdminPromo:         (*Engine).onAdminPromo,
		ActAdminDeletePromo:   (*Engine).onAdminDeletePromo,
		ActAdminAddPromo:      (*Engine).onAdminAddPromo,
	}

	e.table = map[session.State]stateSpec{
		session.Idle:                      {buttons: menu},
		session.AwaitingLanguage:          {buttons: buttons{ActLanguage: (*Engine).onLanguage}},
		session.AwaitingRegistrationName:  {text: (*Engine).onRegistrationName},
		session.AwaitingRegistrationPhone: {text: (*Engine).onRegistrationPhone},
		session.AwaitingNewName:           {text: (*Engine).onNewName},
		session.AwaitingLocation:          {location: (*Engine).onLocation},
		session.ChoosingStore:             {buttons: buttons{ActStore: (*Engine).onStore}},
		session.BrowsingCategories:        {buttons: browse},
		session.BrowsingProducts:          {buttons: products},
		session.AwaitingAgeConfirmation: {buttons: buttons{
			ActAgeYes: (*Engine).onAgeYes,
			ActAgeNo:  (*Engine).onAgeNo,
		}},
		session.AwaitingSearchQuery: {text: (*Engine).onSearchQuery},
		session.CartView: {buttons: buttons{
			ActRemoveFromCart: (*Engine).onRemoveFromCart,
			ActFinishOrder:    (*Engine).onFinishOrder,
			ActStore:          (*Engine).onStore,
			ActSeeCart:        (*Engine).onSeeCart,
		}},
		session.AwaitingPromoCode:          {text: (*Engine).onPromoCode},
		session.ChoosingDeliveryTime:       {buttons: buttons{ActDelivery: (*Engine).onDelivery}},
		session.AwaitingCustomDeliveryTime: {text: (*Engine).onCustomDeliveryTime},
		session.ChoosingPayment:            {buttons: buttons{ActPay: (*Engine).onPay}},
		session.AwaitingFeedback:           {text: (*Engine).onFeedback, other: (*Engine).onFeedbackReminder},
		session.AwaitingCoinAmount:         {text: (*Engine).onCoinAmount},
		session.AwaitingCoinReceipt:        {photo: (*Engine).onCoinReceipt},

		session.AdminMenu:                  {admin: true, buttons: buttons{ActAdminStore: (*Engine).onAdminStore}},
		session.AdminStoreMenu:             {admin: true, buttons: adminStore},
		session.AdminAwaitingProductName:   {admin: true, text: (*Engine).onAdminProductName},
		session.AdminAwaitingProductDesc:   {admin: true, text: (*Engine).onAdminProductDesc},
		session.AdminAwaitingProductPrice:  {admin: true, text: (*Engine).onAdminProductPrice},
		session.AdminAwaitingProductCat:    {admin: true, text: (*Engine).onAdminProductCategory},
		session.AdminAwaitingProductImage:  {admin: true, photo: (*Engine).onAdminProductImage},
		session.AdminAwaitingPromoCode:     {admin: true, text: (*Engine).onAdminPromoCode},
		session.AdminAwaitingPromoDiscount: {admin: true, text: (*Engine).onAdminPromoDiscount},
		session.AdminAwaitingPromoMaxUses:  {admin: true, text: (*Engine).onAdminPromoMaxUses},
	}
}

func merge(a, b buttons) buttons {
	out := make(buttons, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

func (e *Engine) route(state session.State, ev Event, admin bool) (route, bool) {
	switch ev.Kind {
	case EventCommand:
		name := ev.command()
		if name == "/admin" && !admin {
			return nil, false
		}
		h, ok := e.commands[name]
		return h, ok
	case EventButton:
		action, _ := parsePayload(ev.Payload)
		if h, ok := e.global[action]; ok {
			return h, true
		}
		if h, ok := e.adminGlobal[action]; ok {
			return h, admin
		}
	}

	entry, ok := e.table[state]
	if !ok || (entry.admin && !admin) {
		return nil, false
	}

	var h route
	switch ev.Kind {
	case EventText:
		h = entry.text
	case EventLocation:
		if ev.Location != nil {
			h = entry.location
		}
	case EventPhoto:
		if ev.PhotoRef != "" {
			h = entry.photo
		}
	case EventButton:
		action, _ := parsePayload(ev.Payload)
		h = entry.buttons[action]
	}
	if h == nil && ev.Kind != EventText {
		h = entry.other
	}
	return h, h != nil
}
