package bot

import (
	"context"
	"strings"
	"testing"

	"github.com/sol1corejz/storebot/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmin_AddProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out := f.send(t, Command(adminID, "/admin"))
	assert.Equal(t, session.AdminMenu, out.State)
	menu, ok := find(out, ShowChoices, adminID, "admin_menu")
	require.True(t, ok)
	assert.Contains(t, payloads(menu), "admin_store:1")

	out = f.press(t, adminID, Payload(ActAdminStore, int64(1)))
	assert.Equal(t, session.AdminStoreMenu, out.State)

	out = f.press(t, adminID, ActAdminAddProduct)
	assert.Equal(t, session.AdminAwaitingProductName, out.State)

	out = f.say(t, adminID, "Cream D")
	assert.Equal(t, session.AdminAwaitingProductDesc, out.State)
	out = f.say(t, adminID, "Night cream")
	assert.Equal(t, session.AdminAwaitingProductPrice, out.State)

	out = f.say(t, adminID, "cheap")
	assert.Equal(t, session.AdminAwaitingProductPrice, out.State)
	assert.True(t, has(out, "invalid_product_price"))
	out = f.say(t, adminID, "-3")
	assert.Equal(t, session.AdminAwaitingProductPrice, out.State)

	out = f.say(t, adminID, "1e10000000")
	assert.Equal(t, session.AdminAwaitingProductPrice, out.State)
	assert.True(t, has(out, "invalid_product_price"))
	out = f.say(t, adminID, "0.0001")
	assert.Equal(t, session.AdminAwaitingProductPrice, out.State)
	assert.True(t, has(out, "invalid_product_price"))

	out = f.say(t, adminID, "25,5")
	assert.Equal(t, session.AdminAwaitingProductCat, out.State)
	out = f.say(t, adminID, strings.Repeat("крем", 6))
	assert.Equal(t, session.AdminAwaitingProductCat, out.State)
	assert.True(t, has(out, "enter_product_category"))
	out = f.say(t, adminID, "cream")
	assert.Equal(t, session.AdminAwaitingProductImage, out.State)

	out = f.say(t, adminID, "no photo")
	assert.True(t, out.Ignored)

	out = f.send(t, Photo(adminID, "img-d"))
	assert.Equal(t, session.AdminStoreMenu, out.State)
	assert.True(t, has(out, "product_added"))
	assert.Nil(t, f.session(t, adminID).ProductDraft)

	products, err := f.mem.ListStoreProducts(ctx, 1)
	require.NoError(t, err)
	require.Len(t, products, 4)
	added := products[3]
	assert.Equal(t, "Cream D", added.Name)
	assert.Equal(t, "Night cream", added.Description)
	assert.Equal(t, "25.500", added.Price.StringFixed(3))
	assert.Equal(t, "img-d", added.Image)
}

func TestAdmin_DeleteProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := session.New()
	s.State = session.AdminStoreMenu
	s.AdminStoreID = 1
	f.put(t, adminID, s)

	out := f.press(t, adminID, ActAdminProducts)
	list, ok := find(out, ShowChoices, adminID, "choose_product")
	require.True(t, ok)
	assert.Contains(t, payloads(list), "admin_product:3")

	out = f.press(t, adminID, Payload(ActAdminProduct, int64(3)))
	card, ok := find(out, ShowChoices, adminID, "admin_product_card")
	require.True(t, ok)
	assert.Equal(t, "Wine", card.Message.Args["name"])

	out = f.press(t, adminID, Payload(ActAdminDeleteProduct, int64(3)))
	assert.True(t, has(out, "product_deleted"))
	_, err := f.mem.GetProduct(ctx, 3)
	assert.Error(t, err)

	out = f.press(t, adminID, Payload(ActAdminDeleteProduct, int64(3)))
	assert.True(t, has(out, "product_not_found"))
	assert.Equal(t, session.AdminStoreMenu, out.State)
}

func TestAdmin_Promos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := session.New()
	s.State = session.AdminStoreMenu
	s.AdminStoreID = 1
	f.put(t, adminID, s)

	out := f.press(t, adminID, ActAdminPromos)
	assert.True(t, has(out, "choose_promo"))

	out = f.press(t, adminID, ActAdminAddPromo)
	assert.Equal(t, session.AdminAwaitingPromoCode, out.State)

	out = f.say(t, adminID, "summer sale")
	assert.Equal(t, session.AdminAwaitingPromoCode, out.State)
	out = f.say(t, adminID, "summer")
	assert.Equal(t, session.AdminAwaitingPromoDiscount, out.State)

	out = f.say(t, adminID, "1e100000")
	assert.Equal(t, session.AdminAwaitingPromoDiscount, out.State)
	assert.True(t, has(out, "invalid_promo_discount"))
	out = f.say(t, adminID, "150")
	assert.Equal(t, session.AdminAwaitingPromoDiscount, out.State)
	assert.True(t, has(out, "invalid_promo_discount"))
	out = f.say(t, adminID, "15")
	assert.Equal(t, session.AdminAwaitingPromoMaxUses, out.State)

	out = f.say(t, adminID, "0")
	assert.Equal(t, session.AdminAwaitingPromoMaxUses, out.State)
	assert.True(t, has(out, "invalid_promo_max_uses"))
	out = f.say(t, adminID, "10")
	assert.Equal(t, session.AdminStoreMenu, out.State)
	assert.True(t, has(out, "promo_added"))

	promo, err := f.mem.GetPromo(ctx, "SUMMER")
	require.NoError(t, err)
	assert.Equal(t, "15", promo.Discount.String())
	assert.Equal(t, 10, promo.MaxUses)
	assert.Equal(t, 0, promo.UsageCount)

	f.press(t, adminID, ActAdminAddPromo)
	f.say(t, adminID, "Summer")
	f.say(t, adminID, "5")
	out = f.say(t, adminID, "3")
	assert.True(t, has(out, "promo_exists"))

	out = f.press(t, adminID, Payload(ActAdminPromo, "SUMMER"))
	card, ok := find(out, ShowChoices, adminID, "promo_card")
	require.True(t, ok)
	assert.Equal(t, "0", card.Message.Args["usage"])

	out = f.press(t, adminID, Payload(ActAdminDeletePromo, "SUMMER"))
	assert.True(t, has(out, "promo_deleted"))
	_, err = f.mem.GetPromo(ctx, "SUMMER")
	assert.Error(t, err)
}

func TestAdmin_MenuFromAnyState(t *testing.T) {
	f := newFixture(t)
	s := checkoutSession()
	f.put(t, adminID, s)

	out := f.press(t, adminID, ActAdminMenu)
	assert.False(t, out.Ignored)
	assert.Equal(t, session.AdminMenu, out.State)
}

func TestAdmin_PromoPayloadsFitCallbackData(t *testing.T) {
	f := newFixture(t)
	s := session.New()
	s.State = session.AdminStoreMenu
	s.AdminStoreID = 1
	f.put(t, adminID, s)

	f.press(t, adminID, ActAdminAddPromo)
	out := f.say(t, adminID, strings.Repeat("X", MaxArgBytes+1))
	assert.Equal(t, session.AdminAwaitingPromoCode, out.State)
	assert.True(t, has(out, "enter_promo_code"))

	longest := strings.Repeat("X", MaxArgBytes)
	out = f.say(t, adminID, longest)
	require.Equal(t, session.AdminAwaitingPromoDiscount, out.State)
	f.say(t, adminID, "10")
	f.say(t, adminID, "5")

	out = f.press(t, adminID, ActAdminPromos)
	out.Instructions = append(out.Instructions, f.press(t, adminID, Payload(ActAdminPromo, longest)).Instructions...)
	require.True(t, has(out, "promo_card"))
	for _, in := range out.Instructions {
		for _, p := range payloads(in) {
			assert.LessOrEqual(t, len(p), MaxPayloadBytes, p)
		}
	}
}
