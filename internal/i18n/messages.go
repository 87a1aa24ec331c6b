// Package i18n renders user-facing text in the supported languages.
// Templates use {name} placeholders; a key missing in a language falls back
// to English, and an unknown key renders as itself.
package i18n

import "strings"

const DefaultLanguage = "en"

// Languages lists the selectable languages in menu order.
var Languages = []string{"uz", "en", "ru"}

var languageNames = map[string]string{
	"uz": "O'zbek",
	"en": "English",
	"ru": "Русский",
}

func Supported(lang string) bool {
	_, ok := languageNames[lang]
	return ok
}

func LanguageName(lang string) string {
	return languageNames[lang]
}

// Render looks up key in lang and substitutes args.
func Render(lang, key string, args map[string]string) string {
	tmpl, ok := messages[lang][key]
	if !ok {
		tmpl, ok = messages[DefaultLanguage][key]
		if !ok {
			return key
		}
	}
	if len(args) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, len(args)*2)
	for k, v := range args {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

var messages = map[string]map[string]string{
	"en": {
		"welcome":                "Welcome to our store bot! Please select a language:",
		"choose_language":        "Choose a language:",
		"enter_name":             "Enter your name:",
		"invalid_name":           "Name cannot be empty. Enter your name:",
		"enter_phone":            "Enter your phone number (+998 format):",
		"invalid_phone":          "Invalid phone number. Please use +998XXXXXXXXX format.",
		"main_menu":              "Main Menu",
		"send_location":          "Send your location:",
		"choose_store":           "Choose a store:",
		"choose_category":        "Choose a category:",
		"no_categories":          "This store has no products yet.",
		"no_products":            "No products found.",
		"product_not_found":      "This product is no longer available.",
		"product_card":           "{name}\n{description}\nPrice: {price} UZS",
		"added_to_cart":          "Product added to cart!",
		"next_action":            "What next?",
		"age_confirmation":       "You must be 21+ to purchase items in this category. Are you 21 or older?",
		"age_denied":             "Sorry, you must be 21+ to access this category.",
		"search_prompt":          "Enter your search query (product name or description):",
		"cart_empty":             "Cart is empty.",
		"cart_line":              "{name} x{qty} = {total} UZS",
		"cart_contents":          "Cart contents:\n{items}\nSubtotal: {subtotal} UZS\nTotal: {total} UZS (Delivery: {delivery_fee} UZS)",
		"enter_promo":            "Enter promo code (type 'skip' to skip):",
		"invalid_promo":          "Invalid promo code or usage limit reached.",
		"total_with_delivery":    "Total: {total} UZS (Delivery: {delivery_fee} UZS, Discount: {discount} UZS)",
		"choose_delivery_time":   "Choose delivery time:",
		"enter_delivery_time":    "Enter delivery time (e.g. 'today 13:00' or 'tomorrow 14:00'):",
		"invalid_delivery_time":  "Invalid time format. Please enter 'today HH:MM' or 'tomorrow HH:MM'.",
		"delivery_time_too_soon": "Time must be at least {minutes} minutes from now.",
		"choose_payment":         "Choose payment method:",
		"invalid_payment":        "Unknown payment method.",
		"insufficient_coins":     "Insufficient coins. Please top up or choose another payment method.",
		"order_submitted":        "Order #{order_id} submitted. Waiting for admin confirmation.",
		"order_details":          "Order #{order_id}\nUser: {user_name}\nPhone: {phone}\nStore: {store}\nProducts: {products}\nPayment: {payment}\nDelivery: {delivery}\nPromo: {promo}\nTotal: {total} UZS (Delivery: {delivery_fee} UZS)",
		"order_confirmed":        "Your order is confirmed! Delivery time: {time}",
		"order_auto_confirmed":   "Your order #{order_id} is accepted. We will deliver it at: {time}",
		"order_auto_admin":       "Order #{order_id} was confirmed automatically after the response timeout.",
		"order_confirmed_admin":  "Order #{order_id} confirmed.",
		"order_already_resolved": "Order #{order_id} is already confirmed.",
		"order_not_found":        "Order not found.",
		"feedback_prompt":        "Please rate our service (1-5):",
		"invalid_feedback":       "Please enter a rating between 1 and 5.",
		"feedback_thanks":        "Thank you for your {rating} rating!",
		"my_coins":               "Your balance: {coins} coins",
		"choose_coin_amount":     "Enter coin amount (1 coin = {rate} UZS, e.g. 20.000 or 20000.000):",
		"invalid_coin_amount":    "Please enter a valid coin amount (positive number, e.g. 20.000).",
		"send_coin_check":        "Transfer {uzs} UZS for {amount} coins to card {card} and send the receipt photo:",
		"coin_request_sent":      "Receipt sent. Waiting for admin confirmation.",
		"pending_coin_request":   "You already have a pending coin request. Please wait for admin confirmation.",
		"coin_request_admin":     "Coin request #{request_id}\nUser: {user_name} ({user_id})\nAmount: {amount} coins ({uzs} UZS)",
		"coin_request_approved":  "Your coin request for {amount} coins has been approved!",
		"coin_request_rejected":  "Your coin request has been rejected by the admin.",
		"coin_request_resolved":  "Coin request #{request_id} {status}.",
		"coin_request_processed": "Coin request not found or already processed.",
		"my_orders":              "Your orders:\n{orders}",
		"order_line":             "#{order_id} {status}: {total} UZS, {delivery}",
		"no_orders":              "You have no orders yet.",
		"help_info":              "Contact admin: {support}",
		"settings":               "Settings",
		"language_changed":       "Language changed!",
		"enter_new_name":         "Enter your new name:",
		"name_changed":           "Name changed!",
		"error":                  "An error occurred. Please try again or contact admin: {support}",
		"error_admin":            "Error for user {user_id}: {error}",
		"not_registered":         "Please register first with /start.",

		"admin_menu":             "Admin panel: choose a store",
		"admin_store_menu":       "Store: {store}",
		"enter_product_name":     "Enter product name:",
		"enter_product_desc":     "Enter product description:",
		"enter_product_price":    "Enter product price:",
		"invalid_product_price":  "Please enter a positive price.",
		"enter_product_category": "Enter product category:",
		"upload_product_image":   "Upload product image:",
		"product_added":          "Product {name} added!",
		"choose_product":         "Choose product:",
		"admin_product_card":     "{name}\nCategory: {category}\nPrice: {price} UZS",
		"product_deleted":        "Product deleted.",
		"enter_promo_code":       "Enter new promo code:",
		"enter_promo_discount":   "Enter discount percentage (1-100):",
		"invalid_promo_discount": "Discount must be a number from 1 to 100.",
		"enter_promo_max_uses":   "Enter maximum uses:",
		"invalid_promo_max_uses": "Maximum uses must be a positive whole number.",
		"promo_added":            "Promo code {code} added!",
		"promo_exists":           "This promo code already exists.",
		"choose_promo":           "Promo codes:",
		"promo_card":             "{code}: {discount}% off, used {usage}/{max}",
		"promo_deleted":          "Promo code deleted.",

		"btn_start_ordering":  "Start Ordering",
		"btn_my_coins":        "My Coins",
		"btn_my_orders":       "My Orders",
		"btn_help":            "Help",
		"btn_settings":        "Settings",
		"btn_admin_panel":     "Admin Panel",
		"btn_buy_coins":       "Buy Coins",
		"btn_go_back":         "Go Back",
		"btn_change_name":     "Change Name",
		"btn_change_language": "Change Language",
		"btn_send_location":   "Send location",
		"btn_add_to_cart":     "Add to Cart",
		"btn_see_cart":        "See Cart",
		"btn_add_more":        "Add More",
		"btn_finish_order":    "Finish Order",
		"btn_cancel":          "Cancel",
		"btn_search":          "Search Products",
		"btn_load_more":       "Load More",
		"btn_remove":          "Remove {name}",
		"btn_age_yes":         "Yes, I am 21+",
		"btn_age_no":          "No, I am under 21",
		"btn_next_slot":       "Next available slot: {time}",
		"btn_admin_choose":    "Admin will choose (default {minutes} min)",
		"btn_set_time":        "Set time myself",
		"btn_pay_coins":       "Coins",
		"btn_pay_cash":        "Cash on delivery",
		"btn_confirm_order":   "Confirm Order",
		"btn_approve":         "Approve",
		"btn_reject":          "Reject",
		"btn_add_product":     "Add Product",
		"btn_view_products":   "View Products",
		"btn_manage_promos":   "Manage Promo Codes",
		"btn_add_promo":       "Add Promo Code",
		"btn_delete":          "Delete",

		"order_already_placed": "This order has already been placed.",
	},
	"ru": {
		"welcome":                "Добро пожаловать в наш бот магазина! Пожалуйста, выберите язык:",
		"choose_language":        "Выберите язык:",
		"enter_name":             "Введите ваше имя:",
		"invalid_name":           "Имя не может быть пустым. Введите ваше имя:",
		"enter_phone":            "Введите номер телефона (формат +998):",
		"invalid_phone":          "Неверный номер телефона. Используйте формат +998XXXXXXXXX.",
		"main_menu":              "Главное меню",
		"send_location":          "Отправьте вашу геолокацию:",
		"choose_store":           "Выберите магазин:",
		"choose_category":        "Выберите категорию:",
		"no_categories":          "В этом магазине пока нет товаров.",
		"no_products":            "Товары не найдены.",
		"product_not_found":      "Этот товар больше недоступен.",
		"product_card":           "{name}\n{description}\nЦена: {price} UZS",
		"added_to_cart":          "Товар добавлен в корзину!",
		"next_action":            "Что дальше?",
		"age_confirmation":       "Для покупки товаров этой категории вам должно быть 21+. Вам есть 21?",
		"age_denied":             "Извините, доступ к этой категории только с 21 года.",
		"search_prompt":          "Введите запрос (название или описание товара):",
		"cart_empty":             "Корзина пуста.",
		"cart_line":              "{name} x{qty} = {total} UZS",
		"cart_contents":          "Товары в корзине:\n{items}\nПодытог: {subtotal} UZS\nИтого: {total} UZS (Доставка: {delivery_fee} UZS)",
		"enter_promo":            "Введите промокод (напишите 'skip', чтобы пропустить):",
		"invalid_promo":          "Неверный промокод или лимит использования исчерпан.",
		"total_with_delivery":    "Итого: {total} UZS (Доставка: {delivery_fee} UZS, Скидка: {discount} UZS)",
		"choose_delivery_time":   "Выберите время доставки:",
		"enter_delivery_time":    "Введите время доставки (например, 'сегодня 13:00' или 'завтра 14:00'):",
		"invalid_delivery_time":  "Неверный формат времени. Введите 'сегодня ЧЧ:ММ' или 'завтра ЧЧ:ММ'.",
		"delivery_time_too_soon": "Время должно быть не раньше чем через {minutes} минут.",
		"choose_payment":         "Выберите способ оплаты:",
		"insufficient_coins":     "Недостаточно коинов. Пополните баланс или выберите другой способ оплаты.",
		"order_submitted":        "Заказ #{order_id} отправлен. Ожидайте подтверждения администратора.",
		"order_confirmed":        "Ваш заказ подтвержден! Время доставки: {time}",
		"order_auto_confirmed":   "Ваш заказ #{order_id} принят. Доставим к: {time}",
		"feedback_prompt":        "Пожалуйста, оцените наш сервис (1-5):",
		"invalid_feedback":       "Пожалуйста, введите оценку от 1 до 5.",
		"feedback_thanks":        "Спасибо за оценку {rating}!",
		"my_coins":               "Ваш баланс: {coins} коинов",
		"choose_coin_amount":     "Введите количество коинов (1 коин = {rate} UZS, например, 20.000):",
		"invalid_coin_amount":    "Введите корректное количество коинов (положительное число, например, 20.000).",
		"send_coin_check":        "Переведите {uzs} UZS за {amount} коинов на карту {card} и отправьте фото чека:",
		"coin_request_sent":      "Чек отправлен. Ожидайте подтверждения администратора.",
		"pending_coin_request":   "У вас уже есть неподтвержденный запрос на коины. Дождитесь решения администратора.",
		"coin_request_approved":  "Ваш запрос на {amount} коинов одобрен!",
		"coin_request_rejected":  "Ваш запрос на коины отклонен администратором.",
		"my_orders":              "Ваши заказы:\n{orders}",
		"no_orders":              "У вас пока нет заказов.",
		"help_info":              "Связаться с администратором: {support}",
		"settings":               "Настройки",
		"language_changed":       "Язык изменен!",
		"enter_new_name":         "Введите новое имя:",
		"name_changed":           "Имя изменено!",
		"error":                  "Произошла ошибка. Попробуйте еще раз или свяжитесь с администратором: {support}",
		"not_registered":         "Сначала зарегистрируйтесь через /start.",

		"btn_start_ordering":  "Начать заказ",
		"btn_my_coins":        "Мои коины",
		"btn_my_orders":       "Мои заказы",
		"btn_help":            "Помощь",
		"btn_settings":        "Настройки",
		"btn_buy_coins":       "Купить коины",
		"btn_go_back":         "Назад",
		"btn_change_name":     "Изменить имя",
		"btn_change_language": "Изменить язык",
		"btn_send_location":   "Отправить геолокацию",
		"btn_add_to_cart":     "В корзину",
		"btn_see_cart":        "Корзина",
		"btn_add_more":        "Добавить еще",
		"btn_finish_order":    "Оформить заказ",
		"btn_cancel":          "Отмена",
		"btn_search":          "Поиск товаров",
		"btn_load_more":       "Показать еще",
		"btn_remove":          "Удалить {name}",
		"btn_age_yes":         "Да, мне 21+",
		"btn_age_no":          "Нет, мне нет 21",
		"btn_next_slot":       "Ближайшее время: {time}",
		"btn_admin_choose":    "Выберет администратор (по умолчанию {minutes} мин)",
		"btn_set_time":        "Указать время самому",
		"btn_pay_coins":       "Коины",
		"btn_pay_cash":        "Наличными при получении",

		"invalid_payment":        "Неизвестный способ оплаты.",
		"order_details":          "Заказ #{order_id}\nПользователь: {user_name}\nТелефон: {phone}\nМагазин: {store}\nТовары: {products}\nОплата: {payment}\nДоставка: {delivery}\nПромокод: {promo}\nИтого: {total} UZS (Доставка: {delivery_fee} UZS)",
		"order_auto_admin":       "Заказ #{order_id} подтвержден автоматически после истечения времени ожидания.",
		"order_confirmed_admin":  "Заказ #{order_id} подтвержден.",
		"order_already_resolved": "Заказ #{order_id} уже подтвержден.",
		"order_not_found":        "Заказ не найден.",
		"coin_request_admin":     "Запрос монет #{request_id}\nПользователь: {user_name} ({user_id})\nСумма: {amount} монет ({uzs} UZS)",
		"coin_request_resolved":  "Запрос монет #{request_id}: {status}.",
		"coin_request_processed": "Запрос не найден или уже обработан.",
		"order_line":             "#{order_id} {status}: {total} UZS, {delivery}",
		"error_admin":            "Ошибка у пользователя {user_id}: {error}",
		"admin_menu":             "Панель администратора: выберите магазин",
		"admin_store_menu":       "Магазин: {store}",
		"enter_product_name":     "Введите название товара:",
		"enter_product_desc":     "Введите описание товара:",
		"enter_product_price":    "Введите цену товара:",
		"invalid_product_price":  "Введите положительную цену.",
		"enter_product_category": "Введите категорию товара:",
		"upload_product_image":   "Загрузите изображение товара:",
		"product_added":          "Товар {name} добавлен!",
		"choose_product":         "Выберите товар:",
		"admin_product_card":     "{name}\nКатегория: {category}\nЦена: {price} UZS",
		"product_deleted":        "Товар удален.",
		"enter_promo_code":       "Введите новый промокод:",
		"enter_promo_discount":   "Введите процент скидки (1-100):",
		"invalid_promo_discount": "Скидка должна быть числом от 1 до 100.",
		"enter_promo_max_uses":   "Введите максимальное число использований:",
		"invalid_promo_max_uses": "Максимальное число использований должно быть целым положительным числом.",
		"promo_added":            "Промокод {code} добавлен!",
		"promo_exists":           "Такой промокод уже существует.",
		"choose_promo":           "Промокоды:",
		"promo_card":             "{code}: скидка {discount}%, использован {usage}/{max}",
		"promo_deleted":          "Промокод удален.",
		"btn_admin_panel":        "Панель администратора",
		"btn_confirm_order":      "Подтвердить заказ",
		"btn_approve":            "Одобрить",
		"btn_reject":             "Отклонить",
		"btn_add_product":        "Добавить товар",
		"btn_view_products":      "Товары",
		"btn_manage_promos":      "Промокоды",
		"btn_add_promo":          "Добавить промокод",
		"btn_delete":             "Удалить",
		"order_already_placed":   "Этот заказ уже оформлен.",
	},
	"uz": {
		"welcome":                "Bizning do'kon botimizga xush kelibsiz! Iltimos, tilni tanlang:",
		"choose_language":        "Tilni tanlang:",
		"enter_name":             "Ismingizni kiriting:",
		"invalid_name":           "Ism bo'sh bo'lmasligi kerak. Ismingizni kiriting:",
		"enter_phone":            "Telefon raqamingizni kiriting (+998 formatida):",
		"invalid_phone":          "Noto'g'ri telefon raqami. Iltimos, +998XXXXXXXXX formatida kiriting.",
		"main_menu":              "Asosiy menyu",
		"send_location":          "Joylashuvingizni yuboring:",
		"choose_store":           "Do'konni tanlang:",
		"choose_category":        "Kategoriyani tanlang:",
		"no_categories":          "Bu do'konda hali mahsulotlar yo'q.",
		"no_products":            "Mahsulotlar topilmadi.",
		"product_not_found":      "Bu mahsulot endi mavjud emas.",
		"product_card":           "{name}\n{description}\nNarxi: {price} UZS",
		"added_to_cart":          "Mahsulot savatga qo'shildi!",
		"next_action":            "Keyingi qadam?",
		"age_confirmation":       "Ushbu kategoriyadagi mahsulotlarni sotib olish uchun 21 yoshdan katta bo'lishingiz kerak. Siz 21 yoshdan kattamisiz?",
		"age_denied":             "Kechirasiz, ushbu kategoriyaga kirish uchun 21 yoshdan katta bo'lishingiz kerak.",
		"search_prompt":          "Qidiruv so'rovini kiriting (mahsulot nomi yoki ta'rifi):",
		"cart_empty":             "Savat bo'sh.",
		"cart_line":              "{name} x{qty} = {total} UZS",
		"cart_contents":          "Savatdagi mahsulotlar:\n{items}\nOraliq jami: {subtotal} UZS\nJami: {total} UZS (Yetkazib berish: {delivery_fee} UZS)",
		"enter_promo":            "Promo kodni kiriting (o'tkazib yuborish uchun 'skip' deb yozing):",
		"invalid_promo":          "Noto'g'ri promo kod yoki foydalanish limitiga yetdi.",
		"total_with_delivery":    "Jami: {total} UZS (Yetkazib berish: {delivery_fee} UZS, Chegirma: {discount} UZS)",
		"choose_delivery_time":   "Yetkazib berish vaqtini tanlang:",
		"enter_delivery_time":    "Yetkazib berish vaqtini kiriting (masalan, 'bugun 13:00' yoki 'ertaga 14:00'):",
		"invalid_delivery_time":  "Noto'g'ri vaqt formati. Iltimos, 'bugun HH:MM' yoki 'ertaga HH:MM' formatida kiriting.",
		"delivery_time_too_soon": "Vaqt hozirdan kamida {minutes} daqiqa keyin bo'lishi kerak.",
		"choose_payment":         "To'lov turini tanlang:",
		"insufficient_coins":     "Coinlaringiz yetarli emas. Hisobni to'ldiring yoki boshqa to'lov turini tanlang.",
		"order_submitted":        "Buyurtma #{order_id} yuborildi. Admin tasdiqlashini kuting.",
		"order_confirmed":        "Buyurtmangiz tasdiqlandi! Yetkazib berish vaqti: {time}",
		"order_auto_confirmed":   "Buyurtmangiz #{order_id} qabul qilindi. Yetkazib berish vaqti: {time}",
		"feedback_prompt":        "Xizmatimizga baho bering (1-5):",
		"invalid_feedback":       "Iltimos, 1 dan 5 gacha bo'lgan baho kiriting.",
		"feedback_thanks":        "{rating} bahoingiz uchun rahmat!",
		"my_coins":               "Balansingiz: {coins} coin",
		"choose_coin_amount":     "Coin miqdorini kiriting (1 coin = {rate} UZS, masalan, 20.000):",
		"invalid_coin_amount":    "Iltimos, to'g'ri coin miqdorini kiriting (musbat raqam, masalan, 20.000).",
		"send_coin_check":        "{amount} coin uchun {uzs} UZS ni {card} kartasiga o'tkazing va chek rasmini yuboring:",
		"coin_request_sent":      "Chek yuborildi. Admin tasdiqlashini kuting.",
		"pending_coin_request":   "Sizda allaqachon tasdiqlanmagan coin so'rovi mavjud. Iltimos, admin tasdiqlashini kuting.",
		"coin_request_approved":  "Sizning {amount} coin so'rovingiz tasdiqlandi!",
		"coin_request_rejected":  "Sizning coin so'rovingiz admin tomonidan rad etildi.",
		"my_orders":              "Buyurtmalaringiz:\n{orders}",
		"no_orders":              "Sizda hali buyurtmalar yo'q.",
		"help_info":              "Admin bilan bog'laning: {support}",
		"settings":               "Sozlamalar",
		"language_changed":       "Til o'zgartirildi!",
		"enter_new_name":         "Yangi ismingizni kiriting:",
		"name_changed":           "Ism o'zgartirildi!",
		"error":                  "Xatolik yuz berdi. Iltimos, qayta urinib ko'ring yoki admin bilan bog'laning: {support}",
		"not_registered":         "Avval /start orqali ro'yxatdan o'ting.",

		"btn_start_ordering":  "Buyurtma boshlash",
		"btn_my_coins":        "Mening coinlarim",
		"btn_my_orders":       "Mening buyurtmalarim",
		"btn_help":            "Yordam",
		"btn_settings":        "Sozlamalar",
		"btn_buy_coins":       "Coin sotib olish",
		"btn_go_back":         "Orqaga",
		"btn_change_name":     "Ismni o'zgartirish",
		"btn_change_language": "Tilni o'zgartirish",
		"btn_send_location":   "Joylashuvni yuborish",
		"btn_add_to_cart":     "Savatga qo'shish",
		"btn_see_cart":        "Savatni ko'rish",
		"btn_add_more":        "Yana qo'shish",
		"btn_finish_order":    "Buyurtmani yakunlash",
		"btn_cancel":          "Bekor qilish",
		"btn_search":          "Mahsulotlarni qidirish",
		"btn_load_more":       "Ko'proq ko'rish",
		"btn_remove":          "{name} ni o'chirish",
		"btn_age_yes":         "Ha, 21 yoshdan kattaman",
		"btn_age_no":          "Yo'q, 21 yoshdan kichikman",
		"btn_next_slot":       "Keyingi mavjud vaqt: {time}",
		"btn_admin_choose":    "Admin tanlasin (standart {minutes} daqiqa)",
		"btn_set_time":        "O'zim vaqt belgilayman",
		"btn_pay_coins":       "Coinlar",
		"btn_pay_cash":        "Naqd pul",

		"invalid_payment":        "Noma'lum to'lov usuli.",
		"order_details":          "Buyurtma #{order_id}\nFoydalanuvchi: {user_name}\nTelefon: {phone}\nDo'kon: {store}\nMahsulotlar: {products}\nTo'lov: {payment}\nYetkazish: {delivery}\nPromokod: {promo}\nJami: {total} UZS (Yetkazish: {delivery_fee} UZS)",
		"order_auto_admin":       "Buyurtma #{order_id} javob vaqti tugagach avtomatik tasdiqlandi.",
		"order_confirmed_admin":  "Buyurtma #{order_id} tasdiqlandi.",
		"order_already_resolved": "Buyurtma #{order_id} allaqachon tasdiqlangan.",
		"order_not_found":        "Buyurtma topilmadi.",
		"coin_request_admin":     "Tanga so'rovi #{request_id}\nFoydalanuvchi: {user_name} ({user_id})\nMiqdor: {amount} tanga ({uzs} UZS)",
		"coin_request_resolved":  "Tanga so'rovi #{request_id}: {status}.",
		"coin_request_processed": "So'rov topilmadi yoki allaqachon ko'rib chiqilgan.",
		"order_line":             "#{order_id} {status}: {total} UZS, {delivery}",
		"error_admin":            "{user_id} foydalanuvchida xatolik: {error}",
		"admin_menu":             "Admin paneli: do'konni tanlang",
		"admin_store_menu":       "Do'kon: {store}",
		"enter_product_name":     "Mahsulot nomini kiriting:",
		"enter_product_desc":     "Mahsulot tavsifini kiriting:",
		"enter_product_price":    "Mahsulot narxini kiriting:",
		"invalid_product_price":  "Iltimos, musbat narx kiriting.",
		"enter_product_category": "Mahsulot toifasini kiriting:",
		"upload_product_image":   "Mahsulot rasmini yuklang:",
		"product_added":          "{name} mahsuloti qo'shildi!",
		"choose_product":         "Mahsulotni tanlang:",
		"admin_product_card":     "{name}\nToifa: {category}\nNarx: {price} UZS",
		"product_deleted":        "Mahsulot o'chirildi.",
		"enter_promo_code":       "Yangi promokodni kiriting:",
		"enter_promo_discount":   "Chegirma foizini kiriting (1-100):",
		"invalid_promo_discount": "Chegirma 1 dan 100 gacha son bo'lishi kerak.",
		"enter_promo_max_uses":   "Maksimal foydalanish sonini kiriting:",
		"invalid_promo_max_uses": "Maksimal foydalanish soni musbat butun son bo'lishi kerak.",
		"promo_added":            "{code} promokodi qo'shildi!",
		"promo_exists":           "Bu promokod allaqachon mavjud.",
		"choose_promo":           "Promokodlar:",
		"promo_card":             "{code}: {discount}% chegirma, {usage}/{max} marta ishlatilgan",
		"promo_deleted":          "Promokod o'chirildi.",
		"btn_admin_panel":        "Admin paneli",
		"btn_confirm_order":      "Buyurtmani tasdiqlash",
		"btn_approve":            "Tasdiqlash",
		"btn_reject":             "Rad etish",
		"btn_add_product":        "Mahsulot qo'shish",
		"btn_view_products":      "Mahsulotlar",
		"btn_manage_promos":      "Promokodlar",
		"btn_add_promo":          "Promokod qo'shish",
		"btn_delete":             "O'chirish",
		"order_already_placed":   "Bu buyurtma allaqachon rasmiylashtirilgan.",
	},
}
