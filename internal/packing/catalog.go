package packing

import "strings"

// Catalog resolves stable item keys to localized display strings and holds
// the per-language category layout. Built once, never mutated.
type Catalog struct {
	items      map[string]map[string]string
	categories map[string][]CategoryDef
}

// CategoryDef is one display category with its ordered keyword list. An item
// belongs to the first category whose keyword appears in its localized label;
// the last category is the catch-all.
type CategoryDef struct {
	Name     string
	Keywords []string
}

func NewCatalog() *Catalog {
	return &Catalog{items: itemLabels, categories: categoryDefs}
}

// ItemLabel returns the display string for an item key. Unknown languages
// fall back to English; unknown keys come back verbatim so a stale key is
// visible instead of vanishing.
func (c *Catalog) ItemLabel(key, lang string) string {
	translations, ok := c.items[key]
	if !ok {
		return key
	}
	if label, ok := translations[lang]; ok {
		return label
	}
	return translations["en"]
}

// Categories returns the ordered category definitions for a language.
func (c *Catalog) Categories(lang string) []CategoryDef {
	if defs, ok := c.categories[lang]; ok {
		return defs
	}
	return c.categories["en"]
}

// CategoryNames returns just the ordered category names for a language.
func (c *Catalog) CategoryNames(lang string) []string {
	defs := c.Categories(lang)
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	return names
}

// CategoryFor assigns a localized item label to a category by
// case-insensitive keyword substring match, first matching category winning.
// Labels nothing matches land in the last (catch-all) category.
func (c *Catalog) CategoryFor(label, lang string) string {
	defs := c.Categories(lang)
	lower := strings.ToLower(label)
	for _, def := range defs {
		for _, kw := range def.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				return def.Name
			}
		}
	}
	return defs[len(defs)-1].Name
}

// BaselineKeys are packed on every trip regardless of weather or context.
var BaselineKeys = []string{"passport", "insurance", "money", "tickets", "booking"}

var itemLabels = map[string]map[string]string{
	// Essentials
	"passport":  {"ru": "Паспорт", "en": "Passport"},
	"insurance": {"ru": "Медицинская страховка", "en": "Health Insurance"},
	"money":     {"ru": "Деньги/карта", "en": "Cash/Credit Cards"},
	"tickets":   {"ru": "Билеты", "en": "Tickets"},
	"booking":   {"ru": "Бронь отеля", "en": "Hotel Booking"},
	"license":   {"ru": "Водительское удостоверение/СТС", "en": "Driver's License"},
	"visa":      {"ru": "Виза", "en": "Visa"},

	// Clothes
	"jacket_warm":      {"ru": "Тёплая куртка", "en": "Warm Jacket"},
	"jacket_light":     {"ru": "Лёгкая куртка", "en": "Light Jacket"},
	"raincoat":         {"ru": "Дождевик", "en": "Raincoat"},
	"thermo":           {"ru": "Термобельё", "en": "Thermal Underwear"},
	"hat":              {"ru": "Шапка", "en": "Hat"},
	"scarf":            {"ru": "Шарф", "en": "Scarf"},
	"gloves":           {"ru": "Перчатки", "en": "Gloves"},
	"boots_winter":     {"ru": "Зимние ботинки", "en": "Winter Boots"},
	"socks_warm":       {"ru": "Тёплые носки", "en": "Warm Socks"},
	"sweater":          {"ru": "Свитер", "en": "Sweater"},
	"jeans":            {"ru": "Джинсы", "en": "Jeans"},
	"sneakers":         {"ru": "Кроссовки", "en": "Sneakers"},
	"tshirt":           {"ru": "Футболки", "en": "T-shirts"},
	"shorts":           {"ru": "Шорты", "en": "Shorts"},
	"cap":              {"ru": "Панама", "en": "Cap/Hat"},
	"sunglasses":       {"ru": "Солнцезащитные очки", "en": "Sunglasses"},
	"shoes_light":      {"ru": "Легкая обувь", "en": "Light Shoes"},
	"shoes_waterproof": {"ru": "Водонепроницаемая обувь", "en": "Waterproof Shoes"},
	"swimsuit":         {"ru": "Купальник", "en": "Swimsuit"},
	"windbreaker":      {"ru": "Ветровка", "en": "Windbreaker"},
	"scarf_buff":       {"ru": "Шарф/бафф", "en": "Scarf/Buff"},
	"dress":            {"ru": "Платье/юбка", "en": "Dress/Skirt"},
	"suit":             {"ru": "Костюм/деловой стиль", "en": "Suit/Formal Wear"},
	"shirts":           {"ru": "Рубашки/блузки", "en": "Shirts/Blouses"},
	"shoes_formal":     {"ru": "Туфли/строгая обувь", "en": "Formal Shoes"},
	"sportswear":       {"ru": "Спортивная одежда", "en": "Sportswear"},
	"trekking_shoes":   {"ru": "Треккинговая обувь", "en": "Trekking Shoes"},
	"ski_suit":         {"ru": "Горнолыжный костюм", "en": "Ski Suit"},
	"fleece":           {"ru": "Флисовая кофта", "en": "Fleece Jacket"},
	"goggles":          {"ru": "Маска/очки для снега", "en": "Ski Goggles"},
	"mittens":          {"ru": "Перчатки/варежки", "en": "Gloves/Mittens"},
	"pareo":            {"ru": "Пляжная туника/парео", "en": "Beach Tunic/Pareo"},
	"flipflops":        {"ru": "Шлёпанцы", "en": "Flip-flops"},

	// Hygiene
	"toothbrush":     {"ru": "Зубная щётка и паста", "en": "Toothbrush & Paste"},
	"deodorant":      {"ru": "Дезодорант", "en": "Deodorant"},
	"soap":           {"ru": "Мыло", "en": "Soap"},
	"shampoo":        {"ru": "Шампунь", "en": "Shampoo"},
	"hairbrush":      {"ru": "Расчёска", "en": "Hairbrush"},
	"shaving_kit":    {"ru": "Бритвенный набор", "en": "Shaving Kit"},
	"makeup":         {"ru": "Косметика/макияж", "en": "Makeup"},
	"makeup_remover": {"ru": "Средство для снятия макияжа", "en": "Makeup Remover"},
	"hygiene_fem":    {"ru": "Средства гигиены (женские)", "en": "Feminine Hygiene"},
	"wipes":          {"ru": "Влажные салфетки", "en": "Wet Wipes"},
	"sunscreen":      {"ru": "Солнцезащитный крем", "en": "Sunscreen"},
	"sunscreen_50":   {"ru": "Солнцезащитный крем (SPF 50+)", "en": "Sunscreen (SPF 50+)"},
	"chapstick":      {"ru": "Гигиеническая помада", "en": "Lip Balm"},
	"styling":        {"ru": "Средство для укладки (от влажности)", "en": "Hair Styling Product"},
	"wind_cream":     {"ru": "Крем от ветра/мороза", "en": "Wind/Frost Cream"},
	"after_sun":      {"ru": "Крем после загара", "en": "After-Sun Cream"},
	"laundry":        {"ru": "Мыло для стирки", "en": "Travel Laundry Soap"},

	// Electronics
	"phone":          {"ru": "Телефон", "en": "Phone"},
	"charger":        {"ru": "Зарядка", "en": "Charger"},
	"powerbank":      {"ru": "Power bank", "en": "Power Bank"},
	"powerbank_hand": {"ru": "Power bank (в ручную кладь)", "en": "Power Bank (Carry-on)"},
	"adapter":        {"ru": "Переходник для розеток", "en": "Power Adapter"},
	"headphones":     {"ru": "Наушники", "en": "Headphones"},
	"laptop":         {"ru": "Ноутбук", "en": "Laptop"},
	"car_charger":    {"ru": "Автомобильная зарядка", "en": "Car Charger"},

	// Pharmacy
	"meds_personal": {"ru": "Личные лекарства", "en": "Personal Meds"},
	"meds_regular":  {"ru": "Запас регулярных лекарств", "en": "Regular Meds Reserve"},
	"painkillers":   {"ru": "Обезболивающее", "en": "Painkillers"},
	"plasters":      {"ru": "Пластыри", "en": "Plasters"},
	"antihistamine": {"ru": "Антигистаминные", "en": "Antihistamines"},
	"med_report":    {"ru": "Медзаключение", "en": "Medical Report"},
	"allergies_list": {"ru": "Список аллергенов", "en": "Allergies List"},
	"first_aid_kit": {"ru": "Аптечка", "en": "First Aid Kit"},

	// Misc
	"water_bottle": {"ru": "Бутылка для воды", "en": "Water Bottle"},
	"backpack":     {"ru": "Рюкзак/Сумка", "en": "Backpack/Bag"},
	"backpack_walk": {"ru": "Рюкзак для прогулок", "en": "Daypack"},
	"umbrella":     {"ru": "Зонт", "en": "Umbrella"},
	"thermos":      {"ru": "Термос", "en": "Thermos"},
	"map_compass":  {"ru": "Карта/компас", "en": "Map/Compass"},
	"beach_towel":  {"ru": "Пляжное полотенце", "en": "Beach Towel"},
	"beach_bag":    {"ru": "Сумка для пляжа", "en": "Beach Bag"},
	"business_cards": {"ru": "Визитки", "en": "Business Cards"},

	// Transport
	"neck_pillow":       {"ru": "Подушка для шеи", "en": "Neck Pillow"},
	"earplugs":          {"ru": "Беруши/маска для сна", "en": "Earplugs/Sleep Mask"},
	"liquids_bag":       {"ru": "Жидкости <100мл (в прозрачном пакете)", "en": "Liquids <100ml bag"},
	"slippers_train":    {"ru": "Тапочки для поезда", "en": "Train Slippers"},
	"mug":               {"ru": "Кружка", "en": "Mug"},
	"clothes_train":     {"ru": "Удобная одежда для поезда", "en": "Comfy Train Clothes"},
	"snacks_water":      {"ru": "Снеки и вода", "en": "Snacks & Water"},
	"playlist":          {"ru": "Плейлист/аудиокниги", "en": "Playlist/Audiobooks"},
	"sunglasses_driver": {"ru": "Солнцезащитные очки (для водителя)", "en": "Sunglasses (Driver)"},

	// Pet
	"vet_passport": {"ru": "Ветпаспорт", "en": "Pet Passport"},
	"pet_food":     {"ru": "Корм для питомца", "en": "Pet Food"},
	"pet_bowl":     {"ru": "Миска", "en": "Pet Bowl"},
	"leash":        {"ru": "Поводок/переноска", "en": "Leash/Carrier"},
	"pet_pads":     {"ru": "Пелёнки/пакеты", "en": "Pet Pads/Bags"},
	"pet_toy":      {"ru": "Игрушка для питомца", "en": "Pet Toy"},
}

var categoryDefs = map[string][]CategoryDef{
	"en": {
		{Name: "Essentials", Keywords: []string{"Passport", "Insurance", "Money", "Card", "Visa", "Ticket", "Booking", "License"}},
		{Name: "Documents", Keywords: []string{"List", "Report", "Receipt", "Prescription"}},
		{Name: "Clothes", Keywords: []string{"Jacket", "T-shirt", "Jeans", "Shorts", "Sweater", "Coat", "Dress", "Skirt", "Underwear", "Socks", "Shoes", "Boots", "Sneakers", "Hat", "Scarf", "Gloves", "Swimsuit"}},
		{Name: "Hygiene", Keywords: []string{"Toothbrush", "Paste", "Deodorant", "Soap", "Shampoo", "Brush", "Comb", "Makeup", "Wipes", "Shaving", "Cream", "Sunscreen", "Balm"}},
		{Name: "Electronics", Keywords: []string{"Phone", "Charger", "Power", "Adapter", "Laptop", "Headphones"}},
		{Name: "Pharmacy", Keywords: []string{"Meds", "Pills", "Painkiller", "Plaster", "Antihistamine"}},
		{Name: "Misc", Keywords: []string{"Bottle", "Bag", "Backpack", "Mask", "Umbrella", "Snacks", "Pillow", "Earplugs", "Mug", "Pet", "Leash", "Toy"}},
	},
	"ru": {
		{Name: "Важное", Keywords: []string{"Паспорт", "Медицинская страховка", "Деньги/карта", "Виза", "Билеты", "Бронь отеля", "Водительское удостоверение/СТС", "Ветпаспорт"}},
		{Name: "Документы", Keywords: []string{"Список аллергенов", "Медзаключение", "Личные рецепты"}},
		{Name: "Одежда", Keywords: []string{"куртка", "пуховик", "Термобельё", "Шапка", "Шарф", "Перчатки", "ботинки", "носки", "Свитер", "толстовка", "Джинсы", "брюки", "Кроссовки", "кофта", "свитшот", "Футболки", "Шорты", "платья", "Платье", "Панама", "кепка", "очки", "Обувь", "Дождевик", "Купальник", "плавки", "туника", "парео", "Шлёпанцы", "Костюм", "Рубашки", "блузки", "Туфли", "юбка", "Ветровка", "бафф", "Спортивная одежда", "одежда"}},
		{Name: "Гигиена", Keywords: []string{"Зубная", "Паста", "Дезодорант", "Мыло", "Расчёска", "Косметика", "макияж", "Влажные салфетки", "Бритвенный набор", "Шампунь", "помада", "укладки", "Крем"}},
		{Name: "Техника", Keywords: []string{"Телефон", "Зарядка", "Пауэрбанк", "Power bank", "Переходник", "Ноутбук", "Наушники"}},
		{Name: "Аптечка", Keywords: []string{"лекарства", "Пластыри", "Обезболивающее", "Антигистаминные", "Аптечка"}},
		{Name: "Прочее", Keywords: []string{"Бутылка", "Термос", "рюкзак", "Сумка", "Снеки", "Плейлист", "Подушка", "Беруши", "маска", "Жидкости", "Тапочки", "Кружка", "Миска", "Поводок", "переноска", "Пелёнки", "пакеты", "Игрушка", "Визитки"}},
	},
}
