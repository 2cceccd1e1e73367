package seed

import "github.com/fekuna/stroymaterials/internal/model"

type supplierFixture struct {
	name, contact, phone, email, address, city string
	rating, days                               int
	terms, notes                               string
}

var suppliers = []supplierFixture{
	{"ООО 'Стройматериалы Плюс'", "Иван Петров", "+7 (495) 123-45-67", "info@stroymat-plus.ru",
		"ул. Строителей, д. 15", "Москва", 5, 3, "Оплата по факту поставки",
		"Надежный поставщик с 2010 года. Отличное качество материалов."},
	{"ЗАО 'Стройпоставка'", "Петр Сидоров", "+7 (812) 987-65-43", "sales@stroypostavka.ru",
		"пр. Инженерный, д. 42", "Санкт-Петербург", 4, 5, "Предоплата 50%",
		"Быстрая доставка. Широкий ассортимент."},
	{"ИП Ковалев", "Алексей Ковалев", "+7 (383) 555-12-34", "kovalev@mail.ru",
		"ул. Ленина, д. 25", "Новосибирск", 4, 7, "Оплата наличными при получении",
		"Мелкий опт. Хорошие цены."},
	{"ООО 'Цемент-Строй'", "Мария Иванова", "+7 (495) 234-56-78", "cement@mail.ru",
		"ул. Промышленная, д. 8", "Москва", 5, 2, "Оплата по факту",
		"Специализация на цементе и бетоне."},
	{"ООО 'Кирпич-Торг'", "Сергей Волков", "+7 (495) 345-67-89", "kirpich@mail.ru",
		"ул. Кирпичная, д. 12", "Москва", 4, 4, "Предоплата 30%",
		"Большой выбор кирпича различных марок."},
}

type materialFixture struct {
	name, kind, unit      string
	quantity, price       float64
	supplier              int // index into suppliers
	minStock, maxStock    float64
	location, description string
}

var materials = []materialFixture{
	{"Цемент М500", "цемент", "кг", 5000, 45, 3, 1000, 10000,
		"Склад А, секция 1", "Портландцемент марки М500. Высокая прочность."},
	{"Песок речной", "песок", "т", 25, 1200, 0, 10, 50,
		"Склад Б, открытая площадка", "Речной песок крупной фракции. Для бетона и штукатурки."},
	{"Кирпич красный полнотелый", "кирпич", "шт", 15000, 12.5, 4, 5000, 30000,
		"Склад В, секция 3", "Керамический кирпич полнотелый. Размер 250x120x65 мм."},
	{"Арматура А12", "арматура", "т", 8.5, 45000, 1, 2, 20,
		"Склад Г, секция 2", "Арматура периодического профиля диаметром 12 мм."},
	{"Доска обрезная 50x150", "дерево", "м³", 15, 18000, 2, 5, 30,
		"Склад Д, секция 4", "Доска обрезная хвойных пород. Влажность до 20%."},
	{"Щебень гранитный 20-40", "щебень", "т", 40, 1500, 0, 15, 80,
		"Склад Б, открытая площадка", "Гранитный щебень фракции 20-40 мм. Для бетона."},
	{"Краска акриловая белая", "краска", "л", 120, 450, 1, 30, 200,
		"Склад А, секция 5", "Акриловая краска для внутренних работ. Белый цвет."},
	{"Гипсокартон ГКЛ 12.5 мм", "гипсокартон", "м²", 500, 280, 2, 100, 1000,
		"Склад В, секция 6", "Гипсокартон стандартный толщиной 12.5 мм. Размер 2500x1200 мм."},
	{"Рубероид РКК-350", "рубероид", "м²", 800, 120, 0, 200, 1500,
		"Склад Г, секция 7", "Рубероид кровельный наплавляемый. Плотность 350 г/м²."},
	{"Блоки газобетонные 600x300x200", "блоки", "м³", 30, 4200, 3, 10, 60,
		"Склад Д, секция 8", "Газобетонные блоки для кладки стен. Плотность D600."},
}

// Delivery dates walk one shared calendar: each offset is applied to the
// date produced by the previous one.
type deliveryFixture struct {
	material, supplier int
	quantity           float64
	deliveryShift      int // days
	expectedShift      int
	status             model.DeliveryStatus
	invoice            string
	cost               float64
	notes              string
}

var deliveries = []deliveryFixture{
	{0, 3, 2000, -15, -17, model.StatusDelivered, "INV-2024-001", 90000,
		"Доставка прошла успешно. Все материалы в отличном состоянии."},
	{1, 0, 10, -10, -12, model.StatusDelivered, "INV-2024-002", 12000,
		"Песок доставлен в срок."},
	{2, 4, 5000, -5, -7, model.StatusDelivered, "INV-2024-003", 62500,
		"Кирпич доставлен. Небольшой бой в пределах нормы."},
	{3, 1, 5, 3, 3, model.StatusPending, "INV-2024-004", 225000,
		"Ожидается поставка арматуры в течение 3 дней."},
	{4, 2, 8, 5, 5, model.StatusInTransit, "INV-2024-005", 144000,
		"Доска в пути. Ожидается доставка через 2 дня."},
	{5, 0, 20, -3, -5, model.StatusDelivered, "INV-2024-006", 30000,
		"Щебень доставлен. Качество отличное."},
	{6, 1, 50, -1, -2, model.StatusDelivered, "INV-2024-007", 22500,
		"Краска доставлена."},
	{7, 2, 200, 7, 7, model.StatusPending, "INV-2024-008", 56000,
		"Ожидается поставка гипсокартона."},
}

type userFixture struct {
	username, password, role string
	resetPassword            bool
}

var users = []userFixture{
	{"admin", "1234", model.RoleAdmin, true},
	{"guest", "guest123", model.RoleGuest, false},
}
