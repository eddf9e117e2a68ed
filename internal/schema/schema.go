package schema

// Table identifies one of the browsable datasets. The set is closed: the
// assistant, the row store and the grid all refuse to operate on anything else.
type Table string

const (
	TableClients  Table = "clients"
	TableContacts Table = "contacts"
	TableTenders  Table = "tenders"
)

// DefaultTable is what permissive call sites fall back to when a table
// reference cannot be resolved.
const DefaultTable = TableClients

type FieldType string

const (
	FieldString  FieldType = "string"
	FieldNumber  FieldType = "number"
	FieldDate    FieldType = "date"
	FieldBoolean FieldType = "boolean"
)

type Field struct {
	Name        string
	Label       string
	Type        FieldType
	Description string
	Aliases     []string
}

type TableSchema struct {
	Table       Table
	Title       string
	Description string
	// DefaultDateField is used when a temporal request does not say which
	// date column it means ("за прошлый месяц" on tenders).
	DefaultDateField string
	Fields           []Field
}

func Tables() []Table {
	return []Table{TableClients, TableContacts, TableTenders}
}

func IsValid(t Table) bool {
	switch t {
	case TableClients, TableContacts, TableTenders:
		return true
	default:
		return false
	}
}

// Normalize is the deliberate leniency policy for table references: unknown or
// empty names resolve to DefaultTable instead of failing.
func Normalize(name string) Table {
	t := Table(name)
	if IsValid(t) {
		return t
	}
	return DefaultTable
}

// Describe returns the registry entry for t. Callers are expected to pass a
// value from the closed enumeration; anything else gets the default table's
// schema, consistent with Normalize.
func Describe(t Table) TableSchema {
	if s, ok := registry[t]; ok {
		return s
	}
	return registry[DefaultTable]
}

func All() []TableSchema {
	out := make([]TableSchema, 0, len(registry))
	for _, t := range Tables() {
		out = append(out, registry[t])
	}
	return out
}

var registry = map[Table]TableSchema{
	TableClients: {
		Table:       TableClients,
		Title:       "Клиенты (clients)",
		Description: "Справочник клиентов компании: базовая информация о компаниях, с которыми ведётся работа.",
		Fields: []Field{
			{
				Name:        "mgc_client",
				Label:       "Название клиента",
				Type:        FieldString,
				Description: "Официальное название клиента (компании). По этому полю клиента проще всего искать.",
				Aliases:     []string{"клиент", "компания", "название клиента", "бренд"},
			},
			{
				Name:        "Ul",
				Label:       "Юридическое лицо клиента",
				Type:        FieldString,
				Description: "Юридическое лицо клиента (ООО/АО и т.п.), если отличается от брендового названия.",
				Aliases:     []string{"юрлицо", "юр лицо", "юридическое лицо"},
			},
			{
				Name:        "Client_category",
				Label:       "Категория/направление клиента",
				Type:        FieldString,
				Description: "Категория или направление клиента (чем занимается клиент, сегмент рынка).",
				Aliases:     []string{"категория клиента", "направление клиента", "отрасль"},
			},
			{
				Name:        "description",
				Label:       "Дополнительная информация о клиенте",
				Type:        FieldString,
				Description: "Свободный текст с дополнительной информацией о клиенте.",
				Aliases:     []string{"описание", "комментарий", "заметки"},
			},
			{
				Name:        "top_30",
				Label:       "Входит в топ-30 клиентов",
				Type:        FieldBoolean,
				Description: "Признак, входит ли клиент в топ-30 ключевых клиентов компании.",
				Aliases:     []string{"топ 30", "ключевой клиент", "strategic client"},
			},
			{
				Name:        "id_pf",
				Label:       "ID клиента в Planfix",
				Type:        FieldString,
				Description: "Уникальный идентификатор клиента в системе Planfix.",
				Aliases:     []string{"id клиента", "id planfix", "ид клиента"},
			},
			{
				Name:        "Inn",
				Label:       "ИНН клиента",
				Type:        FieldString,
				Description: "ИНН юридического лица клиента.",
				Aliases:     []string{"инн", "налоговый номер"},
			},
			{
				Name:        "pf_client",
				Label:       "Название клиента в Planfix",
				Type:        FieldString,
				Description: "Как клиент называется в Planfix (может отличаться от mgc_client).",
				Aliases:     []string{"название в planfix", "имя в планфикс"},
			},
		},
	},

	TableContacts: {
		Table:       TableContacts,
		Title:       "Контакты (contacts)",
		Description: "Контактные лица по клиентам: люди, с которыми идёт коммуникация.",
		Fields: []Field{
			{
				Name:        "id_pf",
				Label:       "ID контакта в Planfix",
				Type:        FieldString,
				Description: "Уникальный идентификатор контакта в Planfix.",
				Aliases:     []string{"id контакта", "id_pf контакта"},
			},
			{
				Name:        "gender",
				Label:       "Пол контакта",
				Type:        FieldString,
				Description: "Пол контактного лица (женский/мужской).",
				Aliases:     []string{"пол", "gender"},
			},
			{
				Name:        "site",
				Label:       "Сайт контакта",
				Type:        FieldString,
				Description: "Персональный сайт или сайт компании, связанный с контактом.",
				Aliases:     []string{"сайт", "website"},
			},
			{
				Name:        "name",
				Label:       "Имя и фамилия контакта",
				Type:        FieldString,
				Description: "Полное имя контактного лица (ФИО).",
				Aliases:     []string{"имя", "фамилия", "фио", "контакт"},
			},
			{
				Name:        "phone",
				Label:       "Телефон контакта",
				Type:        FieldString,
				Description: "Основной телефонный номер контакта.",
				Aliases:     []string{"телефон", "номер телефона", "mobile"},
			},
			{
				Name:        "e-mail",
				Label:       "E-mail контакта",
				Type:        FieldString,
				Description: "Адрес электронной почты контактного лица.",
				Aliases:     []string{"email", "почта", "электронная почта"},
			},
			{
				Name:        "work_position",
				Label:       "Должность контакта",
				Type:        FieldString,
				Description: "Должность контакта в компании-клиенте.",
				Aliases:     []string{"должность", "position", "роль"},
			},
			{
				Name:        "company",
				Label:       "Компания контакта",
				Type:        FieldString,
				Description: "Компания, в которой работает контакт.",
				Aliases:     []string{"компания", "клиент контакта", "организация"},
			},
			{
				Name:        "telegram",
				Label:       "Telegram контакта",
				Type:        FieldString,
				Description: "Ссылка или ник в Telegram для связи с контактом.",
				Aliases:     []string{"телеграм", "tg", "telegram"},
			},
			{
				Name:        "date_birth",
				Label:       "Дата рождения контакта",
				Type:        FieldDate,
				Description: "Дата рождения контактного лица.",
				Aliases:     []string{"дата рождения", "др", "birthday"},
			},
			{
				Name:        "adress",
				Label:       "Адрес контакта",
				Type:        FieldString,
				Description: "Почтовый или физический адрес, связанный с контактом.",
				Aliases:     []string{"адрес", "address"},
			},
		},
	},

	TableTenders: {
		Table:            TableTenders,
		Title:            "Тендеры (tenders)",
		Description:      "Лог всех тендеров и проектов: суммы, даты, статусы, источники и связи с клиентами.",
		DefaultDateField: "tender_start",
		Fields: []Field{
			{
				Name:        "id_pf",
				Label:       "ID тендера в Planfix",
				Type:        FieldString,
				Description: "Уникальный идентификатор тендера в Planfix (техническое поле).",
				Aliases:     []string{"id тендера", "id_pf тендера"},
			},
			{
				Name:        "agency",
				Label:       "Агентство",
				Type:        FieldString,
				Description: "Агентство, которое играло тендер.",
				Aliases:     []string{"агентство", "agency"},
			},
			{
				Name:        "client",
				Label:       "Клиент тендера",
				Type:        FieldString,
				Description: "Название клиента (компании), по которому проходил тендер.",
				Aliases:     []string{"клиент", "компания клиента", "заказчик"},
			},
			{
				Name:        "project",
				Label:       "Проект / канал тендера",
				Type:        FieldString,
				Description: "Проект или канал, по которому игрался тендер (digital, ТВ, PR).",
				Aliases:     []string{"проект", "канал", "направление тендера"},
			},
			{
				Name:        "client_category",
				Label:       "Категория клиента",
				Type:        FieldString,
				Description: "Категория или направление клиента, для которого проводился тендер.",
				Aliases:     []string{"категория клиента", "отрасль клиента"},
			},
			{
				Name:        "tender_ist",
				Label:       "Источник тендера",
				Type:        FieldString,
				Description: "Откуда стало известно о тендере (рекомендация, площадка, холодный заход).",
				Aliases:     []string{"источник тендера", "канал привлечения тендера"},
			},
			{
				Name:        "tender_budget",
				Label:       "Бюджет тендера",
				Type:        FieldNumber,
				Description: "Суммарный бюджет тендера в рублях. Ключевое числовое поле для аналитики.",
				Aliases:     []string{"бюджет", "сумма тендера", "объём тендера"},
			},
			{
				Name:        "tender_start",
				Label:       "Дата начала тендера",
				Type:        FieldDate,
				Description: "Дата старта тендера. Используется по умолчанию для фильтрации по периодам.",
				Aliases:     []string{"старт тендера", "начало тендера", "tender start"},
			},
			{
				Name:        "tender_dl",
				Label:       "Дэдлайн тендера",
				Type:        FieldDate,
				Description: "Крайний срок, к которому нужно было подать материалы.",
				Aliases:     []string{"дэдлайн", "дл", "срок сдачи", "deadline"},
			},
			{
				Name:        "tender_end",
				Label:       "Дата окончания тендера",
				Type:        FieldDate,
				Description: "Дата, когда тендер завершился.",
				Aliases:     []string{"конец тендера", "окончание тендера"},
			},
			{
				Name:        "tender_status",
				Label:       "Статус тендера",
				Type:        FieldString,
				Description: "Статус тендера: выигран, проигран, ждём ответа, подготовка КП и т.п.",
				Aliases:     []string{"статус", "результат тендера", "stage"},
			},
			{
				Name:        "tender_KP_start",
				Label:       "Начало подготовки КП",
				Type:        FieldDate,
				Description: "Дата начала подготовки коммерческого предложения.",
				Aliases:     []string{"старт КП", "начало КП", "kp start"},
			},
			{
				Name:        "tender_KP_end",
				Label:       "Окончание подготовки КП",
				Type:        FieldDate,
				Description: "Дата завершения подготовки коммерческого предложения.",
				Aliases:     []string{"финиш КП", "окончание КП", "kp end"},
			},
		},
	},
}
