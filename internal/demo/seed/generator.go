// Package seed generates deterministic demo rows for local development.
package seed

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

type Client struct {
	MgcClient      string
	Ul             string
	ClientCategory string
	Description    string
	Top30          bool
	IDPf           string
	Inn            string
	PfClient       string
}

type Contact struct {
	IDPf         string
	Gender       string
	Site         string
	Name         string
	Phone        string
	Email        string
	WorkPosition string
	Company      string
	Telegram     string
	DateBirth    time.Time
	Adress       string
}

type Tender struct {
	IDPf           string
	Agency         string
	Client         string
	Project        string
	ClientCategory string
	TenderIst      string
	TenderBudget   float64
	TenderStart    time.Time
	TenderDl       time.Time
	TenderEnd      time.Time
	TenderStatus   string
	TenderKPStart  time.Time
	TenderKPEnd    time.Time
}

type Generator struct {
	rnd *rand.Rand
	now func() time.Time
}

func NewGenerator(seed int64) *Generator {
	return &Generator{
		rnd: rand.New(rand.NewSource(seed)),
		now: func() time.Time { return time.Now().UTC() },
	}
}

var (
	clientNames = []string{"Ромашка", "Василёк", "Пион", "Астра", "Гладиолус", "Клевер", "Тюльпан", "Ирис", "Мимоза", "Лаванда"}
	categories  = []string{"Ритейл", "Финансы", "Телеком", "Фарма", "FMCG", "Девелопмент"}
	agencies    = []string{"Медиа Плюс", "Реклама Про", "Бренд Лаб", "Диджитал Км", "Крео Студия"}
	statuses    = []string{"в работе", "выигран", "проигран", "отменён", "на паузе"}
	sources     = []string{"входящий", "исходящий", "партнёр", "площадка"}
	positions   = []string{"директор по маркетингу", "бренд-менеджер", "руководитель закупок", "медиа-менеджер"}
	firstNames  = []string{"Анна", "Иван", "Мария", "Пётр", "Ольга", "Сергей", "Елена", "Дмитрий"}
	lastNames   = []string{"Иванова", "Петров", "Сидорова", "Кузнецов", "Смирнова", "Попов"}
)

func (g *Generator) Clients(n int) []Client {
	clients := make([]Client, 0, n)
	for i := 0; i < n; i++ {
		name := pickOne(g.rnd, clientNames)
		if i >= len(clientNames) {
			name = fmt.Sprintf("%s %d", name, i)
		}
		clients = append(clients, Client{
			MgcClient:      name,
			Ul:             fmt.Sprintf("ООО «%s»", name),
			ClientCategory: pickOne(g.rnd, categories),
			Description:    fmt.Sprintf("Демо-клиент №%d", i+1),
			Top30:          g.rnd.Intn(100) < 20,
			IDPf:           fmt.Sprintf("pf-client-%04d", i+1),
			Inn:            fmt.Sprintf("77%08d", g.rnd.Intn(100000000)),
			PfClient:       fmt.Sprintf("https://planfix.example/client/%04d", i+1),
		})
	}
	return clients
}

func (g *Generator) Contacts(n int) []Contact {
	contacts := make([]Contact, 0, n)
	for i := 0; i < n; i++ {
		first := pickOne(g.rnd, firstNames)
		last := pickOne(g.rnd, lastNames)
		company := pickOne(g.rnd, clientNames)
		gender := "ж"
		if g.rnd.Intn(2) == 0 {
			gender = "м"
		}
		contacts = append(contacts, Contact{
			IDPf:         fmt.Sprintf("pf-contact-%04d", i+1),
			Gender:       gender,
			Site:         fmt.Sprintf("https://%s.example", translitSlug(company)),
			Name:         first + " " + last,
			Phone:        fmt.Sprintf("+7 (9%02d) %03d-%02d-%02d", g.rnd.Intn(100), g.rnd.Intn(1000), g.rnd.Intn(100), g.rnd.Intn(100)),
			Email:        fmt.Sprintf("contact%d@%s.example", i+1, translitSlug(company)),
			WorkPosition: pickOne(g.rnd, positions),
			Company:      company,
			Telegram:     fmt.Sprintf("@demo_contact_%d", i+1),
			DateBirth:    time.Date(1970+g.rnd.Intn(35), time.Month(1+g.rnd.Intn(12)), 1+g.rnd.Intn(28), 0, 0, 0, 0, time.UTC),
			Adress:       fmt.Sprintf("Москва, ул. Демонстрационная, д. %d", 1+g.rnd.Intn(120)),
		})
	}
	return contacts
}

func (g *Generator) Tenders(n int) []Tender {
	tenders := make([]Tender, 0, n)
	today := g.now().Truncate(24 * time.Hour)
	for i := 0; i < n; i++ {
		start := today.AddDate(0, 0, -g.rnd.Intn(180))
		deadline := start.AddDate(0, 0, 7+g.rnd.Intn(21))
		end := deadline.AddDate(0, 0, 14+g.rnd.Intn(30))
		kpStart := start.AddDate(0, 0, 2+g.rnd.Intn(5))
		tenders = append(tenders, Tender{
			IDPf:           fmt.Sprintf("pf-tender-%04d", i+1),
			Agency:         pickOne(g.rnd, agencies),
			Client:         pickOne(g.rnd, clientNames),
			Project:        fmt.Sprintf("Кампания %d кв. %d", 1+g.rnd.Intn(4), start.Year()),
			ClientCategory: pickOne(g.rnd, categories),
			TenderIst:      pickOne(g.rnd, sources),
			TenderBudget:   round2(500_000 + g.rnd.Float64()*9_500_000),
			TenderStart:    start,
			TenderDl:       deadline,
			TenderEnd:      end,
			TenderStatus:   pickOne(g.rnd, statuses),
			TenderKPStart:  kpStart,
			TenderKPEnd:    kpStart.AddDate(0, 0, 5+g.rnd.Intn(10)),
		})
	}
	return tenders
}

func pickOne(rnd *rand.Rand, options []string) string {
	return options[rnd.Intn(len(options))]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// translitSlug is only good enough for demo hostnames.
func translitSlug(s string) string {
	table := map[rune]string{
		'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "e",
		'ж': "zh", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m",
		'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
		'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "sch",
		'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya", ' ': "-",
	}
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			out = append(out, byte(r))
			continue
		}
		if mapped, ok := table[toLowerCyrillic(r)]; ok {
			out = append(out, mapped...)
		}
	}
	return string(out)
}

func toLowerCyrillic(r rune) rune {
	if r >= 'А' && r <= 'Я' {
		return r + ('а' - 'А')
	}
	if r == 'Ё' {
		return 'ё'
	}
	return r
}
