package translate

import (
	"strings"
	"time"

	"github.com/finboard/finboard/internal/descriptor"
	"github.com/finboard/finboard/internal/schema"
)

// PhraseResolver is a deterministic correction applied after the model's
// descriptor is parsed. Resolvers exist because models are unreliable at date
// arithmetic; each one keys on concrete phrasing and rewrites the descriptor
// in place. The return value reports whether the resolver fired.
type PhraseResolver interface {
	Resolve(message string, d *descriptor.QueryDescriptor) bool
}

// LastMonthResolver rewrites "прошлый месяц" tender requests into an absolute
// range on the tenders default date field: the first through last calendar day
// of the month before the current one, with year rollback in January. The
// filters are replaced wholesale when the rule fires.
type LastMonthResolver struct {
	// Now is injectable for tests; nil means time.Now.
	Now func() time.Time
}

func (r LastMonthResolver) Resolve(message string, d *descriptor.QueryDescriptor) bool {
	text := strings.ToLower(message)
	aboutTenders := schema.Table(d.Table) == schema.TableTenders || strings.Contains(text, "тендер")
	if !aboutTenders || !strings.Contains(text, "прошлый месяц") {
		return false
	}

	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}
	firstOfCurrent := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	from := firstOfCurrent.AddDate(0, -1, 0)
	to := firstOfCurrent.AddDate(0, 0, -1)

	field := schema.Describe(schema.TableTenders).DefaultDateField
	d.Table = string(schema.TableTenders)
	d.Filters = []descriptor.Filter{
		{Field: field, Op: descriptor.OpGte, Value: from.Format("2006-01-02")},
		{Field: field, Op: descriptor.OpLte, Value: to.Format("2006-01-02")},
	}
	return true
}

// DefaultResolvers is the production resolver chain.
func DefaultResolvers() []PhraseResolver {
	return []PhraseResolver{LastMonthResolver{}}
}
