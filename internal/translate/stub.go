package translate

import (
	"context"
	"strings"

	"github.com/finboard/finboard/internal/descriptor"
	"github.com/finboard/finboard/internal/schema"
)

// StubTranslator is the offline fallback used when completion credentials are
// absent: every submission yields a fixed clients descriptor so the rest of
// the system stays exercisable without the external service.
type StubTranslator struct{}

func (StubTranslator) Translate(_ context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.Message) == "" && len(req.History) == 0 {
		return Result{}, ErrEmptyConversation
	}
	d := descriptor.QueryDescriptor{
		Table:       string(schema.TableClients),
		Description: "Тестовая таблица (режим офлайн)",
		Limit:       100,
	}
	return Result{
		Reply:      "Заглушка: языковая модель не настроена. Отображаю тестовые данные.",
		Descriptor: d,
		Table:      schema.TableClients,
	}, nil
}
