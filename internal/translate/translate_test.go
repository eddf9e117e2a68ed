package translate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/finboard/finboard/internal/descriptor"
	"github.com/finboard/finboard/internal/schema"
)

func completionServer(t *testing.T, modelText string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Api-Key test-key" {
			t.Errorf("missing api key header, got %q", r.Header.Get("Authorization"))
		}
		var payload yandexPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		if payload.CompletionOptions.Stream {
			t.Error("stream must be off")
		}
		if len(payload.Messages) == 0 || payload.Messages[0].Role != "system" {
			t.Error("system prompt must lead the message list")
		}
		resp := map[string]interface{}{
			"result": map[string]interface{}{
				"alternatives": []interface{}{
					map[string]interface{}{"message": map[string]interface{}{"role": "assistant", "text": modelText}},
				},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func newTestTranslator(t *testing.T, srv *httptest.Server, resolvers ...PhraseResolver) *YandexTranslator {
	t.Helper()
	tr, err := NewYandexTranslator(YandexConfig{
		APIKey:   "test-key",
		FolderID: "folder",
		Endpoint: srv.URL,
		Timeout:  time.Second,
	}, resolvers...)
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

func TestTranslateFencedBlock(t *testing.T) {
	srv := completionServer(t, "Вот запрос:\n```json\n{\"tableRequest\":{\"table\":\"tenders\",\"limit\":20}}\n```")
	defer srv.Close()

	res, err := newTestTranslator(t, srv).Translate(context.Background(), Request{Message: "покажи тендеры"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Table != schema.TableTenders || res.Descriptor.Limit != 20 {
		t.Fatalf("result = %+v", res)
	}
	if res.Reply == "" {
		t.Fatal("reply must carry the full model text")
	}
}

func TestTranslateBareBraces(t *testing.T) {
	srv := completionServer(t, `Конечно! {"table":"contacts"} — готово.`)
	defer srv.Close()

	res, err := newTestTranslator(t, srv).Translate(context.Background(), Request{Message: "контакты"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Table != schema.TableContacts {
		t.Fatalf("table = %q", res.Table)
	}
}

func TestTranslateParseError(t *testing.T) {
	srv := completionServer(t, "извините, не могу помочь")
	defer srv.Close()

	_, err := newTestTranslator(t, srv).Translate(context.Background(), Request{Message: "что-нибудь"})
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("want ParseError, got %v", err)
	}
	if pe.Raw == "" {
		t.Fatal("parse error must keep the raw model text")
	}
}

func TestTranslateServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	}))
	defer srv.Close()

	_, err := newTestTranslator(t, srv).Translate(context.Background(), Request{Message: "тендеры"})
	var se *ServiceError
	if !errors.As(err, &se) {
		t.Fatalf("want ServiceError, got %v", err)
	}
	if se.Status != http.StatusTooManyRequests || se.Message != "quota exceeded" {
		t.Fatalf("service error = %+v", se)
	}
}

func TestTranslateEmptyConversation(t *testing.T) {
	srv := completionServer(t, "{}")
	defer srv.Close()

	_, err := newTestTranslator(t, srv).Translate(context.Background(), Request{})
	if !errors.Is(err, ErrEmptyConversation) {
		t.Fatalf("want ErrEmptyConversation, got %v", err)
	}
}

func TestTableContinuity(t *testing.T) {
	srv := completionServer(t, `{"tableRequest":{"sort":{"field":"tender_budget","direction":"desc"}}}`)
	defer srv.Close()

	res, err := newTestTranslator(t, srv).Translate(context.Background(), Request{
		Message: "отсортируй по бюджету",
		Table:   schema.TableTenders,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Table != schema.TableTenders {
		t.Fatalf("refinement must keep the active table, got %q", res.Table)
	}
}

func TestLastMonthNormalizationLeapYear(t *testing.T) {
	r := LastMonthResolver{Now: func() time.Time {
		return time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	}}
	d := descriptor.QueryDescriptor{Table: "tenders", Filters: []descriptor.Filter{
		{Field: "tender_start", Op: descriptor.OpGte, Value: "2023-01-01"},
	}}
	if !r.Resolve("покажи тендеры за прошлый месяц", &d) {
		t.Fatal("resolver must fire")
	}
	want := []descriptor.Filter{
		{Field: "tender_start", Op: descriptor.OpGte, Value: "2024-02-01"},
		{Field: "tender_start", Op: descriptor.OpLte, Value: "2024-02-29"},
	}
	if len(d.Filters) != 2 || d.Filters[0] != want[0] || d.Filters[1] != want[1] {
		t.Fatalf("filters = %+v", d.Filters)
	}
}

func TestLastMonthNormalizationYearRollback(t *testing.T) {
	r := LastMonthResolver{Now: func() time.Time {
		return time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	}}
	d := descriptor.QueryDescriptor{}
	if !r.Resolve("тендеры за прошлый месяц", &d) {
		t.Fatal("resolver must fire on the word тендер alone")
	}
	if d.Table != "tenders" {
		t.Fatalf("table = %q", d.Table)
	}
	if d.Filters[0].Value != "2023-12-01" || d.Filters[1].Value != "2023-12-31" {
		t.Fatalf("filters = %+v", d.Filters)
	}
}

func TestLastMonthResolverDoesNotFireElsewhere(t *testing.T) {
	r := LastMonthResolver{}
	d := descriptor.QueryDescriptor{Table: "clients"}
	if r.Resolve("покажи клиентов за прошлый месяц", &d) {
		t.Fatal("resolver is tender-specific")
	}
	d = descriptor.QueryDescriptor{Table: "tenders"}
	if r.Resolve("покажи тендеры за этот год", &d) {
		t.Fatal("resolver keys on the exact phrase")
	}
}

func TestResolverRunsInsideTranslation(t *testing.T) {
	srv := completionServer(t, `{"tableRequest":{"table":"tenders","filters":[{"field":"tender_start","operator":"gte","value":"1999-01-01"}]}}`)
	defer srv.Close()

	fixed := LastMonthResolver{Now: func() time.Time {
		return time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	}}
	res, err := newTestTranslator(t, srv, fixed).Translate(context.Background(), Request{Message: "тендеры за прошлый месяц"})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Descriptor.Filters) != 2 || res.Descriptor.Filters[0].Value != "2024-02-01" {
		t.Fatalf("normalized filters = %+v", res.Descriptor.Filters)
	}
}

func TestStubTranslator(t *testing.T) {
	res, err := StubTranslator{}.Translate(context.Background(), Request{Message: "покажи всё"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Table != schema.TableClients || len(res.Descriptor.Filters) != 0 || res.Descriptor.Limit != 100 {
		t.Fatalf("stub descriptor = %+v", res.Descriptor)
	}
	if _, err := (StubTranslator{}).Translate(context.Background(), Request{}); !errors.Is(err, ErrEmptyConversation) {
		t.Fatalf("stub must reject an empty conversation, got %v", err)
	}
}
