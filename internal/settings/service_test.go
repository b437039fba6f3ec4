package settings

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/adforge/adforge-backend/pkg/db/models"
	pkgerrors "github.com/adforge/adforge-backend/pkg/errors"
)

type fakeRepo struct {
	rows map[string]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[string]string{}}
}

func (f *fakeRepo) List(context.Context) ([]models.Setting, error) {
	out := make([]models.Setting, 0, len(f.rows))
	for k, v := range f.rows {
		out = append(out, models.Setting{Key: k, Value: v})
	}
	return out, nil
}

func (f *fakeRepo) FindByKey(_ context.Context, key string) (*models.Setting, error) {
	v, ok := f.rows[key]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.Setting{Key: key, Value: v}, nil
}

func (f *fakeRepo) Upsert(_ context.Context, row *models.Setting) error {
	f.rows[row.Key] = row.Value
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, key string) error {
	delete(f.rows, key)
	return nil
}

func TestSetManyThenGetAll(t *testing.T) {
	repo := newFakeRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	if err := svc.SetMany(ctx, map[string]string{"use_llm": "OpenAI", "OpenAI": "sk-1"}); err != nil {
		t.Fatalf("set many: %v", err)
	}
	all, err := svc.GetAll(ctx)
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if all["use_llm"] != "OpenAI" || all["OpenAI"] != "sk-1" {
		t.Fatalf("unexpected settings %v", all)
	}
}

func TestSetManyUpserts(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := NewService(repo)
	ctx := context.Background()

	if err := svc.SetMany(ctx, map[string]string{"use_llm": "OpenAI"}); err != nil {
		t.Fatalf("set many: %v", err)
	}
	if err := svc.SetMany(ctx, map[string]string{"use_llm": "Anthropic"}); err != nil {
		t.Fatalf("set many again: %v", err)
	}
	value, ok, err := svc.Value(ctx, "use_llm")
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if !ok || value != "Anthropic" {
		t.Fatalf("expected upserted value, got %q (ok=%v)", value, ok)
	}
}

func TestDeleteRemovesKey(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := NewService(repo)
	ctx := context.Background()

	if err := svc.SetMany(ctx, map[string]string{"use_llm": "OpenAI"}); err != nil {
		t.Fatalf("set many: %v", err)
	}
	if err := svc.Delete(ctx, "use_llm"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := svc.Value(ctx, "use_llm"); ok {
		t.Fatalf("expected key removed")
	}
	if err := svc.Delete(ctx, " "); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for blank key, got %v", err)
	}
}

func TestValueMissingKeyIsNotAnError(t *testing.T) {
	svc, _ := NewService(newFakeRepo())
	_, ok, err := svc.Value(context.Background(), "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected ok=false for missing key")
	}
}

func TestSetManyRejectsEmptyInput(t *testing.T) {
	svc, _ := NewService(newFakeRepo())
	if err := svc.SetMany(context.Background(), nil); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := svc.SetMany(context.Background(), map[string]string{" ": "x"}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for blank key, got %v", err)
	}
}
