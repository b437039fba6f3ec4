package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/adforge/adforge-backend/pkg/errors"
)

type testSettingsService struct {
	getAllFn  func(ctx context.Context) (map[string]string, error)
	setManyFn func(ctx context.Context, values map[string]string) error
	deleteFn  func(ctx context.Context, key string) error
}

func (s *testSettingsService) GetAll(ctx context.Context) (map[string]string, error) {
	if s.getAllFn != nil {
		return s.getAllFn(ctx)
	}
	return map[string]string{}, nil
}

func (s *testSettingsService) Value(_ context.Context, _ string) (string, bool, error) {
	return "", false, nil
}

func (s *testSettingsService) SetMany(ctx context.Context, values map[string]string) error {
	if s.setManyFn != nil {
		return s.setManyFn(ctx, values)
	}
	return nil
}

func (s *testSettingsService) Delete(ctx context.Context, key string) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, key)
	}
	return nil
}

func TestSettingsUpdateRejectsEmptyPayload(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/settings", strings.NewReader(`{"settings":{}}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	SettingsUpdate(&testSettingsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestSettingsDeleteRemovesKey(t *testing.T) {
	var deleted string
	svc := &testSettingsService{
		deleteFn: func(_ context.Context, key string) error {
			deleted = key
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/settings/use_llm", nil)
	req = addRouteParam(req, "key", "use_llm")
	resp := httptest.NewRecorder()

	SettingsDelete(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if deleted != "use_llm" {
		t.Fatalf("expected delete for use_llm, got %q", deleted)
	}
}

func TestSettingsDeleteBlankKey(t *testing.T) {
	svc := &testSettingsService{
		deleteFn: func(_ context.Context, key string) error {
			return pkgerrors.New(pkgerrors.CodeValidation, "setting key is required")
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/settings/%20", nil)
	req = addRouteParam(req, "key", " ")
	resp := httptest.NewRecorder()

	SettingsDelete(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
