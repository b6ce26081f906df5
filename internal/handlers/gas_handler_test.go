package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"homewatch/internal/models"
	"homewatch/internal/repository"
	"homewatch/internal/service"
)

func TestGasHandlers_AddAndList(t *testing.T) {
	auth := &mockAuth{parseID: 7}
	gas := &mockGas{
		bottle:  models.GasBottle{ID: "b1", SizeKg: 11, LevelPct: 100},
		bottles: []models.GasBottle{{ID: "b1", SizeKg: 11}},
	}
	s := &service.Service{Authorization: auth, Gas: gas}
	r := newTestRouter(s)

	body := bytes.NewBufferString(`{"size_kg":11,"note":"garage"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/gas", body)
	req.Header.Set("Content-Type", "application/json")
	applyHeader(req, authHeader("valid"))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("add status=%d, body=%s", w.Code, w.Body.String())
	}
	if gas.addCalls != 1 || gas.lastAdd.SizeKg != 11 || gas.lastAdd.Note != "garage" {
		t.Fatalf("wrong Add params: %+v", gas.lastAdd)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/gas", nil)
	applyHeader(req, authHeader("valid"))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list status=%d", w.Code)
	}
	var bottles []models.GasBottle
	if err := json.Unmarshal(w.Body.Bytes(), &bottles); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if len(bottles) != 1 || bottles[0].ID != "b1" {
		t.Fatalf("unexpected list: %+v", bottles)
	}
}

func TestGasHandlers_AddMissingSizeRejected(t *testing.T) {
	auth := &mockAuth{parseID: 7}
	gas := &mockGas{}
	s := &service.Service{Authorization: auth, Gas: gas}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/gas", bytes.NewBufferString(`{"note":"no size"}`))
	req.Header.Set("Content-Type", "application/json")
	applyHeader(req, authHeader("valid"))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if gas.addCalls != 0 {
		t.Fatalf("Add should not be called on invalid body")
	}
}

func TestGasHandlers_ValidationErrorMapsTo400(t *testing.T) {
	auth := &mockAuth{parseID: 7}
	gas := &mockGas{err: service.ErrInvalidLevel}
	s := &service.Service{Authorization: auth, Gas: gas}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/gas", bytes.NewBufferString(`{"size_kg":11,"level_pct":130}`))
	req.Header.Set("Content-Type", "application/json")
	applyHeader(req, authHeader("valid"))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid level, got %d", w.Code)
	}
}

func TestGasHandlers_Swap(t *testing.T) {
	auth := &mockAuth{parseID: 7}
	gas := &mockGas{bottle: models.GasBottle{ID: "b2", SizeKg: 33, LevelPct: 100}}
	s := &service.Service{Authorization: auth, Gas: gas}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/gas/swap", bytes.NewBufferString(`{"size_kg":33}`))
	req.Header.Set("Content-Type", "application/json")
	applyHeader(req, authHeader("valid"))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("swap status=%d, body=%s", w.Code, w.Body.String())
	}
	if gas.swapCalls != 1 || gas.lastSwap.SizeKg != 33 {
		t.Fatalf("wrong Swap params: %+v", gas.lastSwap)
	}
}

func TestGasHandlers_UpdateAndDelete(t *testing.T) {
	auth := &mockAuth{parseID: 7}
	gas := &mockGas{bottle: models.GasBottle{ID: "b1", LevelPct: 40}}
	s := &service.Service{Authorization: auth, Gas: gas}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/gas/b1", bytes.NewBufferString(`{"level_pct":40}`))
	req.Header.Set("Content-Type", "application/json")
	applyHeader(req, authHeader("valid"))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("update status=%d, body=%s", w.Code, w.Body.String())
	}
	if gas.lastID != "b1" || gas.lastLevel != 40 {
		t.Fatalf("wrong UpdateLevel params: id=%q level=%v", gas.lastID, gas.lastLevel)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/gas/b1", nil)
	applyHeader(req, authHeader("valid"))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d", w.Code)
	}
	if gas.delCalls != 1 {
		t.Fatalf("Delete calls=%d", gas.delCalls)
	}
}

func TestGasHandlers_UnknownBottleMapsTo404(t *testing.T) {
	auth := &mockAuth{parseID: 7}
	gas := &mockGas{err: repository.ErrNotFound}
	s := &service.Service{Authorization: auth, Gas: gas}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/gas/missing", nil)
	applyHeader(req, authHeader("valid"))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
