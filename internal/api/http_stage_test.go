package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"internship/internal/entity"
)

func TestGetStageReturnsNullWhenUnset(t *testing.T) {
	r, _, repo := newTestServer(t)
	mustCreateUser(t, repo, "viewer", "Secret@123", entity.UserRoleStudent, false)
	token := loginToken(t, r, "viewer", "Secret@123")

	w := doJSON(t, r, http.MethodGet, "/stage", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "null" {
		t.Fatalf("expected null body, got %s", w.Body.String())
	}
}

func TestGetStageRequiresToken(t *testing.T) {
	r, _, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/stage", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
}

func TestSwitchStageEndToEnd(t *testing.T) {
	r, _, repo := newTestServer(t)
	mustCreateUser(t, repo, "root", "Secret@123", entity.UserRoleAdmin, false)
	mustCreateUser(t, repo, "watcher", "Secret@123", entity.UserRoleStudent, false)
	adminToken := loginToken(t, r, "root", "Secret@123")
	watcherToken := loginToken(t, r, "watcher", "Secret@123")

	// 切到报名阶段
	w := doJSON(t, r, http.MethodPost, "/stage/switch", adminToken, map[string]string{
		"code": "APPLY",
		"name": "报名",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body %s", w.Code, w.Body.String())
	}
	var stage entity.DbStage
	if err := json.Unmarshal(w.Body.Bytes(), &stage); err != nil {
		t.Fatalf("failed to unmarshal stage: %v", err)
	}
	if stage.Code != "APPLY" || stage.Name != "报名" || !stage.IsActive {
		t.Fatalf("unexpected stage: %+v", stage)
	}

	// 普通用户读取到同一激活阶段
	w = doJSON(t, r, http.MethodGet, "/stage", watcherToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &stage); err != nil {
		t.Fatalf("failed to unmarshal stage: %v", err)
	}
	if stage.Code != "APPLY" {
		t.Fatalf("expected APPLY to be active, got %+v", stage)
	}

	// 再切换，旧阶段让位
	w = doJSON(t, r, http.MethodPost, "/stage/switch", adminToken, map[string]string{"code": "MATCH"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &stage); err != nil {
		t.Fatalf("failed to unmarshal stage: %v", err)
	}
	// 名称未给时沿用 code
	if stage.Code != "MATCH" || stage.Name != "MATCH" || !stage.IsActive {
		t.Fatalf("unexpected stage: %+v", stage)
	}

	w = doJSON(t, r, http.MethodGet, "/stage", watcherToken, nil)
	if err := json.Unmarshal(w.Body.Bytes(), &stage); err != nil {
		t.Fatalf("failed to unmarshal stage: %v", err)
	}
	if stage.Code != "MATCH" {
		t.Fatalf("expected MATCH to be active, got %+v", stage)
	}
}

func TestSwitchStageValidatesPayload(t *testing.T) {
	r, _, repo := newTestServer(t)
	mustCreateUser(t, repo, "root", "Secret@123", entity.UserRoleAdmin, false)
	token := loginToken(t, r, "root", "Secret@123")

	w := doJSON(t, r, http.MethodPost, "/stage/switch", token, map[string]string{"name": "没有code"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing code, got %d", w.Code)
	}
}
