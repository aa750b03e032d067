package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"answerhub/internal/db"
	"answerhub/internal/middleware"
	"answerhub/internal/router"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupAPI(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	db.DB = conn

	r := gin.New()
	r.Use(middleware.LoadUser())
	router.RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body, userID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(middleware.HeaderUserID, userID)
		req.Header.Set(middleware.HeaderUserEmail, userID+"@example.com")
		req.Header.Set(middleware.HeaderUserName, "user-"+userID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	r := setupAPI(t)
	w := doJSON(t, r, http.MethodGet, "/health", "", "")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestCreateQuestionRequiresAuth(t *testing.T) {
	r := setupAPI(t)
	w := doJSON(t, r, http.MethodPost, "/api/questions", `{"title":"t","body":"b"}`, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestQuestionLifecycleOverHTTP(t *testing.T) {
	r := setupAPI(t)
	asker := "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	voter := "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"

	// 提问
	w := doJSON(t, r, http.MethodPost, "/api/questions",
		`{"title":"How do we rotate secrets?","body":"The **vault** docs are unclear"}`, asker)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", w.Code, w.Body.String())
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// 详情返回渲染后的正文
	w = doJSON(t, r, http.MethodGet, "/api/questions/"+created.ID, "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var detail struct {
		BodyHTML  string `json:"bodyHtml"`
		ViewCount int    `json:"viewCount"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &detail); err != nil {
		t.Fatalf("decode detail: %v", err)
	}
	if !strings.Contains(detail.BodyHTML, "<strong>vault</strong>") {
		t.Errorf("bodyHtml not rendered: %q", detail.BodyHTML)
	}
	if detail.ViewCount != 1 {
		t.Errorf("viewCount = %d, want 1", detail.ViewCount)
	}

	// 他人投票
	w = doJSON(t, r, http.MethodPost, "/api/questions/"+created.ID+"/vote", `{"voteType":"up"}`, voter)
	if w.Code != http.StatusOK {
		t.Fatalf("vote status = %d: %s", w.Code, w.Body.String())
	}
	var voteResult struct {
		NewScore int `json:"newScore"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &voteResult); err != nil {
		t.Fatalf("decode vote: %v", err)
	}
	if voteResult.NewScore != 1 {
		t.Errorf("newScore = %d, want 1", voteResult.NewScore)
	}

	// 自投被拒
	w = doJSON(t, r, http.MethodPost, "/api/questions/"+created.ID+"/vote", `{"voteType":"up"}`, asker)
	if w.Code != http.StatusForbidden {
		t.Errorf("self vote status = %d, want 403", w.Code)
	}

	// 非法票型
	w = doJSON(t, r, http.MethodPost, "/api/questions/"+created.ID+"/vote", `{"voteType":"maybe"}`, voter)
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid vote status = %d, want 400", w.Code)
	}
}

func TestInvalidIDParamRejected(t *testing.T) {
	r := setupAPI(t)
	w := doJSON(t, r, http.MethodGet, "/api/questions/not-a-uuid", "", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "Bad Request" || body.Message == "" {
		t.Errorf("error envelope = %+v", body)
	}
}

func TestDepartmentLeaderboardParamValidation(t *testing.T) {
	r := setupAPI(t)

	// 非 UUID 在进业务逻辑前就被拦下
	w := doJSON(t, r, http.MethodGet, "/api/leaderboard/not-a-uuid", "", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("malformed id status = %d, want 400", w.Code)
	}

	// 合法 UUID 但部门不存在才是 404
	w = doJSON(t, r, http.MethodGet, "/api/leaderboard/00000000-0000-0000-0000-000000000000", "", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown department status = %d, want 404", w.Code)
	}
}

func TestGetMissingQuestion(t *testing.T) {
	r := setupAPI(t)
	w := doJSON(t, r, http.MethodGet, "/api/questions/00000000-0000-0000-0000-000000000000", "", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestMeProvisionsUser(t *testing.T) {
	r := setupAPI(t)
	userID := "cccccccc-cccc-cccc-cccc-cccccccccccc"

	w := doJSON(t, r, http.MethodGet, "/api/me", "", userID)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var me struct {
		ID         string `json:"id"`
		Reputation int    `json:"reputation"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &me); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if me.ID != userID {
		t.Errorf("id = %s, want header id", me.ID)
	}
	if me.Reputation != 0 {
		t.Errorf("reputation = %d, want 0", me.Reputation)
	}
}
