package controllers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/pcrpg2df4s-blip/dietweb/middlewares"
	"github.com/pcrpg2df4s-blip/dietweb/models"
	"github.com/pcrpg2df4s-blip/dietweb/services"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testBotToken = "123456:TEST-TOKEN"

func setupSyncRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.FoodLog{}, &models.User{}))

	ctl := NewSyncController(services.NewFoodLogService(db))

	r := gin.New()
	sync := r.Group("/sync")
	sync.Use(middlewares.InitDataMiddleware(testBotToken, services.NewUserService(db)))
	sync.POST("/save", ctl.Save)
	sync.GET("/load", ctl.Load)
	return r, db
}

// testInitData signs a payload for userID the way Telegram would.
func testInitData(t *testing.T, userID int64, botToken string) string {
	t.Helper()

	user := fmt.Sprintf(`{"id":%d,"first_name":"Test"}`, userID)
	checkString := "auth_date=1700000000\nuser=" + user

	mac := hmac.New(sha256.New, []byte(botToken))
	mac.Write([]byte("WebAppData"))
	secret := mac.Sum(nil)

	mac = hmac.New(sha256.New, secret)
	mac.Write([]byte(checkString))
	hash := hex.EncodeToString(mac.Sum(nil))

	vals := url.Values{}
	vals.Set("auth_date", "1700000000")
	vals.Set("user", user)
	vals.Set("hash", hash)
	return vals.Encode()
}

func doSave(r *gin.Engine, initData, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/sync/save", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if initData != "" {
		req.Header.Set("X-Init-Data", initData)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSave_MissingInitData(t *testing.T) {
	r, db := setupSyncRouter(t)

	w := doSave(r, "", `{"date":"2024-05-01","food":{"calories":500}}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// verification failed before the store was touched
	var n int64
	require.NoError(t, db.Model(&models.FoodLog{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestSave_BadSignature(t *testing.T) {
	r, db := setupSyncRouter(t)

	initData := testInitData(t, 42, "999999:OTHER-TOKEN")
	w := doSave(r, initData, `{"date":"2024-05-01","food":{"calories":500}}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var n int64
	require.NoError(t, db.Model(&models.FoodLog{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestSave_MissingFields(t *testing.T) {
	r, _ := setupSyncRouter(t)
	initData := testInitData(t, 42, testBotToken)

	w := doSave(r, initData, `{"date":"2024-05-01"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doSave(r, initData, `{"food":{"calories":500}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	r, _ := setupSyncRouter(t)
	initData := testInitData(t, 42, testBotToken)

	w := doSave(r, initData, `{"date":"2024-05-01","food":{"calories":500}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	// second save for the same day replaces the document
	w = doSave(r, initData, `{"date":"2024-05-01","food":{"calories":750}}`)
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/sync/load?date=2024-05-01", nil)
	req.Header.Set("X-Init-Data", initData)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"date":"2024-05-01","food":{"calories":750}}`, w.Body.String())
}

func TestLoad_AbsentDate(t *testing.T) {
	r, _ := setupSyncRouter(t)
	initData := testInitData(t, 42, testBotToken)

	req := httptest.NewRequest(http.MethodGet, "/sync/load?date=2024-05-01", nil)
	req.Header.Set("X-Init-Data", initData)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"date":"2024-05-01","food":null}`, w.Body.String())
}

func TestLoad_FullHistory(t *testing.T) {
	r, _ := setupSyncRouter(t)
	initData := testInitData(t, 42, testBotToken)

	for _, day := range []string{"2024-05-01", "2024-05-02", "2024-05-03"} {
		w := doSave(r, initData, fmt.Sprintf(`{"date":%q,"food":{"d":%q}}`, day, day))
		require.Equal(t, http.StatusOK, w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/sync/load", nil)
	req.Header.Set("X-Init-Data", initData)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Entries map[string]json.RawMessage `json:"allEntries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Entries, 3)
	assert.JSONEq(t, `{"d":"2024-05-02"}`, string(resp.Entries["2024-05-02"]))
}

func TestMiddleware_RegistersUserOnFirstContact(t *testing.T) {
	r, db := setupSyncRouter(t)
	initData := testInitData(t, 42, testBotToken)

	req := httptest.NewRequest(http.MethodGet, "/sync/load", nil)
	req.Header.Set("X-Init-Data", initData)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var u models.User
	require.NoError(t, db.First(&u, "user_id = ?", int64(42)).Error)
}
