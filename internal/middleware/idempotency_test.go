package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func idempotencyRouter(handlerCalled *bool) (*gin.Engine, redismock.ClientMock) {
	gin.SetMode(gin.TestMode)
	db, mock := redismock.NewClientMock()
	r := gin.New()
	r.POST("/companies/:company_id/attendances/clock-in", Idempotency(db), func(c *gin.Context) {
		*handlerCalled = true
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})
	return r, mock
}

func TestIdempotency_ReplayReturnsCachedResponse(t *testing.T) {
	var handlerCalled bool
	r, mock := idempotencyRouter(&handlerCalled)

	cacheKey := "idemp:/companies/:company_id/attendances/clock-in::key-123"
	mock.ExpectGet(cacheKey).SetVal(`{"id":"att-1"}`)

	req := httptest.NewRequest(http.MethodPost, "/companies/c1/attendances/clock-in", nil)
	req.Header.Set("Idempotency-Key", "key-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, handlerCalled)
	assert.Contains(t, w.Body.String(), "att-1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_InFlightConflict(t *testing.T) {
	var handlerCalled bool
	r, mock := idempotencyRouter(&handlerCalled)

	cacheKey := "idemp:/companies/:company_id/attendances/clock-in::key-123"
	mock.ExpectGet(cacheKey).RedisNil()
	mock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(false)

	req := httptest.NewRequest(http.MethodPost, "/companies/c1/attendances/clock-in", nil)
	req.Header.Set("Idempotency-Key", "key-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, handlerCalled)
	assert.Contains(t, w.Body.String(), "PROCESSING")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_FirstRequestTakesLock(t *testing.T) {
	var handlerCalled bool
	r, mock := idempotencyRouter(&handlerCalled)

	cacheKey := "idemp:/companies/:company_id/attendances/clock-in::key-123"
	mock.ExpectGet(cacheKey).RedisNil()
	mock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(true)

	req := httptest.NewRequest(http.MethodPost, "/companies/c1/attendances/clock-in", nil)
	req.Header.Set("Idempotency-Key", "key-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, handlerCalled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_SkipsWithoutKey(t *testing.T) {
	var handlerCalled bool
	r, mock := idempotencyRouter(&handlerCalled)

	req := httptest.NewRequest(http.MethodPost, "/companies/c1/attendances/clock-in", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, handlerCalled)
	assert.NoError(t, mock.ExpectationsWereMet())
}
