package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tripbazaar/cache"
	"tripbazaar/database"
	"tripbazaar/jobs"
	"tripbazaar/ratelimit"
	"tripbazaar/services"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := zap.NewNop()
	memCache := cache.NewMemoryStore()

	api := New(Deps{
		Store:    database.NewWithDB(db, log),
		Cache:    memCache,
		Limiter:  ratelimit.New(memCache, ratelimit.Config{MaxRequests: 1000, Window: time.Minute}, log),
		Queue:    jobs.NewQueue(jobs.Config{Workers: 1, QueueSize: 8}, log),
		Edits:    services.NewEditStore(memCache, time.Minute),
		Payments: services.NewPaymentService(log),
		Log:      log,
	})

	r := gin.New()
	api.Register(r)
	return r, mock
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func flightResultRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "airline", "flight_number", "from_city", "to_city", "departure_time",
		"arrival_time", "duration", "price", "available_seats", "class_type",
		"baggage_allowance", "meal_included", "rating", "stops", "created_at",
	}).AddRow(1, "IndiGo", "6E-201", "Delhi", "Mumbai", "06:00", "08:15", "2h 15m",
		15000, 25, "economy", "15kg", true, 0, 0, time.Now())
}

func TestNLQuery_HappyPath(t *testing.T) {
	r, mock := newTestRouter(t)

	mock.ExpectQuery(`(?s)SELECT .+ FROM flights WHERE price <= \$1 AND stops = \$2 LIMIT \$3`).
		WithArgs(20000, 0, 20).
		WillReturnRows(flightResultRows())

	w := doJSON(t, r, http.MethodPost, "/api/ai/nl-query", gin.H{
		"query":    "non-stop flights under 20000",
		"category": "flights",
	}, nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			ID           string `json:"id"`
			IsSafe       bool   `json:"isSafe"`
			ResultsCount int    `json:"resultsCount"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.Data.IsSafe)
	assert.Equal(t, 1, resp.Data.ResultsCount)
	assert.Regexp(t, `^QUERY_`, resp.Data.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNLQuery_UnsafeLimitRejected(t *testing.T) {
	r, _ := newTestRouter(t)

	// "top 500" parses to a limit outside [1,100], which safety validation
	// rejects before any SQL runs.
	w := doJSON(t, r, http.MethodPost, "/api/ai/nl-query", gin.H{
		"query":    "top 500 flights",
		"category": "flights",
	}, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, CodeUnsafeQuery, resp["code"])
}

func TestNLQuery_BadCategory(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/ai/nl-query", gin.H{
		"query":    "cheap trains",
		"category": "trains",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContentEdit_PreviewApplyFlow(t *testing.T) {
	r, mock := newTestRouter(t)

	// Preview loads the record and parses the command; nothing is written.
	mock.ExpectQuery(`(?s)SELECT .+ FROM flights WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(flightResultRows())

	w := doJSON(t, r, http.MethodPost, "/api/ai/content-edit", gin.H{
		"command":    "Decrease price by 2000",
		"targetType": "flight",
		"targetId":   1,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var preview struct {
		Data services.Edit `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &preview))
	assert.Regexp(t, `^EDIT_`, preview.Data.ID)
	assert.Equal(t, services.EditStatusPreview, preview.Data.Status)
	assert.Equal(t, float64(13000), preview.Data.ProposedContent["price"])

	// Apply replays the stored delta through the whitelisted update.
	mock.ExpectExec(`UPDATE flights SET price = \$1 WHERE id = \$2`).
		WithArgs(float64(13000), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`(?s)SELECT .+ FROM flights WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(flightResultRows())

	w = doJSON(t, r, http.MethodPut, "/api/ai/content-edit", gin.H{
		"editId": preview.Data.ID,
		"action": "apply",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())

	// A consumed preview cannot be applied twice.
	w = doJSON(t, r, http.MethodPut, "/api/ai/content-edit", gin.H{
		"editId": preview.Data.ID,
		"action": "apply",
	}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContentEdit_UnparseableCommand(t *testing.T) {
	r, mock := newTestRouter(t)

	mock.ExpectQuery(`(?s)SELECT .+ FROM flights WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(flightResultRows())

	w := doJSON(t, r, http.MethodPost, "/api/ai/content-edit", gin.H{
		"command":    "Make it sparkle",
		"targetType": "flight",
		"targetId":   1,
	}, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, CodeParseError, resp["code"])
}

func TestContentEdit_RollbackNotImplemented(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPut, "/api/ai/content-edit", gin.H{
		"editId": "EDIT_whatever",
		"action": "rollback",
	}, nil)
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestRecommendations(t *testing.T) {
	r, mock := newTestRouter(t)

	mock.ExpectQuery(`(?s)SELECT .+ FROM flights WHERE available_seats >= \$1 LIMIT \$2`).
		WithArgs(1, 20).
		WillReturnRows(flightResultRows())

	w := doJSON(t, r, http.MethodPost, "/api/ai/recommendations", gin.H{
		"category": "flights",
		"budget":   20000,
	}, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data struct {
			Count           int `json:"count"`
			Recommendations []struct {
				ID         string  `json:"id"`
				Score      float64 `json:"score"`
				Confidence int     `json:"confidence"`
			} `json:"recommendations"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Data.Count)
	assert.Regexp(t, `^REC_`, resp.Data.Recommendations[0].ID)
	assert.Greater(t, resp.Data.Recommendations[0].Score, 0.0)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookings_RequireAuth(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/bookings", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, CodeUnauthorized, resp["code"])
}
