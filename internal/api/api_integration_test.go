// internal/api/api_integration_test.go
package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "github.com/kasho-dev/WorkFlow-Pay/internal"
	"github.com/kasho-dev/WorkFlow-Pay/internal/domain"
)

// testApp is the global application instance for testing.
var testApp *app.Application

// testServer is the httptest server.
var testServer *httptest.Server

// TestMain is the special entry point for Go tests, executed once before all tests.
func TestMain(m *testing.M) {
	// 1. Set up environment variables (ensure DB_NAME points to the test database).
	setupEnvVars()

	// 2. Initialize the application.
	testApp = app.NewApplication()
	if err := testApp.Initialize(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize test application: %v\n", err)
		os.Exit(1)
	}

	// 3. Start an httptest server to test the HTTP handling layer.
	testServer = httptest.NewServer(testApp.HTTPHandler)
	defer testServer.Close()

	// 4. Run all tests.
	code := m.Run()

	// 5. Shut down application resources after tests.
	if err := testApp.Shutdown(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to shutdown test application: %v\n", err)
		os.Exit(1)
	}

	os.Exit(code)
}

// setupEnvVars helper function: sets database environment variables required for testing.
func setupEnvVars() {
	setDefault := func(key, value string) {
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
	setDefault("SERVER_PORT", "8080")
	setDefault("DB_HOST", "localhost")
	setDefault("DB_PORT", "5432")
	setDefault("DB_USER", "user")
	setDefault("DB_PASSWORD", "password")
	setDefault("DB_NAME", "workflowpay_test")
	setDefault("DB_SSLMODE", "disable")
	// The weekly-summary tests pass explicit ranges, but the convention must
	// still be fixed so the default-range test is deterministic.
	setDefault("WEEK_STARTS_ON", "sunday")
	// Never throttle the suite.
	os.Setenv("RATE_LIMIT_PER_MINUTE", "0")
}

// clearDatabase truncates all relevant tables for a clean state per test case.
func clearDatabase(t *testing.T) {
	// Order is important due to foreign key dependencies.
	tables := []string{"keystrokes", "memos", "users"}
	for _, table := range tables {
		_, err := testApp.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE;", table))
		require.NoError(t, err, "Failed to truncate table %s", table)
	}
}

// createTestUser creates a user through the API and returns its ID.
func createTestUser(t *testing.T, email, name string) string {
	body := fmt.Sprintf(`{"email": %q, "name": %q}`, email, name)
	resp, respBody := makeRequest(t, "POST", "/api/user", strings.NewReader(body))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, "user upsert failed: %s", respBody)

	var user domain.User
	require.NoError(t, json.Unmarshal([]byte(respBody), &user))
	require.NotEmpty(t, user.ID)
	return user.ID
}

// addKeystrokes records one entry for the user on the given date.
func addKeystrokes(t *testing.T, userID string, count int64, date string) {
	body := fmt.Sprintf(`{"userId": %q, "count": %d, "date": %q}`, userID, count, date)
	resp, respBody := makeRequest(t, "POST", "/api/keystrokes", strings.NewReader(body))
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode, "record keystrokes failed: %s", respBody)
}

// makeRequest sends an HTTP request to the test server.
func makeRequest(t *testing.T, method, path string, body io.Reader) (*http.Response, string) {
	req, err := http.NewRequest(method, testServer.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(respBody)
}

func TestHealthIntegration(t *testing.T) {
	resp, body := makeRequest(t, "GET", "/health", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &health))
	assert.Equal(t, "ok", health["status"])
	assert.NotEmpty(t, health["timestamp"])
}

func TestUserUpsertIntegration(t *testing.T) {
	clearDatabase(t)

	t.Run("CreateThenUpdateByEmail", func(t *testing.T) {
		userID := createTestUser(t, "upsert@example.com", "First Name")

		// Upserting the same email must update in place, not create a second user.
		body := `{"email": "upsert@example.com", "name": "Second Name", "currency": "USD"}`
		resp, respBody := makeRequest(t, "POST", "/api/user", strings.NewReader(body))
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var updated domain.User
		require.NoError(t, json.Unmarshal([]byte(respBody), &updated))
		assert.Equal(t, userID, updated.ID)
		assert.Equal(t, "Second Name", updated.Name)
		assert.Equal(t, "USD", updated.Currency)
	})

	t.Run("DefaultCurrency", func(t *testing.T) {
		body := `{"email": "peso@example.com", "name": "Peso User"}`
		resp, respBody := makeRequest(t, "POST", "/api/user", strings.NewReader(body))
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var user domain.User
		require.NoError(t, json.Unmarshal([]byte(respBody), &user))
		assert.Equal(t, "PHP", user.Currency)
	})

	t.Run("MissingEmail", func(t *testing.T) {
		resp, body := makeRequest(t, "POST", "/api/user", strings.NewReader(`{"name": "No Email"}`))
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, body, "email")
	})
}

func TestUserProfileIntegration(t *testing.T) {
	clearDatabase(t)
	userID := createTestUser(t, "profile@example.com", "Profile User")

	// Record 12 entries; the profile must return only the most recent 10.
	for day := 1; day <= 12; day++ {
		addKeystrokes(t, userID, int64(day*100), fmt.Sprintf("2025-10-%02d", day))
	}

	resp, body := makeRequest(t, "GET", "/api/user/"+userID, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var profile struct {
		domain.User
		Keystrokes []domain.Keystroke `json:"keystrokes"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &profile))
	assert.Equal(t, userID, profile.ID)
	assert.Len(t, profile.Keystrokes, 10)
	// Most recent date first.
	assert.Equal(t, int64(1200), profile.Keystrokes[0].Count)

	t.Run("UnknownUser", func(t *testing.T) {
		resp, body := makeRequest(t, "GET", "/api/user/3c1b0a62-0000-0000-0000-000000000000", nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, body, "Resource not found")
	})
}

func TestRecordKeystrokesIntegration(t *testing.T) {
	clearDatabase(t)
	userID := createTestUser(t, "record@example.com", "Record User")

	t.Run("SuccessfulRecordWithSalary", func(t *testing.T) {
		body := fmt.Sprintf(`{"userId": %q, "count": 2450, "date": "2025-10-07"}`, userID)
		resp, respBody := makeRequest(t, "POST", "/api/keystrokes", strings.NewReader(body))
		defer resp.Body.Close()

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var responseMap map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(respBody), &responseMap))
		assert.Equal(t, true, responseMap["success"])
		assert.NotEmpty(t, responseMap["id"])

		calc := responseMap["salaryCalculation"].(map[string]interface{})
		assert.Equal(t, float64(2450), calc["keystrokes"])
		expected, err := decimal.NewFromString(calc["expectedSalary"].(string))
		require.NoError(t, err)
		assert.True(t, decimal.NewFromFloat(24.50).Equal(expected))
	})

	t.Run("CompactResponse", func(t *testing.T) {
		body := fmt.Sprintf(`{"userId": %q, "count": 100}`, userID)
		resp, respBody := makeRequest(t, "POST", "/api/keystrokes?verbose=false", strings.NewReader(body))
		defer resp.Body.Close()

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var responseMap map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(respBody), &responseMap))
		assert.Equal(t, true, responseMap["success"])
		assert.NotEmpty(t, responseMap["id"])
		assert.NotContains(t, responseMap, "keystroke")
		assert.NotContains(t, responseMap, "salaryCalculation")
	})

	t.Run("NegativeCount", func(t *testing.T) {
		body := fmt.Sprintf(`{"userId": %q, "count": -5, "date": "2025-10-07"}`, userID)
		resp, respBody := makeRequest(t, "POST", "/api/keystrokes", strings.NewReader(body))
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, respBody, "count")
	})

	t.Run("UnknownUser", func(t *testing.T) {
		body := `{"userId": "3c1b0a62-0000-0000-0000-000000000000", "count": 10}`
		resp, _ := makeRequest(t, "POST", "/api/keystrokes", strings.NewReader(body))
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		resp, respBody := makeRequest(t, "POST", "/api/keystrokes", strings.NewReader(`{"userId": `))
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, respBody, "malformed JSON")
	})

	t.Run("OversizedBody", func(t *testing.T) {
		huge := fmt.Sprintf(`{"userId": %q, "count": 1, "date": %q}`, userID, strings.Repeat("x", 11<<10))
		resp, _ := makeRequest(t, "POST", "/api/keystrokes", strings.NewReader(huge))
		defer resp.Body.Close()
		assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	})
}

func TestWeeklySummaryIntegration(t *testing.T) {
	clearDatabase(t)
	userID := createTestUser(t, "weekly@example.com", "Weekly User")

	addKeystrokes(t, userID, 2450, "2025-10-07")
	addKeystrokes(t, userID, 2100, "2025-10-08")

	resp, body := makeRequest(t, "GET",
		"/api/weekly-summary/"+userID+"?startDate=2025-10-05&endDate=2025-10-11", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var summaryMap map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &summaryMap))
	assert.Equal(t, float64(4550), summaryMap["totalKeystrokes"])
	assert.Equal(t, "PHP", summaryMap["currency"])

	earnings, err := decimal.NewFromString(summaryMap["weeklyEarnings"].(string))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromFloat(45.50).Equal(earnings), "weeklyEarnings should be 45.50, got %s", earnings)

	t.Run("RangeIsInclusiveOnBothBounds", func(t *testing.T) {
		resp, body := makeRequest(t, "GET",
			"/api/weekly-summary/"+userID+"?startDate=2025-10-07&endDate=2025-10-08", nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(body), &m))
		assert.Equal(t, float64(4550), m["totalKeystrokes"])
	})

	t.Run("EmptyRange", func(t *testing.T) {
		resp, body := makeRequest(t, "GET",
			"/api/weekly-summary/"+userID+"?startDate=2025-01-01&endDate=2025-01-07", nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(body), &m))
		assert.Equal(t, float64(0), m["totalKeystrokes"])
	})

	t.Run("BadDate", func(t *testing.T) {
		resp, _ := makeRequest(t, "GET", "/api/weekly-summary/"+userID+"?startDate=yesterday", nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestListKeystrokesIntegration(t *testing.T) {
	clearDatabase(t)
	userID := createTestUser(t, "list@example.com", "List User")

	for day := 1; day <= 5; day++ {
		addKeystrokes(t, userID, int64(day*10), fmt.Sprintf("2025-10-%02d", day))
	}

	t.Run("PaginatedNewestFirst", func(t *testing.T) {
		resp, body := makeRequest(t, "GET", "/api/keystrokes/"+userID+"?limit=2&offset=1", nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var page struct {
			Data       []domain.Keystroke `json:"data"`
			Limit      int                `json:"limit"`
			Offset     int                `json:"offset"`
			TotalCount int64              `json:"total_count"`
		}
		require.NoError(t, json.Unmarshal([]byte(body), &page))
		assert.Len(t, page.Data, 2)
		assert.Equal(t, int64(5), page.TotalCount)
		// Newest date first, so offset 1 starts at Oct 4.
		assert.Equal(t, int64(40), page.Data[0].Count)
		assert.Equal(t, int64(30), page.Data[1].Count)
	})

	t.Run("MalformedPagingFallsBackToDefaults", func(t *testing.T) {
		resp, body := makeRequest(t, "GET", "/api/keystrokes/"+userID+"?limit=abc&offset=-2", nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var page struct {
			Limit  int `json:"limit"`
			Offset int `json:"offset"`
		}
		require.NoError(t, json.Unmarshal([]byte(body), &page))
		assert.Equal(t, 50, page.Limit)
		assert.Equal(t, 0, page.Offset)
	})
}

func TestMonthlyAnalyticsIntegration(t *testing.T) {
	clearDatabase(t)
	userID := createTestUser(t, "monthly@example.com", "Monthly User")

	addKeystrokes(t, userID, 2450, "2025-10-07")
	addKeystrokes(t, userID, 2100, "2025-10-08")
	// Entry outside the month must not count.
	addKeystrokes(t, userID, 9999, "2025-11-01")

	resp, body := makeRequest(t, "GET", "/api/monthly-analytics/"+userID+"?year=2025&month=10", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &m))
	assert.Equal(t, float64(4550), m["totalKeystrokes"])
	assert.Equal(t, float64(2), m["daysWorked"])
	assert.Equal(t, float64(2275), m["averageKeystrokesPerDay"])

	salary, err := decimal.NewFromString(m["expectedSalary"].(string))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromFloat(45.50).Equal(salary))

	t.Run("EmptyMonth", func(t *testing.T) {
		resp, body := makeRequest(t, "GET", "/api/monthly-analytics/"+userID+"?year=2025&month=6", nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(body), &m))
		assert.Equal(t, float64(0), m["totalKeystrokes"])
		assert.Equal(t, float64(0), m["daysWorked"])
		assert.Equal(t, float64(0), m["averageKeystrokesPerDay"])
	})

	t.Run("BadMonth", func(t *testing.T) {
		resp, _ := makeRequest(t, "GET", "/api/monthly-analytics/"+userID+"?year=2025&month=13", nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("MissingQueryParams", func(t *testing.T) {
		resp, _ := makeRequest(t, "GET", "/api/monthly-analytics/"+userID, nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestImportKeystrokesIntegration(t *testing.T) {
	clearDatabase(t)
	userID := createTestUser(t, "import@example.com", "Import User")

	body := `{"keystrokesData": [
		{"date": "2025-10-01", "count": 1000},
		{"date": "2025-10-02", "count": 2000},
		{"date": "2025-10-03", "count": 3000}
	]}`
	resp, respBody := makeRequest(t, "POST", "/api/import-keystrokes/"+userID, strings.NewReader(body))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Message            string             `json:"message"`
		ImportedKeystrokes []domain.Keystroke `json:"importedKeystrokes"`
	}
	require.NoError(t, json.Unmarshal([]byte(respBody), &result))
	assert.Equal(t, "Imported 3 keystrokes entries", result.Message)
	assert.Len(t, result.ImportedKeystrokes, 3)

	// Round-trip: the imported entries come back from the history endpoint.
	respList, bodyList := makeRequest(t, "GET", "/api/keystrokes/"+userID, nil)
	defer respList.Body.Close()
	assert.Equal(t, http.StatusOK, respList.StatusCode)

	var page struct {
		Data       []domain.Keystroke `json:"data"`
		TotalCount int64              `json:"total_count"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyList), &page))
	assert.Equal(t, int64(3), page.TotalCount)

	t.Run("EmptyImport", func(t *testing.T) {
		resp, _ := makeRequest(t, "POST", "/api/import-keystrokes/"+userID, strings.NewReader(`{"keystrokesData": []}`))
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestMemoIntegration(t *testing.T) {
	clearDatabase(t)
	userID := createTestUser(t, "memo@example.com", "Memo User")

	t.Run("MissingBeforeFirstSave", func(t *testing.T) {
		resp, _ := makeRequest(t, "GET", "/api/memo/"+userID, nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("SaveThenRead", func(t *testing.T) {
		resp, _ := makeRequest(t, "PUT", "/api/memo/"+userID,
			strings.NewReader(`{"content": "Don't forget to take breaks"}`))
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		respGet, bodyGet := makeRequest(t, "GET", "/api/memo/"+userID, nil)
		defer respGet.Body.Close()
		assert.Equal(t, http.StatusOK, respGet.StatusCode)

		var memo domain.Memo
		require.NoError(t, json.Unmarshal([]byte(bodyGet), &memo))
		assert.Equal(t, "Don't forget to take breaks", memo.Content)
	})

	t.Run("SecondSaveReplaces", func(t *testing.T) {
		resp, _ := makeRequest(t, "PUT", "/api/memo/"+userID, strings.NewReader(`{"content": "Ship it"}`))
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		respGet, bodyGet := makeRequest(t, "GET", "/api/memo/"+userID, nil)
		defer respGet.Body.Close()

		var memo domain.Memo
		require.NoError(t, json.Unmarshal([]byte(bodyGet), &memo))
		assert.Equal(t, "Ship it", memo.Content)
	})
}

func TestUnknownRouteIntegration(t *testing.T) {
	resp, body := makeRequest(t, "GET", "/api/does-not-exist", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error": "Not Found"}`, body)
}
