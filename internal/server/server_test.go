package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"budgetex/internal/budget"
	"budgetex/internal/logger"
	"budgetex/internal/services"
	"budgetex/internal/testutil"
	"budgetex/internal/validator"
)

// testApp holds the full application stack for end-to-end tests.
type testApp struct {
	*App
	scenario *budget.Scenario
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupApp builds the application over an isolated in-memory database with
// "today" pinned to July 15, 2025.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	sc := testutil.TestScenario(t)
	prefs := services.NewPreferencesService(filepath.Join(t.TempDir(), "prefs.json"))
	p := prefs.Get()
	p.DefaultScenario = sc.Name()
	p.DefaultFirstPaycheck = 1500
	p.DefaultSecondPaycheck = 1500
	if _, err := prefs.Update(p); err != nil {
		t.Fatalf("failed to save preferences: %v", err)
	}

	app, err := New(Options{
		DB:             db,
		Catalog:        budget.NewCatalog(sc),
		Prefs:          prefs,
		Clock:          func() time.Time { return time.Date(2025, time.July, 15, 10, 0, 0, 0, time.UTC) },
		SummaryPeriods: 6,
	})
	if err != nil {
		t.Fatalf("failed to build app: %v", err)
	}
	t.Cleanup(func() { _ = app.Session.Close() })

	return &testApp{App: app, scenario: sc}
}

func (a *testApp) request(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) expect(t *testing.T, method, path, body string, status int) map[string]interface{} {
	t.Helper()
	rec := a.request(t, method, path, body)
	if rec.Code != status {
		t.Fatalf("%s %s: expected %d, got %d: %s", method, path, status, rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func spendingOf(t *testing.T, state map[string]interface{}, category string) float64 {
	t.Helper()
	spending, ok := state["spending"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected spending map in %v", state)
	}
	v, _ := spending[category].(float64)
	return v
}

func TestBudgetFlow(t *testing.T) {
	app := setupApp(t)
	june := "monthly_2025_06"
	july := "monthly_2025_07"

	state := app.expect(t, "GET", "/api/v1/session", "", http.StatusOK)
	if state["period"].(map[string]interface{})["id"] != july || state["source"] != "fresh" {
		t.Fatalf("expected a fresh July session, got %v %v", state["period"], state["source"])
	}

	// Enter June after the fact and overspend groceries by $100.
	app.expect(t, "POST", "/api/v1/periods/monthly", `{"year":2025,"month":6}`, http.StatusCreated)
	state = app.expect(t, "POST", "/api/v1/session/switch", fmt.Sprintf(`{"period_id":%q}`, june), http.StatusOK)
	if state["source"] != "snapshot" || state["is_current"] != false {
		t.Fatalf("expected stored June snapshot, got %v", state["source"])
	}
	app.expect(t, "PUT", "/api/v1/session/spending/Groceries", `{"amount":400,"description":"big shop"}`, http.StatusOK)
	app.expect(t, "POST", "/api/v1/session/save", `{"notes":"june actuals"}`, http.StatusOK)

	// July opens fresh with the June overage carried into groceries.
	state = app.expect(t, "POST", "/api/v1/session/switch", fmt.Sprintf(`{"period_id":%q}`, july), http.StatusOK)
	if state["source"] != "fresh" {
		t.Fatalf("expected fresh July, got %v", state["source"])
	}
	if got := spendingOf(t, state, "Groceries"); got != 100 {
		t.Errorf("expected $100 carried forward, got %v", got)
	}
	if state["dirty"] != true {
		t.Error("carry-forward should leave the month unsaved")
	}

	app.expect(t, "PUT", "/api/v1/session/spending/Rent", `{"amount":1000}`, http.StatusOK)
	app.expect(t, "POST", "/api/v1/session/save", "", http.StatusOK)

	// A saved month reopens from its snapshot, without seeding again.
	app.expect(t, "POST", "/api/v1/session/switch", fmt.Sprintf(`{"period_id":%q}`, june), http.StatusOK)
	state = app.expect(t, "POST", "/api/v1/session/switch", fmt.Sprintf(`{"period_id":%q}`, july), http.StatusOK)
	if state["source"] != "snapshot" || spendingOf(t, state, "Groceries") != 100 {
		t.Errorf("expected July snapshot with groceries 100, got %v %v", state["source"], state["spending"])
	}

	t.Run("snapshots", func(t *testing.T) {
		list := app.expect(t, "GET", "/api/v1/snapshots", "", http.StatusOK)
		data := list["data"].([]interface{})
		if len(data) != 2 || data[0].(map[string]interface{})["id"] != july {
			t.Errorf("expected July then June, got %v", data)
		}

		ranged := app.expect(t, "GET", "/api/v1/snapshots/range?start=2025-06-20&end=2025-06-30", "", http.StatusOK)
		if n := len(ranged["snapshots"].([]interface{})); n != 1 {
			t.Errorf("expected only June in range, got %d", n)
		}

		snap := app.expect(t, "GET", "/api/v1/snapshots/"+june, "", http.StatusOK)["snapshot"].(map[string]interface{})
		if snap["notes"] != "june actuals" {
			t.Errorf("unexpected June notes %v", snap["notes"])
		}
	})

	t.Run("analytics", func(t *testing.T) {
		cmp := app.expect(t, "GET", "/api/v1/analytics/compare?from="+june+"&to="+july, "", http.StatusOK)
		for _, c := range cmp["categories"].([]interface{}) {
			cat := c.(map[string]interface{})
			if cat["name"] == "Groceries" && cat["change"].(float64) != -300 {
				t.Errorf("expected groceries change -300, got %v", cat["change"])
			}
		}

		summary := app.expect(t, "GET", "/api/v1/analytics/summary", "", http.StatusOK)
		if summary["periods_analyzed"].(float64) != 2 {
			t.Errorf("expected 2 periods analyzed, got %v", summary["periods_analyzed"])
		}

		trend := app.expect(t, "GET", "/api/v1/analytics/trends/Groceries", "", http.StatusOK)
		if trend["average"].(float64) != 250 {
			t.Errorf("expected groceries average 250, got %v", trend["average"])
		}
	})

	t.Run("history_and_stats", func(t *testing.T) {
		history := app.expect(t, "GET", "/api/v1/history?category=Groceries", "", http.StatusOK)
		if history["total_items"].(float64) != 1 {
			t.Errorf("expected one groceries edit, got %v", history["total_items"])
		}

		stats := app.expect(t, "GET", "/api/v1/stats", "", http.StatusOK)["stats"].(map[string]interface{})
		if stats["snapshots"].(float64) != 2 || stats["live_budgets"].(float64) != 1 {
			t.Errorf("unexpected stats %v", stats)
		}
	})

	t.Run("audit", func(t *testing.T) {
		saves := app.expect(t, "GET", "/api/v1/audit?action=SAVE_SNAPSHOT", "", http.StatusOK)
		if saves["total_items"].(float64) != 2 {
			t.Errorf("expected two audited saves, got %v", saves["total_items"])
		}
		created := app.expect(t, "GET", "/api/v1/audit?action=CREATE_PERIOD&resource_id="+june, "", http.StatusOK)
		if created["total_items"].(float64) != 1 {
			t.Errorf("expected June creation in the audit log, got %v", created["total_items"])
		}
	})

	t.Run("export", func(t *testing.T) {
		rec := app.request(t, "GET", "/api/v1/session/export.csv", "")
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), ",Groceries,") {
			t.Errorf("unexpected export %d %q", rec.Code, rec.Body.String())
		}
	})

	t.Run("delete", func(t *testing.T) {
		app.expect(t, "DELETE", "/api/v1/snapshots/"+june, "", http.StatusOK)
		app.expect(t, "GET", "/api/v1/snapshots/"+june, "", http.StatusNotFound)
		app.expect(t, "GET", "/api/v1/analytics/compare?from="+june+"&to="+july, "", http.StatusNotFound)
	})
}

func TestImportFlow(t *testing.T) {
	app := setupApp(t)

	req := httptest.NewRequest("POST", "/api/v1/session/import", strings.NewReader("Category,Amount\nGrocreies,\"$1,234.50\"\nRent,1000\nPets,20\n"))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	result := parseJSON(t, rec)
	state := result["state"].(map[string]interface{})
	if got := spendingOf(t, state, "Rent"); got != 1000 {
		t.Errorf("expected rent 1000, got %v", got)
	}
	if got := spendingOf(t, state, "Groceries"); got != 1234.5 {
		t.Errorf("expected misspelled groceries to be matched, got %v", got)
	}
	if unmatched := result["unmatched"].([]interface{}); len(unmatched) != 1 || unmatched[0] != "Pets" {
		t.Errorf("expected Pets unmatched, got %v", unmatched)
	}
}

func TestOperationalEndpoints(t *testing.T) {
	app := setupApp(t)

	app.expect(t, "GET", "/api/health", "", http.StatusOK)
	app.expect(t, "GET", "/api/v1/session", "", http.StatusOK)

	rec := app.request(t, "GET", "/metrics", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "budgetex_http_request_duration_seconds") {
		t.Errorf("expected request metrics, got %d", rec.Code)
	}

	rec = app.request(t, "GET", "/swagger/doc.json", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "/session/switch") {
		t.Errorf("expected swagger document, got %d", rec.Code)
	}

	prefs := app.expect(t, "PUT", "/api/v1/preferences", `{"currency_symbol":"€"}`, http.StatusOK)["preferences"].(map[string]interface{})
	if prefs["currency_symbol"] != "€" || prefs["default_scenario"] != app.scenario.Name() {
		t.Errorf("unexpected preferences %v", prefs)
	}

	body := parseJSON(t, app.request(t, "POST", "/api/v1/session/switch", `{"period_id":"nonsense"}`))
	if body["error"].(map[string]interface{})["code"] != "INVALID_INPUT" {
		t.Errorf("expected INVALID_INPUT, got %v", body)
	}
}
