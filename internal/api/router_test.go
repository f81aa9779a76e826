package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/mhofer/pizzapool/internal/auth"
	"github.com/mhofer/pizzapool/internal/service"
	"github.com/mhofer/pizzapool/internal/storage/sqlite"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authService := service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager)
	orderService := service.NewOrderService(store)

	server := httptest.NewServer(NewRouter(authService, orderService, jwtManager))
	t.Cleanup(server.Close)
	return server
}

func doRequest(t *testing.T, server *httptest.Server, method, path, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, server.URL+path, &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := server.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return v
}

// registerUser creates an account and returns its session token.
func registerUser(t *testing.T, server *httptest.Server, email, name string) string {
	t.Helper()
	resp := doRequest(t, server, http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{
		Email:       email,
		DisplayName: name,
		Password:    "supersecret",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register returned %d, want 201", resp.StatusCode)
	}
	return decode[service.Session](t, resp).Token
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t)
	resp := doRequest(t, server, http.MethodGet, "/healthz", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestAuthEndpoints(t *testing.T) {
	server := newTestServer(t)

	t.Run("register and login", func(t *testing.T) {
		token := registerUser(t, server, "anna@example.com", "Anna")
		if token == "" {
			t.Fatal("expected a session token")
		}

		resp := doRequest(t, server, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{
			Email:    "anna@example.com",
			Password: "supersecret",
		})
		if resp.StatusCode != http.StatusOK {
			t.Errorf("login returned %d, want 200", resp.StatusCode)
		}
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		resp := doRequest(t, server, http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{
			Email:       "anna@example.com",
			DisplayName: "Other Anna",
			Password:    "supersecret",
		})
		if resp.StatusCode != http.StatusConflict {
			t.Errorf("status = %d, want 409", resp.StatusCode)
		}
	})

	t.Run("weak password rejected", func(t *testing.T) {
		resp := doRequest(t, server, http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{
			Email:       "ben@example.com",
			DisplayName: "Ben",
			Password:    "short",
		})
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		resp := doRequest(t, server, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{
			Email:    "anna@example.com",
			Password: "notthepassword",
		})
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
	})
}

func TestOrderEndpointsRequireAuth(t *testing.T) {
	server := newTestServer(t)

	resp := doRequest(t, server, http.MethodPost, "/api/v1/orders", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestOrderFlow(t *testing.T) {
	server := newTestServer(t)
	annaToken := registerUser(t, server, "anna@example.com", "Anna")
	benToken := registerUser(t, server, "ben@example.com", "Ben")

	resp := doRequest(t, server, http.MethodPost, "/api/v1/orders", annaToken, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create order returned %d, want 201", resp.StatusCode)
	}
	orderID := decode[CreateOrderResponse](t, resp).OrderID
	base := "/api/v1/orders/" + orderID

	t.Run("join", func(t *testing.T) {
		resp := doRequest(t, server, http.MethodPost, base+"/participants", benToken, nil)
		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("join returned %d, want 204", resp.StatusCode)
		}
		resp = doRequest(t, server, http.MethodPost, base+"/participants", benToken, nil)
		if resp.StatusCode != http.StatusConflict {
			t.Errorf("second join returned %d, want 409", resp.StatusCode)
		}
	})

	var mealID uint32
	t.Run("add meal", func(t *testing.T) {
		price := uint64(150)
		resp := doRequest(t, server, http.MethodPost, base+"/meals", annaToken, AddMealRequest{
			Code:       "03",
			Variety:    "large",
			PriceCents: 550,
			Specials: []service.SpecialInput{
				{Description: "cheese crust", PriceCents: &price},
			},
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("add meal returned %d, want 201", resp.StatusCode)
		}
		mealID = decode[MealCreatedResponse](t, resp).MealID
	})

	t.Run("payment and ready", func(t *testing.T) {
		resp := doRequest(t, server, http.MethodPut, base+"/payment", annaToken, PaymentRequest{
			PaidCents: 800,
			TipCents:  50,
		})
		if resp.StatusCode != http.StatusNoContent {
			t.Errorf("payment returned %d, want 204", resp.StatusCode)
		}
		resp = doRequest(t, server, http.MethodPut, base+"/ready", annaToken, ReadyRequest{Ready: true})
		if resp.StatusCode != http.StatusNoContent {
			t.Errorf("ready returned %d, want 204", resp.StatusCode)
		}
	})

	t.Run("get order", func(t *testing.T) {
		resp := doRequest(t, server, http.MethodGet, base, benToken, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("get order returned %d, want 200", resp.StatusCode)
		}
		view := decode[service.OrderView](t, resp)
		if len(view.Participants) != 2 {
			t.Errorf("participants = %d, want 2", len(view.Participants))
		}
	})

	t.Run("summary", func(t *testing.T) {
		resp := doRequest(t, server, http.MethodGet, base+"/summary", annaToken, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("summary returned %d, want 200", resp.StatusCode)
		}
		summary := decode[service.Summary](t, resp)
		if summary.TotalPriceCents != 700 {
			t.Errorf("total price = %d, want 700", summary.TotalPriceCents)
		}
		if summary.Outcome != service.OutcomeChange {
			t.Errorf("outcome = %q, want change", summary.Outcome)
		}
	})

	t.Run("advance status", func(t *testing.T) {
		resp := doRequest(t, server, http.MethodPost, base+"/status", annaToken, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("advance returned %d, want 200", resp.StatusCode)
		}
		if got := decode[StatusResponse](t, resp).Status; got != "ordering" {
			t.Errorf("status = %q, want ordering", got)
		}
	})

	t.Run("remove meal", func(t *testing.T) {
		path := fmt.Sprintf("%s/meals/%d", base, mealID)
		resp := doRequest(t, server, http.MethodDelete, path, annaToken, nil)
		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("remove meal returned %d, want 204", resp.StatusCode)
		}
		resp = doRequest(t, server, http.MethodDelete, path, annaToken, nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("second removal returned %d, want 404", resp.StatusCode)
		}
	})

	t.Run("outsider cannot add a meal", func(t *testing.T) {
		claraToken := registerUser(t, server, "clara@example.com", "Clara")
		resp := doRequest(t, server, http.MethodPost, base+"/meals", claraToken, AddMealRequest{
			Code:       "07",
			Variety:    "medium",
			PriceCents: 480,
		})
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("status = %d, want 403", resp.StatusCode)
		}
	})

	t.Run("unknown order", func(t *testing.T) {
		resp := doRequest(t, server, http.MethodGet, "/api/v1/orders/does-not-exist", annaToken, nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})
}
