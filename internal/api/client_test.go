package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wellerson-M/controle-financeiro/internal/core"
)

func TestLoginSendsFormAndReturnsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/token", r.URL.Path)
		require.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "a@x.com", r.PostFormValue("username"))
		assert.Equal(t, "secret", r.PostFormValue("password"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-123"})
	}))
	defer srv.Close()

	token, err := New(srv.URL).Login(context.Background(), "a@x.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
}

func TestLoginInvalidCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect username or password"})
	}))
	defer srv.Close()

	_, err := New(srv.URL).Login(context.Background(), "a@x.com", "wrong")
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusBadRequest, authErr.Status)
	assert.Contains(t, authErr.Message, "Incorrect username")
}

func TestRegisterThenMeRoundTrip(t *testing.T) {
	const token = "fresh-token"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/register":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "new@x.com", body["email"])
			json.NewEncoder(w).Encode(map[string]string{"access_token": token})
		case "/me":
			require.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(core.User{ID: 7, Email: "new@x.com"})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	got, err := c.Register(context.Background(), "new@x.com", "pw")
	require.NoError(t, err)
	require.Equal(t, token, got)

	user, err := c.Me(context.Background(), got)
	require.NoError(t, err)
	assert.Equal(t, "new@x.com", user.Email)
}

func TestMeInvalidToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
	}))
	defer srv.Close()

	_, err := New(srv.URL).Me(context.Background(), "stale")
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusUnauthorized, authErr.Status)
}

func TestCreateTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/transactions", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in core.TransactionInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "Salary", in.Description)
		assert.True(t, in.Amount.Equal(decimal.NewFromInt(1000)))

		json.NewEncoder(w).Encode(core.Transaction{ID: 1, Description: in.Description, Amount: in.Amount, Kind: in.Kind})
	}))
	defer srv.Close()

	tr, err := New(srv.URL).CreateTransaction(context.Background(), "tok", core.TransactionInput{
		Description: "Salary",
		Amount:      decimal.NewFromInt(1000),
		Kind:        core.Income,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), tr.ID)
}

func TestCreateTransactionValidationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"detail": "amount must be a number"})
	}))
	defer srv.Close()

	_, err := New(srv.URL).CreateTransaction(context.Background(), "tok", core.TransactionInput{})
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, http.StatusUnprocessableEntity, valErr.Status)
}

func TestListTransactionsKeepsServerOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]core.Transaction{
			{ID: 3, Description: "newest"},
			{ID: 2, Description: "middle"},
			{ID: 1, Description: "oldest"},
		})
	}))
	defer srv.Close()

	txs, err := New(srv.URL).ListTransactions(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, int64(3), txs[0].ID)
	assert.Equal(t, int64(1), txs[2].ID)
}

func TestAnalyticsAggregates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/analytics/monthly":
			json.NewEncoder(w).Encode(map[string]map[string]float64{
				"2024-05": {"income": 5000, "expense": 1950.5},
			})
		case "/analytics/categories":
			json.NewEncoder(w).Encode(map[string]map[string]float64{
				"food": {"income": 0, "expense": 250},
			})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	monthly, err := c.GetMonthlyAnalytics(context.Background(), "tok")
	require.NoError(t, err)
	require.Contains(t, monthly, core.Period("2024-05"))
	assert.True(t, monthly["2024-05"].Expense.Equal(decimal.RequireFromString("1950.5")))

	byCat, err := c.GetCategoryAnalytics(context.Background(), "tok")
	require.NoError(t, err)
	require.Contains(t, byCat, "food")
	assert.True(t, byCat["food"].Expense.Equal(decimal.NewFromInt(250)))
}

func TestGetOverview(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/analytics/overview", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]float64{
			"income": 5000, "expense": 1950.5, "balance": 3049.5,
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	ov, err := c.GetOverview(context.Background(), "tok")
	require.NoError(t, err)
	assert.True(t, ov.Income.Equal(decimal.NewFromInt(5000)))
	assert.True(t, ov.Expense.Equal(decimal.RequireFromString("1950.5")))
	assert.True(t, ov.Balance.Equal(decimal.RequireFromString("3049.5")))
}

func TestDeleteBudgetNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/budgets/42", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Budget not found"})
	}))
	defer srv.Close()

	err := New(srv.URL).DeleteBudget(context.Background(), "tok", 42)
	var nfErr *NotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Contains(t, nfErr.Message, "not found")
}

func TestBudgetCRUD(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/budgets":
			var in core.BudgetInput
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			json.NewEncoder(w).Encode(core.Budget{ID: 1, Category: in.Category, Amount: in.Amount, Period: in.Period})
		case r.Method == http.MethodGet && r.URL.Path == "/budgets":
			json.NewEncoder(w).Encode([]core.Budget{{ID: 1, Category: "food"}})
		case r.Method == http.MethodPut && r.URL.Path == "/budgets/1":
			json.NewEncoder(w).Encode(core.Budget{ID: 1, Category: "groceries"})
		default:
			t.Fatalf("unexpected %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	in := core.BudgetInput{Category: "food", Amount: decimal.NewFromInt(200), Period: "2024-05"}

	created, err := c.CreateBudget(context.Background(), "tok", in)
	require.NoError(t, err)
	assert.Equal(t, "food", created.Category)

	list, err := c.ListBudgets(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, list, 1)

	updated, err := c.UpdateBudget(context.Background(), "tok", 1, in)
	require.NoError(t, err)
	assert.Equal(t, "groceries", updated.Category)
}

func TestErrorMessageFallsBackToRawBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	_, err := New(srv.URL).ListTransactions(context.Background(), "tok")
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "upstream exploded", fetchErr.Message)
}

func TestNetworkErrorIsNotTyped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := New(srv.URL).ListTransactions(context.Background(), "tok")
	require.Error(t, err)
	var fetchErr *FetchError
	assert.False(t, errors.As(err, &fetchErr), "transport errors must not masquerade as server failures")
}
