package productclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jerico2530/Micro-E-Commerce-Platform/internal/api"
	"github.com/Jerico2530/Micro-E-Commerce-Platform/internal/auth"
	"github.com/Jerico2530/Micro-E-Commerce-Platform/internal/order"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, srv.Client(), 2*time.Second)
}

func writeEnvelope(w http.ResponseWriter, result any) {
	api.Write(w, api.Success(http.StatusOK, result, ""))
}

func TestCheckStock(t *testing.T) {
	var gotAuth, gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		writeEnvelope(w, map[string]any{"productId": 7, "stockActual": 5, "disponible": true})
	})

	ok, err := client.CheckStock(context.Background(), 7, 5, "tok-123")
	require.NoError(t, err)
	assert.True(t, ok, "quantity equal to stock is covered")
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "/api/stock/7", gotPath)

	ok, err = client.CheckStock(context.Background(), 7, 6, "tok-123")
	require.NoError(t, err)
	assert.False(t, ok, "one unit above stock is not covered")
}

func TestCheckStock_ForwardsClaims(t *testing.T) {
	var gotUID, gotPerms string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotUID = r.Header.Get(auth.HeaderUserID)
		gotPerms = r.Header.Get(auth.HeaderPermissions)
		writeEnvelope(w, map[string]any{"productId": 7, "stockActual": 5, "disponible": true})
	})

	ctx := auth.WithIdentity(context.Background(), 42, "tok-123", []string{"Stock.Ver", "Stock.Reducir"})
	_, err := client.CheckStock(ctx, 7, 1, "tok-123")
	require.NoError(t, err)
	assert.Equal(t, "42", gotUID)
	assert.Equal(t, "Stock.Ver,Stock.Reducir", gotPerms)
}

func TestCheckStock_RemoteUnavailable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.CheckStock(context.Background(), 7, 1, "tok")
	require.ErrorIs(t, err, order.ErrRemoteUnavailable)
}

func TestCheckStock_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := New(url, &http.Client{}, time.Second)
	_, err := client.CheckStock(context.Background(), 7, 1, "tok")
	require.ErrorIs(t, err, order.ErrRemoteUnavailable)
}

func TestCheckStock_MalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})

	_, err := client.CheckStock(context.Background(), 7, 1, "tok")
	require.ErrorIs(t, err, order.ErrRemoteContract)
}

func TestCheckStock_FailureEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// 200 with a failed envelope still violates the expected shape
		_ = json.NewEncoder(w).Encode(api.Fail(http.StatusOK, "stock", "weird"))
	})

	_, err := client.CheckStock(context.Background(), 7, 1, "tok")
	require.ErrorIs(t, err, order.ErrRemoteContract)
}

func TestFetchPrice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/producto/7", r.URL.Path)
		writeEnvelope(w, map[string]any{"productId": 7, "name": "widget", "price": 10.00})
	})

	price, err := client.FetchPrice(context.Background(), 7, "tok")
	require.NoError(t, err)
	assert.Equal(t, 10.00, price)
}

func TestFetchPrice_InvalidPrice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, map[string]any{"productId": 7, "name": "widget", "price": 0})
	})

	_, err := client.FetchPrice(context.Background(), 7, "tok")
	require.ErrorIs(t, err, order.ErrInvalidPrice)
}

func TestReduceStock(t *testing.T) {
	var gotBody reduceRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/stock/reducir", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		writeEnvelope(w, map[string]any{"productId": gotBody.ProductID, "stockActual": 3, "disponible": true})
	})

	require.NoError(t, client.ReduceStock(context.Background(), 7, 2, "tok"))
	assert.Equal(t, int64(7), gotBody.ProductID)
	assert.Equal(t, 2, gotBody.Cantidad)
}

func TestReduceStock_Conflict(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		api.Write(w, api.Fail(http.StatusConflict, "stock", "insufficient stock"))
	})

	err := client.ReduceStock(context.Background(), 7, 2, "tok")
	require.ErrorIs(t, err, order.ErrRemoteUnavailable)
}

func TestTimeoutSurfacesAsUnavailable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		writeEnvelope(w, map[string]any{"productId": 7, "stockActual": 5, "disponible": true})
	})
	client.timeout = 50 * time.Millisecond

	_, err := client.CheckStock(context.Background(), 7, 1, "tok")
	require.ErrorIs(t, err, order.ErrRemoteUnavailable)
}
