package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrafab/prodtrack/internal/model"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, StaticToken("test-token"), 0, zerolog.Nop())
}

func TestClientAttachesBearerToken(t *testing.T) {
	var gotAuth string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]model.Product{})
	}))

	_, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-token", gotAuth)
}

func TestClientOmitsHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]model.Product{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, StaticToken(""), 0, zerolog.Nop())
	_, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClientDecodesErrorBody(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"error field", http.StatusBadRequest, `{"error":"name is required"}`, "name is required"},
		{"message field", http.StatusConflict, `{"message":"duplicate serial"}`, "duplicate serial"},
		{"no body", http.StatusInternalServerError, ``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))

			_, err := c.ListProducts(context.Background())
			require.Error(t, err)

			apiErr, ok := err.(*APIError)
			require.True(t, ok, "expected *APIError, got %T", err)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Message)
		})
	}
}

func TestClientAuthAndNotFoundClassification(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/products/missing":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))

	_, err := c.ListProducts(context.Background())
	assert.True(t, IsAuthError(err))
	assert.False(t, IsNotFound(err))

	_, err = c.GetProduct(context.Background(), "missing")
	assert.True(t, IsNotFound(err))
	assert.False(t, IsAuthError(err))
}

func TestUpdateItemStatusWire(t *testing.T) {
	var gotMethod, gotPath, gotBody string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		var body struct {
			Status string `json:"status"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		gotBody = body.Status
		json.NewEncoder(w).Encode(StatusUpdate{ID: "item-1", Status: model.StatusInProgress})
	}))

	upd, err := c.UpdateItemStatus(context.Background(), "item-1", model.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/api/items/item-1/status", gotPath)
	assert.Equal(t, "in_progress", gotBody)
	assert.Equal(t, model.StatusInProgress, upd.Status)
}

func TestListItemsQueryFilters(t *testing.T) {
	var gotQuery string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode([]model.Item{})
	}))

	status := model.StatusBlocked
	projectID := "proj-9"
	_, err := c.ListItems(context.Background(), ItemFilter{Status: &status, ProjectID: &projectID})
	require.NoError(t, err)
	assert.Equal(t, "projectId=proj-9&status=blocked", gotQuery)
}

func TestListItemsFallsBackToProjects(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/items":
			w.WriteHeader(http.StatusNotFound)
		case "/api/projects":
			json.NewEncoder(w).Encode([]model.Project{
				{
					ID:   "proj-1",
					Name: "Wing Assembly",
					Items: []model.Item{
						{ID: "i1", SerialNumber: "SN-001", Status: model.StatusPending},
						{ID: "i2", SerialNumber: "SN-002", Status: model.StatusCompleted},
					},
				},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	status := model.StatusCompleted
	items, err := c.ListItems(context.Background(), ItemFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "SN-002", items[0].SerialNumber)
	assert.Equal(t, "proj-1", items[0].ProjectID)
	assert.Equal(t, "Wing Assembly", items[0].ProjectName)
}

func TestRequestValidation(t *testing.T) {
	// The handler must never be reached for invalid payloads.
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request should not have been sent")
	}))

	ctx := context.Background()

	_, err := c.CreateProduct(ctx, ProductRequest{Name: "", Version: "1.0", Description: "x", Price: 10})
	assert.Error(t, err, "missing name")

	_, err = c.CreateProduct(ctx, ProductRequest{Name: "Fuselage", Version: "1.0", Description: "x", Price: -1})
	assert.Error(t, err, "negative price")

	_, err = c.CreateProject(ctx, ProjectRequest{Name: "P", Description: "d", StartDate: "not-a-date", Deadline: "2026-09-01", ProductID: "p1"})
	assert.Error(t, err, "malformed start date")

	_, err = c.CreateItem(ctx, ItemRequest{SerialNumber: "SN-1", Status: "shipped", ProjectID: "p1"})
	assert.Error(t, err, "status outside enumeration")

	_, err = c.Login(ctx, LoginRequest{Email: "not-an-email", Password: "pw"})
	assert.Error(t, err, "malformed email")
}

func TestCreateProjectAllowsDeadlineBeforeStart(t *testing.T) {
	// Deadline ordering is a server-side rule; the client must not
	// reject it.
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(model.Project{ID: "proj-1"})
	}))

	_, err := c.CreateProject(context.Background(), ProjectRequest{
		Name:        "Retro-fit",
		Description: "rework",
		StartDate:   "2026-09-01",
		Deadline:    "2026-08-01",
		ProductID:   "prod-1",
	})
	assert.NoError(t, err)
}
