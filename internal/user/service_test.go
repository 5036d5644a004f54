// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/releasetrack/internal/config"
	"github.com/carterperez-dev/releasetrack/internal/core"
	"github.com/carterperez-dev/releasetrack/internal/store"
)

// fakeUserStore emulates the store's filter interface for the users table.
type fakeUserStore struct {
	mu       sync.Mutex
	rows     []map[string]any
	requests int
	inserts  []map[string]any
}

func (f *fakeUserStore) seed(row map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, row)
}

func (f *fakeUserStore) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

func (f *fakeUserStore) matches(
	row map[string]any,
	filters map[string]string,
) bool {
	for field, want := range filters {
		if fmt.Sprint(row[field]) != want {
			return false
		}
	}
	return true
}

func (f *fakeUserStore) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/user_details" {
			http.NotFound(w, r)
			return
		}

		filters := make(map[string]string)
		for field, values := range r.URL.Query() {
			if len(values) == 1 && strings.HasPrefix(values[0], "eq.") {
				filters[field] = strings.TrimPrefix(values[0], "eq.")
			}
		}

		f.mu.Lock()
		defer f.mu.Unlock()
		f.requests++

		w.Header().Set("Content-Type", "application/json")

		switch r.Method {
		case http.MethodGet:
			matched := []map[string]any{}
			for _, row := range f.rows {
				if f.matches(row, filters) {
					matched = append(matched, row)
				}
			}
			_ = json.NewEncoder(w).Encode(matched)

		case http.MethodPost:
			var payload map[string]any
			_ = json.NewDecoder(r.Body).Decode(&payload)
			payload["id"] = fmt.Sprintf("user-%d", len(f.rows)+1)
			f.rows = append(f.rows, payload)
			f.inserts = append(f.inserts, payload)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode([]map[string]any{payload})

		case http.MethodPatch:
			var payload map[string]any
			_ = json.NewDecoder(r.Body).Decode(&payload)
			updated := []map[string]any{}
			for _, row := range f.rows {
				if f.matches(row, filters) {
					for k, v := range payload {
						row[k] = v
					}
					updated = append(updated, row)
				}
			}
			_ = json.NewEncoder(w).Encode(updated)

		case http.MethodDelete:
			kept := f.rows[:0]
			for _, row := range f.rows {
				if !f.matches(row, filters) {
					kept = append(kept, row)
				}
			}
			f.rows = kept
			w.WriteHeader(http.StatusNoContent)

		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func newUserService(t *testing.T, fake *fakeUserStore) *Service {
	t.Helper()

	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	storeCfg := config.StoreConfig{
		URL:            srv.URL,
		ServiceKey:     "service-key",
		UsersTable:     "user_details",
		PasswordColumn: "password_hash",
	}

	return NewService(NewRepository(store.NewClient(storeCfg), storeCfg))
}

func aliceRow() map[string]any {
	return map[string]any{
		"id":            "user-1",
		"name":          "Alice",
		"email":         "alice@example.com",
		"role":          "user",
		"created_at":    "2026-01-01T00:00:00",
		"password_hash": "$argon2id$stored",
	}
}

func TestGetByEmailIncludesHash(t *testing.T) {
	fake := &fakeUserStore{}
	fake.seed(aliceRow())
	svc := newUserService(t, fake)

	account, err := svc.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)

	assert.Equal(t, "user-1", account.ID)
	assert.Equal(t, "$argon2id$stored", account.PasswordHash)
}

func TestGetByEmailNotFound(t *testing.T) {
	svc := newUserService(t, &fakeUserStore{})

	_, err := svc.GetByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestCreateWritesConfiguredPasswordColumn(t *testing.T) {
	fake := &fakeUserStore{}
	svc := newUserService(t, fake)

	account, err := svc.Create(
		context.Background(),
		"Bob", "bob@example.com", "$argon2id$new",
	)
	require.NoError(t, err)
	assert.Equal(t, "user", account.Role)

	require.Len(t, fake.inserts, 1)
	insert := fake.inserts[0]
	assert.Equal(t, "$argon2id$new", insert["password_hash"])
	assert.Equal(t, "user", insert["role"])
	assert.NotEmpty(t, insert["created_at"])
}

func TestListSanitizesAccounts(t *testing.T) {
	fake := &fakeUserStore{}
	fake.seed(aliceRow())
	svc := newUserService(t, fake)

	users, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)

	payload, err := json.Marshal(users[0])
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "argon2id")
	assert.Contains(t, string(payload), "alice@example.com")
}

func TestUpdateRoleInvalidNeverHitsStore(t *testing.T) {
	fake := &fakeUserStore{}
	svc := newUserService(t, fake)

	_, err := svc.UpdateRole(context.Background(), "user-1", "superuser")
	assert.ErrorIs(t, err, ErrInvalidRole)
	assert.Zero(t, fake.requestCount())
}

func TestUpdateRoleAdminBlockedNeverHitsStore(t *testing.T) {
	fake := &fakeUserStore{}
	fake.seed(aliceRow())
	svc := newUserService(t, fake)

	_, err := svc.UpdateRole(context.Background(), "user-1", "admin")
	assert.ErrorIs(t, err, ErrAdminPromotionDisabled)
	assert.Zero(t, fake.requestCount())
}

func TestUpdateRoleToUser(t *testing.T) {
	fake := &fakeUserStore{}
	row := aliceRow()
	row["role"] = "user"
	fake.seed(row)
	svc := newUserService(t, fake)

	updated, err := svc.UpdateRole(context.Background(), "user-1", "user")
	require.NoError(t, err)
	assert.Equal(t, "user", updated.Role)
	assert.Equal(t, "user-1", updated.ID)
}

func TestUpdateRoleMissingUser(t *testing.T) {
	svc := newUserService(t, &fakeUserStore{})

	_, err := svc.UpdateRole(context.Background(), "ghost", "user")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestDeleteRemovesRow(t *testing.T) {
	fake := &fakeUserStore{}
	fake.seed(aliceRow())
	svc := newUserService(t, fake)

	require.NoError(t, svc.Delete(context.Background(), "user-1"))
	assert.Empty(t, fake.rows)
}
