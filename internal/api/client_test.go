package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gitlab.lucky-team.pro/luckyads/go.cert-dashboard/internal/entities"
)

func newClient(handler http.Handler) (*HTTPClient, func()) {
	srv := httptest.NewServer(handler)
	return NewHTTPClient(srv.URL, 2*time.Second), srv.Close
}

func TestStatus(t *testing.T) {
	t.Parallel()

	t.Run("check decodes the collection", func(t *testing.T) {
		t.Parallel()

		client, closeSrv := newClient(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			require.Equal(t, "/api/status", req.URL.Path)
			w.Write([]byte(`[{"domain":"a.com","status":"OK","days_left":40}]`)) //nolint:errcheck
		}))
		defer closeSrv()

		certs, err := client.Status(context.Background())
		require.NoError(t, err)
		require.Len(t, certs, 1)
		require.Equal(t, "a.com", certs[0].Domain)
		require.Equal(t, entities.StatusOK, certs[0].Status)
		require.Equal(t, 40, *certs[0].DaysLeft)
	})

	t.Run("check non-2xx surfaces the detail", func(t *testing.T) {
		t.Parallel()

		client, closeSrv := newClient(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"detail":"sweep in progress"}`)) //nolint:errcheck
		}))
		defer closeSrv()

		_, err := client.Status(context.Background())
		require.Error(t, err)
		require.Contains(t, err.Error(), "sweep in progress")
	})

	t.Run("check malformed body is an error", func(t *testing.T) {
		t.Parallel()

		client, closeSrv := newClient(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Write([]byte(`{not json`)) //nolint:errcheck
		}))
		defer closeSrv()

		_, err := client.Status(context.Background())
		require.Error(t, err)
	})
}

func TestCheck(t *testing.T) {
	t.Parallel()

	client, closeSrv := newClient(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		require.Equal(t, "/api/check/b.com", req.URL.Path)
		w.Write([]byte(`{"domain":"b.com","status":"ExpiringSoon","days_left":5}`)) //nolint:errcheck
	}))
	defer closeSrv()

	cert, err := client.Check(context.Background(), "b.com")
	require.NoError(t, err)
	require.Equal(t, entities.StatusExpiringSoon, cert.Status)
}

func TestBulkAdd(t *testing.T) {
	t.Parallel()

	t.Run("check submits the batch and returns the message", func(t *testing.T) {
		t.Parallel()

		client, closeSrv := newClient(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			require.Equal(t, http.MethodPost, req.Method)
			require.Equal(t, "/api/domains/bulk", req.URL.Path)

			var body struct {
				Domains []string `json:"domains"`
			}
			require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
			require.Equal(t, []string{"a.com", "b.com"}, body.Domains)

			w.Write([]byte(`{"message":"2 domain(s) added to the monitoring list"}`)) //nolint:errcheck
		}))
		defer closeSrv()

		msg, err := client.BulkAdd(context.Background(), []string{"a.com", "b.com"})
		require.NoError(t, err)
		require.Contains(t, msg, "2 domain(s)")
	})

	t.Run("check rejection surfaces the detail", func(t *testing.T) {
		t.Parallel()

		client, closeSrv := newClient(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"detail":"no valid new domain to add"}`)) //nolint:errcheck
		}))
		defer closeSrv()

		_, err := client.BulkAdd(context.Background(), []string{"???"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "no valid new domain to add")
	})
}

func TestDelete(t *testing.T) {
	t.Parallel()

	t.Run("check 2xx is success", func(t *testing.T) {
		t.Parallel()

		client, closeSrv := newClient(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			require.Equal(t, http.MethodDelete, req.Method)
			require.Equal(t, "/api/domains/x.com", req.URL.Path)
			w.Write([]byte(`{"message":"domain removed"}`)) //nolint:errcheck
		}))
		defer closeSrv()

		require.NoError(t, client.Delete(context.Background(), "x.com"))
	})

	t.Run("check 404 surfaces the detail", func(t *testing.T) {
		t.Parallel()

		client, closeSrv := newClient(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"detail":"domain not found"}`)) //nolint:errcheck
		}))
		defer closeSrv()

		err := client.Delete(context.Background(), "ghost.com")
		require.Error(t, err)
		require.Contains(t, err.Error(), "domain not found")
	})
}

func TestLoadSnapshot(t *testing.T) {
	t.Parallel()

	t.Run("check parses a status document", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "ssl_status.json")
		doc := `[{"domain":"a.com","status":"OK","days_left":40},{"domain":"b.com","status":"Error","error_message":"boom"}]`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

		certs, err := LoadSnapshot(path)
		require.NoError(t, err)
		require.Len(t, certs, 2)
		require.Equal(t, entities.StatusError, certs[1].Status)
	})

	t.Run("check missing file is an error", func(t *testing.T) {
		t.Parallel()

		_, err := LoadSnapshot(filepath.Join(t.TempDir(), "absent.json"))
		require.Error(t, err)
	})
}
