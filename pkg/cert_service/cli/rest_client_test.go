package cli_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/certlane/certlane/pkg/cert_service/api"
	"github.com/certlane/certlane/pkg/cert_service/cli"
	"github.com/certlane/certlane/pkg/cert_service/model"
	"github.com/certlane/certlane/pkg/cert_service/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestClientListCerts(t *testing.T) {
	certs := []model.CACertificate{
		{
			ID:          204,
			CommonName:  "app01.example.com",
			Status:      "Active",
			ExpiryDate:  "2025-03-31T00:00:00Z",
			ContainsKey: true,
		},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/sslcert", r.URL.Path)
		assert.Equal(t, "mark", r.Header.Get(api.REQUESTER_HEADER))
		assert.Equal(t, "vault-token", r.Header.Get(api.BACKEND_TOKEN_HEADER))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(certs)
	}))
	defer server.Close()

	client := cli.NewRestClient(server.URL, "mark", "mark@example.com", false, "vault-token")
	returned, err := client.ListCerts()
	require.NoError(t, err)
	require.Len(t, returned, 1)
	assert.Equal(t, int64(204), returned[0].ID)
	assert.Equal(t, "app01.example.com", returned[0].CommonName)
	assert.Equal(t, "Active", returned[0].Status)
}

func TestRestClientListManagedCerts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/sslcert/managed", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]string{"app01.example.com"})
	}))
	defer server.Close()

	client := cli.NewRestClient(server.URL, "mark", "mark@example.com", false, "vault-token")
	names, err := client.ListManagedCerts()
	require.NoError(t, err)
	assert.Equal(t, []string{"app01.example.com"}, names)
}

func TestRestClientListAuditEvents(t *testing.T) {
	result := storage.ListAuditEventsResponse{
		Total: 1,
		Events: []model.AuditEvent{
			{ID: "event-1", Operation: "revoke", CertificateName: "app01.example.com", Outcome: model.AuditOutcomeOK},
		},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audit_events", r.URL.Path)
		assert.Equal(t, "app01.example.com", r.URL.Query().Get("certificate_name"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "true", r.Header.Get(api.REQUESTER_ADMIN_HEADER))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}))
	defer server.Close()

	client := cli.NewRestClient(server.URL, "admin", "admin@example.com", true, "vault-token")
	returned, err := client.ListAuditEvents("app01.example.com", 5, 0)
	require.NoError(t, err)
	assert.Equal(t, result, returned)
}
