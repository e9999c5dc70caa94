package identity

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/certlane/certlane/pkg/cert_service/model"
	"github.com/goccy/go-json"
)

var kindPaths = map[model.PrincipalKind]string{
	model.PrincipalUser:    "auth/userpass/users",
	model.PrincipalGroup:   "auth/ldap/groups",
	model.PrincipalApprole: "auth/approle/role",
}

// RestBackend talks to the identity backend's HTTP API.
type RestBackend struct {
	server     string // https://server/v1
	httpClient *http.Client
}

func NewRestBackend(server string) *RestBackend {
	return &RestBackend{
		server:     server,
		httpClient: http.DefaultClient,
	}
}

func (b *RestBackend) FetchPolicies(ctx context.Context, token string, kind model.PrincipalKind, name string) ([]string, bool, error) {
	base, ok := kindPaths[kind]
	if !ok {
		return nil, false, fmt.Errorf("unknown principal kind %q%w", kind, model.ErrInvalidInput)
	}

	result := struct {
		Data struct {
			Policies []string `json:"policies"`
		} `json:"data"`
	}{}
	status, err := b.execute(ctx, http.MethodGet, base+"/"+name, token, nil, &result)
	if status == http.StatusNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return result.Data.Policies, true, nil
}

func (b *RestBackend) ConfigurePolicies(ctx context.Context, token string, kind model.PrincipalKind, name string, policies []string) error {
	base, ok := kindPaths[kind]
	if !ok {
		return fmt.Errorf("unknown principal kind %q%w", kind, model.ErrInvalidInput)
	}

	payload := struct {
		Policies []string `json:"policies"`
	}{Policies: policies}
	_, err := b.execute(ctx, http.MethodPost, base+"/"+name, token, payload, nil)
	return err
}

func (b *RestBackend) AccessiblePaths(ctx context.Context, token, principal string) ([]string, error) {
	result := struct {
		Data struct {
			Paths []string `json:"paths"`
		} `json:"data"`
	}{}
	if _, err := b.execute(ctx, http.MethodGet, "identity/paths/"+principal, token, nil, &result); err != nil {
		return nil, err
	}
	return result.Data.Paths, nil
}

func (b *RestBackend) execute(ctx context.Context, method, path, token string, payload, result any) (int, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return 0, fmt.Errorf("%s%w", err.Error(), model.ErrInvalidInput)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.server+"/"+path, body)
	if err != nil {
		return 0, fmt.Errorf("%s%w", err.Error(), model.ErrPersistence)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Vault-Token", token)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s%w", err.Error(), model.ErrPersistence)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		message, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, fmt.Errorf("identity backend returned %d: %s%w", resp.StatusCode, string(message), model.ErrPersistence)
	}
	if result == nil || resp.StatusCode == http.StatusNoContent {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return resp.StatusCode, fmt.Errorf("decode identity backend response: %s%w", err.Error(), model.ErrPersistence)
	}
	return resp.StatusCode, nil
}
