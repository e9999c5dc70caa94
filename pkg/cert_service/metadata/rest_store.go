package metadata

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/certlane/certlane/pkg/cert_service/model"
	"github.com/goccy/go-json"
)

// RestStore talks to the secrets backend's HTTP API.
type RestStore struct {
	server     string // https://server/v1
	httpClient *http.Client
}

func NewRestStore(server string) *RestStore {
	return &RestStore{
		server:     server,
		httpClient: http.DefaultClient,
	}
}

func (s *RestStore) Read(ctx context.Context, token, path string) (model.CertificateMetadata, bool, error) {
	result := struct {
		Data model.CertificateMetadata `json:"data"`
	}{}
	status, err := s.execute(ctx, http.MethodGet, path, token, nil, &result)
	if status == http.StatusNotFound {
		return model.CertificateMetadata{}, false, nil
	}
	if err != nil {
		return model.CertificateMetadata{}, false, err
	}
	return result.Data, true, nil
}

func (s *RestStore) Write(ctx context.Context, token, path string, meta model.CertificateMetadata) error {
	payload := struct {
		Data model.CertificateMetadata `json:"data"`
	}{Data: meta}
	_, err := s.execute(ctx, http.MethodPost, path, token, payload, nil)
	return err
}

func (s *RestStore) Update(ctx context.Context, token string, meta model.CertificateMetadata) error {
	return s.Write(ctx, token, DataPath(meta.CertificateName), meta)
}

func (s *RestStore) List(ctx context.Context, token string) ([]string, error) {
	result := struct {
		Data struct {
			Keys []string `json:"keys"`
		} `json:"data"`
	}{}
	status, err := s.execute(ctx, "LIST", ListPathPrefix, token, nil, &result)
	if status == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return result.Data.Keys, nil
}

func (s *RestStore) execute(ctx context.Context, method, path, token string, payload, result any) (int, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return 0, fmt.Errorf("%s%w", err.Error(), model.ErrInvalidInput)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.server+"/"+path, body)
	if err != nil {
		return 0, fmt.Errorf("%s%w", err.Error(), model.ErrPersistence)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Vault-Token", token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s%w", err.Error(), model.ErrPersistence)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		message, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, fmt.Errorf("secrets backend returned %d: %s%w", resp.StatusCode, string(message), model.ErrPersistence)
	}
	if result == nil || resp.StatusCode == http.StatusNoContent {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return resp.StatusCode, fmt.Errorf("decode secrets backend response: %s%w", err.Error(), model.ErrPersistence)
	}
	return resp.StatusCode, nil
}
