package nclm

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/avast/retry-go/v4"
	"github.com/certlane/certlane/pkg/cert_service/model"
	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

const (
	loginPath           = "/auth/certmanager/login"
	findTargetSystem    = "/certmanager/findTargetSystem"
	createTargetSystem  = "/certmanager/targetsystem/create"
	findTargetService   = "/certmanager/findTargetSystemService"
	createTargetService = "/certmanager/targetsystemservice/create"
	enrollPath          = "/certmanager/enroll"
	findCertificate     = "/certmanager/findCertificate"
)

// enrollPaths preserves the manager's historical path casing.
var enrollPaths = map[EnrollLeg]struct{ Get, Put string }{
	EnrollLegCA:        {Get: "/certmanager/getEnrollCA", Put: "/certmanager/putEnrollCA"},
	EnrollLegTemplates: {Get: "/certmanager/getEnrollTemplates", Put: "/certmanager/putEnrollTemplates"},
	EnrollLegKeys:      {Get: "/certmanager/getEnrollkeys", Put: "/certmanager/putEnrollKeys"},
	EnrollLegCSR:       {Get: "/certmanager/getEnrollCSR", Put: "/certmanager/putEnrollCSR"},
}

type RestClientOption func(*RestClient)

func RestClientWithRetryAttempts(attempts uint) RestClientOption {
	return func(c *RestClient) {
		c.retryAttempts = attempts
	}
}

func RestClientWithHTTPClient(client *http.Client) RestClientOption {
	return func(c *RestClient) {
		c.httpClient = client
	}
}

// RestClient talks to the certificate manager over HTTP. Connection-level
// faults are retried up to the configured attempt count; HTTP-level
// failures are returned as-is so callers see the manager's status.
type RestClient struct {
	server        string // https://server
	username      string
	password      string
	retryAttempts uint

	httpClient     *http.Client
	downloadClient *http.Client
}

func NewRestClient(server, username, password string, options ...RestClientOption) *RestClient {
	// The download endpoint redirects to a bundle host whose certificate
	// does not carry the manager's hostname.
	downloadTransport := http.DefaultTransport.(*http.Transport).Clone()
	downloadTransport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}

	client := &RestClient{
		server:         server,
		username:       username,
		password:       password,
		retryAttempts:  3,
		httpClient:     http.DefaultClient,
		downloadClient: &http.Client{Transport: downloadTransport},
	}
	for _, opt := range options {
		opt(client)
	}
	return client
}

func (c *RestClient) Login(ctx context.Context) (string, error) {
	payload := map[string]string{"username": c.username, "password": c.password}
	result := struct {
		Token string `json:"access_token"`
	}{}
	if err := c.execute(ctx, http.MethodPost, loginPath, "", payload, &result); err != nil {
		return "", err
	}
	return result.Token, nil
}

func (c *RestClient) FindTargetSystem(ctx context.Context, token, address string) (model.TargetSystem, bool, error) {
	path := findTargetSystem + "?address=" + url.QueryEscape(address)
	result := struct {
		TargetSystems []model.TargetSystem `json:"targetSystems"`
	}{}
	if err := c.execute(ctx, http.MethodGet, path, token, nil, &result); err != nil {
		return model.TargetSystem{}, false, err
	}
	if len(result.TargetSystems) == 0 {
		return model.TargetSystem{}, false, nil
	}
	return result.TargetSystems[0], true, nil
}

func (c *RestClient) CreateTargetSystem(ctx context.Context, token string, req CreateTargetSystemRequest) (model.TargetSystem, error) {
	targetSystem := model.TargetSystem{}
	if err := c.execute(ctx, http.MethodPost, createTargetSystem, token, req, &targetSystem); err != nil {
		return model.TargetSystem{}, err
	}
	return targetSystem, nil
}

func (c *RestClient) FindTargetSystemService(ctx context.Context, token, hostname string, targetSystemID int64) (model.TargetSystemService, bool, error) {
	path := fmt.Sprintf("%s?hostname=%s&targetSystemId=%d", findTargetService, url.QueryEscape(hostname), targetSystemID)
	result := struct {
		TargetSystemServices []model.TargetSystemService `json:"targetSystemServices"`
	}{}
	if err := c.execute(ctx, http.MethodGet, path, token, nil, &result); err != nil {
		return model.TargetSystemService{}, false, err
	}
	if len(result.TargetSystemServices) == 0 {
		return model.TargetSystemService{}, false, nil
	}
	return result.TargetSystemServices[0], true, nil
}

func (c *RestClient) CreateTargetSystemService(ctx context.Context, token string, req CreateTargetSystemServiceRequest) (model.TargetSystemService, error) {
	service := model.TargetSystemService{}
	if err := c.execute(ctx, http.MethodPost, createTargetService, token, req, &service); err != nil {
		return model.TargetSystemService{}, err
	}
	return service, nil
}

func (c *RestClient) GetEnrollOption(ctx context.Context, token string, leg EnrollLeg, serviceID int64) (json.RawMessage, error) {
	paths, ok := enrollPaths[leg]
	if !ok {
		return nil, fmt.Errorf("unknown enrollment leg %q%w", leg, model.ErrInvalidInput)
	}
	path := fmt.Sprintf("%s?targetSystemServiceId=%d", paths.Get, serviceID)
	value := json.RawMessage{}
	if err := c.execute(ctx, http.MethodGet, path, token, nil, &value); err != nil {
		return nil, err
	}
	return value, nil
}

func (c *RestClient) PutEnrollOption(ctx context.Context, token string, leg EnrollLeg, serviceID int64, value json.RawMessage) error {
	paths, ok := enrollPaths[leg]
	if !ok {
		return fmt.Errorf("unknown enrollment leg %q%w", leg, model.ErrInvalidInput)
	}
	path := fmt.Sprintf("%s?targetSystemServiceId=%d", paths.Put, serviceID)
	return c.execute(ctx, http.MethodPut, path, token, value, nil)
}

func (c *RestClient) Enroll(ctx context.Context, token string, req EnrollRequest) error {
	return c.execute(ctx, http.MethodPost, enrollPath, token, req, nil)
}

func (c *RestClient) FindCertificate(ctx context.Context, token, commonName string) (model.CACertificate, bool, error) {
	path := findCertificate + "?commonName=" + url.QueryEscape(commonName)
	result := struct {
		Certificates []model.CACertificate `json:"certificates"`
	}{}
	if err := c.execute(ctx, http.MethodGet, path, token, nil, &result); err != nil {
		return model.CACertificate{}, false, err
	}
	if len(result.Certificates) == 0 {
		return model.CACertificate{}, false, nil
	}
	return result.Certificates[0], true, nil
}

func (c *RestClient) RenewCertificate(ctx context.Context, token string, certificateID int64) error {
	path := fmt.Sprintf("/certificates/%d/renew", certificateID)
	return c.execute(ctx, http.MethodPut, path, token, nil, nil)
}

func (c *RestClient) RevokeCertificate(ctx context.Context, token string, certificateID int64, reason string) error {
	path := fmt.Sprintf("/certificates/%d/revocationrequest", certificateID)
	payload := map[string]string{"reason": reason}
	return c.execute(ctx, http.MethodPost, path, token, payload, nil)
}

func (c *RestClient) RevocationReasons(ctx context.Context, token string, certificateID int64) ([]string, error) {
	path := fmt.Sprintf("/certificates/%d/revocationreasons", certificateID)
	result := struct {
		Reasons []string `json:"reasons"`
	}{}
	if err := c.execute(ctx, http.MethodGet, path, token, nil, &result); err != nil {
		return nil, err
	}
	return result.Reasons, nil
}

func (c *RestClient) ListTargetSystems(ctx context.Context, token string) ([]model.TargetSystem, error) {
	result := struct {
		TargetSystems []model.TargetSystem `json:"targetSystems"`
	}{}
	if err := c.execute(ctx, http.MethodGet, findTargetSystem, token, nil, &result); err != nil {
		return nil, err
	}
	return result.TargetSystems, nil
}

func (c *RestClient) ListTargetSystemServices(ctx context.Context, token string, targetSystemID int64) ([]model.TargetSystemService, error) {
	path := fmt.Sprintf("%s?targetSystemId=%d", findTargetService, targetSystemID)
	result := struct {
		TargetSystemServices []model.TargetSystemService `json:"targetSystemServices"`
	}{}
	if err := c.execute(ctx, http.MethodGet, path, token, nil, &result); err != nil {
		return nil, err
	}
	return result.TargetSystemServices, nil
}

func (c *RestClient) ListCertificates(ctx context.Context, token string) ([]model.CACertificate, error) {
	result := struct {
		Certificates []model.CACertificate `json:"certificates"`
	}{}
	if err := c.execute(ctx, http.MethodGet, findCertificate, token, nil, &result); err != nil {
		return nil, err
	}
	return result.Certificates, nil
}

// Download streams a certificate bundle. It uses the dedicated download
// transport and reports every failure, transport or HTTP, as a transport
// error so the caller returns an empty-bodied BadRequest.
func (c *RestClient) Download(ctx context.Context, token string, req DownloadRequest) ([]byte, error) {
	endPoint := fmt.Sprintf(
		"%s/certificates/%d/download?format=%s&includePrivateKey=%t",
		c.server, req.CertificateID, url.QueryEscape(req.Format), req.IncludePrivateKey,
	)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endPoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%s%w", err.Error(), model.ErrTransport)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.downloadClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s%w", err.Error(), model.ErrTransport)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("download returned %d%w", resp.StatusCode, model.ErrTransport)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s%w", err.Error(), model.ErrTransport)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("download returned empty body%w", model.ErrTransport)
	}
	return body, nil
}

func (c *RestClient) execute(ctx context.Context, method, path, token string, payload, result any) error {
	var body []byte
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("%s%w", err.Error(), model.ErrInvalidInput)
		}
		body = encoded
	}

	var resp *http.Response
	err := retry.Do(
		func() error {
			var reader io.Reader
			if body != nil {
				reader = bytes.NewReader(body)
			}
			req, err := http.NewRequestWithContext(ctx, method, c.server+path, reader)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("Content-Type", "application/json")
			if token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}

			resp, err = c.httpClient.Do(req)
			if err != nil {
				logrus.Debugf("certificate manager %s %s: %v", method, path, err)
				return err
			}
			return nil
		},
		retry.Attempts(c.retryAttempts),
		retry.Context(ctx),
	)
	if err != nil {
		return fmt.Errorf("%s%w", err.Error(), model.ErrTransport)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		message, _ := io.ReadAll(resp.Body)
		return model.NewUpstreamError(resp.StatusCode, string(message))
	}
	if result == nil {
		return nil
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode certificate manager response: %s%w", err.Error(), model.ErrTransport)
	}
	return nil
}
