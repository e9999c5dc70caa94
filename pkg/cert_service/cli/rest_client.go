package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/certlane/certlane/pkg/cert_service/api"
	"github.com/certlane/certlane/pkg/cert_service/binding"
	"github.com/certlane/certlane/pkg/cert_service/lifecycle"
	"github.com/certlane/certlane/pkg/cert_service/model"
	"github.com/certlane/certlane/pkg/cert_service/storage"
	"github.com/certlane/certlane/pkg/util"
)

type RestClient struct {
	requester string
	email     string
	admin     bool
	token     string
	server    string // http://server/
}

func NewRestClient(server, requester, email string, admin bool, token string) *RestClient {
	return &RestClient{
		requester: requester,
		email:     email,
		admin:     admin,
		token:     token,
		server:    server,
	}
}

func (r *RestClient) IssueCert(req lifecycle.IssueCertificateRequest) (model.Envelope, error) {
	path := "/v1/sslcert"
	envelope := model.Envelope{}
	if err := r.execute(http.MethodPost, path, util.StructToJSONReader(req), &envelope); err != nil {
		return model.Envelope{}, err
	}
	return envelope, nil
}

func (r *RestClient) RenewCert(certificateName string) (model.Envelope, error) {
	path := fmt.Sprintf("/v1/sslcert/%s/renew", url.PathEscape(certificateName))
	envelope := model.Envelope{}
	if err := r.execute(http.MethodPost, path, nil, &envelope); err != nil {
		return model.Envelope{}, err
	}
	return envelope, nil
}

func (r *RestClient) RevokeCert(certificateName, reason string) (model.Envelope, error) {
	path := fmt.Sprintf("/v1/sslcert/%s/revoke", url.PathEscape(certificateName))
	req := lifecycle.RevokeCertificateRequest{
		Reason: reason,
	}
	envelope := model.Envelope{}
	if err := r.execute(http.MethodPost, path, util.StructToJSONReader(req), &envelope); err != nil {
		return model.Envelope{}, err
	}
	return envelope, nil
}

func (r *RestClient) ListCerts() ([]model.CACertificate, error) {
	path := "/v1/sslcert"
	certs := []model.CACertificate{}
	if err := r.execute(http.MethodGet, path, nil, &certs); err != nil {
		return nil, err
	}
	return certs, nil
}

func (r *RestClient) ListManagedCerts() ([]string, error) {
	path := "/v1/sslcert/managed"
	names := []string{}
	if err := r.execute(http.MethodGet, path, nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

func (r *RestClient) ListAuditEvents(certificateName string, limit, offset int) (storage.ListAuditEventsResponse, error) {
	query := url.Values{}
	if certificateName != "" {
		query.Set("certificate_name", certificateName)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		query.Set("offset", strconv.Itoa(offset))
	}
	path := "/v1/audit_events"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	result := storage.ListAuditEventsResponse{}
	if err := r.execute(http.MethodGet, path, nil, &result); err != nil {
		return storage.ListAuditEventsResponse{}, err
	}
	return result, nil
}

func (r *RestClient) ListTargetSystems() ([]model.TargetSystem, error) {
	path := "/v1/targetsystems"
	systems := []model.TargetSystem{}
	if err := r.execute(http.MethodGet, path, nil, &systems); err != nil {
		return nil, err
	}
	return systems, nil
}

func (r *RestClient) ListTargetSystemServices(targetSystemID int64) ([]model.TargetSystemService, error) {
	path := fmt.Sprintf("/v1/targetsystems/%d/services", targetSystemID)
	services := []model.TargetSystemService{}
	if err := r.execute(http.MethodGet, path, nil, &services); err != nil {
		return nil, err
	}
	return services, nil
}

// DownloadCert streams the certificate bundle into outFile. When outFile is
// empty the filename from the Content-Disposition header is used.
func (r *RestClient) DownloadCert(certificateName, format string, includePrivateKey bool, outFile string) (string, error) {
	path := fmt.Sprintf(
		"/v1/sslcert/%s/download?format=%s&includePrivateKey=%t",
		url.PathEscape(certificateName),
		url.QueryEscape(format),
		includePrivateKey,
	)

	endPoint := r.server + path
	req, err := http.NewRequest(http.MethodGet, endPoint, nil)
	if err != nil {
		return "", err
	}
	r.setHeaders(req)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	if outFile == "" {
		_, params, _ := mime.ParseMediaType(resp.Header.Get("Content-Disposition"))
		outFile = params["filename"]
		if outFile == "" {
			outFile = certificateName
		}
	}

	file, err := os.Create(outFile)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if _, err := io.Copy(file, resp.Body); err != nil {
		return "", err
	}
	return outFile, nil
}

func (r *RestClient) AddUser(certificateName, user string, level model.AccessLevel) (model.Envelope, error) {
	path := fmt.Sprintf("/v1/sslcert/%s/user", url.PathEscape(certificateName))
	req := binding.AddPrincipalRequest{
		Principal: user,
		Level:     level,
	}
	envelope := model.Envelope{}
	if err := r.execute(http.MethodPost, path, util.StructToJSONReader(req), &envelope); err != nil {
		return model.Envelope{}, err
	}
	return envelope, nil
}

func (r *RestClient) RemoveUser(certificateName, user string) (model.Envelope, error) {
	path := fmt.Sprintf("/v1/sslcert/%s/user", url.PathEscape(certificateName))
	req := binding.RemovePrincipalRequest{
		Principal: user,
	}
	envelope := model.Envelope{}
	if err := r.execute(http.MethodDelete, path, util.StructToJSONReader(req), &envelope); err != nil {
		return model.Envelope{}, err
	}
	return envelope, nil
}

func (r *RestClient) AddGroup(certificateName, group string, level model.AccessLevel) (model.Envelope, error) {
	path := fmt.Sprintf("/v1/sslcert/%s/group", url.PathEscape(certificateName))
	req := binding.AddPrincipalRequest{
		Principal: group,
		Level:     level,
	}
	envelope := model.Envelope{}
	if err := r.execute(http.MethodPost, path, util.StructToJSONReader(req), &envelope); err != nil {
		return model.Envelope{}, err
	}
	return envelope, nil
}

func (r *RestClient) RemoveGroup(certificateName, group string) (model.Envelope, error) {
	path := fmt.Sprintf("/v1/sslcert/%s/group", url.PathEscape(certificateName))
	req := binding.RemovePrincipalRequest{
		Principal: group,
	}
	envelope := model.Envelope{}
	if err := r.execute(http.MethodDelete, path, util.StructToJSONReader(req), &envelope); err != nil {
		return model.Envelope{}, err
	}
	return envelope, nil
}

func (r *RestClient) AssociateApprole(certificateName, approle string, level model.AccessLevel) (model.Envelope, error) {
	path := fmt.Sprintf("/v1/sslcert/%s/approle", url.PathEscape(certificateName))
	req := binding.AssociateApproleRequest{
		Approle: approle,
		Level:   level,
	}
	envelope := model.Envelope{}
	if err := r.execute(http.MethodPost, path, util.StructToJSONReader(req), &envelope); err != nil {
		return model.Envelope{}, err
	}
	return envelope, nil
}

func (r *RestClient) setHeaders(req *http.Request) {
	req.Header.Set(api.REQUESTER_HEADER, r.requester)
	req.Header.Set(api.REQUESTER_EMAIL_HEADER, r.email)
	if r.admin {
		req.Header.Set(api.REQUESTER_ADMIN_HEADER, "true")
	}
	if r.token != "" {
		req.Header.Set(api.BACKEND_TOKEN_HEADER, r.token)
	}
}

func (r *RestClient) execute(method, path string, body io.Reader, result any) error {
	endPoint := r.server + path
	req, err := http.NewRequest(method, endPoint, body)
	if err != nil {
		return err
	}
	r.setHeaders(req)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	status := resp.StatusCode
	if status/100 != 2 {
		message, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("request failed with status %d, message: %s", status, string(message))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return err
	}
	return nil
}
