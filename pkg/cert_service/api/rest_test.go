package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/certlane/certlane/pkg/cert_service/api"
	"github.com/certlane/certlane/pkg/cert_service/binding"
	"github.com/certlane/certlane/pkg/cert_service/lifecycle"
	"github.com/certlane/certlane/pkg/cert_service/model"
	"github.com/certlane/certlane/pkg/cert_service/storage"
	"github.com/certlane/certlane/pkg/util"
	mock_binding "github.com/certlane/certlane/test/mock/cert_service/binding"
	mock_lifecycle "github.com/certlane/certlane/test/mock/cert_service/lifecycle"
	mock_storage "github.com/certlane/certlane/test/mock/cert_service/storage"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type RestServerTestSuite struct {
	suite.Suite

	ctx            context.Context
	basePortNumber int32
	address        string

	ctrl         *gomock.Controller
	service      *mock_lifecycle.MockService
	bindings     *mock_binding.MockManager
	auditStorage *mock_storage.MockAuditStorage
	restServer   *api.RestServer
}

func TestRestServerTestSuite(t *testing.T) {
	suite.Run(t, new(RestServerTestSuite))
}

func (s *RestServerTestSuite) SetupSuite() {
	s.basePortNumber = 11000
}

func (s *RestServerTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())

	portNum := atomic.AddInt32(&s.basePortNumber, 1)
	s.address = fmt.Sprintf("localhost:%d", portNum)

	s.service = mock_lifecycle.NewMockService(s.ctrl)
	s.bindings = mock_binding.NewMockManager(s.ctrl)
	s.auditStorage = mock_storage.NewMockAuditStorage(s.ctrl)
	s.restServer = api.NewRestServerWithController(s.service, s.bindings, s.auditStorage, nil, s.address)

	go func() {
		s.restServer.Run()
	}()
	time.Sleep(100 * time.Millisecond)
}

func (s *RestServerTestSuite) TearDownTest() {
	s.ctrl.Finish()
	s.restServer.Close(s.ctx)
}

func (s *RestServerTestSuite) newRequest(method, path string, body io.Reader) *http.Request {
	endPoint := fmt.Sprintf("http://%s%s", s.address, path)
	httpRequest, _ := http.NewRequest(method, endPoint, body)
	httpRequest.Header.Set(api.REQUESTER_HEADER, "mark")
	httpRequest.Header.Set(api.REQUESTER_EMAIL_HEADER, "mark@example.com")
	httpRequest.Header.Set(api.BACKEND_TOKEN_HEADER, "vault-token")
	return httpRequest
}

func (s *RestServerTestSuite) requester() model.Requester {
	return model.Requester{Name: "mark", Email: "mark@example.com", Token: "vault-token"}
}

func (s *RestServerTestSuite) TestIssueCertificate() {
	req := lifecycle.IssueCertificateRequest{
		CertificateName: "app01.example.com",
		AppName:         "app01",
		CertType:        model.CertTypeInternal,
		OwnerEmail:      "mark@example.com",
		TargetSystem: lifecycle.TargetSystemSpec{
			Name:    "prod-cluster",
			Address: "10.0.0.1",
		},
		TargetSystemService: lifecycle.TargetSystemServiceSpec{
			Name:     "app01-https",
			Hostname: "app01.example.com",
			Port:     443,
		},
	}
	meta := model.CertificateMetadata{
		CertificateName: "app01.example.com",
		CertificateID:   204,
		ExpiryDate:      "2025-03-31T00:00:00Z",
	}

	s.service.EXPECT().IssueCertificate(gomock.Any(), gomock.Any(), s.requester(), req).Return(meta, nil)

	httpRequest := s.newRequest(http.MethodPost, "/v1/sslcert", util.StructToJSONReader(req))
	resp, err := http.DefaultClient.Do(httpRequest)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
	envelope := model.Envelope{}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&envelope))
	s.Require().Len(envelope.Messages, 1)
	s.Contains(envelope.Messages[0], "app01.example.com")
	s.Contains(envelope.Messages[0], "204")
}

func (s *RestServerTestSuite) TestIssueCertificateConflict() {
	s.service.EXPECT().IssueCertificate(gomock.Any(), gomock.Any(), s.requester(), gomock.Any()).Return(
		model.CertificateMetadata{},
		fmt.Errorf("certificate app01.example.com already exists%w", model.ErrConflict),
	)

	httpRequest := s.newRequest(http.MethodPost, "/v1/sslcert", util.StructToJSONReader(lifecycle.IssueCertificateRequest{}))
	resp, err := http.DefaultClient.Do(httpRequest)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
	envelope := model.Envelope{}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&envelope))
	s.Require().Len(envelope.Errors, 1)
	s.Contains(envelope.Errors[0], "already exists")
}

func (s *RestServerTestSuite) TestRenewCertificate() {
	meta := model.CertificateMetadata{
		CertificateName: "app01.example.com",
		CertificateID:   205,
		ExpiryDate:      "2026-03-31T00:00:00Z",
	}

	s.service.EXPECT().RenewCertificate(gomock.Any(), gomock.Any(), s.requester(), "app01.example.com").Return(meta, nil)

	httpRequest := s.newRequest(http.MethodPost, "/v1/sslcert/app01.example.com/renew", nil)
	resp, err := http.DefaultClient.Do(httpRequest)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *RestServerTestSuite) TestRevokeCertificateForbidden() {
	req := lifecycle.RevokeCertificateRequest{
		CertificateName: "app01.example.com",
		Reason:          "superseded",
	}

	s.service.EXPECT().RevokeCertificate(gomock.Any(), gomock.Any(), s.requester(), req).Return(
		model.CertificateMetadata{},
		fmt.Errorf("requester mark is not the owner of app01.example.com%w", model.ErrForbidden),
	)

	httpRequest := s.newRequest(http.MethodPost, "/v1/sslcert/app01.example.com/revoke", util.StructToJSONReader(req))
	resp, err := http.DefaultClient.Do(httpRequest)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *RestServerTestSuite) TestListCertificates() {
	certs := []model.CACertificate{
		{ID: 1, CommonName: "app01.example.com", Status: "Active"},
	}

	s.service.EXPECT().ListCertificates(gomock.Any(), s.requester()).Return(certs, nil)

	httpRequest := s.newRequest(http.MethodGet, "/v1/sslcert", nil)
	resp, err := http.DefaultClient.Do(httpRequest)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
	returned := []model.CACertificate{}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&returned))
	s.Equal(certs, returned)
}

func (s *RestServerTestSuite) TestListManagedCertificates() {
	names := []string{"app01.example.com", "app02.example.com"}

	s.service.EXPECT().ListManagedCertificates(gomock.Any(), s.requester()).Return(names, nil)

	httpRequest := s.newRequest(http.MethodGet, "/v1/sslcert/managed", nil)
	resp, err := http.DefaultClient.Do(httpRequest)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
	returned := []string{}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&returned))
	s.Equal(names, returned)
}

func (s *RestServerTestSuite) TestListAuditEvents() {
	tx := mock_storage.NewMockTx(s.ctrl)
	expected := storage.ListAuditEventsResponse{
		Total: 1,
		Events: []model.AuditEvent{
			{ID: "event-1", Operation: "revoke", CertificateName: "app01.example.com", Outcome: model.AuditOutcomeOK},
		},
	}

	gomock.InOrder(
		s.auditStorage.EXPECT().CreateTx(gomock.Any()).Return(tx, s.ctx, nil),
		s.auditStorage.EXPECT().ListAuditEvents(gomock.Any(), tx, storage.ListAuditEventsRequest{
			Offset:           0,
			Limit:            5,
			CertificateNames: []string{"app01.example.com"},
		}).Return(expected, nil),
		tx.EXPECT().Rollback(gomock.Any()).Return(nil),
	)

	httpRequest := s.newRequest(http.MethodGet, "/v1/audit_events?certificate_name=app01.example.com&limit=5", nil)
	httpRequest.Header.Set(api.REQUESTER_ADMIN_HEADER, "true")
	resp, err := http.DefaultClient.Do(httpRequest)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
	returned := storage.ListAuditEventsResponse{}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&returned))
	s.Equal(expected, returned)
}

func (s *RestServerTestSuite) TestListAuditEventsForbidden() {
	httpRequest := s.newRequest(http.MethodGet, "/v1/audit_events", nil)
	resp, err := http.DefaultClient.Do(httpRequest)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusForbidden, resp.StatusCode)
	envelope := model.Envelope{}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&envelope))
	s.Require().Len(envelope.Errors, 1)
}

func (s *RestServerTestSuite) TestListTargetSystemServices() {
	services := []model.TargetSystemService{{ID: 40, Name: "app01-https"}}

	s.service.EXPECT().ListTargetSystemServices(gomock.Any(), s.requester(), int64(29)).Return(services, nil)

	httpRequest := s.newRequest(http.MethodGet, "/v1/targetsystems/29/services", nil)
	resp, err := http.DefaultClient.Do(httpRequest)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
	returned := []model.TargetSystemService{}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&returned))
	s.Equal(services, returned)
}

func (s *RestServerTestSuite) TestDownloadCertificate() {
	req := lifecycle.DownloadRequest{
		CertificateName:   "app01.example.com",
		Format:            "pembundle",
		IncludePrivateKey: true,
	}

	s.service.EXPECT().DownloadCertificate(gomock.Any(), s.requester(), req).Return(lifecycle.Download{
		Filename:    "app01.example.com.pem",
		ContentType: "application/x-pkcs12",
		Content:     []byte("bundle-bytes"),
	}, nil)

	httpRequest := s.newRequest(http.MethodGet, "/v1/sslcert/app01.example.com/download?format=pembundle&includePrivateKey=true", nil)
	resp, err := http.DefaultClient.Do(httpRequest)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("application/x-pkcs12", resp.Header.Get("Content-Type"))
	s.Equal(`attachment; filename="app01.example.com.pem"`, resp.Header.Get("Content-Disposition"))
	body, _ := io.ReadAll(resp.Body)
	s.Equal([]byte("bundle-bytes"), body)
}

func (s *RestServerTestSuite) TestDownloadCertificateForbidden() {
	s.service.EXPECT().DownloadCertificate(gomock.Any(), s.requester(), gomock.Any()).Return(
		lifecycle.Download{},
		fmt.Errorf("requester mark may not download app01.example.com%w", model.ErrForbidden),
	)

	httpRequest := s.newRequest(http.MethodGet, "/v1/sslcert/app01.example.com/download", nil)
	resp, err := http.DefaultClient.Do(httpRequest)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	s.Empty(body)
}

func (s *RestServerTestSuite) TestDownloadCertificateFailureHasEmptyBody() {
	s.service.EXPECT().DownloadCertificate(gomock.Any(), s.requester(), gomock.Any()).Return(
		lifecycle.Download{},
		model.ErrTransport,
	)

	httpRequest := s.newRequest(http.MethodGet, "/v1/sslcert/app01.example.com/download", nil)
	resp, err := http.DefaultClient.Do(httpRequest)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	s.Empty(body)
}

func (s *RestServerTestSuite) TestAddUser() {
	expected := binding.AddPrincipalRequest{
		CertificateName: "app01.example.com",
		Principal:       "alice",
		Kind:            model.PrincipalUser,
		Level:           model.AccessRead,
	}

	s.bindings.EXPECT().AddPrincipal(gomock.Any(), s.requester(), expected).Return(model.CertificateMetadata{}, nil)

	payload := binding.AddPrincipalRequest{Principal: "alice", Level: model.AccessRead}
	httpRequest := s.newRequest(http.MethodPost, "/v1/sslcert/app01.example.com/user", util.StructToJSONReader(payload))
	resp, err := http.DefaultClient.Do(httpRequest)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *RestServerTestSuite) TestRemoveGroup() {
	expected := binding.RemovePrincipalRequest{
		CertificateName: "app01.example.com",
		Principal:       "ops-team",
		Kind:            model.PrincipalGroup,
	}

	s.bindings.EXPECT().RemovePrincipal(gomock.Any(), s.requester(), expected).Return(model.CertificateMetadata{}, nil)

	payload := binding.RemovePrincipalRequest{Principal: "ops-team"}
	httpRequest := s.newRequest(http.MethodDelete, "/v1/sslcert/app01.example.com/group", util.StructToJSONReader(payload))
	resp, err := http.DefaultClient.Do(httpRequest)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *RestServerTestSuite) TestAssociateApproleNotConfigured() {
	s.bindings.EXPECT().AssociateApprole(gomock.Any(), s.requester(), gomock.Any()).Return(
		model.CertificateMetadata{},
		fmt.Errorf("non-existing role, configure approle app01-deployer first%w", model.ErrNotConfigured),
	)

	payload := binding.AssociateApproleRequest{Approle: "app01-deployer", Level: model.AccessRead}
	httpRequest := s.newRequest(http.MethodPost, "/v1/sslcert/app01.example.com/approle", util.StructToJSONReader(payload))
	resp, err := http.DefaultClient.Do(httpRequest)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnprocessableEntity, resp.StatusCode)
	envelope := model.Envelope{}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&envelope))
	s.Require().Len(envelope.Errors, 1)
	s.Contains(envelope.Errors[0], "non-existing role")
}

func (s *RestServerTestSuite) TestAdminHeaderSetsAdminRequester() {
	adminRequester := model.Requester{Name: "root", Email: "root@example.com", Admin: true, Token: "vault-token"}

	s.service.EXPECT().ListCertificates(gomock.Any(), adminRequester).Return([]model.CACertificate{}, nil)

	endPoint := fmt.Sprintf("http://%s/v1/sslcert", s.address)
	httpRequest, _ := http.NewRequest(http.MethodGet, endPoint, nil)
	httpRequest.Header.Set(api.REQUESTER_HEADER, "root")
	httpRequest.Header.Set(api.REQUESTER_EMAIL_HEADER, "root@example.com")
	httpRequest.Header.Set(api.REQUESTER_ADMIN_HEADER, "true")
	httpRequest.Header.Set(api.BACKEND_TOKEN_HEADER, "vault-token")

	resp, err := http.DefaultClient.Do(httpRequest)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
}
