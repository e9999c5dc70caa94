package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/certlane/certlane/pkg/cert_service/access"
	"github.com/certlane/certlane/pkg/cert_service/binding"
	"github.com/certlane/certlane/pkg/cert_service/identity"
	"github.com/certlane/certlane/pkg/cert_service/lifecycle"
	"github.com/certlane/certlane/pkg/cert_service/metadata"
	"github.com/certlane/certlane/pkg/cert_service/model"
	"github.com/certlane/certlane/pkg/cert_service/nclm"
	"github.com/certlane/certlane/pkg/cert_service/notifier"
	"github.com/certlane/certlane/pkg/cert_service/storage"
	"github.com/certlane/certlane/pkg/cert_service/storage/postgres"
	"github.com/certlane/certlane/pkg/util"
	"github.com/gorilla/mux"
)

type ContextKey string

const (
	REQUESTER_HEADER       = "X-Requester"
	REQUESTER_EMAIL_HEADER = "X-Requester-Email"
	REQUESTER_ADMIN_HEADER = "X-Requester-Admin"
	BACKEND_TOKEN_HEADER   = "X-Vault-Token"
	REQUESTER_CONTEXT_KEY  = ContextKey("requester")
)

type RestServerConfig struct {
	Database      util.PostgresDatabaseConfig `yaml:"database"`
	ServerAddress string                      `yaml:"server_address"`
	DomainSuffix  string                      `yaml:"domain_suffix"`
	WebhookURL    string                      `yaml:"webhook_url"`

	CertManager struct {
		Server   string `yaml:"server"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Retry    uint   `yaml:"retry"`
	} `yaml:"cert_manager"`
	SecretsBackend  string `yaml:"secrets_backend"`
	IdentityBackend string `yaml:"identity_backend"`
}

type RestServer struct {
	service      lifecycle.Service
	bindings     binding.Manager
	auditStorage storage.AuditStorage
	notifier     *notifier.Notifier
	httpServer   *http.Server
}

// ExtractRequester resolves the authenticated caller from the request
// headers. Authentication itself happens upstream; the headers carry the
// oracle's verdict.
func ExtractRequester(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requester := model.Requester{
			Name:  r.Header.Get(REQUESTER_HEADER),
			Email: r.Header.Get(REQUESTER_EMAIL_HEADER),
			Admin: r.Header.Get(REQUESTER_ADMIN_HEADER) == "true",
			Token: r.Header.Get(BACKEND_TOKEN_HEADER),
		}
		ctx = context.WithValue(ctx, REQUESTER_CONTEXT_KEY, requester)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func NewRestServerWithConfig(config RestServerConfig) (*RestServer, error) {
	auditStorage, err := postgres.NewStorageWithConfig(config.Database)
	if err != nil {
		return nil, err
	}

	caClient := nclm.NewRestClient(
		config.CertManager.Server,
		config.CertManager.Username,
		config.CertManager.Password,
		nclm.RestClientWithRetryAttempts(config.CertManager.Retry),
	)
	store := metadata.NewRestStore(config.SecretsBackend)
	identityBackend := identity.NewRestBackend(config.IdentityBackend)
	evaluator := access.NewEvaluator()

	service := lifecycle.NewService(
		caClient,
		store,
		identityBackend,
		evaluator,
		config.DomainSuffix,
		lifecycle.ServiceWithAuditor(lifecycle.NewStorageAuditor(auditStorage)),
	)
	bindings := binding.NewManager(store, identityBackend, evaluator, config.DomainSuffix)

	var eventNotifier *notifier.Notifier
	if config.WebhookURL != "" {
		eventNotifier = notifier.NewNotifier(
			notifier.NotifierWithOutboxStorage(auditStorage),
			notifier.NotifierWithWebhookURL(config.WebhookURL),
		)
	}

	return NewRestServerWithController(service, bindings, auditStorage, eventNotifier, config.ServerAddress), nil
}

func NewRestServerWithController(service lifecycle.Service, bindings binding.Manager, auditStorage storage.AuditStorage, eventNotifier *notifier.Notifier, address string) *RestServer {
	restServer := &RestServer{
		service:      service,
		bindings:     bindings,
		auditStorage: auditStorage,
		notifier:     eventNotifier,
	}

	router := mux.NewRouter()
	router.Use(Log, ExtractRequester)
	router.HandleFunc("/v1/sslcert", restServer.issueCertificate).Methods(http.MethodPost)
	router.HandleFunc("/v1/sslcert", restServer.listCertificates).Methods(http.MethodGet)
	router.HandleFunc("/v1/sslcert/managed", restServer.listManagedCertificates).Methods(http.MethodGet)
	router.HandleFunc("/v1/sslcert/{name}/renew", restServer.renewCertificate).Methods(http.MethodPost)
	router.HandleFunc("/v1/sslcert/{name}/revoke", restServer.revokeCertificate).Methods(http.MethodPost)
	router.HandleFunc("/v1/sslcert/{name}/download", restServer.downloadCertificate).Methods(http.MethodGet)
	router.HandleFunc("/v1/sslcert/{name}/user", restServer.addUser).Methods(http.MethodPost)
	router.HandleFunc("/v1/sslcert/{name}/user", restServer.removeUser).Methods(http.MethodDelete)
	router.HandleFunc("/v1/sslcert/{name}/group", restServer.addGroup).Methods(http.MethodPost)
	router.HandleFunc("/v1/sslcert/{name}/group", restServer.removeGroup).Methods(http.MethodDelete)
	router.HandleFunc("/v1/sslcert/{name}/approle", restServer.associateApprole).Methods(http.MethodPost)
	router.HandleFunc("/v1/targetsystems", restServer.listTargetSystems).Methods(http.MethodGet)
	router.HandleFunc("/v1/targetsystems/{id}/services", restServer.listTargetSystemServices).Methods(http.MethodGet)
	router.HandleFunc("/v1/audit_events", restServer.listAuditEvents).Methods(http.MethodGet)

	if address != "" {
		restServer.httpServer = &http.Server{
			Addr:    address,
			Handler: router,
		}
	}

	return restServer
}

func (s *RestServer) Run() error {
	if s.httpServer == nil {
		return errors.New("no server to run")
	}

	if s.notifier != nil {
		s.notifier.Start()
	}

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *RestServer) Close(ctx context.Context) error {
	var serverErr error
	wg := sync.WaitGroup{}
	if s.httpServer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.httpServer.SetKeepAlivesEnabled(false)
			if err := s.httpServer.Shutdown(ctx); err != nil {
				serverErr = err
			}
		}()
	}

	wg.Wait()
	if s.notifier != nil {
		s.notifier.Stop()
	}
	return serverErr
}

func requesterFromContext(ctx context.Context) model.Requester {
	requester, _ := ctx.Value(REQUESTER_CONTEXT_KEY).(model.Requester)
	return requester
}

func writeEnvelope(w http.ResponseWriter, status int, envelope model.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope)
}

func writeError(w http.ResponseWriter, err error) {
	writeEnvelope(w, model.ErrToHttpStatus(err), model.ErrorEnvelope(err.Error()))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (s *RestServer) issueCertificate(w http.ResponseWriter, r *http.Request) {
	ts := time.Now().Unix()
	ctx := r.Context()
	requester := requesterFromContext(ctx)

	req := lifecycle.IssueCertificateRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, http.StatusBadRequest, model.ErrorEnvelope(fmt.Sprintf("Invalid request: %s", err.Error())))
		return
	}

	meta, err := s.service.IssueCertificate(ctx, ts, requester, req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeEnvelope(w, http.StatusOK, model.MessageEnvelope(
		fmt.Sprintf("Certificate %s issued. ID %d, expires %s.", meta.CertificateName, meta.CertificateID, meta.ExpiryDate),
	))
}

func (s *RestServer) renewCertificate(w http.ResponseWriter, r *http.Request) {
	ts := time.Now().Unix()
	ctx := r.Context()
	requester := requesterFromContext(ctx)
	certificateName := mux.Vars(r)["name"]

	meta, err := s.service.RenewCertificate(ctx, ts, requester, certificateName)
	if err != nil {
		writeError(w, err)
		return
	}

	writeEnvelope(w, http.StatusOK, model.MessageEnvelope(
		fmt.Sprintf("Certificate %s renewed. ID %d, expires %s.", meta.CertificateName, meta.CertificateID, meta.ExpiryDate),
	))
}

func (s *RestServer) revokeCertificate(w http.ResponseWriter, r *http.Request) {
	ts := time.Now().Unix()
	ctx := r.Context()
	requester := requesterFromContext(ctx)

	req := lifecycle.RevokeCertificateRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, http.StatusBadRequest, model.ErrorEnvelope(fmt.Sprintf("Invalid request: %s", err.Error())))
		return
	}
	req.CertificateName = mux.Vars(r)["name"]

	meta, err := s.service.RevokeCertificate(ctx, ts, requester, req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeEnvelope(w, http.StatusOK, model.MessageEnvelope(
		fmt.Sprintf("Certificate %s revoked.", meta.CertificateName),
	))
}

func (s *RestServer) listCertificates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requester := requesterFromContext(ctx)

	certs, err := s.service.ListCertificates(ctx, requester)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, certs)
}

func (s *RestServer) listManagedCertificates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requester := requesterFromContext(ctx)

	names, err := s.service.ListManagedCertificates(ctx, requester)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, names)
}

func (s *RestServer) listTargetSystems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requester := requesterFromContext(ctx)

	systems, err := s.service.ListTargetSystems(ctx, requester)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, systems)
}

func (s *RestServer) listTargetSystemServices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requester := requesterFromContext(ctx)
	targetSystemID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeEnvelope(w, http.StatusBadRequest, model.ErrorEnvelope(fmt.Sprintf("Invalid target system id: %s", err.Error())))
		return
	}

	services, err := s.service.ListTargetSystemServices(ctx, requester, targetSystemID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, services)
}

func (s *RestServer) listAuditEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requester := requesterFromContext(ctx)

	if !requester.Admin {
		writeError(w, fmt.Errorf("audit log is restricted to administrators%w", model.ErrForbidden))
		return
	}
	if s.auditStorage == nil {
		writeError(w, fmt.Errorf("audit log is not configured%w", model.ErrNotConfigured))
		return
	}

	query := r.URL.Query()
	offset, _ := strconv.Atoi(query.Get("offset"))
	limit, _ := strconv.Atoi(query.Get("limit"))
	if limit <= 0 {
		limit = 20
	}
	req := storage.ListAuditEventsRequest{
		Offset:           offset,
		Limit:            limit,
		CertificateNames: query["certificate_name"],
		Operations:       query["operation"],
	}
	for _, outcome := range query["outcome"] {
		req.Outcomes = append(req.Outcomes, model.AuditOutcome(outcome))
	}

	tx, ctx, err := s.auditStorage.CreateTx(ctx)
	if err != nil {
		writeError(w, fmt.Errorf("%s%w", err.Error(), model.ErrPersistence))
		return
	}
	defer tx.Rollback(ctx)

	result, err := s.auditStorage.ListAuditEvents(ctx, tx, req)
	if err != nil {
		writeError(w, fmt.Errorf("%s%w", err.Error(), model.ErrPersistence))
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *RestServer) downloadCertificate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requester := requesterFromContext(ctx)
	certificateName := mux.Vars(r)["name"]

	includePrivateKey, _ := strconv.ParseBool(r.URL.Query().Get("includePrivateKey"))
	req := lifecycle.DownloadRequest{
		CertificateName:   certificateName,
		Format:            r.URL.Query().Get("format"),
		IncludePrivateKey: includePrivateKey,
	}

	download, err := s.service.DownloadCertificate(ctx, requester, req)
	if errors.Is(err, model.ErrForbidden) {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	if err != nil {
		// Download failures return an empty body.
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", download.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(download.Content)
}

func (s *RestServer) addUser(w http.ResponseWriter, r *http.Request) {
	s.addPrincipal(w, r, model.PrincipalUser)
}

func (s *RestServer) addGroup(w http.ResponseWriter, r *http.Request) {
	s.addPrincipal(w, r, model.PrincipalGroup)
}

func (s *RestServer) addPrincipal(w http.ResponseWriter, r *http.Request, kind model.PrincipalKind) {
	ctx := r.Context()
	requester := requesterFromContext(ctx)

	req := binding.AddPrincipalRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, http.StatusBadRequest, model.ErrorEnvelope(fmt.Sprintf("Invalid request: %s", err.Error())))
		return
	}
	req.CertificateName = mux.Vars(r)["name"]
	req.Kind = kind

	if _, err := s.bindings.AddPrincipal(ctx, requester, req); err != nil {
		writeError(w, err)
		return
	}

	writeEnvelope(w, http.StatusOK, model.MessageEnvelope(
		fmt.Sprintf("%s %s granted %s on %s.", kind, req.Principal, req.Level, req.CertificateName),
	))
}

func (s *RestServer) removeUser(w http.ResponseWriter, r *http.Request) {
	s.removePrincipal(w, r, model.PrincipalUser)
}

func (s *RestServer) removeGroup(w http.ResponseWriter, r *http.Request) {
	s.removePrincipal(w, r, model.PrincipalGroup)
}

func (s *RestServer) removePrincipal(w http.ResponseWriter, r *http.Request, kind model.PrincipalKind) {
	ctx := r.Context()
	requester := requesterFromContext(ctx)

	req := binding.RemovePrincipalRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, http.StatusBadRequest, model.ErrorEnvelope(fmt.Sprintf("Invalid request: %s", err.Error())))
		return
	}
	req.CertificateName = mux.Vars(r)["name"]
	req.Kind = kind

	if _, err := s.bindings.RemovePrincipal(ctx, requester, req); err != nil {
		writeError(w, err)
		return
	}

	writeEnvelope(w, http.StatusOK, model.MessageEnvelope(
		fmt.Sprintf("%s %s removed from %s.", kind, req.Principal, req.CertificateName),
	))
}

func (s *RestServer) associateApprole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requester := requesterFromContext(ctx)

	req := binding.AssociateApproleRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, http.StatusBadRequest, model.ErrorEnvelope(fmt.Sprintf("Invalid request: %s", err.Error())))
		return
	}
	req.CertificateName = mux.Vars(r)["name"]

	if _, err := s.bindings.AssociateApprole(ctx, requester, req); err != nil {
		writeError(w, err)
		return
	}

	writeEnvelope(w, http.StatusOK, model.MessageEnvelope(
		fmt.Sprintf("approle %s granted %s on %s.", req.Approle, req.Level, req.CertificateName),
	))
}
