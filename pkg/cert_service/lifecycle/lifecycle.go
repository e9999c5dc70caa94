// Package lifecycle drives the certificate workflows against the
// external certificate manager and the metadata store. Each workflow is
// a strictly sequential saga: every step depends on the previous step's
// output, a failed step aborts the rest, and a CA-mutating step that
// already succeeded is never undone.
package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/certlane/certlane/pkg/cert_service/access"
	"github.com/certlane/certlane/pkg/cert_service/identity"
	"github.com/certlane/certlane/pkg/cert_service/metadata"
	"github.com/certlane/certlane/pkg/cert_service/model"
	"github.com/certlane/certlane/pkg/cert_service/nclm"
	"github.com/certlane/certlane/pkg/cert_service/policy"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// DefaultOwnerAccessLevel is granted to a non-administrative owner's
// identity-backend account when their certificate is issued.
const DefaultOwnerAccessLevel = model.AccessRead

type Service interface {
	IssueCertificate(ctx context.Context, ts int64, requester model.Requester, req IssueCertificateRequest) (model.CertificateMetadata, error)
	RenewCertificate(ctx context.Context, ts int64, requester model.Requester, certificateName string) (model.CertificateMetadata, error)
	RevokeCertificate(ctx context.Context, ts int64, requester model.Requester, req RevokeCertificateRequest) (model.CertificateMetadata, error)

	ListCertificates(ctx context.Context, requester model.Requester) ([]model.CACertificate, error)
	ListManagedCertificates(ctx context.Context, requester model.Requester) ([]string, error)
	ListTargetSystems(ctx context.Context, requester model.Requester) ([]model.TargetSystem, error)
	ListTargetSystemServices(ctx context.Context, requester model.Requester, targetSystemID int64) ([]model.TargetSystemService, error)

	DownloadCertificate(ctx context.Context, requester model.Requester, req DownloadRequest) (Download, error)
}

type TargetSystemSpec struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

type TargetSystemServiceSpec struct {
	Name        string `json:"name"`
	Hostname    string `json:"hostname"`
	Port        int    `json:"port"`
	Description string `json:"description"`
}

type IssueCertificateRequest struct {
	CertificateName     string                  `json:"certificate_name"`
	AppName             string                  `json:"app_name"`
	CertType            model.CertType          `json:"cert_type"`
	OwnerEmail          string                  `json:"owner_email"`
	TargetSystem        TargetSystemSpec        `json:"target_system"`
	TargetSystemService TargetSystemServiceSpec `json:"target_system_service"`
}

type RevokeCertificateRequest struct {
	CertificateName string `json:"certificate_name"`
	Reason          string `json:"reason"`
}

type ServiceOption func(*_Service)

func ServiceWithAuditor(auditor Auditor) ServiceOption {
	return func(s *_Service) {
		s.auditor = auditor
	}
}

type _Service struct {
	ca           nclm.Client
	store        metadata.Store
	identity     identity.Backend
	evaluator    access.Evaluator
	auditor      Auditor
	domainSuffix string
}

func NewService(ca nclm.Client, store metadata.Store, identityBackend identity.Backend, evaluator access.Evaluator, domainSuffix string, options ...ServiceOption) *_Service {
	s := &_Service{
		ca:           ca,
		store:        store,
		identity:     identityBackend,
		evaluator:    evaluator,
		auditor:      NopAuditor{},
		domainSuffix: domainSuffix,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// sagaStep is one leg of an orchestrated workflow. Steps run in order
// and the first failure aborts the remainder; nothing that already
// succeeded is compensated.
type sagaStep struct {
	name string
	run  func(ctx context.Context) error
}

func runSaga(ctx context.Context, operation string, steps []sagaStep) error {
	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			logrus.Debugf("%s aborted at step %q: %v", operation, step.name, err)
			return err
		}
	}
	return nil
}

func (s *_Service) IssueCertificate(ctx context.Context, ts int64, requester model.Requester, req IssueCertificateRequest) (model.CertificateMetadata, error) {
	if err := ValidateIssueCertificateRequest(req, s.domainSuffix); err != nil {
		return model.CertificateMetadata{}, err
	}

	var (
		token     string
		system    model.TargetSystem
		service   model.TargetSystemService
		meta      model.CertificateMetadata
		issuedID  int64
		issuedExp string
	)

	steps := []sagaStep{
		{"login", func(ctx context.Context) error {
			var err error
			token, err = s.ca.Login(ctx)
			return err
		}},
		{"duplicate check", func(ctx context.Context) error {
			existing, found, err := s.ca.FindCertificate(ctx, token, req.CertificateName)
			if err != nil {
				return err
			}
			if found && existing.Status == string(model.CertStatusActive) {
				return fmt.Errorf("certificate %s already exists%w", req.CertificateName, model.ErrConflict)
			}
			return nil
		}},
		{"target system", func(ctx context.Context) error {
			found := false
			var err error
			system, found, err = s.ca.FindTargetSystem(ctx, token, req.TargetSystem.Address)
			if err != nil {
				return err
			}
			if found {
				return nil
			}
			system, err = s.ca.CreateTargetSystem(ctx, token, nclm.CreateTargetSystemRequest{
				Name:        req.TargetSystem.Name,
				Address:     req.TargetSystem.Address,
				Description: req.TargetSystem.Description,
			})
			return err
		}},
		{"target system service", func(ctx context.Context) error {
			found := false
			var err error
			service, found, err = s.ca.FindTargetSystemService(ctx, token, req.TargetSystemService.Hostname, system.ID)
			if err != nil {
				return err
			}
			if found {
				return nil
			}
			service, err = s.ca.CreateTargetSystemService(ctx, token, nclm.CreateTargetSystemServiceRequest{
				Name:           req.TargetSystemService.Name,
				Hostname:       req.TargetSystemService.Hostname,
				Port:           req.TargetSystemService.Port,
				TargetSystemID: system.ID,
				Description:    req.TargetSystemService.Description,
			})
			return err
		}},
		{"enrollment chain", func(ctx context.Context) error {
			for _, leg := range nclm.EnrollLegs {
				value, err := s.ca.GetEnrollOption(ctx, token, leg, service.ID)
				if err != nil {
					return err
				}
				if err := s.ca.PutEnrollOption(ctx, token, leg, service.ID, value); err != nil {
					return err
				}
			}
			return nil
		}},
		{"enroll", func(ctx context.Context) error {
			return s.ca.Enroll(ctx, token, nclm.EnrollRequest{
				CommonName:            req.CertificateName,
				TargetSystemServiceID: service.ID,
				CertType:              string(req.CertType),
			})
		}},
		{"capture issued certificate", func(ctx context.Context) error {
			issued, found, err := s.ca.FindCertificate(ctx, token, req.CertificateName)
			if err != nil || !found {
				// The certificate exists on the CA side even if we cannot
				// read it back; carry on with what we have.
				logrus.Warnf("Cannot read back issued certificate %s: found=%t err=%v", req.CertificateName, found, err)
				return nil
			}
			issuedID = issued.ID
			issuedExp = issued.ExpiryDate
			return nil
		}},
		{"persist metadata", func(ctx context.Context) error {
			meta = model.CertificateMetadata{
				CertificateName:   req.CertificateName,
				AppName:           req.AppName,
				CertType:          req.CertType,
				OwnerPrincipal:    requester.Name,
				OwnerEmail:        req.OwnerEmail,
				CreatedDate:       time.Unix(ts, 0).UTC().Format(time.RFC3339),
				ExpiryDate:        issuedExp,
				CertificateID:     issuedID,
				CertificateStatus: model.CertStatusActive,
				PrincipalAccess:   map[string]model.AccessLevel{},
			}
			if err := s.store.Write(ctx, requester.Token, metadata.DataPath(req.CertificateName), meta); err != nil {
				return fmt.Errorf("metadata write failed for %s: %s%w", req.CertificateName, err.Error(), model.ErrPersistence)
			}
			return nil
		}},
		{"owner access policy", func(ctx context.Context) error {
			return s.configureOwnerAccess(ctx, requester, &meta)
		}},
	}

	err := runSaga(ctx, "issue", steps)
	s.auditor.Record(ctx, ts, requester, "issue", req.CertificateName, err)
	if err != nil {
		return model.CertificateMetadata{}, err
	}
	return meta, nil
}

// configureOwnerAccess grants a non-administrative owner the default
// access level when their account is resolvable in the identity backend.
// The certificate stays issued even when this step fails.
func (s *_Service) configureOwnerAccess(ctx context.Context, requester model.Requester, meta *model.CertificateMetadata) error {
	if requester.Admin {
		return nil
	}

	policies, found, err := s.identity.FetchPolicies(ctx, requester.Token, model.PrincipalUser, requester.Name)
	if err != nil {
		return fmt.Errorf("owner policy lookup failed: %s%w", err.Error(), model.ErrPersistence)
	}
	if !found {
		return nil
	}

	updated, err := policy.With(policies, DefaultOwnerAccessLevel, meta.CertificateName)
	if err != nil {
		return err
	}
	if err := s.identity.ConfigurePolicies(ctx, requester.Token, model.PrincipalUser, requester.Name, updated); err != nil {
		return fmt.Errorf("owner policy configuration failed: %s%w", err.Error(), model.ErrPersistence)
	}

	meta.PrincipalAccess[requester.Name] = DefaultOwnerAccessLevel
	if err := s.store.Update(ctx, requester.Token, *meta); err != nil {
		return fmt.Errorf("metadata update failed for %s: %s%w", meta.CertificateName, err.Error(), model.ErrPersistence)
	}
	return nil
}

func (s *_Service) RenewCertificate(ctx context.Context, ts int64, requester model.Requester, certificateName string) (model.CertificateMetadata, error) {
	meta, err := s.lifecycleGate(ctx, requester, certificateName)
	if err != nil {
		s.auditor.Record(ctx, ts, requester, "renew", certificateName, err)
		return model.CertificateMetadata{}, err
	}

	var token string
	steps := []sagaStep{
		{"login", func(ctx context.Context) error {
			var err error
			token, err = s.ca.Login(ctx)
			return err
		}},
		{"renew", func(ctx context.Context) error {
			return s.ca.RenewCertificate(ctx, token, meta.CertificateID)
		}},
		{"capture renewed certificate", func(ctx context.Context) error {
			renewed, found, err := s.ca.FindCertificate(ctx, token, certificateName)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("renewed certificate %s not found%w", certificateName, model.ErrConflict)
			}
			meta.CertificateID = renewed.ID
			meta.ExpiryDate = renewed.ExpiryDate
			meta.CertificateStatus = model.CertStatusActive
			return nil
		}},
		{"update metadata", func(ctx context.Context) error {
			if err := s.store.Update(ctx, requester.Token, meta); err != nil {
				return fmt.Errorf("metadata update failed for %s: %s%w", certificateName, err.Error(), model.ErrPersistence)
			}
			return nil
		}},
	}

	err = runSaga(ctx, "renew", steps)
	s.auditor.Record(ctx, ts, requester, "renew", certificateName, err)
	if err != nil {
		return model.CertificateMetadata{}, err
	}
	return meta, nil
}

func (s *_Service) RevokeCertificate(ctx context.Context, ts int64, requester model.Requester, req RevokeCertificateRequest) (model.CertificateMetadata, error) {
	if err := ValidateRevokeCertificateRequest(req, s.domainSuffix); err != nil {
		return model.CertificateMetadata{}, err
	}

	meta, err := s.lifecycleGate(ctx, requester, req.CertificateName)
	if err != nil {
		s.auditor.Record(ctx, ts, requester, "revoke", req.CertificateName, err)
		return model.CertificateMetadata{}, err
	}

	var token string
	steps := []sagaStep{
		{"login", func(ctx context.Context) error {
			var err error
			token, err = s.ca.Login(ctx)
			return err
		}},
		{"validate reason", func(ctx context.Context) error {
			reasons, err := s.ca.RevocationReasons(ctx, token, meta.CertificateID)
			if err != nil {
				return err
			}
			if !lo.Contains(reasons, req.Reason) {
				return fmt.Errorf("revocation reason %q is not accepted by the certificate manager%w", req.Reason, model.ErrInvalidInput)
			}
			return nil
		}},
		{"revoke", func(ctx context.Context) error {
			// Re-revoking an already revoked certificate is accepted by
			// the certificate manager and treated as success.
			return s.ca.RevokeCertificate(ctx, token, meta.CertificateID, req.Reason)
		}},
		{"update metadata", func(ctx context.Context) error {
			meta.CertificateStatus = model.CertStatusRevoked
			if err := s.store.Update(ctx, requester.Token, meta); err != nil {
				return fmt.Errorf("metadata update failed for %s: %s%w", req.CertificateName, err.Error(), model.ErrPersistence)
			}
			return nil
		}},
	}

	err = runSaga(ctx, "revoke", steps)
	s.auditor.Record(ctx, ts, requester, "revoke", req.CertificateName, err)
	if err != nil {
		return model.CertificateMetadata{}, err
	}
	return meta, nil
}

// lifecycleGate authorizes renewal/revocation: the certificate must be
// known and the requester must be its owner or an administrator.
func (s *_Service) lifecycleGate(ctx context.Context, requester model.Requester, certificateName string) (model.CertificateMetadata, error) {
	meta, found, err := s.store.Read(ctx, requester.Token, metadata.DataPath(certificateName))
	if err != nil {
		return model.CertificateMetadata{}, err
	}
	if !found {
		return model.CertificateMetadata{}, fmt.Errorf("certificate %s is not managed by this service%w", certificateName, model.ErrForbidden)
	}
	if !requester.Admin && requester.Name != meta.OwnerPrincipal {
		return model.CertificateMetadata{}, fmt.Errorf("requester %s is not the owner of %s%w", requester.Name, certificateName, model.ErrForbidden)
	}
	return meta, nil
}

func (s *_Service) ListCertificates(ctx context.Context, requester model.Requester) ([]model.CACertificate, error) {
	token, err := s.ca.Login(ctx)
	if err != nil {
		return nil, err
	}
	certs, err := s.ca.ListCertificates(ctx, token)
	if err != nil {
		return nil, err
	}
	if requester.Admin {
		return certs, nil
	}

	paths, err := s.identity.AccessiblePaths(ctx, requester.Token, requester.Name)
	if err != nil {
		return nil, err
	}
	return lo.Filter(certs, func(cert model.CACertificate, _ int) bool {
		return lo.Contains(paths, metadata.DataPath(cert.CommonName))
	}), nil
}

// ListManagedCertificates returns the names of the certificates this
// service holds metadata for. The secrets backend scopes the listing to
// what the caller's token can see.
func (s *_Service) ListManagedCertificates(ctx context.Context, requester model.Requester) ([]string, error) {
	return s.store.List(ctx, requester.Token)
}

func (s *_Service) ListTargetSystems(ctx context.Context, requester model.Requester) ([]model.TargetSystem, error) {
	token, err := s.ca.Login(ctx)
	if err != nil {
		return nil, err
	}
	return s.ca.ListTargetSystems(ctx, token)
}

func (s *_Service) ListTargetSystemServices(ctx context.Context, requester model.Requester, targetSystemID int64) ([]model.TargetSystemService, error) {
	token, err := s.ca.Login(ctx)
	if err != nil {
		return nil, err
	}
	return s.ca.ListTargetSystemServices(ctx, token, targetSystemID)
}
