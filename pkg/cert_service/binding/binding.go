// Package binding adds and removes users, groups and approles on a
// certificate's policy, keeping the identity backend and the metadata
// store in step. The two writes are not transactional: when the first
// succeeds and the second fails, the operation reports failure and
// leaves state for manual reconciliation.
package binding

import (
	"context"
	"fmt"

	"github.com/certlane/certlane/pkg/cert_service/access"
	"github.com/certlane/certlane/pkg/cert_service/identity"
	"github.com/certlane/certlane/pkg/cert_service/metadata"
	"github.com/certlane/certlane/pkg/cert_service/model"
	"github.com/certlane/certlane/pkg/cert_service/policy"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// SelfServiceSupportApprole is reserved for the platform itself and may
// never be bound to a certificate.
const SelfServiceSupportApprole = "selfservicesupportrole"

type Manager interface {
	AddPrincipal(ctx context.Context, requester model.Requester, req AddPrincipalRequest) (model.CertificateMetadata, error)
	RemovePrincipal(ctx context.Context, requester model.Requester, req RemovePrincipalRequest) (model.CertificateMetadata, error)
	AssociateApprole(ctx context.Context, requester model.Requester, req AssociateApproleRequest) (model.CertificateMetadata, error)
}

type AddPrincipalRequest struct {
	CertificateName string              `json:"certificate_name"`
	Principal       string              `json:"principal"`
	Kind            model.PrincipalKind `json:"kind"` // user or group
	Level           model.AccessLevel   `json:"level"`
}

type RemovePrincipalRequest struct {
	CertificateName string              `json:"certificate_name"`
	Principal       string              `json:"principal"`
	Kind            model.PrincipalKind `json:"kind"`
}

type AssociateApproleRequest struct {
	CertificateName string            `json:"certificate_name"`
	Approle         string            `json:"approle"`
	Level           model.AccessLevel `json:"level"`
}

type ManagerOption func(*_Manager)

func ManagerWithReservedApproles(approles []string) ManagerOption {
	return func(m *_Manager) {
		m.reservedApproles = approles
	}
}

type _Manager struct {
	store            metadata.Store
	identity         identity.Backend
	evaluator        access.Evaluator
	domainSuffix     string
	reservedApproles []string
}

func NewManager(store metadata.Store, identityBackend identity.Backend, evaluator access.Evaluator, domainSuffix string, options ...ManagerOption) *_Manager {
	m := &_Manager{
		store:            store,
		identity:         identityBackend,
		evaluator:        evaluator,
		domainSuffix:     domainSuffix,
		reservedApproles: []string{SelfServiceSupportApprole},
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *_Manager) AddPrincipal(ctx context.Context, requester model.Requester, req AddPrincipalRequest) (model.CertificateMetadata, error) {
	if err := ValidateAddPrincipalRequest(req, m.domainSuffix); err != nil {
		return model.CertificateMetadata{}, err
	}

	meta, err := m.authorizedMetadata(ctx, requester, req.CertificateName)
	if err != nil {
		return model.CertificateMetadata{}, err
	}

	if req.Principal == meta.OwnerPrincipal {
		return model.CertificateMetadata{}, fmt.Errorf("owner cannot be added as user to own certificate%w", model.ErrInvalidInput)
	}

	policies, found, err := m.identity.FetchPolicies(ctx, requester.Token, req.Kind, req.Principal)
	if err != nil {
		return model.CertificateMetadata{}, err
	}
	if !found {
		return model.CertificateMetadata{}, fmt.Errorf("%s %s does not exist in identity backend%w", req.Kind, req.Principal, model.ErrInvalidInput)
	}

	updated, err := policy.With(policies, req.Level, req.CertificateName)
	if err != nil {
		return model.CertificateMetadata{}, err
	}
	if err := m.identity.ConfigurePolicies(ctx, requester.Token, req.Kind, req.Principal, updated); err != nil {
		return model.CertificateMetadata{}, fmt.Errorf("policy configuration failed for %s %s: %s%w", req.Kind, req.Principal, err.Error(), model.ErrPersistence)
	}

	if meta.PrincipalAccess == nil {
		meta.PrincipalAccess = map[string]model.AccessLevel{}
	}
	meta.PrincipalAccess[req.Principal] = req.Level
	if err := m.store.Update(ctx, requester.Token, meta); err != nil {
		return model.CertificateMetadata{}, fmt.Errorf("metadata update failed for %s: %s%w", req.CertificateName, err.Error(), model.ErrPersistence)
	}

	return meta, nil
}

func (m *_Manager) RemovePrincipal(ctx context.Context, requester model.Requester, req RemovePrincipalRequest) (model.CertificateMetadata, error) {
	if err := ValidateRemovePrincipalRequest(req, m.domainSuffix); err != nil {
		return model.CertificateMetadata{}, err
	}

	meta, err := m.authorizedMetadata(ctx, requester, req.CertificateName)
	if err != nil {
		return model.CertificateMetadata{}, err
	}

	policies, found, err := m.identity.FetchPolicies(ctx, requester.Token, req.Kind, req.Principal)
	if err != nil {
		return model.CertificateMetadata{}, err
	}
	if !found {
		return model.CertificateMetadata{}, fmt.Errorf("%s %s does not exist in identity backend%w", req.Kind, req.Principal, model.ErrInvalidInput)
	}

	updated := policy.Without(policies, req.CertificateName)
	if err := m.identity.ConfigurePolicies(ctx, requester.Token, req.Kind, req.Principal, updated); err != nil {
		return model.CertificateMetadata{}, fmt.Errorf("policy configuration failed for %s %s: %s%w", req.Kind, req.Principal, err.Error(), model.ErrPersistence)
	}

	delete(meta.PrincipalAccess, req.Principal)
	if err := m.store.Update(ctx, requester.Token, meta); err != nil {
		return model.CertificateMetadata{}, fmt.Errorf("metadata update failed for %s: %s%w", req.CertificateName, err.Error(), model.ErrPersistence)
	}

	return meta, nil
}

func (m *_Manager) AssociateApprole(ctx context.Context, requester model.Requester, req AssociateApproleRequest) (model.CertificateMetadata, error) {
	if err := ValidateAssociateApproleRequest(req, m.domainSuffix); err != nil {
		return model.CertificateMetadata{}, err
	}

	if lo.Contains(m.reservedApproles, req.Approle) {
		return model.CertificateMetadata{}, fmt.Errorf("approle %s is reserved and cannot be bound to a certificate%w", req.Approle, model.ErrInvalidInput)
	}

	meta, err := m.authorizedMetadata(ctx, requester, req.CertificateName)
	if err != nil {
		return model.CertificateMetadata{}, err
	}

	policies, found, err := m.identity.FetchPolicies(ctx, requester.Token, model.PrincipalApprole, req.Approle)
	if err != nil {
		return model.CertificateMetadata{}, err
	}
	if !found {
		return model.CertificateMetadata{}, fmt.Errorf("non-existing role, configure approle %s first%w", req.Approle, model.ErrNotConfigured)
	}

	updated, err := policy.With(policies, req.Level, req.CertificateName)
	if err != nil {
		return model.CertificateMetadata{}, err
	}
	if err := m.identity.ConfigurePolicies(ctx, requester.Token, model.PrincipalApprole, req.Approle, updated); err != nil {
		return model.CertificateMetadata{}, fmt.Errorf("failed to add approle %s: %s%w", req.Approle, err.Error(), model.ErrInvalidInput)
	}

	if meta.PrincipalAccess == nil {
		meta.PrincipalAccess = map[string]model.AccessLevel{}
	}
	meta.PrincipalAccess[req.Approle] = req.Level
	if err := m.store.Update(ctx, requester.Token, meta); err != nil {
		// Try to put the approle's policy list back the way it was.
		if revertErr := m.identity.ConfigurePolicies(ctx, requester.Token, model.PrincipalApprole, req.Approle, policies); revertErr != nil {
			logrus.Errorf("Fail to revert approle %s policies after metadata failure. %v", req.Approle, revertErr)
			return model.CertificateMetadata{}, fmt.Errorf("metadata update failed for %s and approle revert failed, contact admin%w", req.CertificateName, model.ErrPersistence)
		}
		return model.CertificateMetadata{}, fmt.Errorf("metadata update failed for %s: %s%w", req.CertificateName, err.Error(), model.ErrPersistence)
	}

	return meta, nil
}

// authorizedMetadata loads the certificate's metadata and gates the
// requester through the permission evaluator.
func (m *_Manager) authorizedMetadata(ctx context.Context, requester model.Requester, certificateName string) (model.CertificateMetadata, error) {
	meta, found, err := m.store.Read(ctx, requester.Token, metadata.DataPath(certificateName))
	if err != nil {
		return model.CertificateMetadata{}, err
	}

	var metaRef *model.CertificateMetadata
	if found {
		metaRef = &meta
	}
	if !m.evaluator.HasBindingPermission(requester, metaRef) {
		return model.CertificateMetadata{}, fmt.Errorf("requester %s may not modify bindings of %s%w", requester.Name, certificateName, model.ErrForbidden)
	}

	return meta, nil
}
