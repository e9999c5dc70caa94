package binding_test

import (
	"context"
	"testing"

	"github.com/certlane/certlane/pkg/cert_service/access"
	"github.com/certlane/certlane/pkg/cert_service/binding"
	"github.com/certlane/certlane/pkg/cert_service/model"
	mock_identity "github.com/certlane/certlane/test/mock/cert_service/identity"
	mock_metadata "github.com/certlane/certlane/test/mock/cert_service/metadata"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

const testDomainSuffix = ".example.com"

type BindingTestSuite struct {
	suite.Suite

	ctrl     *gomock.Controller
	ctx      context.Context
	store    *mock_metadata.MockStore
	identity *mock_identity.MockBackend
	manager  binding.Manager
}

func TestBindingTestSuite(t *testing.T) {
	suite.Run(t, new(BindingTestSuite))
}

func (s *BindingTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.store = mock_metadata.NewMockStore(s.ctrl)
	s.identity = mock_identity.NewMockBackend(s.ctrl)
	s.manager = binding.NewManager(s.store, s.identity, access.NewEvaluator(), testDomainSuffix)
}

func (s *BindingTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func storedMeta() model.CertificateMetadata {
	return model.CertificateMetadata{
		CertificateName:   "app01.example.com",
		AppName:           "app01",
		OwnerPrincipal:    "mark",
		CertificateID:     204,
		CertificateStatus: model.CertStatusActive,
		PrincipalAccess:   map[string]model.AccessLevel{},
	}
}

func (s *BindingTestSuite) TestAddUser() {
	requester := model.Requester{Name: "mark", Token: "vault-token"}
	meta := storedMeta()
	expected := storedMeta()
	expected.PrincipalAccess["alice"] = model.AccessWrite

	gomock.InOrder(
		s.store.EXPECT().Read(gomock.Any(), "vault-token", "sslcerts/app01.example.com").Return(meta, true, nil),
		s.identity.EXPECT().FetchPolicies(gomock.Any(), "vault-token", model.PrincipalUser, "alice").Return([]string{"base"}, true, nil),
		s.identity.EXPECT().ConfigurePolicies(gomock.Any(), "vault-token", model.PrincipalUser, "alice", []string{"base", "w_cert_app01.example.com"}).Return(nil),
		s.store.EXPECT().Update(gomock.Any(), "vault-token", expected).Return(nil),
	)

	result, err := s.manager.AddPrincipal(s.ctx, requester, binding.AddPrincipalRequest{
		CertificateName: "app01.example.com",
		Principal:       "alice",
		Kind:            model.PrincipalUser,
		Level:           model.AccessWrite,
	})
	s.Require().NoError(err)
	s.Assert().Equal(model.AccessWrite, result.PrincipalAccess["alice"])
}

func (s *BindingTestSuite) TestAddUserReplacesExistingLevel() {
	requester := model.Requester{Name: "mark", Token: "vault-token"}
	meta := storedMeta()
	meta.PrincipalAccess["alice"] = model.AccessRead

	gomock.InOrder(
		s.store.EXPECT().Read(gomock.Any(), "vault-token", "sslcerts/app01.example.com").Return(meta, true, nil),
		s.identity.EXPECT().FetchPolicies(gomock.Any(), "vault-token", model.PrincipalUser, "alice").Return(
			[]string{"base", "r_cert_app01.example.com"}, true, nil,
		),
		s.identity.EXPECT().ConfigurePolicies(gomock.Any(), "vault-token", model.PrincipalUser, "alice", []string{"base", "d_cert_app01.example.com"}).Return(nil),
		s.store.EXPECT().Update(gomock.Any(), "vault-token", gomock.Any()).Return(nil),
	)

	result, err := s.manager.AddPrincipal(s.ctx, requester, binding.AddPrincipalRequest{
		CertificateName: "app01.example.com",
		Principal:       "alice",
		Kind:            model.PrincipalUser,
		Level:           model.AccessDeny,
	})
	s.Require().NoError(err)
	s.Assert().Equal(model.AccessDeny, result.PrincipalAccess["alice"])
}

func (s *BindingTestSuite) TestAddUserSelfBinding() {
	requester := model.Requester{Name: "mark", Token: "vault-token"}

	s.store.EXPECT().Read(gomock.Any(), "vault-token", "sslcerts/app01.example.com").Return(storedMeta(), true, nil)

	_, err := s.manager.AddPrincipal(s.ctx, requester, binding.AddPrincipalRequest{
		CertificateName: "app01.example.com",
		Principal:       "mark",
		Kind:            model.PrincipalUser,
		Level:           model.AccessRead,
	})
	s.Require().ErrorIs(err, model.ErrInvalidInput)
}

func (s *BindingTestSuite) TestAddUserUnknownPrincipal() {
	requester := model.Requester{Name: "mark", Token: "vault-token"}

	gomock.InOrder(
		s.store.EXPECT().Read(gomock.Any(), "vault-token", "sslcerts/app01.example.com").Return(storedMeta(), true, nil),
		s.identity.EXPECT().FetchPolicies(gomock.Any(), "vault-token", model.PrincipalUser, "ghost").Return(nil, false, nil),
	)

	_, err := s.manager.AddPrincipal(s.ctx, requester, binding.AddPrincipalRequest{
		CertificateName: "app01.example.com",
		Principal:       "ghost",
		Kind:            model.PrincipalUser,
		Level:           model.AccessRead,
	})
	s.Require().ErrorIs(err, model.ErrInvalidInput)
}

func (s *BindingTestSuite) TestAddUserForbiddenForStranger() {
	requester := model.Requester{Name: "eve", Token: "vault-token"}

	s.store.EXPECT().Read(gomock.Any(), "vault-token", "sslcerts/app01.example.com").Return(storedMeta(), true, nil)

	_, err := s.manager.AddPrincipal(s.ctx, requester, binding.AddPrincipalRequest{
		CertificateName: "app01.example.com",
		Principal:       "alice",
		Kind:            model.PrincipalUser,
		Level:           model.AccessRead,
	})
	s.Require().ErrorIs(err, model.ErrForbidden)
}

func (s *BindingTestSuite) TestAddUserMetadataFailureAfterPolicyWrite() {
	requester := model.Requester{Name: "mark", Token: "vault-token"}

	gomock.InOrder(
		s.store.EXPECT().Read(gomock.Any(), "vault-token", "sslcerts/app01.example.com").Return(storedMeta(), true, nil),
		s.identity.EXPECT().FetchPolicies(gomock.Any(), "vault-token", model.PrincipalUser, "alice").Return([]string{}, true, nil),
		s.identity.EXPECT().ConfigurePolicies(gomock.Any(), "vault-token", model.PrincipalUser, "alice", []string{"r_cert_app01.example.com"}).Return(nil),
		s.store.EXPECT().Update(gomock.Any(), "vault-token", gomock.Any()).Return(model.ErrPersistence),
	)

	_, err := s.manager.AddPrincipal(s.ctx, requester, binding.AddPrincipalRequest{
		CertificateName: "app01.example.com",
		Principal:       "alice",
		Kind:            model.PrincipalUser,
		Level:           model.AccessRead,
	})
	s.Require().ErrorIs(err, model.ErrPersistence)
}

func (s *BindingTestSuite) TestRemoveGroup() {
	requester := model.Requester{Name: "admin", Admin: true, Token: "vault-token"}
	meta := storedMeta()
	meta.PrincipalAccess["ops-team"] = model.AccessRead
	expected := storedMeta()

	gomock.InOrder(
		s.store.EXPECT().Read(gomock.Any(), "vault-token", "sslcerts/app01.example.com").Return(meta, true, nil),
		s.identity.EXPECT().FetchPolicies(gomock.Any(), "vault-token", model.PrincipalGroup, "ops-team").Return(
			[]string{"base", "r_cert_app01.example.com"}, true, nil,
		),
		s.identity.EXPECT().ConfigurePolicies(gomock.Any(), "vault-token", model.PrincipalGroup, "ops-team", []string{"base"}).Return(nil),
		s.store.EXPECT().Update(gomock.Any(), "vault-token", expected).Return(nil),
	)

	result, err := s.manager.RemovePrincipal(s.ctx, requester, binding.RemovePrincipalRequest{
		CertificateName: "app01.example.com",
		Principal:       "ops-team",
		Kind:            model.PrincipalGroup,
	})
	s.Require().NoError(err)
	s.Assert().NotContains(result.PrincipalAccess, "ops-team")
}

func (s *BindingTestSuite) TestAssociateApprole() {
	requester := model.Requester{Name: "mark", Token: "vault-token"}

	gomock.InOrder(
		s.store.EXPECT().Read(gomock.Any(), "vault-token", "sslcerts/app01.example.com").Return(storedMeta(), true, nil),
		s.identity.EXPECT().FetchPolicies(gomock.Any(), "vault-token", model.PrincipalApprole, "app01-deployer").Return([]string{"base"}, true, nil),
		s.identity.EXPECT().ConfigurePolicies(gomock.Any(), "vault-token", model.PrincipalApprole, "app01-deployer", []string{"base", "r_cert_app01.example.com"}).Return(nil),
		s.store.EXPECT().Update(gomock.Any(), "vault-token", gomock.Any()).Return(nil),
	)

	result, err := s.manager.AssociateApprole(s.ctx, requester, binding.AssociateApproleRequest{
		CertificateName: "app01.example.com",
		Approle:         "app01-deployer",
		Level:           model.AccessRead,
	})
	s.Require().NoError(err)
	s.Assert().Equal(model.AccessRead, result.PrincipalAccess["app01-deployer"])
}

func (s *BindingTestSuite) TestAssociateApproleReserved() {
	requester := model.Requester{Name: "mark", Token: "vault-token"}

	_, err := s.manager.AssociateApprole(s.ctx, requester, binding.AssociateApproleRequest{
		CertificateName: "app01.example.com",
		Approle:         binding.SelfServiceSupportApprole,
		Level:           model.AccessRead,
	})
	s.Require().ErrorIs(err, model.ErrInvalidInput)
}

func (s *BindingTestSuite) TestAssociateApproleNotConfigured() {
	requester := model.Requester{Name: "mark", Token: "vault-token"}

	gomock.InOrder(
		s.store.EXPECT().Read(gomock.Any(), "vault-token", "sslcerts/app01.example.com").Return(storedMeta(), true, nil),
		s.identity.EXPECT().FetchPolicies(gomock.Any(), "vault-token", model.PrincipalApprole, "app01-deployer").Return(nil, false, nil),
	)

	_, err := s.manager.AssociateApprole(s.ctx, requester, binding.AssociateApproleRequest{
		CertificateName: "app01.example.com",
		Approle:         "app01-deployer",
		Level:           model.AccessRead,
	})
	s.Require().ErrorIs(err, model.ErrNotConfigured)
}

func (s *BindingTestSuite) TestAssociateApproleMetadataFailureReverts() {
	requester := model.Requester{Name: "mark", Token: "vault-token"}
	original := []string{"base"}

	gomock.InOrder(
		s.store.EXPECT().Read(gomock.Any(), "vault-token", "sslcerts/app01.example.com").Return(storedMeta(), true, nil),
		s.identity.EXPECT().FetchPolicies(gomock.Any(), "vault-token", model.PrincipalApprole, "app01-deployer").Return(original, true, nil),
		s.identity.EXPECT().ConfigurePolicies(gomock.Any(), "vault-token", model.PrincipalApprole, "app01-deployer", []string{"base", "r_cert_app01.example.com"}).Return(nil),
		s.store.EXPECT().Update(gomock.Any(), "vault-token", gomock.Any()).Return(model.ErrPersistence),
		s.identity.EXPECT().ConfigurePolicies(gomock.Any(), "vault-token", model.PrincipalApprole, "app01-deployer", original).Return(nil),
	)

	_, err := s.manager.AssociateApprole(s.ctx, requester, binding.AssociateApproleRequest{
		CertificateName: "app01.example.com",
		Approle:         "app01-deployer",
		Level:           model.AccessRead,
	})
	s.Require().ErrorIs(err, model.ErrPersistence)
}

func (s *BindingTestSuite) TestAssociateApproleRevertFailure() {
	requester := model.Requester{Name: "mark", Token: "vault-token"}
	original := []string{"base"}

	gomock.InOrder(
		s.store.EXPECT().Read(gomock.Any(), "vault-token", "sslcerts/app01.example.com").Return(storedMeta(), true, nil),
		s.identity.EXPECT().FetchPolicies(gomock.Any(), "vault-token", model.PrincipalApprole, "app01-deployer").Return(original, true, nil),
		s.identity.EXPECT().ConfigurePolicies(gomock.Any(), "vault-token", model.PrincipalApprole, "app01-deployer", []string{"base", "r_cert_app01.example.com"}).Return(nil),
		s.store.EXPECT().Update(gomock.Any(), "vault-token", gomock.Any()).Return(model.ErrPersistence),
		s.identity.EXPECT().ConfigurePolicies(gomock.Any(), "vault-token", model.PrincipalApprole, "app01-deployer", original).Return(model.ErrPersistence),
	)

	_, err := s.manager.AssociateApprole(s.ctx, requester, binding.AssociateApproleRequest{
		CertificateName: "app01.example.com",
		Approle:         "app01-deployer",
		Level:           model.AccessRead,
	})
	s.Require().ErrorIs(err, model.ErrPersistence)
	s.Assert().Contains(err.Error(), "contact admin")
}

func (s *BindingTestSuite) TestAddPrincipalInvalidLevel() {
	requester := model.Requester{Name: "mark", Token: "vault-token"}

	_, err := s.manager.AddPrincipal(s.ctx, requester, binding.AddPrincipalRequest{
		CertificateName: "app01.example.com",
		Principal:       "alice",
		Kind:            model.PrincipalUser,
		Level:           model.AccessLevel("owner"),
	})
	s.Require().ErrorIs(err, model.ErrInvalidInput)
}
