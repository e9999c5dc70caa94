package binding

import (
	"fmt"
	"strings"

	"github.com/certlane/certlane/pkg/cert_service/model"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func validateCertificateName(domainSuffix string) validation.RuleFunc {
	return func(value interface{}) error {
		name, _ := value.(string)
		if strings.ContainsAny(name, " \t") {
			return fmt.Errorf("certificate name must not contain whitespace")
		}
		if !strings.HasSuffix(name, domainSuffix) {
			return fmt.Errorf("certificate name must end with %s", domainSuffix)
		}
		return nil
	}
}

func ValidateAddPrincipalRequest(req AddPrincipalRequest, domainSuffix string) error {
	if err := validation.ValidateStruct(&req,
		validation.Field(&req.CertificateName, validation.Required, validation.By(validateCertificateName(domainSuffix))),
		validation.Field(&req.Principal, validation.Required),
		validation.Field(&req.Kind, validation.Required, validation.In(model.PrincipalUser, model.PrincipalGroup)),
		validation.Field(&req.Level, validation.Required, validation.In(model.AccessRead, model.AccessWrite, model.AccessDeny)),
	); err != nil {
		return fmt.Errorf("%s%w", err.Error(), model.ErrInvalidInput)
	}

	return nil
}

func ValidateRemovePrincipalRequest(req RemovePrincipalRequest, domainSuffix string) error {
	if err := validation.ValidateStruct(&req,
		validation.Field(&req.CertificateName, validation.Required, validation.By(validateCertificateName(domainSuffix))),
		validation.Field(&req.Principal, validation.Required),
		validation.Field(&req.Kind, validation.Required, validation.In(model.PrincipalUser, model.PrincipalGroup)),
	); err != nil {
		return fmt.Errorf("%s%w", err.Error(), model.ErrInvalidInput)
	}

	return nil
}

func ValidateAssociateApproleRequest(req AssociateApproleRequest, domainSuffix string) error {
	if err := validation.ValidateStruct(&req,
		validation.Field(&req.CertificateName, validation.Required, validation.By(validateCertificateName(domainSuffix))),
		validation.Field(&req.Approle, validation.Required),
		validation.Field(&req.Level, validation.Required, validation.In(model.AccessRead, model.AccessWrite, model.AccessDeny)),
	); err != nil {
		return fmt.Errorf("%s%w", err.Error(), model.ErrInvalidInput)
	}

	return nil
}
