package lifecycle

import (
	"fmt"
	"strings"

	"github.com/certlane/certlane/pkg/cert_service/model"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func noWhitespace(value interface{}) error {
	s, _ := value.(string)
	if strings.ContainsAny(s, " \t") {
		return fmt.Errorf("must not contain whitespace")
	}
	return nil
}

func certificateNameRule(domainSuffix string) validation.RuleFunc {
	return func(value interface{}) error {
		name, _ := value.(string)
		if err := noWhitespace(name); err != nil {
			return err
		}
		if !strings.HasSuffix(name, domainSuffix) {
			return fmt.Errorf("must end with %s", domainSuffix)
		}
		return nil
	}
}

func ValidateIssueCertificateRequest(req IssueCertificateRequest, domainSuffix string) error {
	if err := validation.ValidateStruct(&req,
		validation.Field(&req.CertificateName, validation.Required, validation.By(certificateNameRule(domainSuffix))),
		validation.Field(&req.AppName, validation.Required),
		validation.Field(&req.CertType, validation.Required, validation.In(model.CertTypeInternal, model.CertTypeExternal)),
		validation.Field(&req.OwnerEmail, validation.Required),
	); err != nil {
		return fmt.Errorf("%s%w", err.Error(), model.ErrInvalidInput)
	}

	targetSystem := req.TargetSystem
	if err := validation.ValidateStruct(&targetSystem,
		validation.Field(&targetSystem.Name, validation.Required),
		validation.Field(&targetSystem.Address, validation.Required, validation.By(noWhitespace)),
	); err != nil {
		return fmt.Errorf("%s%w", err.Error(), model.ErrInvalidInput)
	}

	service := req.TargetSystemService
	if err := validation.ValidateStruct(&service,
		validation.Field(&service.Name, validation.Required),
		validation.Field(&service.Hostname, validation.Required, validation.By(noWhitespace)),
		validation.Field(&service.Port, validation.Min(1), validation.Max(65535)),
	); err != nil {
		return fmt.Errorf("%s%w", err.Error(), model.ErrInvalidInput)
	}

	return nil
}

func ValidateRevokeCertificateRequest(req RevokeCertificateRequest, domainSuffix string) error {
	if err := validation.ValidateStruct(&req,
		validation.Field(&req.CertificateName, validation.Required, validation.By(certificateNameRule(domainSuffix))),
		validation.Field(&req.Reason, validation.Required),
	); err != nil {
		return fmt.Errorf("%s%w", err.Error(), model.ErrInvalidInput)
	}

	return nil
}
