// Package access decides whether a requester may mutate a certificate's
// access bindings.
package access

import (
	"github.com/certlane/certlane/pkg/cert_service/model"
)

type Evaluator interface {
	// HasBindingPermission reports whether the requester may mutate the
	// certificate's bindings. Administrative requesters always pass when
	// metadata is resolvable. Others pass only when they own the
	// certificate or already hold a recorded access entry for it, deny
	// included.
	HasBindingPermission(requester model.Requester, meta *model.CertificateMetadata) bool
}

type _Evaluator struct{}

func NewEvaluator() Evaluator {
	return &_Evaluator{}
}

func (e *_Evaluator) HasBindingPermission(requester model.Requester, meta *model.CertificateMetadata) bool {
	if meta == nil || requester.Name == "" {
		return false
	}
	if requester.Admin {
		return true
	}
	if requester.Name == meta.OwnerPrincipal {
		return true
	}
	return meta.HasAccessEntry(requester.Name)
}
