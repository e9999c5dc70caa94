package access_test

import (
	"testing"

	"github.com/certlane/certlane/pkg/cert_service/access"
	"github.com/certlane/certlane/pkg/cert_service/model"
	"github.com/stretchr/testify/assert"
)

func TestHasBindingPermission(t *testing.T) {
	evaluator := access.NewEvaluator()

	meta := &model.CertificateMetadata{
		CertificateName: "app1.example.com",
		OwnerPrincipal:  "owner1",
		PrincipalAccess: map[string]model.AccessLevel{
			"reader1": model.AccessRead,
			"denied1": model.AccessDeny,
		},
	}

	tests := []struct {
		name      string
		requester model.Requester
		meta      *model.CertificateMetadata
		expected  bool
	}{
		{"admin always passes", model.Requester{Name: "admin1", Admin: true}, meta, true},
		{"admin with nil metadata fails", model.Requester{Name: "admin1", Admin: true}, nil, false},
		{"owner passes", model.Requester{Name: "owner1"}, meta, true},
		{"principal with read entry passes", model.Requester{Name: "reader1"}, meta, true},
		{"principal with deny entry passes", model.Requester{Name: "denied1"}, meta, true},
		{"unrelated principal fails", model.Requester{Name: "stranger1"}, meta, false},
		{"empty requester fails", model.Requester{}, meta, false},
		{"nil metadata fails", model.Requester{Name: "owner1"}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, evaluator.HasBindingPermission(tt.requester, tt.meta))
		})
	}
}
