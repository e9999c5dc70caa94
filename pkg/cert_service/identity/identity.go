// Package identity is the client port for the identity backend that
// stores the policy lists of users, groups and approles.
package identity

import (
	"context"

	"github.com/certlane/certlane/pkg/cert_service/model"
)

// Backend reads and rewrites principal policy lists. Principals are
// addressed by kind and name; a missing principal is reported through
// the boolean, not an error.
type Backend interface {
	// FetchPolicies returns the principal's current policy-name list.
	FetchPolicies(ctx context.Context, token string, kind model.PrincipalKind, name string) ([]string, bool, error)
	// ConfigurePolicies replaces the principal's policy-name list.
	ConfigurePolicies(ctx context.Context, token string, kind model.PrincipalKind, name string, policies []string) error
	// AccessiblePaths lists the secret paths the principal can read,
	// used to scope list operations for non-administrative callers.
	AccessiblePaths(ctx context.Context, token, principal string) ([]string, error)
}
