// Package policy encodes access levels as identity-backend policy names.
// The r_/w_/d_cert_{name} scheme is shared with previously stored
// policies, so the encoding is a wire-format contract.
package policy

import (
	"fmt"
	"strings"

	"github.com/certlane/certlane/pkg/cert_service/model"
	"github.com/samber/lo"
)

const certPolicyInfix = "_cert_"

var levelPrefixes = map[model.AccessLevel]string{
	model.AccessRead:  "r",
	model.AccessWrite: "w",
	model.AccessDeny:  "d",
}

// AccessPrefix returns the one-letter prefix for an access level.
func AccessPrefix(level model.AccessLevel) (string, error) {
	prefix, ok := levelPrefixes[level]
	if !ok {
		return "", fmt.Errorf("unknown access level %q%w", level, model.ErrInvalidInput)
	}
	return prefix, nil
}

// Name builds the policy name bound to a certificate, e.g.
// "r_cert_app1.example.com".
func Name(level model.AccessLevel, certificateName string) (string, error) {
	prefix, err := AccessPrefix(level)
	if err != nil {
		return "", err
	}
	return prefix + certPolicyInfix + certificateName, nil
}

// Parse decodes a policy name back into its access level and certificate
// name. It returns false for policy names outside the certificate scheme.
func Parse(policyName string) (model.AccessLevel, string, bool) {
	prefix, rest, found := strings.Cut(policyName, certPolicyInfix)
	if !found || rest == "" {
		return "", "", false
	}
	for level, p := range levelPrefixes {
		if p == prefix {
			return level, rest, true
		}
	}
	return "", "", false
}

// With returns the policy list with the certificate's entry set to the
// given level, replacing any existing entry for the same certificate.
func With(policies []string, level model.AccessLevel, certificateName string) ([]string, error) {
	name, err := Name(level, certificateName)
	if err != nil {
		return nil, err
	}
	return append(Without(policies, certificateName), name), nil
}

// Without returns the policy list with every entry for the certificate
// removed. Policy names outside the certificate scheme are kept as-is.
func Without(policies []string, certificateName string) []string {
	return lo.Filter(policies, func(policyName string, _ int) bool {
		_, name, ok := Parse(policyName)
		return !ok || name != certificateName
	})
}

// CertificateNames lists the certificates named by a policy list.
func CertificateNames(policies []string) []string {
	return lo.FilterMap(policies, func(policyName string, _ int) (string, bool) {
		_, name, ok := Parse(policyName)
		return name, ok
	})
}

// LevelFor returns the access level a policy list grants on a
// certificate. Deny entries count as a recorded level.
func LevelFor(policies []string, certificateName string) (model.AccessLevel, bool) {
	for _, policyName := range policies {
		level, name, ok := Parse(policyName)
		if ok && name == certificateName {
			return level, true
		}
	}
	return "", false
}
