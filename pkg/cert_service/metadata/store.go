// Package metadata is the client port for the secrets backend holding
// canonical certificate metadata under path-addressed keys.
package metadata

import (
	"context"

	"github.com/certlane/certlane/pkg/cert_service/model"
)

const (
	// DataPathPrefix addresses certificate metadata documents.
	DataPathPrefix = "sslcerts/"
	// ListPathPrefix is the parallel namespace used for listing.
	ListPathPrefix = "metadata/sslcerts/"
)

// DataPath returns the metadata document path of a certificate.
func DataPath(certificateName string) string {
	return DataPathPrefix + certificateName
}

// Store reads and writes certificate metadata in the secrets backend.
// All calls carry the caller's backend token.
type Store interface {
	// Read loads the metadata at path. The boolean reports presence.
	Read(ctx context.Context, token, path string) (model.CertificateMetadata, bool, error)
	// Write stores metadata at path, replacing any existing document.
	Write(ctx context.Context, token, path string, meta model.CertificateMetadata) error
	// Update rewrites the metadata document of meta's certificate.
	Update(ctx context.Context, token string, meta model.CertificateMetadata) error
	// List returns the certificate names under the listing namespace.
	List(ctx context.Context, token string) ([]string, error)
}
