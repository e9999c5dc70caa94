package lifecycle

import (
	"context"
	"fmt"

	"github.com/certlane/certlane/pkg/cert_service/metadata"
	"github.com/certlane/certlane/pkg/cert_service/model"
	"github.com/certlane/certlane/pkg/cert_service/nclm"
)

type DownloadRequest struct {
	CertificateName   string `json:"certificate_name"`
	Format            string `json:"format"`
	IncludePrivateKey bool   `json:"include_private_key"`
}

type Download struct {
	Filename    string
	ContentType string
	Content     []byte
}

// FormatDisposition maps a requested download format to the response
// filename and content type. Unrecognized formats fall back to the
// default PKCS#12 bundle.
func FormatDisposition(certificateName, format string) (string, string) {
	switch format {
	case "pembundle":
		return certificateName + ".pem", "application/x-pkcs12"
	case "pem":
		return certificateName, "application/x-pem-file"
	case "der":
		return certificateName, "application/pkix-cert"
	case "pkcs12pem", "default", "":
		return certificateName + ".pfx", "application/x-pkcs12"
	default:
		return certificateName + ".pfx", "application/x-pkcs12"
	}
}

func (s *_Service) DownloadCertificate(ctx context.Context, requester model.Requester, req DownloadRequest) (Download, error) {
	meta, found, err := s.store.Read(ctx, requester.Token, metadata.DataPath(req.CertificateName))
	if err != nil {
		return Download{}, err
	}

	var metaRef *model.CertificateMetadata
	if found {
		metaRef = &meta
	}
	if !s.evaluator.HasBindingPermission(requester, metaRef) {
		return Download{}, fmt.Errorf("requester %s may not download %s%w", requester.Name, req.CertificateName, model.ErrForbidden)
	}

	token, err := s.ca.Login(ctx)
	if err != nil {
		return Download{}, err
	}

	content, err := s.ca.Download(ctx, token, nclm.DownloadRequest{
		CertificateID:     meta.CertificateID,
		Format:            req.Format,
		IncludePrivateKey: req.IncludePrivateKey,
	})
	if err != nil {
		return Download{}, err
	}

	filename, contentType := FormatDisposition(req.CertificateName, req.Format)
	return Download{
		Filename:    filename,
		ContentType: contentType,
		Content:     content,
	}, nil
}
