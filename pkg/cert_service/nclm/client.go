// Package nclm is the client port for the external certificate manager.
// The manager owns all X.509 handling; this package only moves opaque
// request/response payloads.
package nclm

import (
	"context"
	"encoding/json"

	"github.com/certlane/certlane/pkg/cert_service/model"
)

// EnrollLeg names one leg of the enrollment policy chain. Each leg is a
// get-then-put pair against the certificate manager.
type EnrollLeg string

const (
	EnrollLegCA        EnrollLeg = "ca"
	EnrollLegTemplates EnrollLeg = "templates"
	EnrollLegKeys      EnrollLeg = "keys"
	EnrollLegCSR       EnrollLeg = "csr"
)

// EnrollLegs is the fixed order the enrollment chain must run in.
var EnrollLegs = []EnrollLeg{EnrollLegCA, EnrollLegTemplates, EnrollLegKeys, EnrollLegCSR}

type CreateTargetSystemRequest struct {
	Name        string `json:"targetSystemName"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

type CreateTargetSystemServiceRequest struct {
	Name           string `json:"targetSystemServiceName"`
	Hostname       string `json:"hostname"`
	Port           int    `json:"port"`
	TargetSystemID int64  `json:"targetSystemId"`
	Description    string `json:"description"`
}

type EnrollRequest struct {
	CommonName            string `json:"commonName"`
	TargetSystemServiceID int64  `json:"targetSystemServiceId"`
	CertType              string `json:"certType"`
}

type DownloadRequest struct {
	CertificateID     int64  `json:"certificateId"`
	Format            string `json:"format"`
	IncludePrivateKey bool   `json:"includePrivateKey"`
}

// Client is the set of certificate-manager operations this service
// depends on. Every call carries the session token from Login; a failed
// call surfaces the manager's own status through model.UpstreamError.
type Client interface {
	Login(ctx context.Context) (string, error)

	FindTargetSystem(ctx context.Context, token, address string) (model.TargetSystem, bool, error)
	CreateTargetSystem(ctx context.Context, token string, req CreateTargetSystemRequest) (model.TargetSystem, error)
	FindTargetSystemService(ctx context.Context, token, hostname string, targetSystemID int64) (model.TargetSystemService, bool, error)
	CreateTargetSystemService(ctx context.Context, token string, req CreateTargetSystemServiceRequest) (model.TargetSystemService, error)

	GetEnrollOption(ctx context.Context, token string, leg EnrollLeg, serviceID int64) (json.RawMessage, error)
	PutEnrollOption(ctx context.Context, token string, leg EnrollLeg, serviceID int64, value json.RawMessage) error
	Enroll(ctx context.Context, token string, req EnrollRequest) error

	FindCertificate(ctx context.Context, token, commonName string) (model.CACertificate, bool, error)
	RenewCertificate(ctx context.Context, token string, certificateID int64) error
	RevokeCertificate(ctx context.Context, token string, certificateID int64, reason string) error
	RevocationReasons(ctx context.Context, token string, certificateID int64) ([]string, error)

	ListTargetSystems(ctx context.Context, token string) ([]model.TargetSystem, error)
	ListTargetSystemServices(ctx context.Context, token string, targetSystemID int64) ([]model.TargetSystemService, error)
	ListCertificates(ctx context.Context, token string) ([]model.CACertificate, error)

	Download(ctx context.Context, token string, req DownloadRequest) ([]byte, error)
}
