package model

type CertStatus string
type CertType string
type AccessLevel string
type PrincipalKind string

const (
	CertStatusActive  CertStatus = "Active"
	CertStatusRevoked CertStatus = "Revoked"
	CertStatusExpired CertStatus = "Expired"

	CertTypeInternal CertType = "internal"
	CertTypeExternal CertType = "external"

	AccessRead  AccessLevel = "read"
	AccessWrite AccessLevel = "write"
	AccessDeny  AccessLevel = "deny"

	PrincipalUser    PrincipalKind = "user"
	PrincipalGroup   PrincipalKind = "group"
	PrincipalApprole PrincipalKind = "approle"
)

// CertificateMetadata is the canonical record of one managed certificate.
// It is owned by the metadata store; the orchestrator only holds transient
// working copies during an operation.
type CertificateMetadata struct {
	CertificateName   string                 `json:"certificate_name"` // Fully-qualified domain name. Globally unique key.
	AppName           string                 `json:"app_name"`
	CertType          CertType               `json:"cert_type"`
	OwnerPrincipal    string                 `json:"owner_principal"`
	OwnerEmail        string                 `json:"owner_email"`
	CreatedDate       string                 `json:"created_date"`
	ExpiryDate        string                 `json:"expiry_date"`
	CertificateID     int64                  `json:"certificate_id"` // Numeric ID assigned by the certificate manager.
	CertificateStatus CertStatus             `json:"certificate_status"`
	PrincipalAccess   map[string]AccessLevel `json:"principal_access"` // Principal name to granted access level.
}

// HasAccessEntry reports whether the principal holds any recorded access
// level for this certificate, deny included.
func (m CertificateMetadata) HasAccessEntry(principal string) bool {
	if m.PrincipalAccess == nil {
		return false
	}
	_, ok := m.PrincipalAccess[principal]
	return ok
}

// TargetSystem is the certificate manager's registration of a network
// endpoint. At most one exists per address within a group.
type TargetSystem struct {
	ID          int64  `json:"targetSystemID"`
	Name        string `json:"targetSystemName"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

// TargetSystemService is the certificate manager's registration of a
// hostname/port under a target system.
type TargetSystemService struct {
	ID             int64  `json:"targetSystemServiceId"`
	Name           string `json:"targetSystemServiceName"`
	Hostname       string `json:"hostname"`
	Port           int    `json:"port"`
	TargetSystemID int64  `json:"targetSystemId"`
	Description    string `json:"description"`
}

// CACertificate is the certificate manager's view of an issued
// certificate, as returned by its find/list operations.
type CACertificate struct {
	ID           int64  `json:"certificateId"`
	CommonName   string `json:"commonName"`
	Status       string `json:"certificateStatus"`
	CreatedDate  string `json:"NotBefore"`
	ExpiryDate   string `json:"NotAfter"`
	ContainsKey  bool   `json:"containsPrivateKey"`
	SerialNumber string `json:"serialNumber"`
}

// Requester identifies the authenticated caller of a public operation.
// Authentication itself happens upstream; this subsystem trusts the
// resolved identity as an authorization oracle result.
type Requester struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Admin bool   `json:"admin"`
	Token string `json:"token"` // Secrets-backend token of the caller.
}

// AccessBinding is a (principal, kind, level) triple bound to a certificate.
type AccessBinding struct {
	CertificateName string        `json:"certificate_name"`
	Principal       string        `json:"principal"`
	Kind            PrincipalKind `json:"kind"`
	Level           AccessLevel   `json:"level"`
}
