// internal/models/application.go
package models

import "time"

// Truck is one vehicle entry in the wizard's variable-length truck list.
type Truck struct {
	ID                   string `json:"id"`
	VehicleType          string `json:"vehicleType"`
	LoadCapacity         string `json:"loadCapacity"` // e.g. "5 Tons"
	HorseRegistration    string `json:"horseRegistration"`
	Trailer1Registration string `json:"trailer1Registration,omitempty"`
	Trailer2Registration string `json:"trailer2Registration,omitempty"`
}

// DocumentRef describes an uploaded file. Content is the binary handle for
// the current session only; it is never serialized into a draft snapshot.
type DocumentRef struct {
	Type     string `json:"type"`
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
	MimeType string `json:"mimeType,omitempty"`
	Content  []byte `json:"-"`
}

// Entity types
const (
	EntityTypeIndividual = "individual"
	EntityTypeBusiness   = "business"
)

// Document type taxonomy (closed enumeration).
const (
	DocTypeIDDocument           = "id_document"
	DocTypeDriversLicense       = "drivers_license"
	DocTypeVehicleRegistration  = "vehicle_registration"
	DocTypeRoadworthyCert       = "roadworthy_certificate"
	DocTypeOperatingLicense     = "operating_license"
	DocTypeInsuranceCertificate = "insurance_certificate"
	DocTypeBankConfirmation     = "bank_confirmation"
	DocTypeOther                = "other"
)

// DocumentTypeLabels maps a document type tag to its display label.
var DocumentTypeLabels = map[string]string{
	DocTypeIDDocument:           "ID Document / Passport",
	DocTypeDriversLicense:       "Driver's License",
	DocTypeVehicleRegistration:  "Vehicle Registration",
	DocTypeRoadworthyCert:       "Roadworthy Certificate",
	DocTypeOperatingLicense:     "Operating License",
	DocTypeInsuranceCertificate: "Insurance Certificate",
	DocTypeBankConfirmation:     "Bank Confirmation Letter",
	DocTypeOther:                "Other",
}

// ApplicationDraft is the accumulated wizard payload: a superset union of
// every step's fields. Updates replace values wholesale, never mutate in place.
type ApplicationDraft struct {
	// Basic info
	FullName         string `json:"fullName"`
	IDNumber         string `json:"idNumber"`
	EntityType       string `json:"entityType"`
	BusinessName     string `json:"businessName,omitempty"`
	BeeeLevel        string `json:"beeeLevel,omitempty"`
	CipcRegistration string `json:"cipcRegistration,omitempty"`
	MobileNumber     string `json:"mobileNumber"`
	Email            string `json:"email"`
	PhysicalAddress  string `json:"physicalAddress"`
	Province         string `json:"province"`

	// Vehicle info
	Trucks           []Truck       `json:"trucks"`
	VehicleDocuments []DocumentRef `json:"vehicleDocuments,omitempty"`

	// Banking info
	BankName           string       `json:"bankName"`
	AccountHolderName  string       `json:"accountHolderName"`
	AccountNumber      string       `json:"accountNumber"`
	AccountType        string       `json:"accountType"`
	BranchCode         string       `json:"branchCode"`
	ProofOfBankAccount *DocumentRef `json:"proofOfBankAccount,omitempty"`

	// Typed document uploads
	Documents []DocumentRef `json:"documents,omitempty"`

	// Terms & consent
	AcceptTerms      bool `json:"acceptTerms"`
	ConsentToStore   bool `json:"consentToStore"`
	ConsentToContact bool `json:"consentToContact"`

	// Populated only after a successful submission.
	ApplicationNumber string `json:"applicationNumber,omitempty"`
}

// NewApplicationDraft returns the empty draft a fresh wizard starts with:
// one blank truck row, everything else zero.
func NewApplicationDraft() ApplicationDraft {
	return ApplicationDraft{
		Trucks: []Truck{{ID: "truck-1"}},
	}
}

// DraftSnapshot is the durable copy of wizard state written by the draft
// store. Attachment content is stripped before serialization; only the
// metadata in DocumentRef survives a reload.
type DraftSnapshot struct {
	Data        ApplicationDraft `json:"data"`
	CurrentStep int              `json:"currentStep"`
	Timestamp   time.Time        `json:"timestamp"`
}

// SubmissionReceipt is what the intake endpoint returns for a durably
// recorded application.
type SubmissionReceipt struct {
	ApplicationID     int    `json:"applicationId"`
	ApplicationNumber string `json:"applicationNumber"`
}
