// internal/models/admin.go
package models

// Application statuses as stored in hauler_applications.status.
const (
	StatusPending           = "pending"
	StatusUnderReview       = "under_review"
	StatusApproved          = "approved"
	StatusRejected          = "rejected"
	StatusRequiresDocuments = "requires_documents"
)

// ValidStatuses lists every status the admin surface may set.
var ValidStatuses = []string{
	StatusPending,
	StatusUnderReview,
	StatusApproved,
	StatusRejected,
	StatusRequiresDocuments,
}

// HaulerApplication is the stored application record consumed by the admin
// review surface.
type HaulerApplication struct {
	ID                int    `json:"id"`
	ApplicationNumber string `json:"applicationNumber"`
	FullName          string `json:"fullName"`
	IDNumber          string `json:"idNumber"`
	EntityType        string `json:"entityType"`
	BusinessName      string `json:"businessName,omitempty"`
	BeeeLevel         string `json:"beeeLevel,omitempty"`
	CipcRegistration  string `json:"cipcRegistration,omitempty"`
	MobileNumber      string `json:"mobileNumber"`
	Email             string `json:"email"`
	PhysicalAddress   string `json:"physicalAddress"`
	Province          string `json:"province"`
	BankName          string `json:"bankName"`
	AccountHolderName string `json:"accountHolderName"`
	AccountNumber     string `json:"accountNumber"`
	AccountType       string `json:"accountType"`
	BranchCode        string `json:"branchCode"`
	AcceptTerms       bool   `json:"acceptTerms"`
	ConsentToStore    bool   `json:"consentToStore"`
	ConsentToContact  bool   `json:"consentToContact"`
	Status            string `json:"status"`
	CreatedAt         string `json:"createdAt"`
	UpdatedAt         string `json:"updatedAt"`
}

// HaulerTruck is one stored truck row, 1-indexed by TruckNumber.
type HaulerTruck struct {
	ID                   int    `json:"id"`
	ApplicationID        int    `json:"applicationId"`
	TruckNumber          int    `json:"truckNumber"`
	VehicleType          string `json:"vehicleType"`
	LoadCapacity         string `json:"loadCapacity"`
	HorseRegistration    string `json:"horseRegistration"`
	Trailer1Registration string `json:"trailer1Registration,omitempty"`
	Trailer2Registration string `json:"trailer2Registration,omitempty"`
}

// HaulerDocument is stored document metadata; file content lives elsewhere.
type HaulerDocument struct {
	ID            int    `json:"id"`
	ApplicationID int    `json:"applicationId"`
	DocumentType  string `json:"documentType"`
	FileName      string `json:"fileName"`
	FileSize      int64  `json:"fileSize"`
	UploadedAt    string `json:"uploadedAt"`
}

// StatusChange is one entry in an application's review history.
type StatusChange struct {
	ID            int    `json:"id"`
	ApplicationID int    `json:"applicationId"`
	Status        string `json:"status"`
	Notes         string `json:"notes,omitempty"`
	ChangedAt     string `json:"changedAt"`
}

// ApplicationDetail bundles an application with its trucks, documents and
// review history for the admin detail view.
type ApplicationDetail struct {
	Application HaulerApplication `json:"application"`
	Trucks      []HaulerTruck     `json:"trucks"`
	Documents   []HaulerDocument  `json:"documents"`
	History     []StatusChange    `json:"history"`
}

// DashboardStats is the admin dashboard counters payload.
type DashboardStats struct {
	Total             int `json:"total"`
	Pending           int `json:"pending"`
	UnderReview       int `json:"underReview"`
	Approved          int `json:"approved"`
	Rejected          int `json:"rejected"`
	RequiresDocuments int `json:"requiresDocuments"`
}
