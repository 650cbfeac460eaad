// internal/wizard/patch.go
package wizard

import (
	"strings"

	"hauler-portal/internal/models"
)

// DraftPatch is a partial update to the accumulated draft. Nil fields are
// untouched; non-nil fields replace the draft's value wholesale. Decoding a
// JSON body into a DraftPatch leaves absent fields nil, so only the keys
// the user actually edited are merged and have their errors cleared.
type DraftPatch struct {
	FullName         *string `json:"fullName,omitempty"`
	IDNumber         *string `json:"idNumber,omitempty"`
	EntityType       *string `json:"entityType,omitempty"`
	BusinessName     *string `json:"businessName,omitempty"`
	BeeeLevel        *string `json:"beeeLevel,omitempty"`
	CipcRegistration *string `json:"cipcRegistration,omitempty"`
	MobileNumber     *string `json:"mobileNumber,omitempty"`
	Email            *string `json:"email,omitempty"`
	PhysicalAddress  *string `json:"physicalAddress,omitempty"`
	Province         *string `json:"province,omitempty"`

	Trucks           *[]models.Truck       `json:"trucks,omitempty"`
	VehicleDocuments *[]models.DocumentRef `json:"vehicleDocuments,omitempty"`

	BankName           *string             `json:"bankName,omitempty"`
	AccountHolderName  *string             `json:"accountHolderName,omitempty"`
	AccountNumber      *string             `json:"accountNumber,omitempty"`
	AccountType        *string             `json:"accountType,omitempty"`
	BranchCode         *string             `json:"branchCode,omitempty"`
	ProofOfBankAccount *models.DocumentRef `json:"proofOfBankAccount,omitempty"`

	Documents *[]models.DocumentRef `json:"documents,omitempty"`

	AcceptTerms      *bool `json:"acceptTerms,omitempty"`
	ConsentToStore   *bool `json:"consentToStore,omitempty"`
	ConsentToContact *bool `json:"consentToContact,omitempty"`
}

// apply merges the patch over d and returns the wire-form keys that were
// touched. Replacing a repeated sub-entity list reports the collection key
// plus a per-instance prefix so every stale composite-keyed error clears.
func (p *DraftPatch) apply(d *models.ApplicationDraft) []string {
	var touched []string

	setStr := func(dst *string, src *string, key string) {
		if src != nil {
			*dst = *src
			touched = append(touched, key)
		}
	}
	setBool := func(dst *bool, src *bool, key string) {
		if src != nil {
			*dst = *src
			touched = append(touched, key)
		}
	}

	setStr(&d.FullName, p.FullName, "fullName")
	setStr(&d.IDNumber, p.IDNumber, "idNumber")
	setStr(&d.EntityType, p.EntityType, "entityType")
	setStr(&d.BusinessName, p.BusinessName, "businessName")
	setStr(&d.BeeeLevel, p.BeeeLevel, "beeeLevel")
	setStr(&d.CipcRegistration, p.CipcRegistration, "cipcRegistration")
	setStr(&d.MobileNumber, p.MobileNumber, "mobileNumber")
	setStr(&d.Email, p.Email, "email")
	setStr(&d.PhysicalAddress, p.PhysicalAddress, "physicalAddress")
	setStr(&d.Province, p.Province, "province")
	setStr(&d.BankName, p.BankName, "bankName")
	setStr(&d.AccountHolderName, p.AccountHolderName, "accountHolderName")
	setStr(&d.AccountNumber, p.AccountNumber, "accountNumber")
	setStr(&d.AccountType, p.AccountType, "accountType")
	setStr(&d.BranchCode, p.BranchCode, "branchCode")

	if p.Trucks != nil {
		d.Trucks = append([]models.Truck(nil), (*p.Trucks)...)
		touched = append(touched, "trucks", "truck-")
	}
	if p.VehicleDocuments != nil {
		d.VehicleDocuments = append([]models.DocumentRef(nil), (*p.VehicleDocuments)...)
		touched = append(touched, "vehicleDocuments", "vehicleDocument-")
	}
	if p.ProofOfBankAccount != nil {
		doc := *p.ProofOfBankAccount
		d.ProofOfBankAccount = &doc
		touched = append(touched, "proofOfBankAccount")
	}
	if p.Documents != nil {
		d.Documents = append([]models.DocumentRef(nil), (*p.Documents)...)
		touched = append(touched, "documents", "document-")
	}

	setBool(&d.AcceptTerms, p.AcceptTerms, "acceptTerms")
	setBool(&d.ConsentToStore, p.ConsentToStore, "consentToStore")
	setBool(&d.ConsentToContact, p.ConsentToContact, "consentToContact")

	return touched
}

// clearErrors removes error entries for exactly the touched keys. A key
// ending in "-" is a prefix wildcard covering per-instance composite keys.
func clearErrors(errs ErrorMap, touched []string) {
	for _, key := range touched {
		if strings.HasSuffix(key, "-") {
			for existing := range errs {
				if strings.HasPrefix(existing, key) {
					delete(errs, existing)
				}
			}
			continue
		}
		delete(errs, key)
	}
}
