// internal/wizard/steps.go
package wizard

import (
	"fmt"
	"strings"

	"hauler-portal/internal/models"
	"hauler-portal/internal/validate"
)

// Step is one page of the wizard: its static metadata plus the full-step
// validation rule set. Validate is nil only for the terminal confirmation
// step. Rules never look outside their own step's slice of the draft.
type Step struct {
	ID          int
	Title       string
	Description string
	Validate    func(d models.ApplicationDraft) ErrorMap
}

// Steps returns the fixed, ordered step definitions. The last entry is the
// read-only confirmation view.
func Steps() []Step {
	return []Step{
		{ID: 1, Title: "Basic Information", Description: "Personal and contact details", Validate: validateBasicInfo},
		{ID: 2, Title: "Vehicle Information", Description: "Truck details and documentation", Validate: validateVehicleInfo},
		{ID: 3, Title: "Banking Details", Description: "Payment and account information", Validate: validateBankingInfo},
		{ID: 4, Title: "Supporting Documents", Description: "Upload required documentation", Validate: validateDocuments},
		{ID: 5, Title: "Terms & Consent", Description: "Agreement and permissions", Validate: validateConsent},
		{ID: 6, Title: "Confirmation", Description: "Review and submit"},
	}
}

func validateBasicInfo(d models.ApplicationDraft) ErrorMap {
	errs := ErrorMap{}

	if strings.TrimSpace(d.FullName) == "" {
		errs.Add(Key("fullName"), "Full name is required")
	}
	if strings.TrimSpace(d.IDNumber) == "" {
		errs.Add(Key("idNumber"), "ID/Passport number is required")
	}

	switch d.EntityType {
	case models.EntityTypeIndividual:
	case models.EntityTypeBusiness:
		if strings.TrimSpace(d.BusinessName) == "" {
			errs.Add(Key("businessName"), "Business name is required")
		}
		if strings.TrimSpace(d.BeeeLevel) == "" {
			errs.Add(Key("beeeLevel"), "BEEE Level is required for business entities")
		}
		if strings.TrimSpace(d.CipcRegistration) == "" {
			errs.Add(Key("cipcRegistration"), "CIPC Registration Number is required for business entities")
		}
	default:
		errs.Add(Key("entityType"), "Entity type must be selected")
	}

	errs.AddErr(Key("mobileNumber"), validate.MobileNumber(d.MobileNumber))
	errs.AddErr(Key("email"), validate.Email(d.Email))

	if strings.TrimSpace(d.PhysicalAddress) == "" {
		errs.Add(Key("physicalAddress"), "Physical address is required")
	}
	if d.Province == "" {
		errs.Add(Key("province"), "Province is required")
	}

	return errs
}

func validateVehicleInfo(d models.ApplicationDraft) ErrorMap {
	errs := ErrorMap{}

	if len(d.Trucks) == 0 {
		errs.Add(Key("trucks"), "At least one truck is required")
		return errs
	}

	for i, truck := range d.Trucks {
		if truck.VehicleType == "" {
			errs.Add(EntityKey("truck", i, "vehicleType"),
				fmt.Sprintf("Vehicle type is required for truck %d", i+1))
		}
		if truck.LoadCapacity == "" {
			errs.Add(EntityKey("truck", i, "loadCapacity"),
				fmt.Sprintf("Load capacity is required for truck %d", i+1))
		} else if err := validate.LoadCapacity(truck.LoadCapacity); err != nil {
			errs.Add(EntityKey("truck", i, "loadCapacity"),
				fmt.Sprintf("Truck %d capacity must be between 1 and 15 tons", i+1))
		}
		if strings.TrimSpace(truck.HorseRegistration) == "" {
			errs.Add(EntityKey("truck", i, "horseRegistration"),
				fmt.Sprintf("Horse registration is required for truck %d", i+1))
		}
	}

	// Legacy flat upload path: files are optional here because the typed
	// document step owns the at-least-one rule, but any attached file is
	// still size-checked per position.
	for i, doc := range d.VehicleDocuments {
		if err := validate.FileSize(doc.FileSize); err != nil {
			errs.Add(EntityKey("vehicleDocument", i, ""),
				fmt.Sprintf("Document %d size must be less than 10MB", i+1))
		}
	}

	return errs
}

func validateBankingInfo(d models.ApplicationDraft) ErrorMap {
	errs := ErrorMap{}

	if strings.TrimSpace(d.BankName) == "" {
		errs.Add(Key("bankName"), "Bank name is required")
	}
	errs.AddErr(Key("accountHolderName"), validate.AccountHolderName(d.AccountHolderName))
	errs.AddErr(Key("accountNumber"), validate.AccountNumber(d.AccountNumber))
	if d.AccountType == "" {
		errs.Add(Key("accountType"), "Account type is required")
	}
	errs.AddErr(Key("branchCode"), validate.BranchCode(d.BranchCode))

	// Proof of bank account may arrive as a typed document instead, so it
	// is optional here and only size-checked when attached.
	if d.ProofOfBankAccount != nil {
		if err := validate.FileSize(d.ProofOfBankAccount.FileSize); err != nil {
			errs.Add(Key("proofOfBankAccount"), "File size must be less than 10MB")
		}
	}

	return errs
}

func validateDocuments(d models.ApplicationDraft) ErrorMap {
	errs := ErrorMap{}

	accepted := 0
	for i, doc := range d.Documents {
		if _, known := models.DocumentTypeLabels[doc.Type]; !known {
			errs.Add(EntityKey("document", i, "type"), "Select a document type before attaching a file")
			continue
		}
		if doc.MimeType != "" {
			if err := validate.DocumentMimeType(doc.MimeType); err != nil {
				errs.Add(EntityKey("document", i, ""), err.Error())
				continue
			}
		}
		if err := validate.FileSize(doc.FileSize); err != nil {
			errs.Add(EntityKey("document", i, ""),
				fmt.Sprintf("Document %d size must be less than 10MB", i+1))
			continue
		}
		accepted++
	}

	if accepted == 0 {
		errs.Add(Key("documents"), "At least one document is required")
	}

	return errs
}

func validateConsent(d models.ApplicationDraft) ErrorMap {
	errs := ErrorMap{}

	if !d.AcceptTerms {
		errs.Add(Key("acceptTerms"), "You must accept the terms of use to continue")
	}
	if !d.ConsentToStore {
		errs.Add(Key("consentToStore"), "You must consent to data storage to continue")
	}
	if !d.ConsentToContact {
		errs.Add(Key("consentToContact"), "You must consent to be contacted to continue")
	}

	return errs
}
