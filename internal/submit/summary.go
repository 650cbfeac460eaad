// internal/submit/summary.go
package submit

import (
	"fmt"
	"strings"
	"time"

	"hauler-portal/internal/models"
)

// Summary renders the plain-text application digest sent to the
// operations inbox and attached to relay submissions. One block per
// truck, business fields only for business entities.
func Summary(draft models.ApplicationDraft) string {
	var b strings.Builder

	b.WriteString("HAULER ONBOARDING APPLICATION\n")
	b.WriteString("=============================\n\n")

	b.WriteString("APPLICANT INFORMATION:\n")
	fmt.Fprintf(&b, "- Full Name: %s\n", draft.FullName)
	fmt.Fprintf(&b, "- ID/Passport: %s\n", draft.IDNumber)
	fmt.Fprintf(&b, "- Entity Type: %s\n", draft.EntityType)
	if draft.EntityType == models.EntityTypeBusiness {
		fmt.Fprintf(&b, "- Business Name: %s\n", draft.BusinessName)
		fmt.Fprintf(&b, "- BEEE Level: %s\n", draft.BeeeLevel)
		fmt.Fprintf(&b, "- CIPC Registration: %s\n", draft.CipcRegistration)
	}
	fmt.Fprintf(&b, "- Mobile: %s\n", draft.MobileNumber)
	fmt.Fprintf(&b, "- Email: %s\n", draft.Email)
	fmt.Fprintf(&b, "- Address: %s\n", draft.PhysicalAddress)
	fmt.Fprintf(&b, "- Province: %s\n", draft.Province)

	b.WriteString("\nVEHICLE INFORMATION:\n")
	for i, truck := range draft.Trucks {
		fmt.Fprintf(&b, "\nTruck %d:\n", i+1)
		fmt.Fprintf(&b, "- Vehicle Type: %s\n", truck.VehicleType)
		fmt.Fprintf(&b, "- Load Capacity: %s\n", truck.LoadCapacity)
		fmt.Fprintf(&b, "- Horse Registration: %s\n", truck.HorseRegistration)
		if truck.Trailer1Registration != "" {
			fmt.Fprintf(&b, "- Trailer 1 Registration: %s\n", truck.Trailer1Registration)
		}
		if truck.Trailer2Registration != "" {
			fmt.Fprintf(&b, "- Trailer 2 Registration: %s\n", truck.Trailer2Registration)
		}
	}

	b.WriteString("\nBANKING INFORMATION:\n")
	fmt.Fprintf(&b, "- Bank Name: %s\n", draft.BankName)
	fmt.Fprintf(&b, "- Account Holder: %s\n", draft.AccountHolderName)
	fmt.Fprintf(&b, "- Account Number: %s\n", draft.AccountNumber)
	fmt.Fprintf(&b, "- Account Type: %s\n", draft.AccountType)
	fmt.Fprintf(&b, "- Branch Code: %s\n", draft.BranchCode)

	b.WriteString("\nCONSENT & TERMS:\n")
	fmt.Fprintf(&b, "- Terms Accepted: %s\n", yesNo(draft.AcceptTerms))
	fmt.Fprintf(&b, "- Data Storage Consent: %s\n", yesNo(draft.ConsentToStore))
	fmt.Fprintf(&b, "- Contact Consent: %s\n", yesNo(draft.ConsentToContact))

	b.WriteString("\nDOCUMENTS ATTACHED:\n")
	fmt.Fprintf(&b, "- Supporting Documents: %d files\n", len(draft.Documents))
	fmt.Fprintf(&b, "- Vehicle Documents: %d files\n", len(draft.VehicleDocuments))
	if draft.ProofOfBankAccount != nil {
		b.WriteString("- Banking Document: 1 file\n")
	} else {
		b.WriteString("- Banking Document: None\n")
	}

	fmt.Fprintf(&b, "\nApplication submitted on: %s\n", time.Now().UTC().Format(time.RFC1123))

	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
