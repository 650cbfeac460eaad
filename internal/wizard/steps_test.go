// internal/wizard/steps_test.go
package wizard

import (
	"testing"

	"hauler-portal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validDraft returns a draft that passes every data-entry step.
func validDraft() models.ApplicationDraft {
	return models.ApplicationDraft{
		FullName:        "Thabo Mokoena",
		IDNumber:        "8001015009087",
		EntityType:      models.EntityTypeIndividual,
		MobileNumber:    "0821234567",
		Email:           "thabo@example.com",
		PhysicalAddress: "12 Main Road, Johannesburg",
		Province:        "Gauteng",
		Trucks: []models.Truck{{
			ID:                "truck-1",
			VehicleType:       "Truck (Rigid)",
			LoadCapacity:      "5 Tons",
			HorseRegistration: "ABC123GP",
		}},
		BankName:          "Standard Bank",
		AccountHolderName: "Thabo Mokoena",
		AccountNumber:     "12345678",
		AccountType:       "cheque",
		BranchCode:        "051001",
		Documents: []models.DocumentRef{{
			Type:     models.DocTypeIDDocument,
			FileName: "id.pdf",
			FileSize: 128_000,
			MimeType: "application/pdf",
		}},
		AcceptTerms:      true,
		ConsentToStore:   true,
		ConsentToContact: true,
	}
}

func TestStepsAreOrdered(t *testing.T) {
	steps := Steps()
	require.Len(t, steps, 6)
	for i, s := range steps {
		assert.Equal(t, i+1, s.ID)
	}
	// Only the confirmation step has no rule set.
	for _, s := range steps[:len(steps)-1] {
		assert.NotNil(t, s.Validate, s.Title)
	}
	assert.Nil(t, steps[len(steps)-1].Validate)
}

func TestValidateBasicInfo_AllValid(t *testing.T) {
	errs := validateBasicInfo(validDraft())
	assert.True(t, errs.Empty(), "unexpected errors: %v", errs)
}

func TestValidateBasicInfo_EachRequiredFieldMissing(t *testing.T) {
	tests := []struct {
		key   string
		strip func(d *models.ApplicationDraft)
	}{
		{"fullName", func(d *models.ApplicationDraft) { d.FullName = "" }},
		{"idNumber", func(d *models.ApplicationDraft) { d.IDNumber = "" }},
		{"entityType", func(d *models.ApplicationDraft) { d.EntityType = "" }},
		{"mobileNumber", func(d *models.ApplicationDraft) { d.MobileNumber = "" }},
		{"email", func(d *models.ApplicationDraft) { d.Email = "" }},
		{"physicalAddress", func(d *models.ApplicationDraft) { d.PhysicalAddress = "" }},
		{"province", func(d *models.ApplicationDraft) { d.Province = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			d := validDraft()
			tt.strip(&d)
			errs := validateBasicInfo(d)
			require.Len(t, errs, 1)
			assert.Contains(t, errs, tt.key)
		})
	}
}

func TestValidateBasicInfo_BusinessEntityConditionals(t *testing.T) {
	d := validDraft()
	d.EntityType = models.EntityTypeBusiness

	errs := validateBasicInfo(d)
	assert.Contains(t, errs, "businessName")
	assert.Contains(t, errs, "beeeLevel")
	assert.Contains(t, errs, "cipcRegistration")

	d.BusinessName = "Mokoena Logistics"
	d.BeeeLevel = "Level 2"
	d.CipcRegistration = "2019/123456/07"
	assert.True(t, validateBasicInfo(d).Empty())
}

func TestValidateVehicleInfo(t *testing.T) {
	d := validDraft()
	assert.True(t, validateVehicleInfo(d).Empty())

	d.Trucks = nil
	errs := validateVehicleInfo(d)
	require.Len(t, errs, 1)
	assert.Contains(t, errs, "trucks")
}

func TestValidateVehicleInfo_PerTruckCompositeKeys(t *testing.T) {
	d := validDraft()
	d.Trucks = append(d.Trucks, models.Truck{ID: "truck-2"})

	errs := validateVehicleInfo(d)
	assert.Contains(t, errs, "truck-1-vehicleType")
	assert.Contains(t, errs, "truck-1-loadCapacity")
	assert.Contains(t, errs, "truck-1-horseRegistration")
	assert.NotContains(t, errs, "truck-0-vehicleType")
}

func TestValidateVehicleInfo_CapacityRange(t *testing.T) {
	d := validDraft()
	d.Trucks[0].LoadCapacity = "16 Tons"
	assert.Contains(t, validateVehicleInfo(d), "truck-0-loadCapacity")

	d.Trucks[0].LoadCapacity = "0 Tons"
	assert.Contains(t, validateVehicleInfo(d), "truck-0-loadCapacity")

	d.Trucks[0].LoadCapacity = "15 Tons"
	assert.True(t, validateVehicleInfo(d).Empty())
}

func TestValidateVehicleInfo_OversizedLegacyDocument(t *testing.T) {
	d := validDraft()
	d.VehicleDocuments = []models.DocumentRef{
		{FileName: "ok.pdf", FileSize: 1024},
		{FileName: "big.pdf", FileSize: 11 * 1024 * 1024},
	}

	errs := validateVehicleInfo(d)
	assert.NotContains(t, errs, "vehicleDocument-0")
	assert.Contains(t, errs, "vehicleDocument-1")
}

func TestValidateBankingInfo(t *testing.T) {
	d := validDraft()
	assert.True(t, validateBankingInfo(d).Empty())

	d.AccountNumber = "1234567"
	assert.Contains(t, validateBankingInfo(d), "accountNumber")

	d = validDraft()
	d.BranchCode = "1234567"
	assert.Contains(t, validateBankingInfo(d), "branchCode")

	d = validDraft()
	d.AccountHolderName = "X"
	assert.Contains(t, validateBankingInfo(d), "accountHolderName")

	d = validDraft()
	d.ProofOfBankAccount = &models.DocumentRef{FileName: "proof.pdf", FileSize: 20 * 1024 * 1024}
	assert.Contains(t, validateBankingInfo(d), "proofOfBankAccount")
}

func TestValidateDocuments(t *testing.T) {
	d := validDraft()
	assert.True(t, validateDocuments(d).Empty())

	d.Documents = nil
	assert.Contains(t, validateDocuments(d), "documents")

	d.Documents = []models.DocumentRef{{Type: "mystery", FileName: "x.pdf", FileSize: 10}}
	errs := validateDocuments(d)
	assert.Contains(t, errs, "document-0-type")
	assert.Contains(t, errs, "documents") // nothing accepted

	d.Documents = []models.DocumentRef{{
		Type: models.DocTypeIDDocument, FileName: "x.exe", FileSize: 10, MimeType: "application/octet-stream",
	}}
	errs = validateDocuments(d)
	assert.Contains(t, errs, "document-0")

	d.Documents = []models.DocumentRef{{
		Type: models.DocTypeIDDocument, FileName: "x.pdf", FileSize: 64 * 1024 * 1024, MimeType: "application/pdf",
	}}
	assert.Contains(t, validateDocuments(d), "document-0")
}

func TestValidateConsent(t *testing.T) {
	d := validDraft()
	assert.True(t, validateConsent(d).Empty())

	d.AcceptTerms = false
	d.ConsentToStore = false
	d.ConsentToContact = false
	errs := validateConsent(d)
	assert.Len(t, errs, 3)
	assert.Contains(t, errs, "acceptTerms")
	assert.Contains(t, errs, "consentToStore")
	assert.Contains(t, errs, "consentToContact")
}

// Validating every data-entry step of a fully valid draft yields empty
// error maps across the board.
func TestAllStepsCleanForValidDraft(t *testing.T) {
	d := validDraft()
	for _, s := range Steps() {
		if s.Validate == nil {
			continue
		}
		assert.True(t, s.Validate(d).Empty(), "step %d (%s)", s.ID, s.Title)
	}
}
