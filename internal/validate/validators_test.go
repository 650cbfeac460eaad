// internal/validate/validators_test.go
package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMobileNumber(t *testing.T) {
	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{"international prefix", "+27821234567", true},
		{"leading zero", "0821234567", true},
		{"spaces stripped", "+27 82 123 4567", true},
		{"leading 6", "0612345678", true},
		{"leading 7", "0712345678", true},
		{"invalid leading digit 9", "0921234567", false},
		{"too short", "08212345", false},
		{"too long", "08212345678", false},
		{"empty", "", false},
		{"letters", "08212345ab", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MobileNumber(tt.value)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestEmail(t *testing.T) {
	assert.NoError(t, Email("driver@example.com"))
	assert.NoError(t, Email("a.b+c@mail.co.za"))
	assert.Error(t, Email(""))
	assert.Error(t, Email("not-an-email"))
	assert.Error(t, Email("missing@tld"))
	assert.Error(t, Email("has space@example.com"))
}

func TestAccountNumber(t *testing.T) {
	assert.NoError(t, AccountNumber("12345678"))      // 8 digits, lower bound
	assert.NoError(t, AccountNumber("1234567890123")) // 13 digits, upper bound
	assert.Error(t, AccountNumber("1234567"))         // 7 digits
	assert.Error(t, AccountNumber("12345678901234"))  // 14 digits
	assert.Error(t, AccountNumber("12345abc"))
	assert.Error(t, AccountNumber(""))
}

func TestBranchCode(t *testing.T) {
	assert.NoError(t, BranchCode("632005"))
	assert.Error(t, BranchCode("63200"))
	assert.Error(t, BranchCode("6320055"))
	assert.Error(t, BranchCode("63200a"))
	assert.Error(t, BranchCode(""))
}

func TestAccountHolderName(t *testing.T) {
	assert.NoError(t, AccountHolderName("Jo"))
	assert.Error(t, AccountHolderName("J"))
	assert.Error(t, AccountHolderName("J "))
	assert.Error(t, AccountHolderName(" J "))
	assert.Error(t, AccountHolderName(""))
	assert.Error(t, AccountHolderName("   "))
}

func TestLoadCapacity(t *testing.T) {
	assert.NoError(t, LoadCapacity("1 Ton"))
	assert.NoError(t, LoadCapacity("5 Tons"))
	assert.NoError(t, LoadCapacity("15 Tons"))
	assert.Error(t, LoadCapacity("16 Tons"))
	assert.Error(t, LoadCapacity("0 Tons"))
	assert.Error(t, LoadCapacity(""))
	assert.Error(t, LoadCapacity("heavy"))

	// Whitespace-only input must come back as a reason, not a panic.
	assert.NotPanics(t, func() {
		assert.Error(t, LoadCapacity("   "))
		assert.Error(t, LoadCapacity(" \t "))
	})
}

func TestFileSize(t *testing.T) {
	assert.NoError(t, FileSize(1024))
	assert.NoError(t, FileSize(10*1024*1024)) // exactly at the limit
	assert.Error(t, FileSize(10*1024*1024+1))
}

func TestDocumentMimeType(t *testing.T) {
	assert.NoError(t, DocumentMimeType("application/pdf"))
	assert.NoError(t, DocumentMimeType("image/jpeg"))
	assert.NoError(t, DocumentMimeType("image/png"))
	assert.NoError(t, DocumentMimeType("image/webp"))
	assert.NoError(t, DocumentMimeType("IMAGE/PNG"))
	assert.Error(t, DocumentMimeType("application/zip"))
	assert.Error(t, DocumentMimeType("text/html"))
	assert.Error(t, DocumentMimeType(""))
}
