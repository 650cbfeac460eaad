// internal/wizard/key_test.go
package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldKeyString(t *testing.T) {
	assert.Equal(t, "email", Key("email").String())
	assert.Equal(t, "truck-0-vehicleType", EntityKey("truck", 0, "vehicleType").String())
	assert.Equal(t, "vehicleDocument-3", EntityKey("vehicleDocument", 3, "").String())
}

func TestParseFieldKey(t *testing.T) {
	assert.Equal(t, FieldKey{Field: "email"}, ParseFieldKey("email"))
	assert.Equal(t, FieldKey{Entity: "truck", Index: 2, Field: "loadCapacity"}, ParseFieldKey("truck-2-loadCapacity"))
	assert.Equal(t, FieldKey{Entity: "document", Index: 0}, ParseFieldKey("document-0"))

	// Hyphenated plain names are not entity keys.
	assert.Equal(t, FieldKey{Field: "proof-of-account"}, ParseFieldKey("proof-of-account"))
}

func TestParseFieldKeyRoundTrip(t *testing.T) {
	for _, s := range []string{"fullName", "truck-0-horseRegistration", "document-5", "vehicleDocument-1"} {
		assert.Equal(t, s, ParseFieldKey(s).String())
	}
}

func TestErrorMapAdd(t *testing.T) {
	errs := ErrorMap{}
	errs.Add(Key("email"), "Invalid email format")
	errs.AddErr(Key("branchCode"), nil)

	assert.Len(t, errs, 1)
	assert.Equal(t, "Invalid email format", errs["email"])
	assert.False(t, errs.Empty())
	assert.True(t, ErrorMap{}.Empty())
}
