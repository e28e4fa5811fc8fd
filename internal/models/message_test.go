package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFamily(t *testing.T) {
	tests := []struct {
		input       string
		expected    MessageFamily
		expectError bool
	}{
		{input: "camt", expected: FamilyCamt053},
		{input: "pain001", expected: FamilyPain001},
		{input: "mt940", expectError: true},
		{input: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			family, err := ParseFamily(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, family)
		})
	}
}

func TestMessageVersionNamespace(t *testing.T) {
	camt := MessageVersion{Family: FamilyCamt053, Version: "053.001.02"}
	assert.Equal(t, "urn:iso:std:iso:20022:tech:xsd:camt.053.001.02", camt.Namespace())
	assert.Equal(t, "camt.053.001.02", camt.String())

	pain := MessageVersion{Family: FamilyPain001, Version: "001.001.03"}
	assert.Equal(t, "urn:iso:std:iso:20022:tech:xsd:pain.001.001.03", pain.Namespace())
	assert.Equal(t, "pain.001.001.03", pain.String())
}
