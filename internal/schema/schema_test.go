package schema

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankstmt/iso20022/internal/logging"
	"bankstmt/iso20022/internal/models"
	"bankstmt/iso20022/internal/parsererror"
)

func TestResolveNamespace(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		want    models.MessageVersion
		wantErr bool
	}{
		{
			name: "camt.053 namespace",
			uri:  "urn:iso:std:iso:20022:tech:xsd:camt.053.001.02",
			want: models.MessageVersion{Family: models.FamilyCamt053, Version: "053.001.02"},
		},
		{
			name: "pain.001 namespace",
			uri:  "urn:iso:std:iso:20022:tech:xsd:pain.001.001.03",
			want: models.MessageVersion{Family: models.FamilyPain001, Version: "001.001.03"},
		},
		{
			name: "unlisted version still resolves to a family",
			uri:  "urn:iso:std:iso:20022:tech:xsd:camt.053.001.09",
			want: models.MessageVersion{Family: models.FamilyCamt053, Version: "053.001.09"},
		},
		{
			name:    "non-ISO namespace",
			uri:     "http://example.com/statements",
			wantErr: true,
		},
		{
			name:    "unknown message family",
			uri:     "urn:iso:std:iso:20022:tech:xsd:pacs.008.001.02",
			wantErr: true,
		},
		{
			name:    "empty namespace",
			uri:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveNamespace(tt.uri)
			if tt.wantErr {
				var nsErr *parsererror.UnrecognizedNamespaceError
				require.ErrorAs(t, err, &nsErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistryResolvesBundledSchemas(t *testing.T) {
	registry := NewRegistry(logging.NewMockLogger())

	for _, version := range SupportedVersions() {
		compiled, err := registry.Resolve(version)
		require.NoError(t, err, "schema for %s should compile", version)
		assert.Equal(t, version.Namespace(), compiled.TargetNamespace)
		assert.Equal(t, "Document", compiled.Root.Name)
		require.NotNil(t, compiled.Root.Complex)
	}
}

func TestRegistryRejectsUnsupportedVersion(t *testing.T) {
	registry := NewRegistry(logging.NewMockLogger())

	_, err := registry.Resolve(models.MessageVersion{Family: models.FamilyCamt053, Version: "053.001.09"})
	var verErr *parsererror.UnsupportedVersionError
	require.ErrorAs(t, err, &verErr)
	assert.Equal(t, models.FamilyCamt053, verErr.Family)
	assert.Equal(t, "053.001.09", verErr.Version)
}

func TestRegistryCachesCompiledSchema(t *testing.T) {
	registry := NewRegistry(logging.NewMockLogger())
	version := models.MessageVersion{Family: models.FamilyCamt053, Version: "053.001.02"}

	first, err := registry.Resolve(version)
	require.NoError(t, err)
	second, err := registry.Resolve(version)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestRegistryConcurrentResolve(t *testing.T) {
	registry := NewRegistry(logging.NewMockLogger())
	version := models.MessageVersion{Family: models.FamilyPain001, Version: "001.001.03"}

	var wg sync.WaitGroup
	results := make([]*CompiledSchema, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			compiled, err := registry.Resolve(version)
			assert.NoError(t, err)
			results[i] = compiled
		}(i)
	}
	wg.Wait()

	for _, compiled := range results[1:] {
		assert.Same(t, results[0], compiled)
	}
}

func TestCompileSimpleTypeFacets(t *testing.T) {
	data := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
           targetNamespace="urn:test" elementFormDefault="qualified">
  <xs:element name="Doc" type="DocType"/>
  <xs:complexType name="DocType">
    <xs:sequence>
      <xs:element name="Ref" type="RefText"/>
      <xs:element name="Amt" type="Amount" minOccurs="0" maxOccurs="unbounded"/>
    </xs:sequence>
  </xs:complexType>
  <xs:simpleType name="RefText">
    <xs:restriction base="xs:string">
      <xs:minLength value="1"/>
      <xs:maxLength value="35"/>
    </xs:restriction>
  </xs:simpleType>
  <xs:simpleType name="Amount">
    <xs:restriction base="xs:decimal">
      <xs:fractionDigits value="5"/>
      <xs:totalDigits value="18"/>
      <xs:minInclusive value="0"/>
    </xs:restriction>
  </xs:simpleType>
</xs:schema>`)

	compiled, err := Compile(data)
	require.NoError(t, err)
	assert.Equal(t, "urn:test", compiled.TargetNamespace)

	doc := compiled.Root.Complex
	require.NotNil(t, doc)
	require.Len(t, doc.Children, 2)

	ref := doc.Children[0]
	assert.Equal(t, 1, ref.MinOccurs)
	assert.Equal(t, 1, ref.MaxOccurs)
	require.NotNil(t, ref.Simple)
	assert.Equal(t, BaseString, ref.Simple.Base)
	assert.Equal(t, 1, ref.Simple.MinLength)
	assert.Equal(t, 35, ref.Simple.MaxLength)

	amt := doc.Children[1]
	assert.Equal(t, 0, amt.MinOccurs)
	assert.Equal(t, -1, amt.MaxOccurs)
	require.NotNil(t, amt.Simple)
	assert.Equal(t, BaseDecimal, amt.Simple.Base)
	assert.Equal(t, 5, amt.Simple.FractionDigits)
	assert.Equal(t, 18, amt.Simple.TotalDigits)
	require.NotNil(t, amt.Simple.MinInclusive)
	assert.True(t, amt.Simple.MinInclusive.IsZero())
}

func TestCompileRejectsUnknownTypeReference(t *testing.T) {
	data := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="urn:test">
  <xs:element name="Doc" type="Missing"/>
</xs:schema>`)

	_, err := Compile(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown type Missing")
}
