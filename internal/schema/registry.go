package schema

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"bankstmt/iso20022/internal/logging"
	"bankstmt/iso20022/internal/models"
	"bankstmt/iso20022/internal/parsererror"
)

//go:embed xsd/*.xsd
var xsdFiles embed.FS

// namespacePrefix is the fixed prefix of every ISO 20022 message namespace.
const namespacePrefix = "urn:iso:std:iso:20022:tech:xsd:"

// bundled maps the supported message versions to their embedded XSD resource.
var bundled = map[models.MessageVersion]string{
	{Family: models.FamilyCamt053, Version: "053.001.02"}: "xsd/camt.053.001.02.xsd",
	{Family: models.FamilyPain001, Version: "001.001.03"}: "xsd/pain.001.001.03.xsd",
}

// ResolveNamespace maps an ISO 20022 namespace URI to a message version.
// It returns UnrecognizedNamespaceError when the URI does not identify a
// known message family. The version is not checked against the bundled
// schemas here; Registry.Resolve rejects unsupported versions.
func ResolveNamespace(uri string) (models.MessageVersion, error) {
	ident, ok := strings.CutPrefix(uri, namespacePrefix)
	if !ok {
		return models.MessageVersion{}, &parsererror.UnrecognizedNamespaceError{Namespace: uri}
	}
	for _, family := range []models.MessageFamily{models.FamilyCamt053, models.FamilyPain001} {
		if version, ok := strings.CutPrefix(ident, family.Prefix()+"."); ok {
			return models.MessageVersion{Family: family, Version: version}, nil
		}
	}
	return models.MessageVersion{}, &parsererror.UnrecognizedNamespaceError{Namespace: uri}
}

// SupportedVersions lists the message versions with a bundled schema,
// ordered by identifier.
func SupportedVersions() []models.MessageVersion {
	versions := make([]models.MessageVersion, 0, len(bundled))
	for v := range bundled {
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool {
		return versions[i].String() < versions[j].String()
	})
	return versions
}

// Registry compiles bundled XSD resources on demand and caches the result.
// Each schema is compiled at most once; concurrent Resolve calls for the
// same version share the cached CompiledSchema.
type Registry struct {
	mu     sync.Mutex
	cache  map[models.MessageVersion]*CompiledSchema
	logger logging.Logger
}

// NewRegistry creates a schema registry with an empty cache.
func NewRegistry(logger logging.Logger) *Registry {
	return &Registry{
		cache:  make(map[models.MessageVersion]*CompiledSchema),
		logger: logger,
	}
}

// Resolve returns the compiled schema for a message version, compiling the
// bundled XSD on first use. Versions without a bundled schema yield
// UnsupportedVersionError.
func (r *Registry) Resolve(version models.MessageVersion) (*CompiledSchema, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if compiled, ok := r.cache[version]; ok {
		return compiled, nil
	}
	path, ok := bundled[version]
	if !ok {
		return nil, &parsererror.UnsupportedVersionError{Family: version.Family, Version: version.Version}
	}
	data, err := xsdFiles.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundled schema %s: %w", path, err)
	}
	compiled, err := Compile(data)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %s: %w", version, err)
	}
	r.cache[version] = compiled
	r.logger.Debug("compiled schema", logging.Field{Key: "version", Value: version.String()})
	return compiled, nil
}
