package cascade

import "sync"

// Provenance records where each field of a loaded settings value came from.
type Provenance struct {
	Fields []FieldProvenance
	Local  bool // Loaded through local mode
}

// FieldProvenance describes where a field's value came from.
type FieldProvenance struct {
	FieldPath  string // Dot notation (e.g., "Database.Host")
	KeyPath    string // Key as looked up (e.g., "test.database")
	SourceName string // Provider code, or "default"
	Secret     bool   // Whether field is secret
}

// Field returns the provenance of fieldPath.
func (p *Provenance) Field(fieldPath string) (FieldProvenance, bool) {
	for _, f := range p.Fields {
		if f.FieldPath == fieldPath {
			return f, true
		}
	}
	return FieldProvenance{}, false
}

var provenanceStore sync.Map

// GetProvenance returns provenance metadata for a loaded configuration.
// Thread-safe.
func GetProvenance[T any](cfg *T) (*Provenance, bool) {
	if cfg == nil {
		return nil, false
	}

	value, ok := provenanceStore.Load(cfg)
	if !ok {
		return nil, false
	}

	prov, ok := value.(*Provenance)
	return prov, ok
}

// ForgetProvenance drops the metadata kept for cfg.
func ForgetProvenance[T any](cfg *T) {
	if cfg != nil {
		provenanceStore.Delete(cfg)
	}
}

func storeProvenance[T any](cfg *T, prov *Provenance) {
	if cfg != nil && prov != nil {
		provenanceStore.Store(cfg, prov)
	}
}
