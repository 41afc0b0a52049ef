package rfp

import (
	"strings"

	"github.com/arjun/tender-agent/internal/types"
)

// certificationVocabulary lists the compliance standards detected in
// specification text. Matching is case-insensitive substring containment.
var certificationVocabulary = []string{
	"ISO 9001",
	"ISO 14001",
	"ISO 45001",
	"BIS",
	"CE",
	"IEC",
	"ROHS",
	"ISI",
	"NABL",
}

// DetectCertifications scans spec strings for known certification names.
// Duplicates collapse to the first occurrence; Verified is always false at
// creation since verification is a separate workflow.
func DetectCertifications(specs []string) []types.Certification {
	var found []types.Certification
	seen := make(map[string]bool)

	for _, spec := range specs {
		lowered := strings.ToLower(spec)
		for _, name := range certificationVocabulary {
			if seen[name] {
				continue
			}
			if strings.Contains(lowered, strings.ToLower(name)) {
				found = append(found, types.Certification{
					Name:     name,
					Source:   spec,
					Verified: false,
				})
				seen[name] = true
			}
		}
	}
	return found
}
