package beneficiaries

import (
	"strings"
	"telemed-service/internal/pkg/constvars"
)

// UnionServiceTypes merges capability letters from several service types into the
// canonical G, S, P, N order. Unknown letters are dropped.
func UnionServiceTypes(serviceTypes ...string) string {
	seen := make(map[rune]bool, len(constvars.ServiceTypeCapabilityOrder))
	for _, serviceType := range serviceTypes {
		for _, letter := range strings.ToUpper(serviceType) {
			seen[letter] = true
		}
	}

	var builder strings.Builder
	for _, letter := range constvars.ServiceTypeCapabilityOrder {
		if seen[letter] {
			builder.WriteRune(letter)
		}
	}
	return builder.String()
}
