package request

import (
	"fmt"
	"strings"
)

// fingerprintBuilder accumulates "field=value" pairs for fields that are
// not at their zero value, then joins them into a single stable string.
// A field deliberately left at its default never perturbs the fingerprint,
// so adding a new request field doesn't invalidate every previously
// computed cache key.
type fingerprintBuilder struct {
	parts []string
}

func (b *fingerprintBuilder) add(name string, value any, isDefault bool) {
	if isDefault {
		return
	}
	b.parts = append(b.parts, fmt.Sprintf("%s=%v", name, value))
}

func (b *fingerprintBuilder) build(kind string) string {
	return kind + "{" + strings.Join(b.parts, ",") + "}"
}
