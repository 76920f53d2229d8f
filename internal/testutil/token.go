// Package testutil provides deterministic test doubles shared across the
// genprobe test suites.
package testutil

// FixedTokenGenerator returns the same session token every time.
//
// Record IDs are content-addressed from the session id, so a fixed token
// makes store contents and JSON reports byte-stable for golden comparison.
//
// Stateless and safe for concurrent use.
type FixedTokenGenerator struct {
	token string
}

// NewFixedTokenGenerator creates a generator that always returns token.
func NewFixedTokenGenerator(token string) *FixedTokenGenerator {
	return &FixedTokenGenerator{token: token}
}

// Generate returns the fixed token.
func (g *FixedTokenGenerator) Generate() string {
	return g.token
}
