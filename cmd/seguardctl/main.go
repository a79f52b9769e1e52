// Seguard is a mandatory access control mediation layer for embedding
// query engines.
//
// The library mediates engine extension points against an external policy
// decision engine; this companion tool works with its configuration and
// audit trail:
//   - Validate a seguard configuration file
//   - Query the decision audit database
//   - Prune old audit records
//
// Usage:
//
//	# Validate a configuration file
//	seguardctl validate --config /path/to/seguard.yaml
//
//	# Show version information
//	seguardctl version
//
//	# Query the audit trail
//	seguardctl audit query --time-range "2026-08-27T00:00:00Z/2026-08-28T00:00:00Z"
//
//	# Remove audit records past the retention horizon
//	seguardctl audit prune
package main

func main() {
	Execute()
}
