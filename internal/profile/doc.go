// Package profile provides YAML-based retry profile management.
//
// A profile names a reusable retry setting (attempt limit and delay) so
// that operators can tune retry behavior without rebuilding the binary.
// Profiles are loaded from a YAML file:
//
//	profiles:
//	  - name: fast
//	    attempts: 5
//	    delay: "10ms"
//	  - name: patient
//	    attempts: 3
//	    delay: "2s"
//
// The package also provides a file watcher that reloads profiles when
// the file changes on disk.
package profile
