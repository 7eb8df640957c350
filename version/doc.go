// Package version exposes build information of the keyset binary.
//
// Values are injected with linker flags:
//
//	go build -ldflags "\
//	  -X github.com/ncobase/keyset/version.Version=v1.2.0 \
//	  -X github.com/ncobase/keyset/version.Branch=main \
//	  -X github.com/ncobase/keyset/version.Revision=abc1234 \
//	  -X github.com/ncobase/keyset/version.BuiltAt=2026-01-15T10:30:00Z" ./cmd
//
// Values left unset are filled from the VCS stamp recorded by the Go
// toolchain, when present.
package version
