//go:build debugchecks

package dte

// checkInvariants panics on any violated invariant. Only compiled into
// debug builds (the "debugchecks" tag); release builds use the no-op
// variant in invariants_release.go.
func checkInvariants(b *TextBuffer) {
	if err := b.blocks.checkInvariants(); err != nil {
		logf(LogError, "block list invariant violated: %v", err)
		panic(err)
	}
	if b.nl != b.blocks.totalNewlines() {
		err := errInvariant("buffer.nl out of sync with block list")
		logf(LogError, "%v", err)
		panic(err)
	}
}
