//go:build !debugchecks

package dte

// checkInvariants is a no-op in release builds. Go has no UB escape hatch
// to reach for where undefined behavior would otherwise be declared, so a
// violated invariant simply goes unchecked here; it will surface as a
// wrong answer or a later panic, never memory corruption.
func checkInvariants(b *TextBuffer) {}
