//go:build !capsule_unchecked

package capsule

// ChecksEnabled reports whether defensive checks (plain-data validation,
// capacity validation, width validation) are compiled in. Build with
// -tags capsule_unchecked to compile them out entirely; the constant folds
// and checked branches disappear. Disabling checks is a trust statement:
// the caller asserts out of band that all participating types and widths
// are compatible.
const ChecksEnabled = true
