//go:build capsule_unchecked

package capsule

// ChecksEnabled is false in capsule_unchecked builds. Oversized values
// truncate to the payload capacity and width-mismatched comparisons
// proceed on the masked integers. See checks_on.go.
const ChecksEnabled = false
