//go:build !linux && !darwin && !freebsd

package shred

// clearImmutable is a no-op on platforms without a user-settable immutability attribute.
func clearImmutable(string) error {
	return nil
}
