package weavetest

import (
	"crypto/rand"
	"testing"

	"github.com/iov-one/custody"
)

// RandomAddr returns a valid random address generated on the fly.
func RandomAddr(t testing.TB) custody.Address {
	t.Helper()
	raw := make([]byte, custody.AddressLength)
	if _, err := rand.Read(raw); err != nil {
		t.Fatalf("cannot generate a random address: %s", err)
	}
	return custody.Address(raw)
}

// ParseAddress takes an address in a human readable format and returns
// its binary representation.
func ParseAddress(t testing.TB, encodedAddress string) custody.Address {
	t.Helper()
	addr, err := custody.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
