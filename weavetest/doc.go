// Package weavetest provides fixtures and mocks used by the tests of all
// other packages.
package weavetest
