// Package utils provides decorators shared by every application stack:
// panic recovery, transaction logging, tracing and savepoints.
package utils
