// Package testsupport provides shared fixtures for package tests: temp
// directory configs, throwaway stores, and deterministic stand-ins for the
// external providers.
package testsupport
