// Package mocks provides test doubles for the store interfaces and services.
// Store mocks use testify/mock; service mocks use function fields with
// default return values.
package mocks
