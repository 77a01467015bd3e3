// Package util provides shared helpers for provider descriptors and their
// credentials: locating a credential in the environment (for
// store-credential --from-env) and validating a provider id or credential
// string's shape before it reaches the registry or vault.
package util
