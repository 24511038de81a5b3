// Package common contains shared constants and sentinel errors used across
// PetAlert client components.
package common

// SessionStorageKey is the fixed key under which the signed-in user record
// (including the access token) is persisted in local storage.
const SessionStorageKey = "Pet!Alert"

// AuthorizationHeaderName is the HTTP header that carries the access token
// on authenticated API calls.
const AuthorizationHeaderName = "Authorization"

// GenericErrorMessage is shown to the user whenever a failure carries no
// human-readable server message.
const GenericErrorMessage = "Something went wrong. Please check your connection and try again."
