// Package client is the API gateway of the PetAlert CLI.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) with one
//     method per remote operation: SignIn, SignUp, UpdateProfile,
//     UserAlerts, UserComments.
//  2. A concrete JSON/HTTP implementation (see HTTPClient). It injects the
//     access token as a bearer header on authenticated calls and never
//     retries or caches.
//
// # Error Handling
//
// Every failure has one of two shapes:
//   - *APIError: the server answered with status >= 400. Message holds the
//     server's human-readable "message" field, or is empty if there was none.
//     errors.Is(err, ErrUnauthorized) matches 401/403.
//   - *TransportError: no structured response (dial/timeout/read/decode).
//     errors.Is(err, ErrUnavailable) matches it.
//
// Classifying errors for the user is left to callers.
package client
