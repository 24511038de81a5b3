// Package services holds the client's application services: the session
// store that owns the signed-in user, and the tracker that runs remote
// operations under the loader and reports their outcome.
package services
