// Package expiration provides policies for controlling when cached responses
// are considered expired.
//
// This package defines the ExpirationPolicy interface and several
// implementations. Policies are plugged into storage backends (see
// memstorage.WithExpirationPolicy) to customize expiration behavior, for
// example to refresh popular responses slightly early and spread the load of
// regeneration.
package expiration
