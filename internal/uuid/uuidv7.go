// Package uuid issues the time-ordered ids used for records and requests.
package uuid

import googleuuid "github.com/google/uuid"

// New returns a UUIDv7 string. Ids sort by creation time.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		return googleuuid.NewString()
	}
	return id.String()
}

// IsValid reports whether s is a well-formed UUID of any version.
func IsValid(s string) bool {
	return googleuuid.Validate(s) == nil
}
