package util

import (
	uuid "github.com/nu7hatch/gouuid"
)

// GenCallID returns a UUID string identifying one scoring call.
func GenCallID() string {
	u, err := uuid.NewV4()
	if err != nil {
		return "unknown"
	}
	return u.String()
}
