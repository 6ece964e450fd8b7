package service

import "time"

// Clock supplies the current time. Injecting it keeps token expiry
// deterministic in tests.
type Clock interface {
	Now() time.Time
}
