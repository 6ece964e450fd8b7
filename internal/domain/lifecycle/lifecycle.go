// Package lifecycle holds shared constants for fx lifecycle hooks.
package lifecycle

import "time"

// DefaultTimeout bounds start and stop hooks for infrastructure
// components.
const DefaultTimeout = 15 * time.Second
