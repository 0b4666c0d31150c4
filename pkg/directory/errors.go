package directory

import "errors"

var (
	// ErrInvalidConfig marks client construction failures.
	ErrInvalidConfig = errors.New("directory.errors.invalid_config")

	// ErrGroupsDisabled is returned when group expansion is requested but
	// the feature flag is off. Checked before any network call.
	ErrGroupsDisabled = errors.New("directory.errors.groups_disabled")

	// ErrGroupLookupFailed wraps network, auth and parse failures during
	// group member resolution. These surface to the caller: a silent
	// partial member set would be misleading.
	ErrGroupLookupFailed = errors.New("directory.errors.group_lookup_failed")
)
