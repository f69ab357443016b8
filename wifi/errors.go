package wifi

import "errors"

var (
	ErrNotSupported     = errors.New("not supported")
	ErrNotFound         = errors.New("not found")
	ErrNotAvailable     = errors.New("not available")
	ErrOperationFailed  = errors.New("operation failed")
	ErrWirelessDisabled = errors.New("wireless is disabled")
)

// Resolution outcomes. Every failure surfaced by the resolver wraps one of these.
var (
	ErrMalformedPayload      = errors.New("malformed wifi payload")
	ErrNoCredentialFound     = errors.New("no credential found")
	ErrEmptyCatalog          = errors.New("no usable networks in range")
	ErrNoMatchAboveThreshold = errors.New("no matching network in range")
	ErrCollaboratorFailure   = errors.New("collaborator failure")
	ErrEmptySSID             = errors.New("missing network name")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrMalformedPayload, "MalformedPayload"},
	{ErrNoCredentialFound, "NoCredentialFound"},
	{ErrEmptyCatalog, "EmptyCatalog"},
	{ErrNoMatchAboveThreshold, "NoMatchAboveThreshold"},
	{ErrCollaboratorFailure, "CollaboratorFailure"},
	{ErrEmptySSID, "EmptySSID"},
}

// Kind returns the name of the resolution outcome err wraps, or "" if it
// wraps none of them.
func Kind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return ""
}
