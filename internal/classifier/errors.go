package classifier

import "errors"

// Attempt failure causes. They end up in the Error field of a failure record.
var (
	ErrNoEndpoints = errors.New("no classifier endpoints configured")
	ErrStatus      = errors.New("unexpected status from classifier")
	ErrDecode      = errors.New("undecodable classifier response")
	ErrRejected    = errors.New("classifier reported an error")
)
