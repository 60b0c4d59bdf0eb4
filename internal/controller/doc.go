// Package controller owns the interaction state machine for plan generation.
//
// A Controller moves between Idle, Loading, Success and Error. Submitting a
// non-blank description starts exactly one generation request on its own
// goroutine; further submissions are rejected with ErrBusy until that request
// settles. Views observe the machine through immutable Snapshots and never see
// raw provider errors: every failure is classified into a validation,
// configuration or service message.
package controller
