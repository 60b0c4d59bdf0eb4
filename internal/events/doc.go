// Package events provides types and interfaces for observing the plan
// controller.
//
// The controller emits a StateChangeEvent on every transition of its request
// state machine. Handlers such as the metrics recorder and the CLI progress
// indicator subscribe through an EventEmitter without the controller knowing
// about them.
//
// The primary components are:
// - StateChangeEvent: one transition of the request state machine
// - EventHandler: Interface for components that can handle events
// - EventEmitter: Interface for components that can emit events
package events
