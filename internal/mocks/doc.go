// Package mocks provides shared test doubles for the generation port.
//
// MockGenerator returns canned text or errors, can block until released
// through its Gate, and records every call, including how many ran at once.
// MockFactory scripts initialization failures before handing out a generator.
//
//	gen := mocks.NewBlockingMockGenerator(mocks.SamplePlan(7))
//	factory := &mocks.MockFactory{Generator: gen}
//	ctrl, _ := controller.New(controller.Options{Factory: factory.Factory()})
//	_ = ctrl.Submit("A specialty coffee shop in Kolkata")
//	close(gen.Gate)
package mocks
