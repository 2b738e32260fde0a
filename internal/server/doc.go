// Package server owns the process lifecycle: binding the HTTP listener,
// waiting for a termination trigger, holding the drain window and shutting
// everything down in order.
//
// A ShutdownCoordinator races any number of Triggers. The first one to fire
// wins, the coordinator logs it and sleeps for the configured drain window
// while the HTTP server keeps answering. Later fires are swallowed. The
// ServerManager composes the coordinator with a fiber app.
package server
