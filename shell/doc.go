// Package shell contains infrastructure shared by the feature slices of the library circulation ledger.
//
// It defines the command and query contracts, the HandlerResult returned by command handlers,
// correlation ids, and helper functions for logging and metrics that the observable wrappers use.
package shell
