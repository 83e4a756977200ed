// Package observable provides wrappers that add logging and metrics to command and query handlers.
//
// The wrappers assign a correlation id to every call, classify the outcome (success, rejected,
// canceled, timeout, error), and delegate all business logic to the wrapped handler.
package observable
