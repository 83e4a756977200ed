// Package helper provides shared test helpers: log and metrics spies, fixture data,
// and arrange steps for the circulation store.
package helper
