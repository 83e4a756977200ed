// Package listusers implements the Show Users query use case.
//
// It returns every registered user ordered by identifier. An empty user table yields
// an empty result, not an error.
package listusers
