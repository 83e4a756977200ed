// Package issuebook implements the Issue Book use case.
//
// The handler runs Load -> Decide -> Write inside one database transaction:
// it loads the book, lets the pure Decide function check availability, then flips
// the issued flag and records a new outstanding loan. Either both writes happen or neither does.
package issuebook
