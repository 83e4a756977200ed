// Package addbook implements the Add Book use case: a new book enters the catalog as available.
package addbook
