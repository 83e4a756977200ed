// Package render turns handler outcomes into the lines printed by the librarian CLI.
//
// Every command produces exactly one status line. Query results are printed as text
// listings or, with OutputJSON, as one JSON document per result.
package render
