// Package adduser implements the Add User use case.
//
// A user is registered with a unique identifier and a name. Registering an identifier
// that already exists is rejected with circulation.ErrDuplicateKey and changes nothing.
package adduser
