package store

import "errors"

// ErrNotFound indicates the requested entity does not exist. Deletes of a
// missing id also return it so repeated deletes surface as failures rather
// than silent successes.
var ErrNotFound = errors.New("entity not found")
