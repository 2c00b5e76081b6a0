package fsm

import "errors"

// Done is returned by step functions once the value being decoded is
// complete.
var Done = errors.New("fsm: done")
