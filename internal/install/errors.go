package install

import "fmt"

// ExtractError indicates that a downloaded package could not be
// unpacked or promoted into the installation directory. The existing
// installation, if any, is left untouched when it occurs.
type ExtractError struct {
	Archive string
	Err     error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Archive, e.Err)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}
