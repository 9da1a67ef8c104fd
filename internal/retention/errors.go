package retention

import "fmt"

// ReadError means the backup listing could not be obtained.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read backups: %v", e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// DeleteError reports the delete that aborted a run and how many
// deletions had already been applied.
type DeleteError struct {
	Name    string
	Deleted int
	Err     error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("delete %s (after %d deleted): %v", e.Name, e.Deleted, e.Err)
}

func (e *DeleteError) Unwrap() error {
	return e.Err
}
