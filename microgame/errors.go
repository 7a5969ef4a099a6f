package microgame

import (
	"errors"
	"fmt"
)

var (
	ErrFinishWithoutOutcome = errors.New("microgame: finish called before win or lose")
	ErrDuplicateID          = errors.New("microgame: duplicate id")
	ErrInvalid              = errors.New("microgame: invalid descriptor")
)

// ContractError is the panic value for authoring bugs. They are not
// recoverable at runtime.
type ContractError struct {
	ID  string
	Err error
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("microgame %s: %v", e.ID, e.Err)
}

func (e *ContractError) Unwrap() error {
	return e.Err
}
