package datatable

import derrors "github.com/imera88/datatable/errors"

func invalidArgument(reason string) error {
	return derrors.InvalidArgumentError{Reason: reason}
}
