package domain

import "errors"

var ErrItemNotFound = errors.New("ice cream not found")
