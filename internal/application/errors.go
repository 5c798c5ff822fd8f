package application

import "errors"

var ErrNotFound = errors.New("not found")
var ErrRunInProgress = errors.New("sync run already in progress")
