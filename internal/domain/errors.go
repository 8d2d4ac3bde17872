package domain

import "errors"

var ErrNoData = errors.New("no records found in input")
var ErrSchemaPathRequired = errors.New("schema path is required")
