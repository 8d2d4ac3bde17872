package sandbox

import "errors"

var ErrBaseDirRequired = errors.New("base directory is required")
var ErrBaseDirInvalid = errors.New("base directory is not an accessible directory")
