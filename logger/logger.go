package logger

import (
	"log"
	"os"
)

// ProgressLogger logs the main steps of style resolution and layout.
var ProgressLogger = log.New(os.Stdout, "mink.progress: ", log.LstdFlags)

// WarningLogger emits a warning for each non fatal error, like
// unsupported CSS declarations, malformed selectors or URL resolutions.
var WarningLogger = log.New(os.Stdout, "mink.warning: ", log.Lmsgprefix)
