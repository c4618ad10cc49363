package errs

import "errors"

var (
	ErrDisabled     = errors.New("svn integration is disabled. Run 'svnscm config enabled true' to turn it back on")
	ErrNotFound     = errors.New("svn could not be found in the system")
	ErrVersionParse = errors.New("no version message was found")
	ErrSpawn        = errors.New("svn could not be started")
	ErrExecution    = errors.New("svn exited with a non-zero exit code")
	ErrUnknownKey   = errors.New("unknown config key")
)
