package errors

import "fmt"

var (
	ErrWorkerPanic       = fmt.Errorf("worker panic")
	ErrSinkPanic         = fmt.Errorf("sink panic")
	ErrContactNotFound   = fmt.Errorf("contact not found")
	ErrDuplicateContact  = fmt.Errorf("duplicate contact identifier")
	ErrInvalidPresence   = fmt.Errorf("invalid presence state")
	ErrEmptyMessage      = fmt.Errorf("message body is empty")
	ErrNotAuthenticated  = fmt.Errorf("no user is logged in")
	ErrAlreadyLoggedIn   = fmt.Errorf("a user is already logged in")
	ErrInvalidLogin      = fmt.Errorf("invalid login request")
	ErrEmptyPhrases      = fmt.Errorf("no phrases have been found")
	ErrInvalidEmoticons  = fmt.Errorf("emoticon table is malformed")
	ErrInvalidDelayRange = fmt.Errorf("reply delay range is invalid")
)
