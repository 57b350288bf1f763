package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("internal server error")
	// ErrNotFound will throw if the requested item is not exists, or exists
	// but is not owned by the requester. The two cases are deliberately
	// indistinguishable so that callers cannot probe for existence.
	ErrNotFound = errors.New("your requested item is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("your item already exists")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("given param is not valid")
	// ErrContentTooLong will throw if a post or comment body exceeds MaxContentRunes
	ErrContentTooLong = errors.New("content exceeds the length limit")
	// ErrStoreUnavailable will throw if the primary store cannot complete an atomic unit
	ErrStoreUnavailable = errors.New("primary store is unavailable")
	// ErrIndexUnavailable will throw if the search subsystem is degraded
	ErrIndexUnavailable = errors.New("search is temporarily unavailable")
	// ErrCacheMiss signals an absent cache entry; it is a control-flow
	// signal, not a failure
	ErrCacheMiss = errors.New("cache miss")
)
