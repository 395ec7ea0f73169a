/*
Package errors provides semantic error types for the items service.

Every failure is checkable with the standard errors.Is() function or the
provided helpers:

	var (
	    ErrNotFound          = errors.New("item not found")
	    ErrInvalidInput      = errors.New("invalid input")
	    ErrConditionFailed   = errors.New("condition check failed")
	    ErrStoreUnavailable  = errors.New("store unavailable")
	    ErrMisconfigured     = errors.New("misconfigured")
	    ErrMissingPrimaryKey = errors.New("record missing primary key")
	)

Store failures are wrapped in a StoreError that still unwraps to the SDK error,
so smithy.APIError details survive:

	_, err := store.Get(ctx, "123")
	if errors.IsStoreUnavailable(err) {
	    body := errors.Serialize(err) // {"message":..., "code":"AccessDeniedException"}
	}

Serialize is the only place a failure is turned into a response body.
*/
package errors
