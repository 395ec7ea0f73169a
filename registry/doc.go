/*
Package registry maps function handler names to Lambda handlers.

Every function of the stack runs the same binary; the Lambda runtime passes
the function's Handler property in the _HANDLER environment variable and the
binary looks the handler up by that name:

	reg := registry.New()
	reg.RegisterFunc("getAll", h.GetAll)
	reg.RegisterFunc("deleteAll", h.DeleteAll)

	handler, err := reg.Get(os.Getenv("_HANDLER"))
	lambda.Start(handler)

Registration is expected at startup; registering a name twice panics.
*/
package registry
