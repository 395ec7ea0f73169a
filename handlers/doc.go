/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

/*
Package handlers implements the items API as API Gateway proxy handlers.

Each handler is a method of Handlers, which shares one store, one sweeper and
one logger across invocations. Failures never surface as Lambda errors: they
are mapped to 400, 404 or 500 responses whose body is errors.Serialize of the
cause. Every response carries CORSHeaders.
*/
package handlers
