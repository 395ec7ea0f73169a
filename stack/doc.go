/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

/*
Package stack declares the deployment of the items API as a CloudFormation
template: the items table, one function per handler sharing a single binary
and execution role, the REST API with CORS preflight on both resources, and the
scheduled canary.

	out, err := stack.Build(stack.Options{CodeBucket: "artifacts"}).YAML()
*/
package stack
