/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package canary is a synthetic monitor that walks every route of a deployed
// items API with a throwaway item.
package canary
