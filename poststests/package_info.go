// Package poststests contains the posts API contract tests themselves and their supporting API.
//
// Test harness infrastructure that is not specific to posts, such as test contexts, filtering
// and the HTTP connection to the target service, is in the lower-level framework package.
package poststests
