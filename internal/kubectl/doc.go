// Package kubectl provides a typed client for the kubectl binary covering the
// cluster operations the deployment workflow relies on: namespace creation,
// manifest application, condition waits, and diagnostics collection.
package kubectl
