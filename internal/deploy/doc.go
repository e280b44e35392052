// Package deploy stands up the data science pipeline stack on a cluster.
//
// The service deploys through the pipelines operator by default and falls
// back to direct manifests when a requested feature, such as multi-user
// mode, is not supported by the operator. Cluster interactions go through
// the kubectl client and repository tooling runs through execshell.
package deploy
