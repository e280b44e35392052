package deploy

// DeploymentMode identifies the path used to stand up the pipeline stack.
type DeploymentMode string

// Deployment mode enumerations.
const (
	DeploymentModeOperator DeploymentMode = "operator"
	DeploymentModeDirect   DeploymentMode = "direct"
)

// SelectDeploymentMode chooses between the operator and direct manifest paths.
// Multi-user and proxy setups require manifests the operator does not render.
func SelectDeploymentMode(options Options) DeploymentMode {
	if options.MultiUser {
		return DeploymentModeDirect
	}
	if options.Proxy {
		return DeploymentModeDirect
	}
	return DeploymentModeOperator
}
