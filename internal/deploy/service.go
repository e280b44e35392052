package deploy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pipelab/dspctl/internal/execshell"
	"github.com/pipelab/dspctl/internal/kubectl"
)

const (
	operatorRepositoryNameConstant       = "data-science-pipelines-operator"
	operatorRepositoryURLTemplate        = "https://github.com/%s/" + operatorRepositoryNameConstant
	operatorDeploymentNameConstant       = "data-science-pipelines-operator-controller-manager"
	operatorImageTemplateConstant        = "quay.io/%s/data-science-pipelines-operator:%s"
	operatorImageOwnerUpstreamConstant   = "opendatahub"
	operatorImageOwnerDownstreamConstant = "rhoai"
	upstreamOwnerConstant                = "opendatahub-io"
	downstreamOwnerConstant              = "red-hat-data-services"
	downstreamOperatorNamespaceConstant  = "rhods"
	upstreamOperatorNamespaceConstant    = "opendatahub"
	masterBranchNameConstant             = "master"
	mainBranchNameConstant               = "main"

	certManagerNamespaceConstant  = "cert-manager"
	certManagerManifestURL        = "https://github.com/cert-manager/cert-manager/releases/latest/download/cert-manager.yaml"
	pypiServerNamespaceConstant   = "test-pypiserver"
	pypiServerDeploymentConstant  = "pypi-server"
	seaweedFSDeploymentConstant   = "seaweedfs"
	seaweedFSInitJobConstant      = "init-seaweedfs"
	apiServerServiceConstant      = "ml-pipeline"
	forwardPortNumberConstant     = "8888"

	argoVersionFileRelativePath     = "manifests/kustomize/third-party/argo/VERSION"
	argoManifestsRelativePath       = "manifests/kustomize/third-party/argo"
	argoClusterScopedRelativePath   = "manifests/kustomize/third-party/argo/installs/namespace/cluster-scoped"
	seaweedFSManifestsRelativePath  = "manifests/kustomize/third-party/seaweedfs/base"
	baseCertificatesRelativePath    = "manifests/kustomize/env/cert-manager/base-tls-certs"
	serviceCAConfigMapRelativePath  = ".github/actions/deploy/openshift-service-ca-cert-configmap.yaml"
	deployScriptRelativePath        = ".github/resources/scripts/deploy-kfp.sh"
	forwardPortScriptRelativePath   = ".github/resources/scripts/forward-port.sh"
	additionalCRDsRelativePath      = ".github/resources/crds"
	routeCRDRelativePath            = "config/crd/external/route.openshift.io_routes.yaml"
	webhookResourcesRelativePath    = ".github/resources/webhook"
	pypiResourcesRelativePath       = ".github/resources/pypiserver/base"
	nginxTLSConfigRelativePath      = ".github/resources/pypiserver/base/nginx-tls-config.yaml"
	packageUploadScriptRelativePath = ".github/scripts/python_package_upload"
	packageUploadScriptNameConstant = "package_upload_run.sh"

	defaultArgoVersionConstant        = "v3.6.7"
	defaultExternalArgoPatchConstant  = `[{"op": "add", "path": "/spec/template/spec/containers/0/env/-", "value": {"name": "DSPO_ARGOWORKFLOWSCONTROLLERS", "value": "{\"managementState\": \"Removed\"}"}}]`
	operatorImageEnvironmentVariable  = "IMAGES_DSPO"
	registryEnvironmentVariable       = "REGISTRY"
	availableConditionConstant        = "Available=true"
	availableLowercaseCondition       = "available"
	readyConditionConstant            = "Ready"
	completeConditionConstant         = "complete"

	certManagerWaitTimeoutConstant       = 90 * time.Second
	pypiServerWaitTimeoutConstant        = 60 * time.Second
	operatorWaitTimeoutConstant          = 300 * time.Second
	seaweedFSWaitTimeoutConstant         = 300 * time.Second
	applicationCreateTimeoutConstant     = 2 * time.Minute
	applicationCreatePollIntervalDefault = 10 * time.Second
	applicationWaitTimeoutConstant       = 10 * time.Minute
	directDeployTimeoutConstant          = 30 * time.Minute

	workingDirectoryPatternConstant = "dspctl-deploy-"
	manifestFilePermissions         = 0o644

	loggerNotConfiguredMessageConstant       = "logger not configured"
	clusterNotConfiguredMessageConstant      = "cluster client not configured"
	toolsNotConfiguredMessageConstant        = "tool executor not configured"
	repositoryRequiredMessageConstant        = "repository is required"
	imageTagRequiredMessageConstant          = "image tag is required"
	imageRegistryRequiredMessageConstant     = "image registry is required"
	operatorNotReadyMessageConstant          = "operator did not become ready within timeout"
	applicationNotCreatedMessageTemplate     = "deployment %s was not created within timeout"
	applicationNotReadyMessageConstant       = "pipelines application did not become ready within timeout"
	repositoryFieldNameConstant              = "repository"
	imageTagFieldNameConstant                = "image_tag"
	imageRegistryFieldNameConstant           = "image_registry"

	logFieldNamespaceConstant  = "namespace"
	logFieldBranchConstant     = "branch"
	logFieldImageConstant      = "image"
	logFieldDeploymentConstant = "deployment"
	logFieldModeConstant       = "mode"
	logFieldPathConstant       = "path"
)

// Options carries all inputs needed to stand up the pipeline stack.
type Options struct {
	Repository         string
	BaseRef            string
	Namespace          string
	ImageTag           string
	ImageRegistry      string
	PipelineStore      string
	StorageBackend     string
	ArgoVersion        string
	DeployPyPIServer   bool
	DeployExternalArgo bool
	Proxy              bool
	CacheEnabled       bool
	MultiUser          bool
	ArtifactProxy      bool
	ForwardPort        bool
	PodToPodTLSEnabled bool
}

// ClusterClient is the subset of kubectl.Client the deployer relies on.
type ClusterClient interface {
	CreateNamespace(executionContext context.Context, namespaceName string) error
	ApplyFile(executionContext context.Context, manifestSource string, namespaceName string) error
	ApplyKustomize(executionContext context.Context, kustomizeDirectory string, namespaceName string) error
	ApplyManifest(executionContext context.Context, manifestContent []byte, namespaceName string) error
	WaitForCondition(executionContext context.Context, options kubectl.WaitOptions) error
	DeploymentExists(executionContext context.Context, deploymentName string, namespaceName string) (bool, error)
	ListPods(executionContext context.Context, namespaceName string) (string, error)
	ListPodStatuses(executionContext context.Context, namespaceName string) ([]kubectl.PodStatus, error)
	DescribePod(executionContext context.Context, podName string, namespaceName string) (string, error)
	PodLogs(executionContext context.Context, podName string, namespaceName string, options kubectl.LogOptions) (string, error)
	ListEvents(executionContext context.Context, namespaceName string) (string, error)
	GetConfigMap(executionContext context.Context, configMapName string, namespaceName string) (bool, error)
	ListConfigMapNames(executionContext context.Context, namespaceName string) ([]string, error)
	PatchDeployment(executionContext context.Context, deploymentName string, namespaceName string, patchType kubectl.PatchType, patchPayload []byte) error
	RolloutStatus(executionContext context.Context, resourceReference string, namespaceName string, timeout time.Duration) error
}

// ToolExecutor is the subset of execshell.ShellExecutor the deployer relies on.
type ToolExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteMake(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteBash(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Dependencies enumerates collaborators required by the deploy service.
type Dependencies struct {
	Logger  *zap.Logger
	Cluster ClusterClient
	Tools   ToolExecutor

	// SourceDirectory points at the pipelines repository checkout. Empty
	// means the current working directory.
	SourceDirectory string

	// CreatePollInterval overrides the deployment existence poll cadence.
	CreatePollInterval time.Duration
}

// Sentinel errors surfaced during deploy service construction.
var (
	ErrLoggerNotConfigured  = errors.New(loggerNotConfiguredMessageConstant)
	ErrClusterNotConfigured = errors.New(clusterNotConfiguredMessageConstant)
	ErrToolsNotConfigured   = errors.New(toolsNotConfiguredMessageConstant)
)

// InvalidInputError surfaces validation issues for deploy options.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input condition.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf("%s: %s", inputError.FieldName, inputError.Message)
}

// Service orchestrates the full deployment of the pipeline stack.
type Service struct {
	logger             *zap.Logger
	cluster            ClusterClient
	tools              ToolExecutor
	sourceDirectory    string
	createPollInterval time.Duration
}

// environment captures per-run state derived from the options.
type environment struct {
	repositoryOwner     string
	targetBranch        string
	operatorNamespace   string
	deploymentNamespace string
	workingDirectory    string
	operatorRepository  string
}

// NewService validates dependencies and constructs a deploy Service.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if dependencies.Cluster == nil {
		return nil, ErrClusterNotConfigured
	}
	if dependencies.Tools == nil {
		return nil, ErrToolsNotConfigured
	}

	pollInterval := dependencies.CreatePollInterval
	if pollInterval <= 0 {
		pollInterval = applicationCreatePollIntervalDefault
	}

	return &Service{
		logger:             dependencies.Logger,
		cluster:            dependencies.Cluster,
		tools:              dependencies.Tools,
		sourceDirectory:    strings.TrimSpace(dependencies.SourceDirectory),
		createPollInterval: pollInterval,
	}, nil
}

// Deploy stands up the pipeline stack, choosing between the operator and
// direct manifest paths based on the requested features.
func (service *Service) Deploy(executionContext context.Context, options Options) error {
	deploymentEnvironment, setupError := service.setupEnvironment(executionContext, options)
	if setupError != nil {
		return setupError
	}
	defer func() {
		_ = os.RemoveAll(deploymentEnvironment.workingDirectory)
	}()

	mode := SelectDeploymentMode(options)
	service.logger.Info("Selected deployment mode", zap.String(logFieldModeConstant, string(mode)))

	switch mode {
	case DeploymentModeOperator:
		if operatorError := service.deployThroughOperator(executionContext, options, deploymentEnvironment); operatorError != nil {
			return operatorError
		}
	default:
		if options.DeployPyPIServer {
			if cloneError := service.cloneOperatorRepository(executionContext, deploymentEnvironment); cloneError != nil {
				return cloneError
			}
			if pypiError := service.deployPyPIServer(executionContext, deploymentEnvironment); pypiError != nil {
				return pypiError
			}
		}
		if directError := service.deployDirect(executionContext, options); directError != nil {
			return directError
		}
	}

	if forwardError := service.forwardAPIServerPort(executionContext, options, deploymentEnvironment); forwardError != nil {
		return forwardError
	}

	service.logger.Info("Deployment completed successfully")
	return nil
}

func (service *Service) deployThroughOperator(executionContext context.Context, options Options, deploymentEnvironment *environment) error {
	if cloneError := service.cloneOperatorRepository(executionContext, deploymentEnvironment); cloneError != nil {
		return cloneError
	}
	if certManagerError := service.deployCertManager(executionContext); certManagerError != nil {
		return certManagerError
	}
	if options.DeployExternalArgo {
		if argoError := service.deployExternalArgo(executionContext, options); argoError != nil {
			return argoError
		}
	}
	if operatorError := service.deployOperator(executionContext, options, deploymentEnvironment); operatorError != nil {
		return operatorError
	}
	if webhookError := service.applyWebhookCertificates(executionContext, deploymentEnvironment); webhookError != nil {
		return webhookError
	}
	if options.DeployPyPIServer {
		if pypiError := service.deployPyPIServer(executionContext, deploymentEnvironment); pypiError != nil {
			return pypiError
		}
	}
	if options.StorageBackend == StorageBackendSeaweedFS {
		if seaweedError := service.deploySeaweedFS(executionContext, deploymentEnvironment); seaweedError != nil {
			return seaweedError
		}
	}
	if options.PodToPodTLSEnabled {
		if certificatesError := service.createOperatorExpectedCertificates(executionContext, deploymentEnvironment); certificatesError != nil {
			return certificatesError
		}
	}
	return service.deployApplication(executionContext, options, deploymentEnvironment)
}

func (service *Service) setupEnvironment(executionContext context.Context, options Options) (*environment, error) {
	trimmedRepository := strings.TrimSpace(options.Repository)
	if len(trimmedRepository) == 0 {
		return nil, InvalidInputError{FieldName: repositoryFieldNameConstant, Message: repositoryRequiredMessageConstant}
	}
	if len(strings.TrimSpace(options.ImageTag)) == 0 {
		return nil, InvalidInputError{FieldName: imageTagFieldNameConstant, Message: imageTagRequiredMessageConstant}
	}
	if len(strings.TrimSpace(options.ImageRegistry)) == 0 {
		return nil, InvalidInputError{FieldName: imageRegistryFieldNameConstant, Message: imageRegistryRequiredMessageConstant}
	}

	repositoryOwner, _, _ := strings.Cut(trimmedRepository, "/")

	targetBranch := strings.TrimSpace(options.BaseRef)
	if len(targetBranch) == 0 {
		targetBranch = mainBranchNameConstant
	}

	operatorNamespace := upstreamOperatorNamespaceConstant
	if repositoryOwner == downstreamOwnerConstant {
		operatorNamespace = downstreamOperatorNamespaceConstant
	}

	workingDirectory, temporaryDirectoryError := os.MkdirTemp("", workingDirectoryPatternConstant)
	if temporaryDirectoryError != nil {
		return nil, fmt.Errorf("unable to create working directory: %w", temporaryDirectoryError)
	}

	deploymentEnvironment := &environment{
		repositoryOwner:     repositoryOwner,
		targetBranch:        targetBranch,
		operatorNamespace:   operatorNamespace,
		deploymentNamespace: options.Namespace,
		workingDirectory:    workingDirectory,
	}

	service.logger.Info("Prepared deployment environment",
		zap.String("repository_owner", repositoryOwner),
		zap.String(logFieldBranchConstant, targetBranch),
		zap.String(logFieldNamespaceConstant, deploymentEnvironment.deploymentNamespace),
		zap.String(logFieldPathConstant, workingDirectory),
	)

	if namespaceError := service.cluster.CreateNamespace(executionContext, deploymentEnvironment.deploymentNamespace); namespaceError != nil {
		return nil, namespaceError
	}

	return deploymentEnvironment, nil
}

func (service *Service) cloneOperatorRepository(executionContext context.Context, deploymentEnvironment *environment) error {
	if len(deploymentEnvironment.operatorRepository) > 0 {
		return nil
	}

	repositoryURL := fmt.Sprintf(operatorRepositoryURLTemplate, deploymentEnvironment.repositoryOwner)
	clonePath := filepath.Join(deploymentEnvironment.workingDirectory, operatorRepositoryNameConstant)

	service.logger.Info("Cloning operator repository", zap.String("repository_url", repositoryURL))

	_, cloneError := service.tools.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments: []string{"clone", repositoryURL, clonePath},
	})
	if cloneError != nil {
		return cloneError
	}

	operatorBranch := operatorBranchForTarget(deploymentEnvironment.targetBranch)

	_, checkoutError := service.tools.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{"checkout", operatorBranch},
		WorkingDirectory: clonePath,
	})
	if checkoutError != nil {
		service.logger.Warn("Requested branch not found, using default branch",
			zap.String(logFieldBranchConstant, operatorBranch))
	}

	deploymentEnvironment.operatorRepository = clonePath
	return nil
}

// operatorBranchForTarget maps the pipelines branch onto the operator branch.
// The operator repository renamed master to main.
func operatorBranchForTarget(targetBranch string) string {
	if targetBranch == masterBranchNameConstant {
		return mainBranchNameConstant
	}
	return targetBranch
}

func (service *Service) deployCertManager(executionContext context.Context) error {
	service.logger.Info("Deploying cert-manager")

	if namespaceError := service.cluster.CreateNamespace(executionContext, certManagerNamespaceConstant); namespaceError != nil {
		return namespaceError
	}
	if applyError := service.cluster.ApplyFile(executionContext, certManagerManifestURL, ""); applyError != nil {
		return applyError
	}

	return service.cluster.WaitForCondition(executionContext, kubectl.WaitOptions{
		Resource:     "pods",
		Condition:    readyConditionConstant,
		Namespace:    certManagerNamespaceConstant,
		AllResources: true,
		Timeout:      certManagerWaitTimeoutConstant,
	})
}

func (service *Service) deployExternalArgo(executionContext context.Context, options Options) error {
	argoVersion := strings.TrimSpace(options.ArgoVersion)
	if len(argoVersion) == 0 {
		argoVersion = defaultArgoVersionConstant
	}

	service.logger.Info("Deploying external Argo Workflows", zap.String("argo_version", argoVersion))

	versionFilePath := service.sourcePath(argoVersionFileRelativePath)
	if writeError := os.WriteFile(versionFilePath, []byte(argoVersion+"\n"), manifestFilePermissions); writeError != nil {
		return fmt.Errorf("unable to write argo version file: %w", writeError)
	}

	_, updateError := service.tools.ExecuteMake(executionContext, execshell.CommandDetails{
		Arguments: []string{"-C", service.sourcePath(argoManifestsRelativePath), "update"},
	})
	if updateError != nil {
		return updateError
	}

	return service.cluster.ApplyKustomize(executionContext, service.sourcePath(argoClusterScopedRelativePath), "")
}

func (service *Service) deployOperator(executionContext context.Context, options Options, deploymentEnvironment *environment) error {
	operatorBranch := operatorBranchForTarget(deploymentEnvironment.targetBranch)

	imageOwner := operatorImageOwnerDownstreamConstant
	if deploymentEnvironment.repositoryOwner == upstreamOwnerConstant {
		imageOwner = operatorImageOwnerUpstreamConstant
	}
	operatorImage := fmt.Sprintf(operatorImageTemplateConstant, imageOwner, operatorBranch)

	service.logger.Info("Deploying pipelines operator",
		zap.String(logFieldImageConstant, operatorImage),
		zap.String(logFieldNamespaceConstant, deploymentEnvironment.operatorNamespace),
	)

	if namespaceError := service.cluster.CreateNamespace(executionContext, deploymentEnvironment.operatorNamespace); namespaceError != nil {
		return namespaceError
	}

	_, installError := service.tools.ExecuteMake(executionContext, execshell.CommandDetails{
		Arguments:        []string{"install"},
		WorkingDirectory: deploymentEnvironment.operatorRepository,
	})
	if installError != nil {
		return installError
	}

	additionalCRDsPath := filepath.Join(deploymentEnvironment.operatorRepository, additionalCRDsRelativePath)
	if pathExists(additionalCRDsPath) {
		if applyError := service.cluster.ApplyFile(executionContext, additionalCRDsPath, ""); applyError != nil {
			return applyError
		}
	}

	routeCRDPath := filepath.Join(deploymentEnvironment.operatorRepository, routeCRDRelativePath)
	if pathExists(routeCRDPath) {
		if applyError := service.cluster.ApplyFile(executionContext, routeCRDPath, ""); applyError != nil {
			service.logger.Warn("Route CRD could not be applied", zap.Error(applyError))
		}
	}

	_, deployError := service.tools.ExecuteMake(executionContext, execshell.CommandDetails{
		Arguments:        []string{"deploy-kind", "IMG=" + operatorImage},
		WorkingDirectory: deploymentEnvironment.operatorRepository,
		EnvironmentVariables: map[string]string{
			operatorImageEnvironmentVariable: operatorImage,
			"IMG":                            operatorImage,
		},
	})
	if deployError != nil {
		return deployError
	}

	service.verifyOperatorConfigMap(executionContext, deploymentEnvironment.operatorNamespace)

	waitError := service.cluster.WaitForCondition(executionContext, kubectl.WaitOptions{
		Resource:     "deployment",
		Condition:    availableConditionConstant,
		Namespace:    deploymentEnvironment.operatorNamespace,
		AllResources: true,
		Timeout:      operatorWaitTimeoutConstant,
	})
	if waitError != nil {
		service.investigateOperatorFailure(executionContext, deploymentEnvironment.operatorNamespace)
		return fmt.Errorf("%s: %w", operatorNotReadyMessageConstant, waitError)
	}

	if options.DeployExternalArgo {
		if configureError := service.configureOperatorForExternalArgo(executionContext, deploymentEnvironment.operatorNamespace); configureError != nil {
			return configureError
		}
	}

	return nil
}

// verifyOperatorConfigMap checks that the operator rendered its configuration.
// Missing ConfigMaps are reported but do not fail the deployment.
func (service *Service) verifyOperatorConfigMap(executionContext context.Context, operatorNamespace string) {
	configMapCandidates := []string{
		operatorRepositoryNameConstant + "-dspo-config",
		"dspo-config",
	}

	for _, candidateName := range configMapCandidates {
		found, lookupError := service.cluster.GetConfigMap(executionContext, candidateName, operatorNamespace)
		if lookupError == nil && found {
			service.logger.Info("Found operator ConfigMap", zap.String("configmap", candidateName))
			return
		}
	}

	availableNames, listError := service.cluster.ListConfigMapNames(executionContext, operatorNamespace)
	if listError != nil {
		service.logger.Warn("Unable to list operator ConfigMaps", zap.Error(listError))
		return
	}
	service.logger.Warn("Expected operator ConfigMaps not found",
		zap.Strings("available_configmaps", availableNames))
}

func (service *Service) configureOperatorForExternalArgo(executionContext context.Context, operatorNamespace string) error {
	service.logger.Info("Configuring operator for external Argo Workflows")

	patchError := service.cluster.PatchDeployment(
		executionContext,
		operatorDeploymentNameConstant,
		operatorNamespace,
		kubectl.PatchTypeJSON,
		[]byte(defaultExternalArgoPatchConstant),
	)
	if patchError != nil {
		return patchError
	}

	return service.cluster.RolloutStatus(
		executionContext,
		"deployment/"+operatorDeploymentNameConstant,
		operatorNamespace,
		operatorWaitTimeoutConstant,
	)
}

func (service *Service) applyWebhookCertificates(executionContext context.Context, deploymentEnvironment *environment) error {
	webhookResourcesPath := filepath.Join(deploymentEnvironment.operatorRepository, webhookResourcesRelativePath)
	if !pathExists(webhookResourcesPath) {
		service.logger.Warn("Webhook certificate resources not found", zap.String(logFieldPathConstant, webhookResourcesPath))
		return nil
	}
	return service.cluster.ApplyKustomize(executionContext, webhookResourcesPath, deploymentEnvironment.operatorNamespace)
}

func (service *Service) deployPyPIServer(executionContext context.Context, deploymentEnvironment *environment) error {
	service.logger.Info("Deploying package index server")

	if namespaceError := service.cluster.CreateNamespace(executionContext, pypiServerNamespaceConstant); namespaceError != nil {
		return namespaceError
	}

	pypiResourcesPath := filepath.Join(deploymentEnvironment.operatorRepository, pypiResourcesRelativePath)
	if applyError := service.cluster.ApplyKustomize(executionContext, pypiResourcesPath, pypiServerNamespaceConstant); applyError != nil {
		return applyError
	}

	waitError := service.cluster.WaitForCondition(executionContext, kubectl.WaitOptions{
		Resource:  "deployment/" + pypiServerDeploymentConstant,
		Condition: availableConditionConstant,
		Namespace: pypiServerNamespaceConstant,
		Timeout:   pypiServerWaitTimeoutConstant,
	})
	if waitError != nil {
		return waitError
	}

	nginxTLSConfigPath := filepath.Join(deploymentEnvironment.operatorRepository, nginxTLSConfigRelativePath)
	for _, namespaceName := range []string{pypiServerNamespaceConstant, deploymentEnvironment.deploymentNamespace} {
		if applyError := service.cluster.ApplyFile(executionContext, nginxTLSConfigPath, namespaceName); applyError != nil {
			service.logger.Warn("TLS configuration could not be applied",
				zap.String(logFieldNamespaceConstant, namespaceName), zap.Error(applyError))
		}
	}

	service.logger.Info("Uploading packages to package index server")
	_, uploadError := service.tools.ExecuteBash(executionContext, execshell.CommandDetails{
		Arguments:        []string{packageUploadScriptNameConstant},
		WorkingDirectory: filepath.Join(deploymentEnvironment.operatorRepository, packageUploadScriptRelativePath),
	})
	return uploadError
}

func (service *Service) deploySeaweedFS(executionContext context.Context, deploymentEnvironment *environment) error {
	manifestsPath := service.sourcePath(seaweedFSManifestsRelativePath)
	if !pathExists(filepath.Join(manifestsPath, "kustomization.yaml")) {
		return InvalidInputError{FieldName: "storage_backend", Message: fmt.Sprintf("seaweedfs kustomization not found at %s", manifestsPath)}
	}

	service.logger.Info("Deploying SeaweedFS", zap.String(logFieldPathConstant, manifestsPath))

	if applyError := service.cluster.ApplyKustomize(executionContext, manifestsPath, deploymentEnvironment.deploymentNamespace); applyError != nil {
		return applyError
	}

	waitError := service.cluster.WaitForCondition(executionContext, kubectl.WaitOptions{
		Resource:  "deployment/" + seaweedFSDeploymentConstant,
		Condition: availableConditionConstant,
		Namespace: deploymentEnvironment.deploymentNamespace,
		Timeout:   seaweedFSWaitTimeoutConstant,
	})
	if waitError != nil {
		return waitError
	}

	initWaitError := service.cluster.WaitForCondition(executionContext, kubectl.WaitOptions{
		Resource:  "job/" + seaweedFSInitJobConstant,
		Condition: completeConditionConstant,
		Namespace: deploymentEnvironment.deploymentNamespace,
		Timeout:   seaweedFSWaitTimeoutConstant,
	})
	if initWaitError != nil {
		service.logger.Warn("SeaweedFS init job did not complete, continuing", zap.Error(initWaitError))
		service.logInitJobPods(executionContext, deploymentEnvironment.deploymentNamespace)
	}

	return nil
}

func (service *Service) logInitJobPods(executionContext context.Context, namespaceName string) {
	podStatuses, listError := service.cluster.ListPodStatuses(executionContext, namespaceName)
	if listError != nil {
		return
	}
	for _, podStatus := range podStatuses {
		if !strings.HasPrefix(podStatus.Name, seaweedFSInitJobConstant) {
			continue
		}
		podLogs, logsError := service.cluster.PodLogs(executionContext, podStatus.Name, namespaceName, kubectl.LogOptions{TailLineCount: 50})
		if logsError != nil {
			continue
		}
		service.logger.Info("Init job pod logs", zap.String("pod", podStatus.Name), zap.String("logs", podLogs))
	}
}

func (service *Service) createOperatorExpectedCertificates(executionContext context.Context, deploymentEnvironment *environment) error {
	service.logger.Info("Creating operator-expected certificates")

	certificateFileNames := []string{"kfp-api-cert.yaml", "kfp-api-cert-issuer.yaml"}
	pendingManifests := make([]manifestDocument, 0, 2)

	for _, certificateFileName := range certificateFileNames {
		certificatePath := service.sourcePath(filepath.Join(baseCertificatesRelativePath, certificateFileName))
		manifestContent, readError := os.ReadFile(certificatePath)
		if readError != nil {
			service.logger.Warn("Certificate manifest not found", zap.String(logFieldPathConstant, certificatePath))
			continue
		}

		documents, decodeError := decodeManifestDocuments(manifestContent)
		if decodeError != nil {
			return decodeError
		}

		for _, document := range documents {
			switch {
			case documentKind(document) == certificateKindConstant && documentName(document) == apiCertificateNameConstant:
				derivedCertificate, derivationError := deriveMariaDBCertificate(document, dspaNameConstant, deploymentEnvironment.deploymentNamespace)
				if derivationError != nil {
					return derivationError
				}
				pendingManifests = append(pendingManifests, derivedCertificate)
			case documentKind(document) == issuerKindConstant:
				pendingManifests = append(pendingManifests, document)
			}
		}
	}

	for _, pendingManifest := range pendingManifests {
		encodedManifest, encodingError := encodeManifestDocument(pendingManifest)
		if encodingError != nil {
			return encodingError
		}
		if applyError := service.cluster.ApplyManifest(executionContext, encodedManifest, deploymentEnvironment.deploymentNamespace); applyError != nil {
			return applyError
		}
	}

	return nil
}

func (service *Service) deployApplication(executionContext context.Context, options Options, deploymentEnvironment *environment) error {
	service.logger.Info("Deploying pipelines application through operator")

	applicationManifest, manifestError := BuildPipelinesApplicationManifest(options)
	if manifestError != nil {
		return manifestError
	}

	if namespaceError := service.cluster.CreateNamespace(executionContext, deploymentEnvironment.deploymentNamespace); namespaceError != nil {
		return namespaceError
	}

	if options.PodToPodTLSEnabled {
		serviceCAConfigMapPath := service.sourcePath(serviceCAConfigMapRelativePath)
		if applyError := service.cluster.ApplyFile(executionContext, serviceCAConfigMapPath, deploymentEnvironment.deploymentNamespace); applyError != nil {
			service.logger.Warn("Service CA ConfigMap could not be applied", zap.Error(applyError))
		}
	}

	if applyError := service.cluster.ApplyManifest(executionContext, applicationManifest, deploymentEnvironment.deploymentNamespace); applyError != nil {
		return applyError
	}

	deploymentName := PipelinesApplicationDeploymentName()

	if creationError := service.waitForDeploymentCreation(executionContext, deploymentName, deploymentEnvironment.deploymentNamespace); creationError != nil {
		service.investigateDeploymentFailure(executionContext, deploymentEnvironment.deploymentNamespace, deploymentName)
		service.investigateDeploymentFailure(executionContext, deploymentEnvironment.operatorNamespace, operatorDeploymentNameConstant)
		return creationError
	}

	waitError := service.cluster.WaitForCondition(executionContext, kubectl.WaitOptions{
		Resource:  "deployment/" + deploymentName,
		Condition: availableLowercaseCondition,
		Namespace: deploymentEnvironment.deploymentNamespace,
		Timeout:   applicationWaitTimeoutConstant,
	})
	if waitError != nil {
		service.investigateDeploymentFailure(executionContext, deploymentEnvironment.deploymentNamespace, deploymentName)
		return fmt.Errorf("%s: %w", applicationNotReadyMessageConstant, waitError)
	}

	service.logger.Info("Pipelines application deployed", zap.String(logFieldDeploymentConstant, deploymentName))
	return nil
}

// waitForDeploymentCreation polls until the operator creates the deployment.
func (service *Service) waitForDeploymentCreation(executionContext context.Context, deploymentName string, namespaceName string) error {
	deadlineContext, cancelDeadline := context.WithTimeout(executionContext, applicationCreateTimeoutConstant)
	defer cancelDeadline()

	pollTicker := time.NewTicker(service.createPollInterval)
	defer pollTicker.Stop()

	for {
		exists, lookupError := service.cluster.DeploymentExists(deadlineContext, deploymentName, namespaceName)
		if lookupError == nil && exists {
			return nil
		}

		service.logger.Info("Waiting for deployment creation",
			zap.String(logFieldDeploymentConstant, deploymentName),
			zap.String(logFieldNamespaceConstant, namespaceName),
		)

		select {
		case <-deadlineContext.Done():
			return fmt.Errorf(applicationNotCreatedMessageTemplate, deploymentName)
		case <-pollTicker.C:
		}
	}
}

func (service *Service) deployDirect(executionContext context.Context, options Options) error {
	service.logger.Info("Deploying pipelines using direct manifests")

	scriptArguments := []string{service.sourcePath(deployScriptRelativePath)}
	if options.Proxy {
		scriptArguments = append(scriptArguments, "--proxy")
	}
	if !options.CacheEnabled {
		scriptArguments = append(scriptArguments, "--cache-disabled")
	}
	if options.PipelineStore == PipelineStoreKubernetes {
		scriptArguments = append(scriptArguments, "--deploy-k8s-native")
	}
	if options.MultiUser {
		scriptArguments = append(scriptArguments, "--multi-user")
	}
	if options.ArtifactProxy {
		scriptArguments = append(scriptArguments, "--artifact-proxy")
	}
	if len(options.StorageBackend) > 0 && options.StorageBackend != StorageBackendSeaweedFS {
		scriptArguments = append(scriptArguments, "--storage", options.StorageBackend)
	}
	if len(options.ArgoVersion) > 0 {
		scriptArguments = append(scriptArguments, "--argo-version", options.ArgoVersion)
	}
	if options.PodToPodTLSEnabled {
		scriptArguments = append(scriptArguments, "--tls-enabled")
	}

	deadlineContext, cancelDeadline := context.WithTimeout(executionContext, directDeployTimeoutConstant)
	defer cancelDeadline()

	_, deployError := service.tools.ExecuteBash(deadlineContext, execshell.CommandDetails{
		Arguments: scriptArguments,
		EnvironmentVariables: map[string]string{
			registryEnvironmentVariable: options.ImageRegistry,
		},
	})
	return deployError
}

func (service *Service) forwardAPIServerPort(executionContext context.Context, options Options, deploymentEnvironment *environment) error {
	if !options.ForwardPort {
		return nil
	}

	service.logger.Info("Forwarding API server port",
		zap.String(logFieldNamespaceConstant, deploymentEnvironment.deploymentNamespace))

	_, forwardError := service.tools.ExecuteBash(executionContext, execshell.CommandDetails{
		Arguments: []string{
			service.sourcePath(forwardPortScriptRelativePath),
			"-q",
			deploymentEnvironment.deploymentNamespace,
			apiServerServiceConstant,
			forwardPortNumberConstant,
			forwardPortNumberConstant,
		},
	})
	return forwardError
}

func (service *Service) sourcePath(relativePath string) string {
	if len(service.sourceDirectory) == 0 {
		return "./" + filepath.ToSlash(relativePath)
	}
	return filepath.Join(service.sourceDirectory, relativePath)
}

func pathExists(candidatePath string) bool {
	_, statError := os.Stat(candidatePath)
	return statError == nil
}
