package deploy

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pipelab/dspctl/internal/execshell"
	"github.com/pipelab/dspctl/internal/kubectl"
	"github.com/pipelab/dspctl/internal/ui"
	"github.com/pipelab/dspctl/internal/utils/flags"
)

const (
	commandUseConstant              = "deploy"
	commandShortDescriptionConstant = "Deploy the data science pipeline stack onto a cluster"
	commandLongDescriptionConstant  = "deploy stands up the pipeline stack either through the pipelines operator or through direct manifests, depending on the requested features. It installs cert-manager, the operator, optional SeaweedFS and PyPI server components, and waits for the API server to become available."

	repositoryFlagNameConstant         = "repository"
	repositoryFlagDescriptionConstant  = "Source repository in owner/name form"
	baseRefFlagNameConstant            = "base-ref"
	baseRefFlagDescriptionConstant     = "Target branch of the source repository"
	namespaceFlagNameConstant          = "namespace"
	namespaceFlagDescriptionConstant   = "Namespace for the pipelines application"
	imageTagFlagNameConstant           = "image-tag"
	imageTagFlagDescriptionConstant    = "Tag of the previously built images"
	imageRegistryFlagNameConstant      = "image-registry"
	imageRegistryFlagDescription       = "Registry holding the previously built images"
	pipelineStoreFlagNameConstant      = "pipeline-store"
	pipelineStoreFlagDescription       = "Pipeline definition store"
	storageBackendFlagNameConstant     = "storage-backend"
	storageBackendFlagDescription      = "Object storage backend"
	argoVersionFlagNameConstant        = "argo-version"
	argoVersionFlagDescriptionConstant = "Argo Workflows version to install"
	pypiServerFlagNameConstant         = "deploy-pypi-server"
	pypiServerFlagDescriptionConstant  = "Deploy a package index server and upload packages"
	externalArgoFlagNameConstant       = "deploy-external-argo"
	externalArgoFlagDescription        = "Deploy Argo Workflows outside the operator"
	proxyFlagNameConstant              = "proxy"
	proxyFlagDescriptionConstant       = "Enable the API server proxy"
	cacheFlagNameConstant              = "cache-enabled"
	cacheFlagDescriptionConstant       = "Enable pipeline step caching"
	multiUserFlagNameConstant          = "multi-user"
	multiUserFlagDescriptionConstant   = "Enable multi-user mode"
	artifactProxyFlagNameConstant      = "artifact-proxy"
	artifactProxyFlagDescription       = "Enable the artifact proxy"
	forwardPortFlagNameConstant        = "forward-port"
	forwardPortFlagDescription         = "Forward the API server port after deployment"
	tlsFlagNameConstant                = "pod-to-pod-tls-enabled"
	tlsFlagDescriptionConstant         = "Enable TLS between pipeline components"

	missingRepositoryMessageConstant    = "repository is required; supply --repository"
	missingImageTagMessageConstant      = "image tag is required; supply --image-tag"
	missingImageRegistryMessageConstant = "image registry is required; supply --image-registry"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the deploy command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	Cluster                      ClusterClient
	Tools                        ToolExecutor
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
}

type commandFlagValues struct {
	deployPyPIServer   bool
	deployExternalArgo bool
	proxy              bool
	cacheEnabled       bool
	multiUser          bool
	artifactProxy      bool
	forwardPort        bool
	podToPodTLSEnabled bool
}

// Build constructs the deploy command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	configuration := builder.resolveConfiguration()
	flagValues := &commandFlagValues{}

	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.run(command, flagValues)
		},
	}

	command.Flags().String(repositoryFlagNameConstant, "", repositoryFlagDescriptionConstant)
	command.Flags().String(baseRefFlagNameConstant, "", baseRefFlagDescriptionConstant)
	command.Flags().String(namespaceFlagNameConstant, "", namespaceFlagDescriptionConstant)
	command.Flags().String(imageTagFlagNameConstant, "", imageTagFlagDescriptionConstant)
	command.Flags().String(imageRegistryFlagNameConstant, "", imageRegistryFlagDescription)
	command.Flags().String(pipelineStoreFlagNameConstant, "", flags.FormatChoiceUsage(configuration.PipelineStore, []string{PipelineStoreDatabase, PipelineStoreKubernetes}, pipelineStoreFlagDescription))
	command.Flags().String(storageBackendFlagNameConstant, "", flags.FormatChoiceUsage(configuration.StorageBackend, []string{StorageBackendSeaweedFS, StorageBackendMinIO}, storageBackendFlagDescription))
	command.Flags().String(argoVersionFlagNameConstant, "", argoVersionFlagDescriptionConstant)

	flags.AddToggleFlag(command.Flags(), &flagValues.deployPyPIServer, pypiServerFlagNameConstant, "", configuration.DeployPyPIServer, pypiServerFlagDescriptionConstant)
	flags.AddToggleFlag(command.Flags(), &flagValues.deployExternalArgo, externalArgoFlagNameConstant, "", configuration.DeployExternalArgo, externalArgoFlagDescription)
	flags.AddToggleFlag(command.Flags(), &flagValues.proxy, proxyFlagNameConstant, "", configuration.Proxy, proxyFlagDescriptionConstant)
	flags.AddToggleFlag(command.Flags(), &flagValues.cacheEnabled, cacheFlagNameConstant, "", configuration.CacheEnabled, cacheFlagDescriptionConstant)
	flags.AddToggleFlag(command.Flags(), &flagValues.multiUser, multiUserFlagNameConstant, "", configuration.MultiUser, multiUserFlagDescriptionConstant)
	flags.AddToggleFlag(command.Flags(), &flagValues.artifactProxy, artifactProxyFlagNameConstant, "", configuration.ArtifactProxy, artifactProxyFlagDescription)
	flags.AddToggleFlag(command.Flags(), &flagValues.forwardPort, forwardPortFlagNameConstant, "", configuration.ForwardPort, forwardPortFlagDescription)
	flags.AddToggleFlag(command.Flags(), &flagValues.podToPodTLSEnabled, tlsFlagNameConstant, "", configuration.PodToPodTLSEnabled, tlsFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, flagValues *commandFlagValues) error {
	configuration := builder.resolveConfiguration()
	applyConfiguredToggles(command, configuration, flagValues)

	repository, resolutionError := resolveStringFlag(command, repositoryFlagNameConstant, configuration.Repository)
	if resolutionError != nil {
		return resolutionError
	}
	if len(repository) == 0 {
		_ = command.Help()
		return errors.New(missingRepositoryMessageConstant)
	}

	imageTag, resolutionError := resolveStringFlag(command, imageTagFlagNameConstant, configuration.ImageTag)
	if resolutionError != nil {
		return resolutionError
	}
	if len(imageTag) == 0 {
		_ = command.Help()
		return errors.New(missingImageTagMessageConstant)
	}

	imageRegistry, resolutionError := resolveStringFlag(command, imageRegistryFlagNameConstant, configuration.ImageRegistry)
	if resolutionError != nil {
		return resolutionError
	}
	if len(imageRegistry) == 0 {
		_ = command.Help()
		return errors.New(missingImageRegistryMessageConstant)
	}

	baseRef, resolutionError := resolveStringFlag(command, baseRefFlagNameConstant, configuration.BaseRef)
	if resolutionError != nil {
		return resolutionError
	}
	namespace, resolutionError := resolveStringFlag(command, namespaceFlagNameConstant, configuration.Namespace)
	if resolutionError != nil {
		return resolutionError
	}
	pipelineStore, resolutionError := resolveStringFlag(command, pipelineStoreFlagNameConstant, configuration.PipelineStore)
	if resolutionError != nil {
		return resolutionError
	}
	storageBackend, resolutionError := resolveStringFlag(command, storageBackendFlagNameConstant, configuration.StorageBackend)
	if resolutionError != nil {
		return resolutionError
	}
	argoVersion, resolutionError := resolveStringFlag(command, argoVersionFlagNameConstant, configuration.ArgoVersion)
	if resolutionError != nil {
		return resolutionError
	}

	logger := builder.resolveLogger()

	cluster, tools, collaboratorError := builder.resolveCollaborators(logger)
	if collaboratorError != nil {
		return collaboratorError
	}

	service, serviceCreationError := NewService(Dependencies{Logger: logger, Cluster: cluster, Tools: tools})
	if serviceCreationError != nil {
		return serviceCreationError
	}

	return service.Deploy(command.Context(), Options{
		Repository:         repository,
		BaseRef:            baseRef,
		Namespace:          namespace,
		ImageTag:           imageTag,
		ImageRegistry:      imageRegistry,
		PipelineStore:      strings.ToLower(pipelineStore),
		StorageBackend:     strings.ToLower(storageBackend),
		ArgoVersion:        argoVersion,
		DeployPyPIServer:   flagValues.deployPyPIServer,
		DeployExternalArgo: flagValues.deployExternalArgo,
		Proxy:              flagValues.proxy,
		CacheEnabled:       flagValues.cacheEnabled,
		MultiUser:          flagValues.multiUser,
		ArtifactProxy:      flagValues.artifactProxy,
		ForwardPort:        flagValues.forwardPort,
		PodToPodTLSEnabled: flagValues.podToPodTLSEnabled,
	})
}

func (builder *CommandBuilder) resolveCollaborators(logger *zap.Logger) (ClusterClient, ToolExecutor, error) {
	if builder.Cluster != nil && builder.Tools != nil {
		return builder.Cluster, builder.Tools, nil
	}

	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}

	executor, executorError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), humanReadableLogging)
	if executorError != nil {
		return nil, nil, executorError
	}
	if humanReadableLogging {
		executor.SetCommandEventObserver(ui.NewConsoleCommandEventLogger(logger))
	}

	cluster := builder.Cluster
	if cluster == nil {
		kubectlClient, clientError := kubectl.NewClient(executor)
		if clientError != nil {
			return nil, nil, clientError
		}
		cluster = kubectlClient
	}

	tools := builder.Tools
	if tools == nil {
		tools = executor
	}

	return cluster, tools, nil
}

// applyConfiguredToggles overrides toggle defaults with configured values for
// flags the user did not set. The flag defaults are registered before the
// configuration file is loaded.
func applyConfiguredToggles(command *cobra.Command, configuration CommandConfiguration, flagValues *commandFlagValues) {
	configuredToggles := []struct {
		flagName string
		target   *bool
		value    bool
	}{
		{pypiServerFlagNameConstant, &flagValues.deployPyPIServer, configuration.DeployPyPIServer},
		{externalArgoFlagNameConstant, &flagValues.deployExternalArgo, configuration.DeployExternalArgo},
		{proxyFlagNameConstant, &flagValues.proxy, configuration.Proxy},
		{cacheFlagNameConstant, &flagValues.cacheEnabled, configuration.CacheEnabled},
		{multiUserFlagNameConstant, &flagValues.multiUser, configuration.MultiUser},
		{artifactProxyFlagNameConstant, &flagValues.artifactProxy, configuration.ArtifactProxy},
		{forwardPortFlagNameConstant, &flagValues.forwardPort, configuration.ForwardPort},
		{tlsFlagNameConstant, &flagValues.podToPodTLSEnabled, configuration.PodToPodTLSEnabled},
	}

	for _, configuredToggle := range configuredToggles {
		if command.Flags().Changed(configuredToggle.flagName) {
			continue
		}
		*configuredToggle.target = configuredToggle.value
	}
}

func resolveStringFlag(command *cobra.Command, flagName string, configuredValue string) (string, error) {
	flagValue, flagError := command.Flags().GetString(flagName)
	if flagError != nil {
		return "", flagError
	}
	trimmedValue := strings.TrimSpace(flagValue)
	if len(trimmedValue) > 0 {
		return trimmedValue, nil
	}
	return strings.TrimSpace(configuredValue), nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
