package deploy

import "strings"

// Pipeline store backends.
const (
	PipelineStoreDatabase   = "database"
	PipelineStoreKubernetes = "kubernetes"
)

// Object storage backends.
const (
	StorageBackendSeaweedFS = "seaweedfs"
	StorageBackendMinIO     = "minio"
)

const (
	defaultNamespaceConstant     = "kubeflow"
	defaultBaseRefConstant       = "main"
	defaultPipelineStoreConstant = PipelineStoreDatabase
	defaultStorageConstant       = StorageBackendSeaweedFS

	configurationBaseRefKeyConstant        = "base_ref"
	configurationNamespaceKeyConstant      = "namespace"
	configurationPipelineStoreKeyConstant  = "pipeline_store"
	configurationStorageBackendKeyConstant = "storage_backend"
	configurationCacheEnabledKeyConstant   = "cache_enabled"
	configurationForwardPortKeyConstant    = "forward_port"
)

// CommandConfiguration captures configurable defaults for the deploy command.
type CommandConfiguration struct {
	Repository         string `mapstructure:"repository"`
	BaseRef            string `mapstructure:"base_ref"`
	Namespace          string `mapstructure:"namespace"`
	ImageTag           string `mapstructure:"image_tag"`
	ImageRegistry      string `mapstructure:"image_registry"`
	PipelineStore      string `mapstructure:"pipeline_store"`
	StorageBackend     string `mapstructure:"storage_backend"`
	ArgoVersion        string `mapstructure:"argo_version"`
	DeployPyPIServer   bool   `mapstructure:"deploy_pypi_server"`
	DeployExternalArgo bool   `mapstructure:"deploy_external_argo"`
	Proxy              bool   `mapstructure:"proxy"`
	CacheEnabled       bool   `mapstructure:"cache_enabled"`
	MultiUser          bool   `mapstructure:"multi_user"`
	ArtifactProxy      bool   `mapstructure:"artifact_proxy"`
	ForwardPort        bool   `mapstructure:"forward_port"`
	PodToPodTLSEnabled bool   `mapstructure:"pod_to_pod_tls_enabled"`
}

// DefaultCommandConfiguration returns baseline deploy settings.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		BaseRef:        defaultBaseRefConstant,
		Namespace:      defaultNamespaceConstant,
		PipelineStore:  defaultPipelineStoreConstant,
		StorageBackend: defaultStorageConstant,
		CacheEnabled:   true,
		ForwardPort:    true,
	}
}

// DefaultConfigurationValues exposes deploy defaults keyed for the configuration loader.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + "." + configurationBaseRefKeyConstant:        defaults.BaseRef,
		rootKey + "." + configurationNamespaceKeyConstant:      defaults.Namespace,
		rootKey + "." + configurationPipelineStoreKeyConstant:  defaults.PipelineStore,
		rootKey + "." + configurationStorageBackendKeyConstant: defaults.StorageBackend,
		rootKey + "." + configurationCacheEnabledKeyConstant:   defaults.CacheEnabled,
		rootKey + "." + configurationForwardPortKeyConstant:    defaults.ForwardPort,
	}
}

// Sanitize trims whitespace and applies defaults to the configuration.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Repository = strings.TrimSpace(configuration.Repository)
	sanitized.BaseRef = strings.TrimSpace(configuration.BaseRef)
	sanitized.Namespace = strings.TrimSpace(configuration.Namespace)
	sanitized.ImageTag = strings.TrimSpace(configuration.ImageTag)
	sanitized.ImageRegistry = strings.TrimSpace(configuration.ImageRegistry)
	sanitized.PipelineStore = strings.ToLower(strings.TrimSpace(configuration.PipelineStore))
	sanitized.StorageBackend = strings.ToLower(strings.TrimSpace(configuration.StorageBackend))
	sanitized.ArgoVersion = strings.TrimSpace(configuration.ArgoVersion)

	if len(sanitized.BaseRef) == 0 {
		sanitized.BaseRef = defaultBaseRefConstant
	}
	if len(sanitized.Namespace) == 0 {
		sanitized.Namespace = defaultNamespaceConstant
	}
	if len(sanitized.PipelineStore) == 0 {
		sanitized.PipelineStore = defaultPipelineStoreConstant
	}
	if len(sanitized.StorageBackend) == 0 {
		sanitized.StorageBackend = defaultStorageConstant
	}

	return sanitized
}
