package deploy

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

const (
	dspaAPIVersionConstant          = "datasciencepipelinesapplications.opendatahub.io/v1"
	dspaKindConstant                = "DataSciencePipelinesApplication"
	dspaVersionConstant             = "v2"
	dspaNameConstant                = "dspa-test"
	dspaDeploymentPrefixConstant    = "ds-pipeline-"
	serviceCABundleFileNameConstant = "service-ca.crt"
	serviceCAConfigMapNameConstant  = "openshift-service-ca.crt"
	minioImageConstant              = "quay.io/opendatahub/minio:RELEASE.2019-08-14T20-37-41Z-license-compliance"
	mariaDBImageConstant            = "quay.io/sclorg/mariadb-105-c9s:latest"
	artifactBucketNameConstant      = "mlpipeline"
	artifactSecretNameConstant      = "mlpipeline-minio-artifact"
	artifactAccessKeyFieldConstant  = "accesskey"
	artifactSecretKeyFieldConstant  = "secretkey"
	seaweedFSHostTemplateConstant   = "seaweedfs.%s.svc.cluster.local"
	seaweedFSPortConstant           = "8333"
	seaweedFSRegionConstant         = "us-east-1"
	seaweedFSSchemeConstant         = "http"

	apiServerImageTemplateConstant          = "%s/apiserver:%s"
	driverImageTemplateConstant             = "%s/driver:%s"
	launcherImageTemplateConstant           = "%s/launcher:%s"
	persistenceAgentImageTemplateConstant   = "%s/persistenceagent:%s"
	scheduledWorkflowImageTemplateConstant  = "%s/scheduledworkflow:%s"
	dspaEncodingFailureMessageConstant      = "unable to encode pipelines application manifest"
)

type dspaManifest struct {
	APIVersion string       `yaml:"apiVersion"`
	Kind       string       `yaml:"kind"`
	Metadata   dspaMetadata `yaml:"metadata"`
	Spec       dspaSpec     `yaml:"spec"`
}

type dspaMetadata struct {
	Name      string `yaml:"name"`
	Namespace string `yaml:"namespace"`
}

type dspaSpec struct {
	DSPVersion        string             `yaml:"dspVersion"`
	APIServer         dspaAPIServer      `yaml:"apiServer"`
	PersistenceAgent  dspaImageComponent `yaml:"persistenceAgent"`
	ScheduledWorkflow dspaImageComponent `yaml:"scheduledWorkflow"`
	PodToPodTLS       bool               `yaml:"podToPodTLS"`
	ObjectStorage     dspaObjectStorage  `yaml:"objectStorage"`
	Database          dspaDatabase       `yaml:"database"`
}

type dspaAPIServer struct {
	Image             string        `yaml:"image"`
	ArgoDriverImage   string        `yaml:"argoDriverImage"`
	ArgoLauncherImage string        `yaml:"argoLauncherImage"`
	CacheEnabled      bool          `yaml:"cacheEnabled"`
	EnableOauth       bool          `yaml:"enableOauth"`
	CABundleFileName  string        `yaml:"caBundleFileName,omitempty"`
	CABundle          *dspaCABundle `yaml:"cABundle,omitempty"`
	PipelineStore     string        `yaml:"pipelineStore,omitempty"`
}

type dspaCABundle struct {
	ConfigMapName string `yaml:"configMapName"`
	ConfigMapKey  string `yaml:"configMapKey"`
}

type dspaImageComponent struct {
	Image string `yaml:"image"`
}

type dspaObjectStorage struct {
	EnableExternalRoute bool                 `yaml:"enableExternalRoute,omitempty"`
	Minio               *dspaMinio           `yaml:"minio,omitempty"`
	ExternalStorage     *dspaExternalStorage `yaml:"externalStorage,omitempty"`
}

type dspaMinio struct {
	Deploy bool   `yaml:"deploy"`
	Image  string `yaml:"image"`
}

type dspaExternalStorage struct {
	Host                string                  `yaml:"host"`
	Port                string                  `yaml:"port"`
	Bucket              string                  `yaml:"bucket"`
	Region              string                  `yaml:"region"`
	Scheme              string                  `yaml:"scheme"`
	S3CredentialsSecret dspaCredentialsSecret   `yaml:"s3CredentialsSecret"`
}

type dspaCredentialsSecret struct {
	AccessKey  string `yaml:"accessKey"`
	SecretKey  string `yaml:"secretKey"`
	SecretName string `yaml:"secretName"`
}

type dspaDatabase struct {
	MariaDB dspaImageComponent `yaml:"mariaDB"`
}

// BuildPipelinesApplicationManifest renders the DataSciencePipelinesApplication
// resource the operator reconciles into a full pipeline stack.
func BuildPipelinesApplicationManifest(options Options) ([]byte, error) {
	apiServer := dspaAPIServer{
		Image:             fmt.Sprintf(apiServerImageTemplateConstant, options.ImageRegistry, options.ImageTag),
		ArgoDriverImage:   fmt.Sprintf(driverImageTemplateConstant, options.ImageRegistry, options.ImageTag),
		ArgoLauncherImage: fmt.Sprintf(launcherImageTemplateConstant, options.ImageRegistry, options.ImageTag),
		CacheEnabled:      options.CacheEnabled,
		// OAuth stays off to keep the API server reachable without the TLS proxy.
		EnableOauth: false,
	}

	if options.PodToPodTLSEnabled {
		apiServer.CABundleFileName = serviceCABundleFileNameConstant
		apiServer.CABundle = &dspaCABundle{
			ConfigMapName: serviceCAConfigMapNameConstant,
			ConfigMapKey:  serviceCABundleFileNameConstant,
		}
	}

	if options.PipelineStore == PipelineStoreKubernetes {
		apiServer.PipelineStore = PipelineStoreKubernetes
	}

	manifest := dspaManifest{
		APIVersion: dspaAPIVersionConstant,
		Kind:       dspaKindConstant,
		Metadata: dspaMetadata{
			Name:      dspaNameConstant,
			Namespace: options.Namespace,
		},
		Spec: dspaSpec{
			DSPVersion: dspaVersionConstant,
			APIServer:  apiServer,
			PersistenceAgent: dspaImageComponent{
				Image: fmt.Sprintf(persistenceAgentImageTemplateConstant, options.ImageRegistry, options.ImageTag),
			},
			ScheduledWorkflow: dspaImageComponent{
				Image: fmt.Sprintf(scheduledWorkflowImageTemplateConstant, options.ImageRegistry, options.ImageTag),
			},
			PodToPodTLS: options.PodToPodTLSEnabled,
			Database: dspaDatabase{
				MariaDB: dspaImageComponent{Image: mariaDBImageConstant},
			},
		},
	}

	if options.StorageBackend == StorageBackendMinIO {
		manifest.Spec.ObjectStorage = dspaObjectStorage{
			EnableExternalRoute: true,
			Minio:               &dspaMinio{Deploy: true, Image: minioImageConstant},
		}
	} else {
		manifest.Spec.ObjectStorage = dspaObjectStorage{
			ExternalStorage: &dspaExternalStorage{
				Host:   fmt.Sprintf(seaweedFSHostTemplateConstant, options.Namespace),
				Port:   seaweedFSPortConstant,
				Bucket: artifactBucketNameConstant,
				// Region is required by the client even though SeaweedFS ignores it.
				Region: seaweedFSRegionConstant,
				Scheme: seaweedFSSchemeConstant,
				S3CredentialsSecret: dspaCredentialsSecret{
					AccessKey:  artifactAccessKeyFieldConstant,
					SecretKey:  artifactSecretKeyFieldConstant,
					SecretName: artifactSecretNameConstant,
				},
			},
		}
	}

	encoded, encodingError := yaml.Marshal(manifest)
	if encodingError != nil {
		return nil, fmt.Errorf("%s: %w", dspaEncodingFailureMessageConstant, encodingError)
	}

	return encoded, nil
}

// PipelinesApplicationDeploymentName returns the API server deployment name the
// operator creates for the managed pipelines application.
func PipelinesApplicationDeploymentName() string {
	return dspaDeploymentPrefixConstant + dspaNameConstant
}
