package deploy_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/pipelab/dspctl/internal/deploy"
)

const (
	testImageRegistryConstant = "registry.example.com/pipelines"
	testImageTagConstant      = "pr-4242"
	testNamespaceConstant     = "kubeflow"
)

func baseManifestOptions() deploy.Options {
	return deploy.Options{
		Repository:     "opendatahub-io/data-science-pipelines",
		Namespace:      testNamespaceConstant,
		ImageTag:       testImageTagConstant,
		ImageRegistry:  testImageRegistryConstant,
		PipelineStore:  deploy.PipelineStoreDatabase,
		StorageBackend: deploy.StorageBackendSeaweedFS,
		CacheEnabled:   true,
	}
}

func decodeManifest(t *testing.T, manifestContent []byte) map[string]any {
	t.Helper()
	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(manifestContent, &decoded))
	return decoded
}

func manifestSpec(t *testing.T, decoded map[string]any) map[string]any {
	t.Helper()
	specification, specificationPresent := decoded["spec"].(map[string]any)
	require.True(t, specificationPresent)
	return specification
}

func TestBuildPipelinesApplicationManifestDefaults(t *testing.T) {
	manifestContent, buildError := deploy.BuildPipelinesApplicationManifest(baseManifestOptions())
	require.NoError(t, buildError)

	decoded := decodeManifest(t, manifestContent)
	require.Equal(t, "datasciencepipelinesapplications.opendatahub.io/v1", decoded["apiVersion"])
	require.Equal(t, "DataSciencePipelinesApplication", decoded["kind"])

	metadata := decoded["metadata"].(map[string]any)
	require.Equal(t, "dspa-test", metadata["name"])
	require.Equal(t, testNamespaceConstant, metadata["namespace"])

	specification := manifestSpec(t, decoded)
	require.Equal(t, "v2", specification["dspVersion"])
	require.Equal(t, false, specification["podToPodTLS"])

	apiServer := specification["apiServer"].(map[string]any)
	require.Equal(t, testImageRegistryConstant+"/apiserver:"+testImageTagConstant, apiServer["image"])
	require.Equal(t, testImageRegistryConstant+"/driver:"+testImageTagConstant, apiServer["argoDriverImage"])
	require.Equal(t, testImageRegistryConstant+"/launcher:"+testImageTagConstant, apiServer["argoLauncherImage"])
	require.Equal(t, true, apiServer["cacheEnabled"])
	require.Equal(t, false, apiServer["enableOauth"])
	require.NotContains(t, apiServer, "pipelineStore")
	require.NotContains(t, apiServer, "cABundle")

	objectStorage := specification["objectStorage"].(map[string]any)
	externalStorage := objectStorage["externalStorage"].(map[string]any)
	require.Equal(t, "seaweedfs."+testNamespaceConstant+".svc.cluster.local", externalStorage["host"])
	require.Equal(t, "8333", externalStorage["port"])
	require.Equal(t, "mlpipeline", externalStorage["bucket"])
	require.Equal(t, "http", externalStorage["scheme"])

	credentialsSecret := externalStorage["s3CredentialsSecret"].(map[string]any)
	require.Equal(t, "mlpipeline-minio-artifact", credentialsSecret["secretName"])

	database := specification["database"].(map[string]any)
	mariaDB := database["mariaDB"].(map[string]any)
	require.Equal(t, "quay.io/sclorg/mariadb-105-c9s:latest", mariaDB["image"])
}

func TestBuildPipelinesApplicationManifestMinioBackend(t *testing.T) {
	options := baseManifestOptions()
	options.StorageBackend = deploy.StorageBackendMinIO

	manifestContent, buildError := deploy.BuildPipelinesApplicationManifest(options)
	require.NoError(t, buildError)

	specification := manifestSpec(t, decodeManifest(t, manifestContent))
	objectStorage := specification["objectStorage"].(map[string]any)
	require.Equal(t, true, objectStorage["enableExternalRoute"])

	minio := objectStorage["minio"].(map[string]any)
	require.Equal(t, true, minio["deploy"])
	require.Contains(t, minio["image"], "quay.io/opendatahub/minio")
	require.NotContains(t, objectStorage, "externalStorage")
}

func TestBuildPipelinesApplicationManifestTLSAndKubernetesStore(t *testing.T) {
	options := baseManifestOptions()
	options.PodToPodTLSEnabled = true
	options.PipelineStore = deploy.PipelineStoreKubernetes
	options.CacheEnabled = false

	manifestContent, buildError := deploy.BuildPipelinesApplicationManifest(options)
	require.NoError(t, buildError)

	specification := manifestSpec(t, decodeManifest(t, manifestContent))
	require.Equal(t, true, specification["podToPodTLS"])

	apiServer := specification["apiServer"].(map[string]any)
	require.Equal(t, false, apiServer["cacheEnabled"])
	require.Equal(t, "kubernetes", apiServer["pipelineStore"])
	require.Equal(t, "service-ca.crt", apiServer["caBundleFileName"])

	caBundle := apiServer["cABundle"].(map[string]any)
	require.Equal(t, "openshift-service-ca.crt", caBundle["configMapName"])
	require.Equal(t, "service-ca.crt", caBundle["configMapKey"])
}

func TestPipelinesApplicationDeploymentName(t *testing.T) {
	require.Equal(t, "ds-pipeline-dspa-test", deploy.PipelinesApplicationDeploymentName())
}
