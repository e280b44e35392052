package deploy

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	certificateKindConstant          = "Certificate"
	issuerKindConstant               = "Issuer"
	apiCertificateNameConstant       = "kfp-api-tls-cert"
	mariaDBCertNameTemplateConstant  = "mariadb-tls-cert-%s"
	mariaDBSecretTemplateConstant    = "ds-pipelines-mariadb-tls-%s"
	mariaDBServiceTemplateConstant   = "ds-pipeline-db-%s"
	localhostDNSNameConstant         = "localhost"
	manifestDecodeFailureMessage     = "unable to decode certificate manifest"
	manifestEncodeFailureMessage     = "unable to encode certificate manifest"
	missingCertificateFieldTemplate  = "certificate manifest is missing %s"
)

type manifestDocument = map[string]any

func decodeManifestDocuments(manifestContent []byte) ([]manifestDocument, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(manifestContent))

	documents := make([]manifestDocument, 0, 2)
	for {
		var document manifestDocument
		decodeError := decoder.Decode(&document)
		if errors.Is(decodeError, io.EOF) {
			break
		}
		if decodeError != nil {
			return nil, fmt.Errorf("%s: %w", manifestDecodeFailureMessage, decodeError)
		}
		if len(document) == 0 {
			continue
		}
		documents = append(documents, document)
	}

	return documents, nil
}

func encodeManifestDocument(document manifestDocument) ([]byte, error) {
	encoded, encodingError := yaml.Marshal(document)
	if encodingError != nil {
		return nil, fmt.Errorf("%s: %w", manifestEncodeFailureMessage, encodingError)
	}
	return encoded, nil
}

func documentKind(document manifestDocument) string {
	kind, _ := document["kind"].(string)
	return kind
}

func documentName(document manifestDocument) string {
	metadata, _ := document["metadata"].(map[string]any)
	name, _ := metadata["name"].(string)
	return name
}

// deriveMariaDBCertificate clones the API server certificate and rewrites it
// for the database service the operator provisions alongside the application.
func deriveMariaDBCertificate(baseCertificate manifestDocument, applicationName string, namespaceName string) (manifestDocument, error) {
	clonedContent, encodingError := encodeManifestDocument(baseCertificate)
	if encodingError != nil {
		return nil, encodingError
	}

	var derived manifestDocument
	if decodeError := yaml.Unmarshal(clonedContent, &derived); decodeError != nil {
		return nil, fmt.Errorf("%s: %w", manifestDecodeFailureMessage, decodeError)
	}

	metadata, metadataPresent := derived["metadata"].(map[string]any)
	if !metadataPresent {
		return nil, fmt.Errorf(missingCertificateFieldTemplate, "metadata")
	}
	specification, specificationPresent := derived["spec"].(map[string]any)
	if !specificationPresent {
		return nil, fmt.Errorf(missingCertificateFieldTemplate, "spec")
	}

	serviceName := fmt.Sprintf(mariaDBServiceTemplateConstant, applicationName)

	metadata["name"] = fmt.Sprintf(mariaDBCertNameTemplateConstant, applicationName)
	specification["commonName"] = serviceName
	specification["secretName"] = fmt.Sprintf(mariaDBSecretTemplateConstant, applicationName)
	specification["dnsNames"] = []any{
		serviceName,
		fmt.Sprintf("%s.%s", serviceName, namespaceName),
		fmt.Sprintf("%s.%s.svc.cluster.local", serviceName, namespaceName),
		localhostDNSNameConstant,
	}

	return derived, nil
}
