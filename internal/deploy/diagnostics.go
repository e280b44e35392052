package deploy

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/pipelab/dspctl/internal/kubectl"
)

const (
	runningPhaseConstant   = "Running"
	succeededPhaseConstant = "Succeeded"

	failedPodTailLineCountConstant   = 100
	previousPodTailLineCountConstant = 50
	runningPodTailLineCountConstant  = 30
	operatorPodTailLineCountConstant = 50

	logFieldPodConstant   = "pod"
	logFieldPhaseConstant = "phase"
)

// investigateDeploymentFailure collects pod descriptions, logs, and events
// from a namespace after a deployment times out. Collection failures are
// swallowed so the diagnostic pass never masks the original error.
func (service *Service) investigateDeploymentFailure(executionContext context.Context, namespaceName string, deploymentName string) {
	service.logger.Warn("Investigating deployment failure",
		zap.String(logFieldNamespaceConstant, namespaceName),
		zap.String(logFieldDeploymentConstant, deploymentName),
	)

	if podListing, listingError := service.cluster.ListPods(executionContext, namespaceName); listingError == nil {
		service.logger.Info("Pods in namespace", zap.String("pods", podListing))
	}

	podStatuses, statusError := service.cluster.ListPodStatuses(executionContext, namespaceName)
	if statusError != nil || len(podStatuses) == 0 {
		service.logNamespaceEvents(executionContext, namespaceName)
		return
	}

	failedPods := make([]kubectl.PodStatus, 0, len(podStatuses))
	runningPods := make([]kubectl.PodStatus, 0, len(podStatuses))
	for _, podStatus := range podStatuses {
		switch podStatus.Phase {
		case runningPhaseConstant:
			runningPods = append(runningPods, podStatus)
		case succeededPhaseConstant:
		default:
			failedPods = append(failedPods, podStatus)
		}
	}

	if len(failedPods) > 0 {
		for _, failedPod := range failedPods {
			service.logger.Warn("Investigating failed pod",
				zap.String(logFieldPodConstant, failedPod.Name),
				zap.String(logFieldPhaseConstant, failedPod.Phase),
			)

			if description, describeError := service.cluster.DescribePod(executionContext, failedPod.Name, namespaceName); describeError == nil {
				service.logger.Info("Pod description", zap.String(logFieldPodConstant, failedPod.Name), zap.String("description", description))
			}
			if currentLogs, logsError := service.cluster.PodLogs(executionContext, failedPod.Name, namespaceName, kubectl.LogOptions{TailLineCount: failedPodTailLineCountConstant}); logsError == nil {
				service.logger.Info("Pod logs", zap.String(logFieldPodConstant, failedPod.Name), zap.String("logs", currentLogs))
			}
			if previousLogs, logsError := service.cluster.PodLogs(executionContext, failedPod.Name, namespaceName, kubectl.LogOptions{TailLineCount: previousPodTailLineCountConstant, Previous: true}); logsError == nil {
				service.logger.Info("Previous pod logs", zap.String(logFieldPodConstant, failedPod.Name), zap.String("logs", previousLogs))
			}
		}
	} else {
		for _, runningPod := range runningPods {
			if currentLogs, logsError := service.cluster.PodLogs(executionContext, runningPod.Name, namespaceName, kubectl.LogOptions{TailLineCount: runningPodTailLineCountConstant}); logsError == nil {
				service.logger.Info("Pod logs", zap.String(logFieldPodConstant, runningPod.Name), zap.String("logs", currentLogs))
			}
		}
	}

	service.logNamespaceEvents(executionContext, namespaceName)
}

// investigateOperatorFailure reports on operator manager pods after the
// operator deployment fails to become available.
func (service *Service) investigateOperatorFailure(executionContext context.Context, operatorNamespace string) {
	service.logger.Warn("Operator did not become ready, investigating",
		zap.String(logFieldNamespaceConstant, operatorNamespace))

	if podListing, listingError := service.cluster.ListPods(executionContext, operatorNamespace); listingError == nil {
		service.logger.Info("Pods in namespace", zap.String("pods", podListing))
	}

	podStatuses, statusError := service.cluster.ListPodStatuses(executionContext, operatorNamespace)
	if statusError == nil {
		for _, podStatus := range podStatuses {
			if !strings.HasPrefix(podStatus.Name, operatorRepositoryNameConstant) {
				continue
			}
			if description, describeError := service.cluster.DescribePod(executionContext, podStatus.Name, operatorNamespace); describeError == nil {
				service.logger.Info("Pod description", zap.String(logFieldPodConstant, podStatus.Name), zap.String("description", description))
			}
			if currentLogs, logsError := service.cluster.PodLogs(executionContext, podStatus.Name, operatorNamespace, kubectl.LogOptions{TailLineCount: operatorPodTailLineCountConstant}); logsError == nil {
				service.logger.Info("Pod logs", zap.String(logFieldPodConstant, podStatus.Name), zap.String("logs", currentLogs))
			}
		}
	}

	service.logNamespaceEvents(executionContext, operatorNamespace)
}

func (service *Service) logNamespaceEvents(executionContext context.Context, namespaceName string) {
	eventListing, eventsError := service.cluster.ListEvents(executionContext, namespaceName)
	if eventsError != nil {
		return
	}
	service.logger.Info("Recent events in namespace",
		zap.String(logFieldNamespaceConstant, namespaceName),
		zap.String("events", eventListing),
	)
}
