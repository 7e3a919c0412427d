package serviceInfo

import "fmt"

type ServiceInfo string

var (
	SERVICE_NAME        ServiceInfo = "Genelit Evidence Service"
	SERVICE_WELCOME     ServiceInfo = "Welcome to the Genelit literature evidence API!"
	SERVICE_DESCRIPTION ServiceInfo = "Literature evidence retrieval and aggregation for genes and variants."

	SERVICE_ARTIFACT    ServiceInfo = "genelit"
	SERVICE_VERSION     ServiceInfo = "0.1.0"
	SERVICE_TYPE_NO_VER ServiceInfo = ServiceInfo(fmt.Sprintf("org.genelit:%s", SERVICE_ARTIFACT))
	SERVICE_ID          ServiceInfo = SERVICE_TYPE_NO_VER
	SERVICE_TYPE        ServiceInfo = ServiceInfo(fmt.Sprintf("%s:%s", SERVICE_TYPE_NO_VER, SERVICE_VERSION))
)
