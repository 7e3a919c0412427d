package serviceInfo

import (
	"net/http"

	"genelit/api/contexts"
	"genelit/api/models/dtos"
	serviceInfo "genelit/api/models/constants/service-info"

	"github.com/labstack/echo"
)

// Spec: https://github.com/ga4gh-discovery/ga4gh-service-info
func GetServiceInfo(c echo.Context) error {
	cfg := c.(*contexts.GenelitContext).Config

	environment := "prod"
	if cfg.Debug {
		environment = "dev"
	}

	return c.JSON(http.StatusOK, dtos.ServiceInfoDTO{
		Id:   string(serviceInfo.SERVICE_ID),
		Name: string(serviceInfo.SERVICE_NAME),
		Type: map[string]string{
			"artifact": string(serviceInfo.SERVICE_ARTIFACT),
			"group":    string(serviceInfo.SERVICE_TYPE_NO_VER),
			"version":  cfg.SemVer,
		},
		Description: string(serviceInfo.SERVICE_DESCRIPTION),
		Version:     cfg.SemVer,
		Contact:     cfg.ServiceContact,
		Environment: environment,
	})
}

func GetWelcome(c echo.Context) error {
	return c.JSON(http.StatusOK, serviceInfo.SERVICE_WELCOME)
}
