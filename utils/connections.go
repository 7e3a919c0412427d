package utils

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff"
	es7 "github.com/elastic/go-elasticsearch/v7"
)

func CreateEsConnection(elasticsearchUrl string, elasticsearchUsername string, elasticsearchPassword string) (*es7.Client, error) {
	if elasticsearchUrl == "" {
		return nil, fmt.Errorf("no elasticsearch url configured")
	}

	var (
		clusterURLs  = []string{elasticsearchUrl}
		retryBackoff = backoff.NewExponentialBackOff()
	)

	cfg := es7.Config{
		Addresses: clusterURLs,
		Username:  elasticsearchUsername,
		Password:  elasticsearchPassword,

		RetryOnStatus: []int{502, 503, 504, 429},

		// Configure the backoff function
		RetryBackoff: func(i int) time.Duration {
			if i == 1 {
				retryBackoff.Reset()
			}
			return retryBackoff.NextBackOff()
		},

		// Retry up to 5 attempts
		MaxRetries: 5,
	}

	return es7.NewClient(cfg)
}

// NewHttpClient is shared by the outbound literature and mining clients.
func NewHttpClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConnsPerHost: 8,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
