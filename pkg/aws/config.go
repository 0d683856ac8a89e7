package aws

import (
	"context"
	"fmt"
	"os"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

// LoadAWSConfig loads the default AWS config. When AWS_ENDPOINT (or one of the
// service-specific AWS_SNS_ENDPOINT / AWS_CLOUDWATCH_ENDPOINT overrides) is set,
// every client is pointed at that URL, which is how LocalStack is used locally.
func LoadAWSConfig(ctx context.Context) (sdkaws.Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return cfg, fmt.Errorf("failed to load aws config: %w", err)
	}

	endpoint := firstNonEmpty(
		os.Getenv("AWS_SNS_ENDPOINT"),
		os.Getenv("AWS_CLOUDWATCH_ENDPOINT"),
		os.Getenv("AWS_ENDPOINT"),
	)
	if endpoint == "" {
		return cfg, nil
	}

	signingRegion := cfg.Region
	if signingRegion == "" {
		signingRegion = os.Getenv("AWS_REGION")
	}

	cfg.EndpointResolverWithOptions = sdkaws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (sdkaws.Endpoint, error) {
		sr := signingRegion
		if sr == "" {
			sr = region
		}
		return sdkaws.Endpoint{
			URL:               endpoint,
			SigningRegion:     sr,
			HostnameImmutable: true,
		}, nil
	})

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
