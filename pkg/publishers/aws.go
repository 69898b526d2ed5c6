package publishers

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// loadAWSConfig resolves the shared SDK config for a sink in region.
func loadAWSConfig(ctx context.Context, region string, access AWSAccess) (aws.Config, error) {
	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(region)}
	if access.AccessKeyID != "" && access.SecretAccessKey != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(access.AccessKeyID, access.SecretAccessKey, ""),
		))
	}
	cfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return cfg, nil
}

// endpointOverride returns the endpoint to use, or nil for the SDK default.
func endpointOverride(access AWSAccess) *string {
	if access.Endpoint == "" {
		return nil
	}
	return aws.String(access.Endpoint)
}

// isFIFO reports whether a queue URL or topic ARN names a FIFO resource.
// FIFO resources reject messages without a group id and dedupe on the
// deduplication id for five minutes.
func isFIFO(target string) bool {
	return strings.HasSuffix(target, ".fifo")
}

// messageGroup keeps events for one action in order on FIFO resources.
func messageGroup(evt Event) *string {
	if evt.Action == "" {
		return aws.String("console")
	}
	return aws.String(evt.Action)
}
