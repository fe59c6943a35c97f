package credentials

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/yasmagic/elasticrtc-tools/pkg/logger"
	aws_interface "github.com/yasmagic/elasticrtc-tools/pkg/models/interfaces/aws"
)

// NewAWSConfig builds the SDK configuration for region signed with creds.
func NewAWSConfig(ctx context.Context, region string, creds Credentials) (aws.Config, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(
			awscreds.NewStaticCredentialsProvider(creds.AccessKeyID, creds.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return cfg, nil
}

// VerifyCallerIdentity asks STS who the credentials belong to and logs it.
// An error means the credentials were rejected.
func VerifyCallerIdentity(ctx context.Context, client aws_interface.STSClienter) (string, error) {
	out, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("failed to verify AWS credentials: %w", err)
	}
	arn := aws.ToString(out.Arn)
	logger.FromContext(ctx).Debugf("AWS caller identity: %s (account %s)", arn, aws.ToString(out.Account))
	return arn, nil
}
