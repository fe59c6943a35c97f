// Package aws defines the AWS client surfaces the cluster tool calls. Each
// interface is satisfied by the matching SDK client and by the mocks in
// mocks/aws.
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/yasmagic/elasticrtc-tools/pkg/models"
)

// ClusterProviderer is the command surface driven by the CLI.
type ClusterProviderer interface {
	CreateCluster(ctx context.Context, plan *models.ClusterPlan) (*models.ClusterDetails, error)
	DeleteCluster(ctx context.Context, stackName string) error
	ListClusters(ctx context.Context) ([]models.StackSummary, error)
	ShowCluster(ctx context.Context, stackName string) (*models.ClusterDetails, error)
}

// CloudFormationAPIer represents the AWS CloudFormation operations
type CloudFormationAPIer interface {
	GetTemplate(
		ctx context.Context,
		params *cloudformation.GetTemplateInput,
		opts ...func(*cloudformation.Options),
	) (*cloudformation.GetTemplateOutput, error)
	DescribeStacks(
		ctx context.Context,
		params *cloudformation.DescribeStacksInput,
		opts ...func(*cloudformation.Options),
	) (*cloudformation.DescribeStacksOutput, error)
	DescribeStackEvents(
		ctx context.Context,
		params *cloudformation.DescribeStackEventsInput,
		opts ...func(*cloudformation.Options),
	) (*cloudformation.DescribeStackEventsOutput, error)
	DescribeStackResources(
		ctx context.Context,
		params *cloudformation.DescribeStackResourcesInput,
		opts ...func(*cloudformation.Options),
	) (*cloudformation.DescribeStackResourcesOutput, error)
	CreateStack(
		ctx context.Context,
		params *cloudformation.CreateStackInput,
		opts ...func(*cloudformation.Options),
	) (*cloudformation.CreateStackOutput, error)
	DeleteStack(
		ctx context.Context,
		params *cloudformation.DeleteStackInput,
		opts ...func(*cloudformation.Options),
	) (*cloudformation.DeleteStackOutput, error)
	ListStacks(
		ctx context.Context,
		params *cloudformation.ListStacksInput,
		opts ...func(*cloudformation.Options),
	) (*cloudformation.ListStacksOutput, error)
}

// EC2Clienter defines the EC2 operations used for image and instance lookups
type EC2Clienter interface {
	DescribeImages(
		ctx context.Context,
		params *ec2.DescribeImagesInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DescribeImagesOutput, error)
	DescribeInstances(
		ctx context.Context,
		params *ec2.DescribeInstancesInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DescribeInstancesOutput, error)
}

// AutoScalingAPIer defines the Auto Scaling operations used by show
type AutoScalingAPIer interface {
	DescribeAutoScalingGroups(
		ctx context.Context,
		params *autoscaling.DescribeAutoScalingGroupsInput,
		optFns ...func(*autoscaling.Options),
	) (*autoscaling.DescribeAutoScalingGroupsOutput, error)
}

// Route53APIer defines the hosted zone lookup used during validation
type Route53APIer interface {
	GetHostedZone(
		ctx context.Context,
		params *route53.GetHostedZoneInput,
		optFns ...func(*route53.Options),
	) (*route53.GetHostedZoneOutput, error)
}

// S3APIer defines the bucket listing used during validation
type S3APIer interface {
	ListBuckets(
		ctx context.Context,
		params *s3.ListBucketsInput,
		optFns ...func(*s3.Options),
	) (*s3.ListBucketsOutput, error)
}

// STSClienter defines the interface for STS client operations
type STSClienter interface {
	GetCallerIdentity(
		ctx context.Context,
		params *sts.GetCallerIdentityInput,
		optFns ...func(*sts.Options),
	) (*sts.GetCallerIdentityOutput, error)
}

var (
	_ CloudFormationAPIer = (*cloudformation.Client)(nil)
	_ EC2Clienter         = (*ec2.Client)(nil)
	_ AutoScalingAPIer    = (*autoscaling.Client)(nil)
	_ Route53APIer        = (*route53.Client)(nil)
	_ S3APIer             = (*s3.Client)(nil)
	_ STSClienter         = (*sts.Client)(nil)
)
