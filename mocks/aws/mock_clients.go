package mocks

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/stretchr/testify/mock"
	aws_interface "github.com/yasmagic/elasticrtc-tools/pkg/models/interfaces/aws"
)

type MockCloudFormationAPIer struct {
	mock.Mock
}

func (m *MockCloudFormationAPIer) GetTemplate(
	ctx context.Context,
	params *cloudformation.GetTemplateInput,
	_ ...func(*cloudformation.Options),
) (*cloudformation.GetTemplateOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*cloudformation.GetTemplateOutput)
	return out, args.Error(1)
}

func (m *MockCloudFormationAPIer) DescribeStacks(
	ctx context.Context,
	params *cloudformation.DescribeStacksInput,
	_ ...func(*cloudformation.Options),
) (*cloudformation.DescribeStacksOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*cloudformation.DescribeStacksOutput)
	return out, args.Error(1)
}

func (m *MockCloudFormationAPIer) DescribeStackEvents(
	ctx context.Context,
	params *cloudformation.DescribeStackEventsInput,
	_ ...func(*cloudformation.Options),
) (*cloudformation.DescribeStackEventsOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*cloudformation.DescribeStackEventsOutput)
	return out, args.Error(1)
}

func (m *MockCloudFormationAPIer) DescribeStackResources(
	ctx context.Context,
	params *cloudformation.DescribeStackResourcesInput,
	_ ...func(*cloudformation.Options),
) (*cloudformation.DescribeStackResourcesOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*cloudformation.DescribeStackResourcesOutput)
	return out, args.Error(1)
}

func (m *MockCloudFormationAPIer) CreateStack(
	ctx context.Context,
	params *cloudformation.CreateStackInput,
	_ ...func(*cloudformation.Options),
) (*cloudformation.CreateStackOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*cloudformation.CreateStackOutput)
	return out, args.Error(1)
}

func (m *MockCloudFormationAPIer) DeleteStack(
	ctx context.Context,
	params *cloudformation.DeleteStackInput,
	_ ...func(*cloudformation.Options),
) (*cloudformation.DeleteStackOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*cloudformation.DeleteStackOutput)
	return out, args.Error(1)
}

func (m *MockCloudFormationAPIer) ListStacks(
	ctx context.Context,
	params *cloudformation.ListStacksInput,
	_ ...func(*cloudformation.Options),
) (*cloudformation.ListStacksOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*cloudformation.ListStacksOutput)
	return out, args.Error(1)
}

type MockEC2Clienter struct {
	mock.Mock
}

func (m *MockEC2Clienter) DescribeImages(
	ctx context.Context,
	params *ec2.DescribeImagesInput,
	_ ...func(*ec2.Options),
) (*ec2.DescribeImagesOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*ec2.DescribeImagesOutput)
	return out, args.Error(1)
}

func (m *MockEC2Clienter) DescribeInstances(
	ctx context.Context,
	params *ec2.DescribeInstancesInput,
	_ ...func(*ec2.Options),
) (*ec2.DescribeInstancesOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*ec2.DescribeInstancesOutput)
	return out, args.Error(1)
}

type MockAutoScalingAPIer struct {
	mock.Mock
}

func (m *MockAutoScalingAPIer) DescribeAutoScalingGroups(
	ctx context.Context,
	params *autoscaling.DescribeAutoScalingGroupsInput,
	_ ...func(*autoscaling.Options),
) (*autoscaling.DescribeAutoScalingGroupsOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*autoscaling.DescribeAutoScalingGroupsOutput)
	return out, args.Error(1)
}

type MockRoute53APIer struct {
	mock.Mock
}

func (m *MockRoute53APIer) GetHostedZone(
	ctx context.Context,
	params *route53.GetHostedZoneInput,
	_ ...func(*route53.Options),
) (*route53.GetHostedZoneOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*route53.GetHostedZoneOutput)
	return out, args.Error(1)
}

type MockS3APIer struct {
	mock.Mock
}

func (m *MockS3APIer) ListBuckets(
	ctx context.Context,
	params *s3.ListBucketsInput,
	_ ...func(*s3.Options),
) (*s3.ListBucketsOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*s3.ListBucketsOutput)
	return out, args.Error(1)
}

type MockSTSClienter struct {
	mock.Mock
}

func (m *MockSTSClienter) GetCallerIdentity(
	ctx context.Context,
	params *sts.GetCallerIdentityInput,
	_ ...func(*sts.Options),
) (*sts.GetCallerIdentityOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*sts.GetCallerIdentityOutput)
	return out, args.Error(1)
}

var (
	_ aws_interface.CloudFormationAPIer = (*MockCloudFormationAPIer)(nil)
	_ aws_interface.EC2Clienter         = (*MockEC2Clienter)(nil)
	_ aws_interface.AutoScalingAPIer    = (*MockAutoScalingAPIer)(nil)
	_ aws_interface.Route53APIer        = (*MockRoute53APIer)(nil)
	_ aws_interface.S3APIer             = (*MockS3APIer)(nil)
	_ aws_interface.STSClienter         = (*MockSTSClienter)(nil)
)
