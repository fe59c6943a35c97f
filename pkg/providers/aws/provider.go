package aws

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	cftypes "github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/yasmagic/elasticrtc-tools/pkg/logger"
	"github.com/yasmagic/elasticrtc-tools/pkg/models"
	aws_interface "github.com/yasmagic/elasticrtc-tools/pkg/models/interfaces/aws"
	"github.com/yasmagic/elasticrtc-tools/pkg/template"
	"golang.org/x/sync/errgroup"
)

const (
	OutputURL          = "URL"
	OutputAWSCname     = "AWSCname"
	OutputClusterCname = "ClusterCname"

	// ResourceDNS exists only when the stack registers its own CNAME.
	ResourceDNS   = "KurentoResourceSet"
	ResourceGroup = "KurentoGroup"

	MaxConcurrentLookups = 8
)

// Progress is the operator facing output of long running commands.
type Progress interface {
	Logf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Begin(message string)
	Tick()
	Done()
	Abort()
}

// ClusterProvider runs the cluster commands against one region.
type ClusterProvider struct {
	Region         string
	CloudFormation aws_interface.CloudFormationAPIer
	EC2            aws_interface.EC2Clienter
	AutoScaling    aws_interface.AutoScalingAPIer
	Resolver       CNAMEResolver
	Progress       Progress

	PollInterval time.Duration
	WaitTimeout  time.Duration
}

var _ aws_interface.ClusterProviderer = (*ClusterProvider)(nil)

var NewClusterProviderFunc = NewClusterProvider

// NewClusterProvider wires the provider to clients. Zero wait settings fall
// back to the defaults.
func NewClusterProvider(
	clients *Clients,
	cfg *models.ClusterConfig,
	progress Progress,
) aws_interface.ClusterProviderer {
	p := &ClusterProvider{
		Region:         cfg.Region,
		CloudFormation: clients.CloudFormation,
		EC2:            clients.EC2,
		AutoScaling:    clients.AutoScaling,
		Resolver:       net.DefaultResolver,
		Progress:       progress,
		PollInterval:   cfg.PollInterval,
		WaitTimeout:    cfg.WaitTimeout,
	}
	if p.PollInterval <= 0 {
		p.PollInterval = models.DefaultPollInterval
	}
	if p.WaitTimeout <= 0 {
		p.WaitTimeout = models.DefaultWaitTimeout
	}
	return p
}

// CreateCluster starts the stack described by plan, waits for it and for its
// DNS record, then returns its details.
func (p *ClusterProvider) CreateCluster(
	ctx context.Context,
	plan *models.ClusterPlan,
) (*models.ClusterDetails, error) {
	name := plan.Config.StackName

	p.Progress.Logf("Build CloudFormation template")
	tpl, err := template.Parse(plan.TemplateBody)
	if err != nil {
		return nil, err
	}

	p.Progress.Logf("Get Kurento Media Server AMI for region: %s", p.Region)
	imageID, err := template.FindImage(ctx, p.EC2, p.Region)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Debugf("Using KMS image %s", imageID)
	tpl.InjectImage(p.Region, imageID)

	body, err := tpl.Body()
	if err != nil {
		return nil, err
	}

	p.Progress.Logf("Start CloudFormation stack: %s", name)
	_, err = p.CloudFormation.CreateStack(ctx, &cloudformation.CreateStackInput{
		StackName:    aws.String(name),
		TemplateBody: aws.String(body),
		Capabilities: []cftypes.Capability{cftypes.CapabilityCapabilityIam},
		Parameters:   template.BuildParameters(plan),
	})
	if err != nil {
		return nil, fmt.Errorf("CloudFormation did not complete creation of stack %s: %w", name, err)
	}

	if err := p.waitForStack(ctx, name,
		cftypes.StackStatusCreateInProgress, cftypes.StackStatusCreateComplete,
		"Creating cluster"); err != nil {
		return nil, err
	}

	if plan.HostedZoneFQDN != "" && plan.ClusterFQDN != "" {
		if err := p.waitForCNAME(ctx, plan.ClusterFQDN); err != nil {
			return nil, err
		}
	}

	return p.ShowCluster(ctx, name)
}

// DeleteCluster removes a cluster stack. Stacks not created from the cluster
// template are refused.
func (p *ClusterProvider) DeleteCluster(ctx context.Context, stackName string) error {
	p.Progress.Logf("Delete CloudFormation stack: %s", stackName)

	isCluster, err := p.isCluster(ctx, stackName)
	if err != nil {
		if stackDoesNotExist(err) {
			return &models.StackNotFoundError{Name: stackName}
		}
		return fmt.Errorf("CloudFormation did not complete deletion of stack %s: %w", stackName, err)
	}
	if !isCluster {
		return &models.NotAClusterError{Name: stackName}
	}

	if _, err := p.CloudFormation.DeleteStack(ctx, &cloudformation.DeleteStackInput{
		StackName: aws.String(stackName),
	}); err != nil {
		return fmt.Errorf("CloudFormation did not complete deletion of stack %s: %w", stackName, err)
	}

	return p.waitForStack(ctx, stackName,
		cftypes.StackStatusDeleteInProgress, cftypes.StackStatusDeleteComplete,
		"Deleting cluster")
}

// ListClusters returns the live cluster stacks of the region in the order
// CloudFormation lists them.
func (p *ClusterProvider) ListClusters(ctx context.Context) ([]models.StackSummary, error) {
	var candidates []cftypes.StackSummary
	paginator := cloudformation.NewListStacksPaginator(p.CloudFormation, &cloudformation.ListStacksInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve list of clusters: %w", err)
		}
		for _, s := range page.StackSummaries {
			if s.StackStatus == cftypes.StackStatusDeleteComplete {
				continue
			}
			if !strings.Contains(aws.ToString(s.StackId), ":"+p.Region+":") {
				continue
			}
			candidates = append(candidates, s)
		}
	}

	matches := make([]bool, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConcurrentLookups)
	for i, s := range candidates {
		g.Go(func() error {
			ok, err := p.isCluster(gctx, aws.ToString(s.StackName))
			if err != nil {
				return fmt.Errorf("unable to retrieve list of clusters: %w", err)
			}
			matches[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	clusters := []models.StackSummary{}
	for i, s := range candidates {
		if matches[i] {
			clusters = append(clusters, models.StackSummary{
				Name:   aws.ToString(s.StackName),
				Status: string(s.StackStatus),
			})
		}
	}
	return clusters, nil
}

// ShowCluster collects the URL, DNS data and instances of a cluster stack.
func (p *ClusterProvider) ShowCluster(ctx context.Context, stackName string) (*models.ClusterDetails, error) {
	stack, err := p.describeStack(ctx, stackName)
	if err != nil {
		return nil, err
	}

	details := &models.ClusterDetails{Name: stackName}
	for _, o := range stack.Outputs {
		switch aws.ToString(o.OutputKey) {
		case OutputURL:
			details.URL = aws.ToString(o.OutputValue)
		case OutputAWSCname:
			details.AWSCname = aws.ToString(o.OutputValue)
		case OutputClusterCname:
			details.ClusterCname = aws.ToString(o.OutputValue)
		}
	}

	resources, err := p.CloudFormation.DescribeStackResources(ctx, &cloudformation.DescribeStackResourcesInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve info from cluster stack %s: %w", stackName, err)
	}
	for _, r := range resources.StackResources {
		switch aws.ToString(r.LogicalResourceId) {
		case ResourceDNS:
			details.AutoDNS = true
		case ResourceGroup:
			details.GroupName = aws.ToString(r.PhysicalResourceId)
		}
	}

	instances, err := p.describeGroup(ctx, details.GroupName)
	if err != nil {
		return nil, err
	}
	details.Instances = instances
	return details, nil
}

func (p *ClusterProvider) describeStack(ctx context.Context, stackName string) (*cftypes.Stack, error) {
	out, err := p.CloudFormation.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		if stackDoesNotExist(err) {
			return nil, &models.StackNotFoundError{Name: stackName}
		}
		return nil, fmt.Errorf("unable to retrieve info from cluster stack %s: %w", stackName, err)
	}
	for i := range out.Stacks {
		if aws.ToString(out.Stacks[i].StackName) == stackName {
			return &out.Stacks[i], nil
		}
	}
	return nil, &models.StackNotFoundError{Name: stackName}
}

// isCluster reports whether the stack template declares the cluster marker
// parameter.
func (p *ClusterProvider) isCluster(ctx context.Context, stackName string) (bool, error) {
	out, err := p.CloudFormation.GetTemplate(ctx, &cloudformation.GetTemplateInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		return false, err
	}
	tpl, err := template.Parse([]byte(aws.ToString(out.TemplateBody)))
	if err != nil {
		logger.FromContext(ctx).Debugf("Stack %s has an unreadable template: %v", stackName, err)
		return false, nil
	}
	return tpl.HasParameter(models.ClusterMarkerParameter), nil
}

// describeGroup returns the instances of the auto scaling group in group
// order.
func (p *ClusterProvider) describeGroup(ctx context.Context, groupName string) ([]models.InstanceInfo, error) {
	if groupName == "" {
		return []models.InstanceInfo{}, nil
	}

	out, err := p.AutoScaling.DescribeAutoScalingGroups(ctx, &autoscaling.DescribeAutoScalingGroupsInput{
		AutoScalingGroupNames: []string{groupName},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve autoscaling group info: %w", err)
	}

	var ids []string
	for _, g := range out.AutoScalingGroups {
		if aws.ToString(g.AutoScalingGroupName) != groupName {
			continue
		}
		for _, i := range g.Instances {
			ids = append(ids, aws.ToString(i.InstanceId))
		}
	}

	instances := make([]models.InstanceInfo, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConcurrentLookups)
	for i, id := range ids {
		g.Go(func() error {
			info, err := p.describeInstance(gctx, id)
			if err != nil {
				return err
			}
			instances[i] = info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return instances, nil
}

func (p *ClusterProvider) describeInstance(ctx context.Context, id string) (models.InstanceInfo, error) {
	out, err := p.EC2.DescribeInstances(ctx, &ec2.DescribeInstancesInput{InstanceIds: []string{id}})
	if err != nil {
		return models.InstanceInfo{}, fmt.Errorf("unable to retrieve instance info for %s: %w", id, err)
	}
	if len(out.Reservations) == 0 || len(out.Reservations[0].Instances) == 0 {
		return models.InstanceInfo{}, fmt.Errorf("unable to retrieve instance info for %s: not found", id)
	}

	instance := out.Reservations[0].Instances[0]
	info := models.InstanceInfo{
		ID:        id,
		PrivateIP: aws.ToString(instance.PrivateIpAddress),
		PublicIP:  aws.ToString(instance.PublicIpAddress),
	}
	if len(instance.NetworkInterfaces) > 0 {
		nic := instance.NetworkInterfaces[0]
		if info.PrivateIP == "" {
			info.PrivateIP = aws.ToString(nic.PrivateIpAddress)
		}
		if info.PublicIP == "" && nic.Association != nil {
			info.PublicIP = aws.ToString(nic.Association.PublicIp)
		}
	}
	return info, nil
}
