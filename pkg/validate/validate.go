// Package validate checks a ClusterConfig and derives the values the
// template and the executor need.
package validate

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	internal_aws "github.com/yasmagic/elasticrtc-tools/internal/clouds/aws"
	"github.com/yasmagic/elasticrtc-tools/pkg/config"
	"github.com/yasmagic/elasticrtc-tools/pkg/models"
	aws_interface "github.com/yasmagic/elasticrtc-tools/pkg/models/interfaces/aws"
	"github.com/yasmagic/elasticrtc-tools/pkg/template"
	"github.com/yasmagic/elasticrtc-tools/pkg/utils"
)

var (
	InstanceTenancies = []string{"default", "dedicated", "host"}
	LogStorages       = []string{"cloudwatch", "s3"}
)

// Notifier receives the findings worth showing to the operator.
type Notifier interface {
	Logf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

// Clients are the AWS services consulted while validating a create.
type Clients struct {
	S3      aws_interface.S3APIer
	Route53 aws_interface.Route53APIer
}

// Validate checks cfg for its command. For create it also reads the
// template, looks up the reusable bucket, the hosted zone and the SSL
// certificate, and returns the resulting plan.
func Validate(ctx context.Context, cfg *models.ClusterConfig, clients Clients, notify Notifier) (*models.ClusterPlan, error) {
	if err := Options(cfg); err != nil {
		return nil, err
	}
	if !internal_aws.IsValidAWSRegion(cfg.Region) {
		notify.Warnf("Region %s is not a known Kurento Cluster region", cfg.Region)
	}

	plan := &models.ClusterPlan{Config: cfg}
	if cfg.Command != models.CommandCreate {
		return plan, nil
	}

	if cfg.InstanceType != "" && internal_aws.IsValidAWSRegion(cfg.Region) &&
		!internal_aws.IsValidAWSInstanceType(cfg.Region, cfg.InstanceType) {
		notify.Warnf("Instance type %s is not known in region %s", cfg.InstanceType, cfg.Region)
	}

	body, err := template.Read(cfg.TemplatePath)
	if err != nil {
		return nil, err
	}
	plan.TemplateBody = body

	bucket, err := Bucket(ctx, clients.S3, cfg)
	if err != nil {
		return nil, err
	}
	plan.BucketName = bucket

	zone, err := HostedZone(ctx, clients.Route53, cfg.HostedZoneID)
	if err != nil {
		return nil, err
	}
	plan.HostedZoneFQDN = zone

	cert, err := ParseCertificate(cfg.SSLCert, cfg.SSLKey)
	if err != nil {
		return nil, err
	}
	if cert != nil {
		if cert.Wildcard {
			notify.Logf("Found wildcard certificate with CN: %s", cert.CommonName)
		} else {
			notify.Logf("Found certificate with CN: %s", cert.CommonName)
		}
		if err := MatchHostedZone(cert, zone); err != nil {
			return nil, err
		}
	}
	plan.Certificate = cert
	plan.ClusterFQDN = ClusterFQDN(cfg.StackName, zone, cert)
	return plan, nil
}

// Options runs the checks that need no AWS access.
func Options(cfg *models.ClusterConfig) error {
	if cfg.Region == "" {
		return missing(config.OptRegion)
	}
	if cfg.Command == models.CommandList {
		return nil
	}

	if cfg.StackName == "" {
		return missing(config.OptStackName)
	}
	if !utils.IsAlphanumeric(cfg.StackName) || !utils.StartsWithLetter(cfg.StackName) {
		return models.NewUsageError(config.OptionUsage(config.OptStackName),
			"Stack name must be an alphanumeric string starting with a letter")
	}
	if cfg.Command != models.CommandCreate {
		return nil
	}

	if cfg.KeyName == "" {
		return missing(config.OptKeyName)
	}
	if cfg.APIKey != "" && !utils.IsAlphanumeric(cfg.APIKey) {
		return models.NewUsageError(config.OptionUsage(config.OptAPIKey),
			"kurento-api-key name must be an alphanumeric string")
	}
	if err := oneOf(config.OptInstanceTenancy, cfg.InstanceTenancy, InstanceTenancies); err != nil {
		return err
	}
	if err := oneOf(config.OptLogStorage, cfg.LogStorage, LogStorages); err != nil {
		return err
	}
	for _, c := range []struct{ name, value string }{
		{config.OptControlOrigin, cfg.ControlOrigin},
		{config.OptAPIOrigin, cfg.APIOrigin},
	} {
		if err := cidr(c.name, c.value); err != nil {
			return err
		}
	}
	return Capacities(cfg.MinCapacity, cfg.DesiredCapacity, cfg.MaxCapacity)
}

// Capacities checks min <= desired <= max among the values that are set.
func Capacities(minimum, desired, maximum int) error {
	usage := config.OptionUsage(config.OptDesiredCapacity, config.OptMinCapacity, config.OptMaxCapacity)
	if minimum > 0 && desired > 0 && minimum > desired {
		return models.NewUsageError(usage, "--%s (%d) must not exceed --%s (%d)",
			config.OptMinCapacity, minimum, config.OptDesiredCapacity, desired)
	}
	if desired > 0 && maximum > 0 && desired > maximum {
		return models.NewUsageError(usage, "--%s (%d) must not exceed --%s (%d)",
			config.OptDesiredCapacity, desired, config.OptMaxCapacity, maximum)
	}
	if minimum > 0 && maximum > 0 && minimum > maximum {
		return models.NewUsageError(usage, "--%s (%d) must not exceed --%s (%d)",
			config.OptMinCapacity, minimum, config.OptMaxCapacity, maximum)
	}
	return nil
}

// Bucket returns the bucket declared to the template. Without an explicit
// bucket an existing <region>-<stack> bucket is reused.
func Bucket(ctx context.Context, client aws_interface.S3APIer, cfg *models.ClusterConfig) (string, error) {
	if cfg.S3BucketName != "" {
		return cfg.S3BucketName, nil
	}
	out, err := client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return "", fmt.Errorf("unable to list S3 buckets: %w", err)
	}
	name := DefaultBucketName(cfg.Region, cfg.StackName)
	for _, b := range out.Buckets {
		if aws.ToString(b.Name) == name {
			return name, nil
		}
	}
	return "", nil
}

func DefaultBucketName(region, stackName string) string {
	return region + "-" + stackName
}

// HostedZone returns the domain of zoneID without its trailing dot.
func HostedZone(ctx context.Context, client aws_interface.Route53APIer, zoneID string) (string, error) {
	if zoneID == "" {
		return "", nil
	}
	out, err := client.GetHostedZone(ctx, &route53.GetHostedZoneInput{Id: aws.String(zoneID)})
	if err != nil {
		return "", fmt.Errorf("unable to get AWS hosted zone info: %w", err)
	}
	if out.HostedZone == nil {
		return "", fmt.Errorf("unable to get AWS hosted zone info: empty response for %s", zoneID)
	}
	return strings.TrimSuffix(aws.ToString(out.HostedZone.Name), "."), nil
}

func missing(name string) error {
	return models.NewUsageError(config.OptionUsage(name), "Missing mandatory parameter --%s", name)
}

func oneOf(name, value string, allowed []string) error {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return models.NewUsageError(config.OptionUsage(name), "Invalid value for --%s: %s", name, value)
}

func cidr(name, value string) error {
	if value == "" {
		return nil
	}
	ip, _, err := net.ParseCIDR(value)
	if err != nil || ip.To4() == nil {
		return models.NewUsageError(config.OptionUsage(name), "--%s must be an IPv4 CIDR: %s", name, value)
	}
	return nil
}
