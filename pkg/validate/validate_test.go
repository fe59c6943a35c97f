package validate

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	route53types "github.com/aws/aws-sdk-go-v2/service/route53/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yasmagic/elasticrtc-tools/internal/testutil"
	mocks "github.com/yasmagic/elasticrtc-tools/mocks/aws"
	"github.com/yasmagic/elasticrtc-tools/pkg/display"
	"github.com/yasmagic/elasticrtc-tools/pkg/models"
)

const testTemplate = `{"Parameters": {"KurentoCluster": {"Type": "String"}}, "Resources": {}}`

func createConfig(t *testing.T) *models.ClusterConfig {
	return &models.ClusterConfig{
		Command:      models.CommandCreate,
		Region:       "eu-west-1",
		StackName:    "demo",
		KeyName:      "ops",
		TemplatePath: testutil.WriteFile(t, t.TempDir(), "template.json", testTemplate),
	}
}

func requireUsageError(t *testing.T, err error, contains string) *models.UsageError {
	t.Helper()
	var usageErr *models.UsageError
	require.ErrorAs(t, err, &usageErr)
	assert.Contains(t, usageErr.Message, contains)
	return usageErr
}

func TestOptionsMandatory(t *testing.T) {
	err := Options(&models.ClusterConfig{Command: models.CommandList})
	usageErr := requireUsageError(t, err, "Missing mandatory parameter --region")
	assert.Contains(t, usageErr.Usage, "--region value")

	assert.NoError(t, Options(&models.ClusterConfig{Command: models.CommandList, Region: "eu-west-1"}))

	for _, cmd := range []models.Command{models.CommandShow, models.CommandDelete, models.CommandCreate} {
		err := Options(&models.ClusterConfig{Command: cmd, Region: "eu-west-1"})
		requireUsageError(t, err, "--stack-name")
	}

	err = Options(&models.ClusterConfig{Command: models.CommandCreate, Region: "eu-west-1", StackName: "demo"})
	requireUsageError(t, err, "--aws-key-name")

	assert.NoError(t, Options(&models.ClusterConfig{Command: models.CommandDelete, Region: "eu-west-1", StackName: "demo"}))
}

func TestOptionsStackName(t *testing.T) {
	for _, name := range []string{"my-cluster", "my cluster", "1cluster", "clúster"} {
		err := Options(&models.ClusterConfig{Command: models.CommandShow, Region: "eu-west-1", StackName: name})
		requireUsageError(t, err, "alphanumeric")
	}
	assert.NoError(t, Options(&models.ClusterConfig{Command: models.CommandShow, Region: "eu-west-1", StackName: "Cluster9"}))
}

func TestOptionsCreate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.ClusterConfig)
		wantErr string
	}{
		{name: "valid", mutate: func(c *models.ClusterConfig) {}},
		{name: "api key", mutate: func(c *models.ClusterConfig) { c.APIKey = "not-valid" }, wantErr: "kurento-api-key"},
		{name: "tenancy", mutate: func(c *models.ClusterConfig) { c.InstanceTenancy = "shared" }, wantErr: "--aws-instance-tenancy"},
		{name: "tenancy ok", mutate: func(c *models.ClusterConfig) { c.InstanceTenancy = "host" }},
		{name: "log storage", mutate: func(c *models.ClusterConfig) { c.LogStorage = "disk" }, wantErr: "--log-storage"},
		{name: "control origin", mutate: func(c *models.ClusterConfig) { c.ControlOrigin = "10.0.0.1" }, wantErr: "--control-origin"},
		{name: "ipv6 origin", mutate: func(c *models.ClusterConfig) { c.APIOrigin = "2001:db8::/32" }, wantErr: "--kurento-api-origin"},
		{name: "origins ok", mutate: func(c *models.ClusterConfig) {
			c.ControlOrigin = "0.0.0.0/0"
			c.APIOrigin = "10.1.0.0/16"
		}},
		{name: "capacities", mutate: func(c *models.ClusterConfig) {
			c.MinCapacity, c.DesiredCapacity = 3, 2
		}, wantErr: "--min-capacity (3) must not exceed --desired-capacity (2)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &models.ClusterConfig{Command: models.CommandCreate, Region: "eu-west-1", StackName: "demo", KeyName: "ops"}
			tt.mutate(cfg)
			err := Options(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			requireUsageError(t, err, tt.wantErr)
		})
	}
}

func TestCapacities(t *testing.T) {
	assert.NoError(t, Capacities(0, 0, 0))
	assert.NoError(t, Capacities(1, 2, 3))
	assert.NoError(t, Capacities(2, 2, 2))
	assert.NoError(t, Capacities(0, 5, 0))
	assert.Error(t, Capacities(0, 4, 3))
	assert.Error(t, Capacities(5, 0, 3))
}

func TestBucket(t *testing.T) {
	client := new(mocks.MockS3APIer)
	client.On("ListBuckets", mock.Anything, mock.Anything).Return(&s3.ListBucketsOutput{
		Buckets: []s3types.Bucket{{Name: aws.String("other")}, {Name: aws.String("eu-west-1-demo")}},
	}, nil).Once()

	cfg := &models.ClusterConfig{Region: "eu-west-1", StackName: "demo"}
	name, err := Bucket(context.Background(), client, cfg)
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1-demo", name)

	cfg.StackName = "fresh"
	client.On("ListBuckets", mock.Anything, mock.Anything).Return(&s3.ListBucketsOutput{}, nil).Once()
	name, err = Bucket(context.Background(), client, cfg)
	require.NoError(t, err)
	assert.Empty(t, name)

	cfg.S3BucketName = "mine"
	name, err = Bucket(context.Background(), client, cfg)
	require.NoError(t, err)
	assert.Equal(t, "mine", name)

	client.AssertNumberOfCalls(t, "ListBuckets", 2)
}

func TestHostedZone(t *testing.T) {
	client := new(mocks.MockRoute53APIer)
	client.On("GetHostedZone", mock.Anything, mock.MatchedBy(func(in *route53.GetHostedZoneInput) bool {
		return aws.ToString(in.Id) == "Z123"
	})).Return(&route53.GetHostedZoneOutput{
		HostedZone: &route53types.HostedZone{Name: aws.String("example.com.")},
	}, nil)
	client.On("GetHostedZone", mock.Anything, mock.Anything).Return(nil, errors.New("NoSuchHostedZone"))

	zone, err := HostedZone(context.Background(), client, "Z123")
	require.NoError(t, err)
	assert.Equal(t, "example.com", zone)

	_, err = HostedZone(context.Background(), client, "Zbad")
	assert.ErrorContains(t, err, "NoSuchHostedZone")

	zone, err = HostedZone(context.Background(), client, "")
	require.NoError(t, err)
	assert.Empty(t, zone)
}

func TestValidateNonCreate(t *testing.T) {
	var out bytes.Buffer
	cfg := &models.ClusterConfig{Command: models.CommandList, Region: "mars-north-1"}

	plan, err := Validate(context.Background(), cfg, Clients{}, display.NewProgress(&out, false))
	require.NoError(t, err)
	assert.Same(t, cfg, plan.Config)
	assert.Contains(t, out.String(), "WARN: Region mars-north-1 is not a known Kurento Cluster region")
}

func TestValidateCreate(t *testing.T) {
	dir := t.TempDir()
	certPath, keyPath := testutil.WriteCertificate(t, dir, "*.example.com")

	s3Client := new(mocks.MockS3APIer)
	s3Client.On("ListBuckets", mock.Anything, mock.Anything).Return(&s3.ListBucketsOutput{}, nil)
	r53 := new(mocks.MockRoute53APIer)
	r53.On("GetHostedZone", mock.Anything, mock.Anything).Return(&route53.GetHostedZoneOutput{
		HostedZone: &route53types.HostedZone{Name: aws.String("example.com.")},
	}, nil)

	cfg := createConfig(t)
	cfg.HostedZoneID = "Z123"
	cfg.SSLCert, cfg.SSLKey = certPath, keyPath

	var out bytes.Buffer
	plan, err := Validate(context.Background(), cfg, Clients{S3: s3Client, Route53: r53}, display.NewProgress(&out, false))
	require.NoError(t, err)

	assert.Equal(t, testTemplate, string(plan.TemplateBody))
	assert.Empty(t, plan.BucketName)
	assert.Equal(t, "example.com", plan.HostedZoneFQDN)
	require.NotNil(t, plan.Certificate)
	assert.True(t, plan.Certificate.Wildcard)
	assert.Equal(t, "demo.example.com", plan.ClusterFQDN)
	assert.Contains(t, out.String(), "Found wildcard certificate with CN: *.example.com")
}

func TestValidateCreateZoneMismatch(t *testing.T) {
	dir := t.TempDir()
	certPath, keyPath := testutil.WriteCertificate(t, dir, "media.other.org")

	s3Client := new(mocks.MockS3APIer)
	s3Client.On("ListBuckets", mock.Anything, mock.Anything).Return(&s3.ListBucketsOutput{}, nil)
	r53 := new(mocks.MockRoute53APIer)
	r53.On("GetHostedZone", mock.Anything, mock.Anything).Return(&route53.GetHostedZoneOutput{
		HostedZone: &route53types.HostedZone{Name: aws.String("example.com.")},
	}, nil)

	cfg := createConfig(t)
	cfg.HostedZoneID = "Z123"
	cfg.SSLCert, cfg.SSLKey = certPath, keyPath

	_, err := Validate(context.Background(), cfg, Clients{S3: s3Client, Route53: r53}, display.NewProgress(&bytes.Buffer{}, true))
	usageErr := requireUsageError(t, err, "SSL certificate name does not match hosted zone FQDN")
	assert.Contains(t, usageErr.Message, "media.other.org")
	assert.Contains(t, usageErr.Message, "example.com")
}

func TestValidateCreateMissingTemplate(t *testing.T) {
	cfg := createConfig(t)
	cfg.TemplatePath = t.TempDir() + "/missing.json"

	_, err := Validate(context.Background(), cfg, Clients{}, display.NewProgress(&bytes.Buffer{}, true))
	assert.ErrorContains(t, err, "unable to open cloudformation template file")
}
