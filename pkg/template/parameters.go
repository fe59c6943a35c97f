package template

import (
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	cftypes "github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/yasmagic/elasticrtc-tools/pkg/models"
	"github.com/yasmagic/elasticrtc-tools/pkg/utils"
)

const (
	// CertificateChunkSize is the longest value CloudFormation accepts for a
	// single parameter.
	CertificateChunkSize = 4096

	LoadBalancerNameSuffix = "KurentoLoadBalancer"
	LoadBalancerNameMax    = 32
)

type parameterList []cftypes.Parameter

func (p *parameterList) add(key, value string) {
	if value == "" {
		return
	}
	*p = append(*p, cftypes.Parameter{
		ParameterKey:   aws.String(key),
		ParameterValue: aws.String(value),
	})
}

func (p *parameterList) addInt(key string, value int) {
	if value <= 0 {
		return
	}
	p.add(key, strconv.Itoa(value))
}

// LoadBalancerName derives the load balancer name from the stack name.
func LoadBalancerName(stackName string) string {
	return utils.Prefix(stackName+LoadBalancerNameSuffix, LoadBalancerNameMax)
}

// BuildParameters returns the CreateStack parameters for plan in template
// order. Unset values are left out so the template defaults apply.
func BuildParameters(plan *models.ClusterPlan) []cftypes.Parameter {
	cfg := plan.Config

	var params parameterList
	params.add("KeyName", cfg.KeyName)
	params.add("KurentoLoadBalancerName", LoadBalancerName(cfg.StackName))
	params.addInt("DesiredCapacity", cfg.DesiredCapacity)
	params.addInt("MinCapacity", cfg.MinCapacity)
	params.addInt("MaxCapacity", cfg.MaxCapacity)
	params.add("InstanceTenancy", cfg.InstanceTenancy)
	params.add("InstanceType", cfg.InstanceType)
	params.add("ApiKey", cfg.APIKey)
	params.add("ApiOrigin", cfg.APIOrigin)
	params.add("ControlOrigin", cfg.ControlOrigin)
	params.add("TurnUsername", cfg.TurnUsername)
	params.add("TurnPassword", cfg.TurnPassword)
	params.add("HostedZoneId", cfg.HostedZoneID)
	params.add("DnsName", plan.ClusterFQDN)
	params.add("UserS3Bucket", plan.BucketName)
	params.add("LogStorage", cfg.LogStorage)
	if cert := plan.Certificate; cert != nil {
		for i, chunk := range utils.Chunk(cert.PEM, CertificateChunkSize) {
			params.add("SslCertificate"+strconv.Itoa(i+1), chunk)
		}
		params.add("SslKey", cert.KeyPEM)
	}
	params.add("HealthCheckGracePeriod", cfg.HealthCheckGracePeriod)
	params.add("KmsControllerUrl", cfg.ControllerURL)

	testMode := cfg.TestMode
	if testMode == "" {
		testMode = models.DefaultTestMode
	}
	params.add("TestMode", testMode)
	return params
}
