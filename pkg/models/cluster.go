package models

import "time"

type Command string

const (
	CommandCreate Command = "create"
	CommandDelete Command = "delete"
	CommandList   Command = "list"
	CommandShow   Command = "show"
)

var Commands = []Command{CommandCreate, CommandDelete, CommandList, CommandShow}

type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
	OutputYAML OutputFormat = "yaml"
)

const (
	// ClusterMarkerParameter is the template parameter that identifies a
	// stack as a media-server cluster.
	ClusterMarkerParameter = "KurentoCluster"
	KMSImageDescription    = "kurento-cluster-kms-6"
	DefaultTemplateFile    = "aws/kurento-cluster-template.json"

	DefaultPollInterval = 5 * time.Second
	DefaultWaitTimeout  = 60 * time.Minute
	DefaultTestMode     = "false"
)

// ClusterConfig is the configuration record produced by the CLI layer. Empty
// strings and zero capacities mean "not set".
type ClusterConfig struct {
	Command Command
	Output  OutputFormat

	Region    string
	StackName string

	AccessKeyID     string
	SecretAccessKey string
	Profile         string

	KeyName         string
	S3BucketName    string
	InstanceType    string
	InstanceTenancy string
	ControlOrigin   string

	DesiredCapacity int
	MinCapacity     int
	MaxCapacity     int

	APIKey       string
	APIOrigin    string
	HostedZoneID string
	LogStorage   string

	SSLCert string
	SSLKey  string

	TurnUsername string
	TurnPassword string

	TemplatePath string

	HealthCheckGracePeriod string
	ControllerURL          string
	TestMode               string

	PollInterval time.Duration
	WaitTimeout  time.Duration
}

// MachineOutput reports whether the report is meant for parsing, in which
// case progress messages are suppressed.
func (c *ClusterConfig) MachineOutput() bool {
	return c.Output == OutputJSON || c.Output == OutputYAML
}

// Certificate holds what the validator learned from the SSL certificate and
// key files.
type Certificate struct {
	PEM        string
	KeyPEM     string
	CommonName string
	FQDN       string
	Wildcard   bool
}

// ClusterPlan is everything derived from a ClusterConfig during validation
// that the template assembler and executor need.
type ClusterPlan struct {
	Config         *ClusterConfig
	TemplateBody   []byte
	BucketName     string
	HostedZoneFQDN string
	Certificate    *Certificate
	ClusterFQDN    string
}
