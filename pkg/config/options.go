package config

import (
	"sort"
	"strings"

	"github.com/yasmagic/elasticrtc-tools/pkg/models"
)

// Option names double as flag names and viper keys.
const (
	OptJSON                   = "json"
	OptOutput                 = "output"
	OptAccessKeyID            = "aws-access-key-id"
	OptSecretAccessKey        = "aws-secret-access-key"
	OptProfile                = "aws-profile"
	OptInstanceTenancy        = "aws-instance-tenancy"
	OptInstanceType           = "aws-instance-type"
	OptKeyName                = "aws-key-name"
	OptS3BucketName           = "aws-s3-bucket-name"
	OptControlOrigin          = "control-origin"
	OptDesiredCapacity        = "desired-capacity"
	OptMinCapacity            = "min-capacity"
	OptMaxCapacity            = "max-capacity"
	OptHostedZoneID           = "hosted-zone-id"
	OptAPIKey                 = "kurento-api-key"
	OptAPIOrigin              = "kurento-api-origin"
	OptLogStorage             = "log-storage"
	OptRegion                 = "region"
	OptSSLCert                = "ssl-cert"
	OptSSLKey                 = "ssl-key"
	OptStackName              = "stack-name"
	OptTurnUsername           = "turn-username"
	OptTurnPassword           = "turn-password"
	OptTemplate               = "template"
	OptHealthCheckGracePeriod = "health-check-grace-period"
	OptControllerURL          = "kmscluster-controller-url"
	OptTestMode               = "test-mode"
	OptPollInterval           = "poll-interval"
	OptWaitTimeout            = "wait-timeout"
)

const (
	indent  = "     "
	indent2 = indent + indent
	indent3 = indent2 + "          "
)

// Option describes one command line option and its help text.
type Option struct {
	Name   string
	Short  string
	Arg    string
	Help   []string
	Hidden bool
}

// Usage renders the option the way it appears in command help and usage
// errors.
func (o Option) Usage() string {
	var b strings.Builder
	b.WriteString("\n" + indent2)
	if o.Short != "" {
		b.WriteString("-" + o.Short + ", ")
	}
	b.WriteString("--" + o.Name)
	if o.Arg != "" {
		b.WriteString(" " + o.Arg)
	}
	b.WriteString("\n")
	for _, line := range o.Help {
		if line == "" {
			b.WriteString("\n")
			continue
		}
		b.WriteString(indent3 + line + "\n")
	}
	return b.String()
}

var Options = map[string]Option{
	OptJSON: {Name: OptJSON, Short: "j", Help: []string{
		"[Optional] Intended for machine to machine interactions. Do not",
		"display debug messages and output is provided in JSON format suitable",
		"for parsing",
	}},
	OptOutput: {Name: OptOutput, Arg: "[text|json|yaml]", Help: []string{
		"[Optional] Report format. Default value is text. Option -j forces json.",
	}},
	OptAccessKeyID: {Name: OptAccessKeyID, Arg: "value", Help: []string{
		"[Optional] Access Key Id required to connect AWS APIs. If not provided",
		"it will be used default configurations in file ~/.aws/credentials.",
	}},
	OptSecretAccessKey: {Name: OptSecretAccessKey, Arg: "value", Help: []string{
		"[Optional] Secret Access Key required to connect AWS APIs. If not",
		"provided it will be used default configurations in file",
		"~/.aws/credentials.",
	}},
	OptProfile: {Name: OptProfile, Arg: "name", Help: []string{
		"[Optional] Credentials profile to use from ~/.aws/credentials or",
		"~/.aws/config. When several profiles exist and none is given, a",
		"selection menu is displayed.",
	}},
	OptInstanceTenancy: {Name: OptInstanceTenancy, Arg: "[default|dedicated|host]", Help: []string{
		"[Optional] EC2 tenancy of cluster nodes. Default value is default. For",
		"more information on EC2 dedicated instaces visit:",
		"http://docs.aws.amazon.com/AmazonVPC/latest/UserGuide/dedicated-instance.html",
	}},
	OptInstanceType: {Name: OptInstanceType, Arg: "value", Help: []string{
		"[Optional] EC2 instance type used by Kurento Cluster nodes. Default",
		"instance type is m3.medium",
	}},
	OptKeyName: {Name: OptKeyName, Arg: "value", Help: []string{
		"[Mandatory] Name of Amazon EC2 key pair to be configured in nodes.",
		"More information available in:",
		"http://docs.aws.amazon.com/AWSEC2/latest/UserGuide/ec2-key-pairs.html",
	}},
	OptS3BucketName: {Name: OptS3BucketName, Arg: "value", Help: []string{
		"[Optional] Name of Amazon S3 bucket used for permanent storage.",
		"A new bucket named: <region>-<stack-name> will be created if this",
		"parameter is not provided. Notice buckets are never deleted on",
		"termination, even if they have been created by Kurento Cluster tools.",
	}},
	OptControlOrigin: {Name: OptControlOrigin, Arg: "cidr", Help: []string{
		"[Optional] CIDR from where SSH connections will be allowed. Default",
		"value is 0.0.0.0/0, allowing connections from anywhere.",
	}},
	OptDesiredCapacity: {Name: OptDesiredCapacity, Arg: "num", Help: []string{
		"[Optional] Number of KMS instances to be deployed by Kurento",
		"Cluster. AWS will take care to terminate failed instances in order",
		"to maintain desired cluster capacity",
		"Visit http://docs.aws.amazon.com/AutoScaling/latest/DeveloperGuide/as-manual-scaling.html",
		"for more information on autoscaling.",
	}},
	OptMinCapacity: {Name: OptMinCapacity, Arg: "num", Help: []string{
		"[Optional] Minimum number of KMS instances kept by the cluster.",
	}},
	OptMaxCapacity: {Name: OptMaxCapacity, Arg: "num", Help: []string{
		"[Optional] Maximum number of KMS instances kept by the cluster.",
	}},
	OptAPIKey: {Name: OptAPIKey, Arg: "value", Help: []string{
		"[Optional] A secret string intended to control access to cluster",
		"API. Kurento cluster will accept requests from any client presenting",
		"this key. Kurento API key is an alphanumeric non empty string of",
		"any length that is concatenated to the cluster URL:",
		"",
		"       ws[s]://host/<kurento-api-key>",
		"",
		"Default value is kurento.",
	}},
	OptAPIOrigin: {Name: OptAPIOrigin, Arg: "cidr", Help: []string{
		"[Optional] CIDR from where KMS API request will be allowed. Default",
		"value is 0.0.0.0/0, allowing connections from anywhere.",
	}},
	OptLogStorage: {Name: OptLogStorage, Arg: "[cloudwatch|s3]", Help: []string{
		"[Optional] Storage location of Kurento cluster logs. it can be any",
		"of AWS Cloudwatch Logs or AWS S3 services. Default value is Cloudwatch.",
	}},
	OptRegion: {Name: OptRegion, Arg: "value", Help: []string{
		"[Mandatory] AWS region where cluster is deployed. Can be any of:",
		"  ap-northeast-1   Asia Pacific (Tokyo)",
		"  ap-southeast-1   Asia Pacific (Singapore)",
		"  ap-southeast-2   Asia Pacific (Sydney)",
		"  eu-central-1     EU (Frankfurt)",
		"  eu-west-1        EU (Ireland)",
		"  sa-east-1        South America (Sao Paulo)",
		"  us-east-1        US East (N. Virginia)",
		"  us-west-1        US West (N. California)",
		"  us-west-2        US West (Oregon)",
		"Visit http://docs.aws.amazon.com/AWSEC2/latest/UserGuide/using-regions-availability-zones.html",
		"for more information.",
	}},
	OptHostedZoneID: {Name: OptHostedZoneID, Arg: "value", Help: []string{
		"[Optional] Route 53 hosted zone ID used by cluster to automatically",
		"register a CNAME record with the name of the stack. If a SSL",
		"certificate is provided its common name (CN) must match the hosted",
		"zone domain.",
	}},
	OptStackName: {Name: OptStackName, Arg: "value", Help: []string{
		"[Mandatory] Cluster name. It must start with letter, contain only",
		"alphanumeric characters and be unique in selected region. White",
		"spaces are not allowed.",
	}},
	OptSSLCert: {Name: OptSSLCert, Arg: "path", Help: []string{
		"[Optional] Path to the certificate file used for SSL connections.",
		"Secure port will be blocked and wss protocol disabled if not provided.",
		"Due to WebSocket limitation, autosigned certificates are not",
		"supported by Kurento cluster.",
	}},
	OptSSLKey: {Name: OptSSLKey, Arg: "path", Help: []string{
		"[Optional] Path to the private key associated with SSL certificate. This",
		"parameter is mandatory if SSL certificate is provided.",
	}},
	OptTurnUsername: {Name: OptTurnUsername, Arg: "value", Help: []string{
		"[Optional] User name of the TURN server embedded in the cluster.",
	}},
	OptTurnPassword: {Name: OptTurnPassword, Arg: "value", Help: []string{
		"[Optional] Password of the TURN server embedded in the cluster.",
	}},
	OptTemplate: {Name: OptTemplate, Arg: "path", Help: []string{
		"[Optional] CloudFormation template (JSON or YAML). Default is",
		models.DefaultTemplateFile + " next to the executable.",
	}},
	OptHealthCheckGracePeriod: {Name: OptHealthCheckGracePeriod, Arg: "seconds", Hidden: true},
	OptControllerURL:          {Name: OptControllerURL, Arg: "url", Hidden: true},
	OptTestMode:               {Name: OptTestMode, Arg: "[true|false]", Hidden: true},
	OptPollInterval:           {Name: OptPollInterval, Arg: "duration", Hidden: true},
	OptWaitTimeout: {Name: OptWaitTimeout, Arg: "duration", Help: []string{
		"[Optional] Maximum time to wait for the stack to settle. Default 60m.",
	}},
}

// CommandOptions lists, in help order, the options each command accepts.
var CommandOptions = map[models.Command][]string{
	models.CommandCreate: {
		OptJSON, OptOutput, OptAccessKeyID, OptSecretAccessKey, OptProfile,
		OptKeyName, OptS3BucketName, OptInstanceType, OptInstanceTenancy,
		OptControlOrigin, OptDesiredCapacity, OptMinCapacity, OptMaxCapacity,
		OptAPIKey, OptAPIOrigin, OptLogStorage, OptRegion, OptHostedZoneID,
		OptStackName, OptSSLCert, OptSSLKey, OptTurnUsername, OptTurnPassword,
		OptTemplate, OptWaitTimeout,
		OptHealthCheckGracePeriod, OptControllerURL, OptTestMode, OptPollInterval,
	},
	models.CommandDelete: {
		OptJSON, OptOutput, OptAccessKeyID, OptSecretAccessKey, OptProfile, OptRegion, OptStackName,
		OptWaitTimeout, OptPollInterval,
	},
	models.CommandList: {
		OptJSON, OptOutput, OptAccessKeyID, OptSecretAccessKey, OptProfile, OptRegion,
	},
	models.CommandShow: {
		OptJSON, OptOutput, OptAccessKeyID, OptSecretAccessKey, OptProfile, OptRegion,
		OptStackName,
	},
}

var commandDescriptions = map[models.Command]string{
	models.CommandCreate: "Create Kurento Cluster.",
	models.CommandDelete: "Delete Kurento Cluster.",
	models.CommandList:   "List Kurento Clusters.",
	models.CommandShow:   "Show Kurento Cluster details.",
}

// CommandDescription returns the one line summary of a command.
func CommandDescription(cmd models.Command) string {
	return commandDescriptions[cmd]
}

// OptionUsage renders the help of the named options, skipping hidden ones.
func OptionUsage(names ...string) string {
	var b strings.Builder
	for _, name := range names {
		opt, ok := Options[name]
		if !ok || opt.Hidden {
			continue
		}
		b.WriteString(opt.Usage())
	}
	return b.String()
}

// CommandUsage is the help text of a single command.
func CommandUsage(program string, cmd models.Command) string {
	return "usage: " + program + " " + string(cmd) + "\n" + OptionUsage(CommandOptions[cmd]...)
}

// Usage is the help text listing every command and every option.
func Usage(program string) string {
	var b strings.Builder
	b.WriteString("usage: " + program + " \n")
	b.WriteString("\n" + indent + "Commands:\n")
	for _, cmd := range models.Commands {
		b.WriteString(indent2 + string(cmd) + strings.Repeat(" ", 8-len(cmd)) + commandDescriptions[cmd] + "\n")
	}
	b.WriteString("\n" + indent2 + "See '" + program + " help COMMAND' for help on a specific command.\n")
	b.WriteString("\n" + indent + "Options:\n")

	seen := map[string]bool{}
	var names []string
	for _, cmd := range models.Commands {
		for _, name := range CommandOptions[cmd] {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	b.WriteString(OptionUsage(names...))
	return b.String()
}
