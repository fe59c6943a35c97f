package aws

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	aws_interface "github.com/yasmagic/elasticrtc-tools/pkg/models/interfaces/aws"
)

// Clients bundles one client per AWS service the tool talks to.
type Clients struct {
	CloudFormation aws_interface.CloudFormationAPIer
	EC2            aws_interface.EC2Clienter
	AutoScaling    aws_interface.AutoScalingAPIer
	Route53        aws_interface.Route53APIer
	S3             aws_interface.S3APIer
	STS            aws_interface.STSClienter
}

var NewClientsFunc = NewClients

// NewClients creates the SDK clients for cfg's region.
func NewClients(cfg aws.Config) *Clients {
	return &Clients{
		CloudFormation: cloudformation.NewFromConfig(cfg),
		EC2:            ec2.NewFromConfig(cfg),
		AutoScaling:    autoscaling.NewFromConfig(cfg),
		Route53:        route53.NewFromConfig(cfg),
		S3:             s3.NewFromConfig(cfg),
		STS:            sts.NewFromConfig(cfg),
	}
}
