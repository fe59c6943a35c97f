package cmd

import (
	"github.com/spf13/cobra"
	"github.com/yasmagic/elasticrtc-tools/pkg/credentials"
	"github.com/yasmagic/elasticrtc-tools/pkg/display"
	"github.com/yasmagic/elasticrtc-tools/pkg/logger"
	"github.com/yasmagic/elasticrtc-tools/pkg/models"
	aws_interface "github.com/yasmagic/elasticrtc-tools/pkg/models/interfaces/aws"
	awsprovider "github.com/yasmagic/elasticrtc-tools/pkg/providers/aws"
	"github.com/yasmagic/elasticrtc-tools/pkg/validate"
	"go.uber.org/zap"
)

var NewCredentialStoreFunc = credentials.NewStore

// session is everything a command needs once its options are validated and
// AWS credentials are resolved.
type session struct {
	cfg      *models.ClusterConfig
	plan     *models.ClusterPlan
	progress *display.Progress
	reporter *display.Reporter
	provider aws_interface.ClusterProviderer
}

// newSession also scopes the command context logger to the command, region
// and stack.
func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := ParseConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := validate.Options(cfg); err != nil {
		return nil, err
	}

	ctx := logger.WithFields(cmd.Context(),
		zap.String("command", string(cfg.Command)),
		zap.String("region", cfg.Region),
		zap.String("stack", cfg.StackName),
	)
	cmd.SetContext(ctx)
	l := logger.FromContext(ctx)

	progress := display.NewProgress(cmd.OutOrStdout(), cfg.MachineOutput())

	store, err := NewCredentialStoreFunc()
	if err != nil {
		return nil, err
	}
	prompter := credentials.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	creds, err := credentials.NewResolver(store, prompter, cfg).Resolve(ctx)
	if err != nil {
		return nil, err
	}
	if creds.Profile != "" {
		l.Debugf("Using AWS credentials profile %s", creds.Profile)
	}

	awsCfg, err := credentials.NewAWSConfig(ctx, cfg.Region, creds)
	if err != nil {
		return nil, err
	}
	clients := awsprovider.NewClientsFunc(awsCfg)
	if _, err := credentials.VerifyCallerIdentity(ctx, clients.STS); err != nil {
		return nil, err
	}

	plan, err := validate.Validate(ctx, cfg, validate.Clients{
		S3:      clients.S3,
		Route53: clients.Route53,
	}, progress)
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:      cfg,
		plan:     plan,
		progress: progress,
		reporter: display.NewReporter(cmd.OutOrStdout(), cfg.Output),
		provider: awsprovider.NewClusterProviderFunc(clients, cfg, progress),
	}, nil
}
