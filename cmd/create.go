package cmd

import (
	"github.com/spf13/cobra"
	"github.com/yasmagic/elasticrtc-tools/pkg/config"
	"github.com/yasmagic/elasticrtc-tools/pkg/models"
)

func GetCreateCommand() *cobra.Command {
	createCmd := &cobra.Command{
		Use:   string(models.CommandCreate),
		Short: config.CommandDescription(models.CommandCreate),
		Args:  noArgs(models.CommandCreate),
		RunE:  executeCreate,
	}
	addOptionFlags(createCmd.Flags(), models.CommandCreate)
	return createCmd
}

func executeCreate(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	details, err := s.provider.CreateCluster(cmd.Context(), s.plan)
	if err != nil {
		return err
	}
	return s.reporter.Show(details)
}
