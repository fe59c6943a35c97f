package cmd

import (
	"github.com/spf13/cobra"
	"github.com/yasmagic/elasticrtc-tools/pkg/config"
	"github.com/yasmagic/elasticrtc-tools/pkg/models"
)

func GetDeleteCommand() *cobra.Command {
	deleteCmd := &cobra.Command{
		Use:   string(models.CommandDelete),
		Short: config.CommandDescription(models.CommandDelete),
		Args:  noArgs(models.CommandDelete),
		RunE:  executeDelete,
	}
	addOptionFlags(deleteCmd.Flags(), models.CommandDelete)
	return deleteCmd
}

func executeDelete(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	if err := s.provider.DeleteCluster(cmd.Context(), s.cfg.StackName); err != nil {
		return err
	}
	return s.reporter.Deleted(s.cfg.StackName)
}
