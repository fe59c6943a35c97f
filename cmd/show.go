package cmd

import (
	"github.com/spf13/cobra"
	"github.com/yasmagic/elasticrtc-tools/pkg/config"
	"github.com/yasmagic/elasticrtc-tools/pkg/models"
)

func GetShowCommand() *cobra.Command {
	showCmd := &cobra.Command{
		Use:   string(models.CommandShow),
		Short: config.CommandDescription(models.CommandShow),
		Args:  noArgs(models.CommandShow),
		RunE:  executeShow,
	}
	addOptionFlags(showCmd.Flags(), models.CommandShow)
	return showCmd
}

func executeShow(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	details, err := s.provider.ShowCluster(cmd.Context(), s.cfg.StackName)
	if err != nil {
		return err
	}
	return s.reporter.Show(details)
}
