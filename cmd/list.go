package cmd

import (
	"github.com/spf13/cobra"
	"github.com/yasmagic/elasticrtc-tools/pkg/config"
	"github.com/yasmagic/elasticrtc-tools/pkg/models"
)

func GetListCommand() *cobra.Command {
	listCmd := &cobra.Command{
		Use:   string(models.CommandList),
		Short: config.CommandDescription(models.CommandList),
		Args:  noArgs(models.CommandList),
		RunE:  executeList,
	}
	addOptionFlags(listCmd.Flags(), models.CommandList)
	return listCmd
}

func executeList(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	s.progress.Logf("List Kurento Clusters in region: %s", s.cfg.Region)
	clusters, err := s.provider.ListClusters(cmd.Context())
	if err != nil {
		return err
	}
	return s.reporter.List(clusters)
}
