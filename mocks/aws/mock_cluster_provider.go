package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/yasmagic/elasticrtc-tools/pkg/models"
	aws_interface "github.com/yasmagic/elasticrtc-tools/pkg/models/interfaces/aws"
)

type MockClusterProviderer struct {
	mock.Mock
}

func (m *MockClusterProviderer) CreateCluster(
	ctx context.Context,
	plan *models.ClusterPlan,
) (*models.ClusterDetails, error) {
	args := m.Called(ctx, plan)
	out, _ := args.Get(0).(*models.ClusterDetails)
	return out, args.Error(1)
}

func (m *MockClusterProviderer) DeleteCluster(ctx context.Context, stackName string) error {
	args := m.Called(ctx, stackName)
	return args.Error(0)
}

func (m *MockClusterProviderer) ListClusters(ctx context.Context) ([]models.StackSummary, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]models.StackSummary)
	return out, args.Error(1)
}

func (m *MockClusterProviderer) ShowCluster(
	ctx context.Context,
	stackName string,
) (*models.ClusterDetails, error) {
	args := m.Called(ctx, stackName)
	out, _ := args.Get(0).(*models.ClusterDetails)
	return out, args.Error(1)
}

var _ aws_interface.ClusterProviderer = (*MockClusterProviderer)(nil)
