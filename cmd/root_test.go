package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yasmagic/elasticrtc-tools/internal/testutil"
	mocks "github.com/yasmagic/elasticrtc-tools/mocks/aws"
	"github.com/yasmagic/elasticrtc-tools/pkg/credentials"
	"github.com/yasmagic/elasticrtc-tools/pkg/logger"
	"github.com/yasmagic/elasticrtc-tools/pkg/models"
	aws_interface "github.com/yasmagic/elasticrtc-tools/pkg/models/interfaces/aws"
	awsprovider "github.com/yasmagic/elasticrtc-tools/pkg/providers/aws"
	"go.uber.org/zap/zapcore"
)

func ExecuteCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(args)

	defer func() {
		if r := recover(); r != nil {
			logger.Get().Errorf("Panic occurred: %v", r)
			_ = logger.Get().Sync()
			err = fmt.Errorf("panic occurred: %v", r)
		}
	}()

	_, err = root.ExecuteC()

	_ = logger.Get().Sync()

	return buf.String(), err
}

var credentialFlags = []string{
	"--aws-access-key-id", "AKIDEXAMPLE",
	"--aws-secret-access-key", "secret",
}

type testEnv struct {
	provider *mocks.MockClusterProviderer
	sts      *mocks.MockSTSClienter
	s3       *mocks.MockS3APIer
	route53  *mocks.MockRoute53APIer
	store    *credentials.Store
	progress awsprovider.Progress
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(home, "none"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(home, "none"))
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("ELASTICRTC_LOG_PATH", filepath.Join(home, "elasticrtc.log"))
	homedir.DisableCache = true
	viper.Reset()

	env := &testEnv{
		provider: new(mocks.MockClusterProviderer),
		sts:      new(mocks.MockSTSClienter),
		s3:       new(mocks.MockS3APIer),
		route53:  new(mocks.MockRoute53APIer),
		store:    &credentials.Store{Dir: filepath.Join(home, ".aws")},
	}
	env.sts.On("GetCallerIdentity", mock.Anything, mock.Anything).Return(&sts.GetCallerIdentityOutput{
		Arn:     aws.String("arn:aws:iam::123456789012:user/ops"),
		Account: aws.String("123456789012"),
	}, nil)

	origClients := awsprovider.NewClientsFunc
	origProvider := awsprovider.NewClusterProviderFunc
	origStore := NewCredentialStoreFunc
	origConsole, origLevel, origPath := logger.GlobalEnableConsoleLogger, logger.GlobalLogLevel, logger.GlobalLogPath
	t.Cleanup(func() {
		awsprovider.NewClientsFunc = origClients
		awsprovider.NewClusterProviderFunc = origProvider
		NewCredentialStoreFunc = origStore
		viper.Reset()
		logger.Close()
		logger.SetGlobalLogger(nil)
		logger.GlobalEnableConsoleLogger = origConsole
		logger.GlobalLogLevel = origLevel
		logger.GlobalLogPath = origPath
	})

	awsprovider.NewClientsFunc = func(aws.Config) *awsprovider.Clients {
		return &awsprovider.Clients{STS: env.sts, S3: env.s3, Route53: env.route53}
	}
	awsprovider.NewClusterProviderFunc = func(
		_ *awsprovider.Clients,
		_ *models.ClusterConfig,
		progress awsprovider.Progress,
	) aws_interface.ClusterProviderer {
		env.progress = progress
		return env.provider
	}
	NewCredentialStoreFunc = func() (*credentials.Store, error) {
		return env.store, nil
	}
	return env
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return ExecuteCommand(GetRootCommand(), args...)
}

func requireUsageError(t *testing.T, err error, contains string) *models.UsageError {
	t.Helper()
	var usageErr *models.UsageError
	require.ErrorAs(t, err, &usageErr)
	assert.Contains(t, usageErr.Message, contains)
	return usageErr
}

func TestRootCommandPrintsUsage(t *testing.T) {
	setupTestEnv(t)

	out, err := run(t)
	require.NoError(t, err)
	assert.Contains(t, out, "usage: elasticrtc")
	assert.Contains(t, out, "Commands:")
	for _, c := range models.Commands {
		assert.Contains(t, out, string(c))
	}
}

func TestHelpCommand(t *testing.T) {
	setupTestEnv(t)

	out, err := run(t, "help", "create")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "usage: elasticrtc create\n"))
	assert.Contains(t, out, "--aws-key-name value")
	assert.NotContains(t, out, "--test-mode")

	out, err = run(t, "list", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "usage: elasticrtc list")
	assert.NotContains(t, out, "--aws-key-name")
}

func TestUnknownCommand(t *testing.T) {
	setupTestEnv(t)

	_, err := run(t, "frobnicate")
	usageErr := requireUsageError(t, err, "Unknown command: frobnicate")
	assert.Contains(t, usageErr.Usage, "Commands:")
}

func TestUnknownFlag(t *testing.T) {
	setupTestEnv(t)

	_, err := run(t, "list", "--stack-name", "demo")
	usageErr := requireUsageError(t, err, "unknown flag: --stack-name")
	assert.Contains(t, usageErr.Usage, "usage: elasticrtc list")
}

func TestUnexpectedArgument(t *testing.T) {
	setupTestEnv(t)

	_, err := run(t, "show", "demo")
	requireUsageError(t, err, "Unexpected argument: demo")
}

func TestMissingRegionFailsBeforeCredentials(t *testing.T) {
	env := setupTestEnv(t)

	_, err := run(t, "list")
	requireUsageError(t, err, "Missing mandatory parameter --region")
	env.sts.AssertNotCalled(t, "GetCallerIdentity", mock.Anything, mock.Anything)
	env.provider.AssertNotCalled(t, "ListClusters", mock.Anything)
}

func TestListText(t *testing.T) {
	env := setupTestEnv(t)
	env.provider.On("ListClusters", mock.Anything).Return([]models.StackSummary{
		{Name: "alpha", Status: "CREATE_COMPLETE"},
	}, nil)

	out, err := run(t, append([]string{"list", "--region", "eu-west-1"}, credentialFlags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "ELASTICRTC: List Kurento Clusters in region: eu-west-1")
	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, "CREATE_COMPLETE")
	env.sts.AssertCalled(t, "GetCallerIdentity", mock.Anything, mock.Anything)
}

func TestListVerboseEnablesDebugLogging(t *testing.T) {
	env := setupTestEnv(t)
	env.provider.On("ListClusters", mock.Anything).Return([]models.StackSummary{}, nil)

	_, err := run(t, append([]string{"list", "--region", "eu-west-1", "--verbose"}, credentialFlags...)...)
	require.NoError(t, err)

	assert.True(t, logger.GlobalEnableConsoleLogger)
	assert.True(t, logger.Get().Core().Enabled(zapcore.DebugLevel))

	data, err := os.ReadFile(filepath.Join(os.Getenv("HOME"), "elasticrtc.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Running elasticrtc list")
}

func TestListLogsAtInfoByDefault(t *testing.T) {
	env := setupTestEnv(t)
	env.provider.On("ListClusters", mock.Anything).Return([]models.StackSummary{}, nil)

	_, err := run(t, append([]string{"list", "--region", "eu-west-1"}, credentialFlags...)...)
	require.NoError(t, err)

	assert.False(t, logger.Get().Core().Enabled(zapcore.DebugLevel))
	assert.True(t, logger.Get().Core().Enabled(zapcore.InfoLevel))
}

func TestLogLevelFromConfigFile(t *testing.T) {
	env := setupTestEnv(t)
	env.provider.On("ListClusters", mock.Anything).Return([]models.StackSummary{}, nil)
	cfgFile := testutil.WriteFile(t, t.TempDir(), "elasticrtc.yaml", "log:\n  level: debug\n")

	_, err := run(t, append([]string{"list", "--region", "eu-west-1", "--config", cfgFile}, credentialFlags...)...)
	require.NoError(t, err)

	assert.True(t, logger.Get().Core().Enabled(zapcore.DebugLevel))
	assert.False(t, logger.GlobalEnableConsoleLogger)
}

func TestListJSONFromEnvironment(t *testing.T) {
	env := setupTestEnv(t)
	t.Setenv("ELASTICRTC_REGION", "eu-west-1")
	env.provider.On("ListClusters", mock.Anything).Return([]models.StackSummary{
		{Name: "alpha", Status: "CREATE_COMPLETE"},
		{Name: "beta", Status: "ROLLBACK_COMPLETE"},
	}, nil)

	out, err := run(t, append([]string{"list", "-j"}, credentialFlags...)...)
	require.NoError(t, err)
	assert.Equal(t,
		`[{"name":"alpha","status":"CREATE_COMPLETE"},{"name":"beta","status":"ROLLBACK_COMPLETE"}]`+"\n",
		out)
}

func TestListUsesStoredProfile(t *testing.T) {
	env := setupTestEnv(t)
	require.NoError(t, env.store.Save(credentials.Credentials{
		Profile:         credentials.DefaultProfile,
		AccessKeyID:     "AKIDSTORED",
		SecretAccessKey: "stored",
	}))
	env.provider.On("ListClusters", mock.Anything).Return([]models.StackSummary{}, nil)

	out, err := run(t, "list", "--region", "eu-west-1", "--output", "yaml")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestShow(t *testing.T) {
	env := setupTestEnv(t)
	env.provider.On("ShowCluster", mock.Anything, "demo").Return(&models.ClusterDetails{
		Name:         "demo",
		URL:          "wss://demo.example.com/kurento",
		AWSCname:     "demo-elb.amazonaws.com",
		ClusterCname: "demo.example.com",
		Instances:    []models.InstanceInfo{{ID: "i-1", PrivateIP: "10.0.0.1", PublicIP: "54.0.0.1"}},
	}, nil)

	out, err := run(t, append([]string{"show", "--region", "eu-west-1", "--stack-name", "demo"}, credentialFlags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "wss://demo.example.com/kurento")
	assert.Contains(t, out, "demo.example.com  CNAME  demo-elb.amazonaws.com")
	assert.Contains(t, out, "i-1 : 10.0.0.1/54.0.0.1")
}

func TestShowUnknownStack(t *testing.T) {
	env := setupTestEnv(t)
	env.provider.On("ShowCluster", mock.Anything, "ghost").Return(nil, &models.StackNotFoundError{Name: "ghost"})

	_, err := run(t, append([]string{"show", "--region", "eu-west-1", "--stack-name", "ghost"}, credentialFlags...)...)
	var notFound *models.StackNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestDelete(t *testing.T) {
	env := setupTestEnv(t)
	env.provider.On("DeleteCluster", mock.Anything, "demo").Return(nil)

	out, err := run(t, append([]string{"delete", "--region", "eu-west-1", "--stack-name", "demo"}, credentialFlags...)...)
	require.NoError(t, err)
	assert.Empty(t, out)
	env.provider.AssertExpectations(t)
}

func TestDeleteNotACluster(t *testing.T) {
	env := setupTestEnv(t)
	env.provider.On("DeleteCluster", mock.Anything, "vpc").Return(&models.NotAClusterError{Name: "vpc"})

	_, err := run(t, append([]string{"delete", "--region", "eu-west-1", "--stack-name", "vpc"}, credentialFlags...)...)
	assert.EqualError(t, err, "not a Kurento Cluster: vpc")
}

func TestCreate(t *testing.T) {
	env := setupTestEnv(t)
	templatePath := testutil.WriteFile(t, t.TempDir(), "template.json",
		`{"Parameters": {"KurentoCluster": {"Type": "String"}}}`)

	env.s3.On("ListBuckets", mock.Anything, mock.Anything).Return(&s3.ListBucketsOutput{}, nil)
	env.provider.On("CreateCluster", mock.Anything, mock.MatchedBy(func(plan *models.ClusterPlan) bool {
		return plan.Config.StackName == "demo" &&
			plan.Config.KeyName == "ops" &&
			plan.Config.DesiredCapacity == 2 &&
			strings.Contains(string(plan.TemplateBody), "KurentoCluster")
	})).Return(&models.ClusterDetails{
		Name:      "demo",
		URL:       "ws://demo-elb.amazonaws.com/kurento",
		AutoDNS:   true,
		Instances: []models.InstanceInfo{},
	}, nil)

	args := append([]string{
		"create", "--json",
		"--region", "eu-west-1",
		"--stack-name", "demo",
		"--aws-key-name", "ops",
		"--desired-capacity", "2",
		"--template", templatePath,
	}, credentialFlags...)
	out, err := run(t, args...)
	require.NoError(t, err)
	assert.Equal(t, `{"url":"ws://demo-elb.amazonaws.com/kurento","Instances":[]}`+"\n", out)
	env.provider.AssertExpectations(t)
}

func TestCreateRejectsBadCapacity(t *testing.T) {
	env := setupTestEnv(t)

	_, err := run(t, append([]string{
		"create", "--region", "eu-west-1", "--stack-name", "demo", "--aws-key-name", "ops",
		"--min-capacity", "zero",
	}, credentialFlags...)...)
	requireUsageError(t, err, "--min-capacity must be a positive integer")
	env.provider.AssertNotCalled(t, "CreateCluster", mock.Anything, mock.Anything)
}

func TestCreateProviderFailure(t *testing.T) {
	env := setupTestEnv(t)
	templatePath := testutil.WriteFile(t, t.TempDir(), "template.json", `{"Parameters": {}}`)
	env.s3.On("ListBuckets", mock.Anything, mock.Anything).Return(&s3.ListBucketsOutput{}, nil)
	env.provider.On("CreateCluster", mock.Anything, mock.Anything).
		Return(nil, &models.StackStatusError{Name: "demo", Status: "ROLLBACK_COMPLETE", Reasons: []string{"boom"}})

	_, err := run(t, append([]string{
		"create", "--region", "eu-west-1", "--stack-name", "demo", "--aws-key-name", "ops",
		"--template", templatePath,
	}, credentialFlags...)...)
	var statusErr *models.StackStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, []string{"boom"}, statusErr.Reasons)
}

func TestInvalidCredentials(t *testing.T) {
	env := setupTestEnv(t)
	env.sts.ExpectedCalls = nil
	env.sts.On("GetCallerIdentity", mock.Anything, mock.Anything).
		Return(nil, errors.New("InvalidClientTokenId"))

	_, err := run(t, append([]string{"list", "--region", "eu-west-1"}, credentialFlags...)...)
	assert.ErrorContains(t, err, "failed to verify AWS credentials: InvalidClientTokenId")
	env.provider.AssertNotCalled(t, "ListClusters", mock.Anything)
}

func TestListPassesProgressToProvider(t *testing.T) {
	env := setupTestEnv(t)
	env.provider.On("ListClusters", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx != nil
	})).Return([]models.StackSummary{}, nil)

	_, err := run(t, append([]string{"list", "--region", "eu-west-1"}, credentialFlags...)...)
	require.NoError(t, err)
	assert.NotNil(t, env.progress)
}

func TestDeleteJSON(t *testing.T) {
	env := setupTestEnv(t)
	env.provider.On("DeleteCluster", mock.Anything, "demo").Return(nil)

	out, err := run(t, append([]string{"delete", "-j", "--region", "eu-west-1", "--stack-name", "demo"}, credentialFlags...)...)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"demo","status":"DELETE_COMPLETE"}`+"\n", out)
}
