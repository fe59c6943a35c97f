package aws

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	cftypes "github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/aws/smithy-go"
	"github.com/cenkalti/backoff/v4"
	"github.com/yasmagic/elasticrtc-tools/pkg/logger"
	"github.com/yasmagic/elasticrtc-tools/pkg/models"
)

var errStillWaiting = errors.New("stack operation still in progress")

// stackDoesNotExist reports whether err is CloudFormation refusing a request
// because the stack is gone.
func stackDoesNotExist(err error) bool {
	if err == nil {
		return false
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "ValidationError" &&
			strings.Contains(apiErr.ErrorMessage(), "does not exist")
	}
	return strings.Contains(err.Error(), "does not exist")
}

// newWaitBackOff polls every PollInterval until ctx is done.
func (p *ClusterProvider) newWaitBackOff(ctx context.Context) backoff.BackOffContext {
	return backoff.WithContext(backoff.NewConstantBackOff(p.PollInterval), ctx)
}

// waitForStack polls the stack until it reaches end. While it reports wait a
// progress dot is printed; any other status fails with the reasons of the
// failed stack events.
func (p *ClusterProvider) waitForStack(
	ctx context.Context,
	name string,
	wait, end cftypes.StackStatus,
	message string,
) error {
	l := logger.FromContext(ctx)

	waitCtx, cancel := context.WithTimeout(ctx, p.WaitTimeout)
	defer cancel()

	p.Progress.Begin(message)
	finished := false
	defer func() {
		if !finished {
			p.Progress.Abort()
		}
	}()

	operation := func() error {
		out, err := p.CloudFormation.DescribeStacks(waitCtx, &cloudformation.DescribeStacksInput{
			StackName: aws.String(name),
		})
		if err != nil {
			if end == cftypes.StackStatusDeleteComplete && stackDoesNotExist(err) {
				l.Debugf("Stack %s no longer exists", name)
				return nil
			}
			if waitCtx.Err() != nil {
				return backoff.Permanent(waitCtx.Err())
			}
			return backoff.Permanent(fmt.Errorf("unable to retrieve info for stack %s: %w", name, err))
		}

		switch len(out.Stacks) {
		case 0:
			return backoff.Permanent(&models.StackNotFoundError{Name: name})
		case 1:
		default:
			return backoff.Permanent(fmt.Errorf("AWS reports too many stacks named %s: %d", name, len(out.Stacks)))
		}

		status := out.Stacks[0].StackStatus
		l.Debugf("Stack %s status: %s", name, status)
		switch status {
		case wait:
			p.Progress.Tick()
			return errStillWaiting
		case end:
			return nil
		default:
			return backoff.Permanent(&models.StackStatusError{
				Name:    name,
				Status:  string(status),
				Reasons: p.failureReasons(waitCtx, name),
			})
		}
	}

	if err := backoff.Retry(operation, p.newWaitBackOff(waitCtx)); err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return fmt.Errorf("timed out after %s waiting for stack %s to reach %s", p.WaitTimeout, name, end)
		}
		return err
	}

	finished = true
	p.Progress.Done()
	return nil
}

// failureReasons collects the status reason of every failed event of the
// stack. Lookup errors only cost the detail.
func (p *ClusterProvider) failureReasons(ctx context.Context, name string) []string {
	out, err := p.CloudFormation.DescribeStackEvents(ctx, &cloudformation.DescribeStackEventsInput{
		StackName: aws.String(name),
	})
	if err != nil {
		logger.FromContext(ctx).Debugf("Unable to describe events of stack %s: %v", name, err)
		return nil
	}

	var reasons []string
	for _, event := range out.StackEvents {
		if strings.Contains(string(event.ResourceStatus), "FAILED") {
			if reason := aws.ToString(event.ResourceStatusReason); reason != "" {
				reasons = append(reasons, reason)
			}
		}
	}
	return reasons
}

// CNAMEResolver is the DNS lookup used to wait for the cluster record.
// *net.Resolver satisfies it.
type CNAMEResolver interface {
	LookupCNAME(ctx context.Context, host string) (string, error)
}

// waitForCNAME blocks until fqdn resolves as a CNAME record.
func (p *ClusterProvider) waitForCNAME(ctx context.Context, fqdn string) error {
	l := logger.FromContext(ctx)

	waitCtx, cancel := context.WithTimeout(ctx, p.WaitTimeout)
	defer cancel()

	p.Progress.Logf("Waiting for DNS record: %s", fqdn)
	operation := func() error {
		cname, err := p.Resolver.LookupCNAME(waitCtx, fqdn)
		if err != nil {
			l.Debugf("CNAME lookup for %s failed: %v", fqdn, err)
			return err
		}
		if strings.TrimSuffix(cname, ".") == strings.TrimSuffix(fqdn, ".") {
			return fmt.Errorf("%s has no CNAME record yet", fqdn)
		}
		l.Debugf("%s is a CNAME for %s", fqdn, cname)
		return nil
	}

	if err := backoff.Retry(operation, p.newWaitBackOff(waitCtx)); err != nil {
		if ctx.Err() == nil && waitCtx.Err() != nil {
			return fmt.Errorf("timed out after %s waiting for DNS record %s", p.WaitTimeout, fqdn)
		}
		return err
	}
	return nil
}
