package template

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/yasmagic/elasticrtc-tools/pkg/logger"
	"github.com/yasmagic/elasticrtc-tools/pkg/models"
	aws_interface "github.com/yasmagic/elasticrtc-tools/pkg/models/interfaces/aws"
)

const imageTimeLayout = "2006-01-02T15:04:05"

// parseCreationDate reads an EC2 CreationDate ignoring fractional seconds
// and the zone suffix.
func parseCreationDate(s string) (time.Time, error) {
	if i := strings.IndexAny(s, ".Z"); i >= 0 {
		s = s[:i]
	}
	return time.Parse(imageTimeLayout, s)
}

// NewestImage returns the id of the most recently created image. Images
// with an unreadable creation date are skipped.
func NewestImage(images []ec2types.Image) (string, bool) {
	l := logger.Get()

	var (
		newestID string
		newestAt time.Time
	)
	for _, image := range images {
		created, err := parseCreationDate(aws.ToString(image.CreationDate))
		if err != nil {
			l.Debugf("Skipping image %s: %v", aws.ToString(image.ImageId), err)
			continue
		}
		if newestID == "" || created.After(newestAt) {
			newestID = aws.ToString(image.ImageId)
			newestAt = created
		}
	}
	return newestID, newestID != ""
}

// FindImage looks up the newest media server image published in the
// client's region.
func FindImage(ctx context.Context, client aws_interface.EC2Clienter, region string) (string, error) {
	out, err := client.DescribeImages(ctx, &ec2.DescribeImagesInput{
		Filters: []ec2types.Filter{
			{
				Name:   aws.String("description"),
				Values: []string{models.KMSImageDescription},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failure searching KMS AMI in region %s: %w", region, err)
	}
	id, ok := NewestImage(out.Images)
	if !ok {
		return "", &models.UnsupportedRegionError{Region: region}
	}
	return id, nil
}
