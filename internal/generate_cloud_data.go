//go:build ignore

// Refreshes internal/clouds/aws/aws_data.yaml: regions without a published
// media server image are dropped, and so are instance types EC2 does not
// offer in a region.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/briandowns/spinner"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

const (
	dataFile         = "internal/clouds/aws/aws_data.yaml"
	imageDescription = "kurento-cluster-kms-6"
	header           = "# Regions where the media server image is published and the instance types\n" +
		"# the cluster template accepts in each of them.\n"
)

type Region struct {
	Name          string   `yaml:"name"`
	InstanceTypes []string `yaml:"instance_types,flow"`
}

type AWSData struct {
	Regions map[string]Region `yaml:"regions"`
}

func main() {
	raw, err := os.ReadFile(dataFile)
	if err != nil {
		log.Fatalf("Error reading %s: %v", dataFile, err)
	}
	var data AWSData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		log.Fatalf("Error parsing %s: %v", dataFile, err)
	}

	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond)
	s.Suffix = " Querying EC2..."
	s.Start()

	var (
		mu      sync.Mutex
		removed []string
		fresh   = AWSData{Regions: map[string]Region{}}
	)

	ctx := context.Background()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for name, region := range data.Regions {
		g.Go(func() error {
			updated, ok, err := refreshRegion(gctx, name, region)
			if err != nil {
				return fmt.Errorf("region %s: %w", name, err)
			}
			mu.Lock()
			defer mu.Unlock()
			if !ok {
				removed = append(removed, name)
				return nil
			}
			fresh.Regions[name] = updated
			return nil
		})
	}
	err = g.Wait()
	s.Stop()
	if err != nil {
		log.Fatalf("Error generating AWS data: %v", err)
	}

	out, err := yaml.Marshal(fresh)
	if err != nil {
		log.Fatalf("Error encoding AWS data: %v", err)
	}
	if err := os.WriteFile(dataFile, append([]byte(header), out...), 0644); err != nil {
		log.Fatalf("Error writing %s: %v", dataFile, err)
	}

	sort.Strings(removed)
	fmt.Printf("Wrote %d regions to %s\n", len(fresh.Regions), dataFile)
	if len(removed) > 0 {
		fmt.Println("\nRemoved regions:")
		for _, name := range removed {
			fmt.Println(name)
		}
	}
}

func refreshRegion(ctx context.Context, name string, region Region) (Region, bool, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(name))
	if err != nil {
		return Region{}, false, err
	}
	client := ec2.NewFromConfig(cfg)

	images, err := client.DescribeImages(ctx, &ec2.DescribeImagesInput{
		Filters: []ec2types.Filter{{Name: aws.String("description"), Values: []string{imageDescription}}},
	})
	if err != nil {
		return Region{}, false, err
	}
	if len(images.Images) == 0 {
		return Region{}, false, nil
	}

	offered := map[string]bool{}
	paginator := ec2.NewDescribeInstanceTypeOfferingsPaginator(client, &ec2.DescribeInstanceTypeOfferingsInput{
		LocationType: ec2types.LocationTypeRegion,
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return Region{}, false, err
		}
		for _, o := range page.InstanceTypeOfferings {
			offered[string(o.InstanceType)] = true
		}
	}

	var types []string
	for _, t := range region.InstanceTypes {
		if offered[t] {
			types = append(types, t)
		}
	}
	return Region{Name: region.Name, InstanceTypes: types}, true, nil
}
