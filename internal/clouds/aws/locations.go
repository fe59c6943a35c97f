package internal_aws

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/yasmagic/elasticrtc-tools/pkg/logger"
	"gopkg.in/yaml.v3"
)

type Region struct {
	Name          string   `yaml:"name"`
	InstanceTypes []string `yaml:"instance_types"`
}

type AWSData struct {
	Regions map[string]Region `yaml:"regions"`
}

var (
	loadOnce   sync.Once
	loadedData *AWSData
	loadErr    error
)

func getAWSData() (*AWSData, error) {
	loadOnce.Do(func() {
		raw, err := GetAWSData()
		if err != nil {
			loadErr = err
			return
		}
		var data AWSData
		if err := yaml.Unmarshal(raw, &data); err != nil {
			loadErr = fmt.Errorf("failed to parse AWS region data: %w", err)
			return
		}
		for _, region := range data.Regions {
			sort.Strings(region.InstanceTypes)
		}
		loadedData = &data
	})
	return loadedData, loadErr
}

func lookupRegion(region string) (Region, bool) {
	l := logger.Get()
	data, err := getAWSData()
	if err != nil {
		l.Warnf("Failed to get AWS data: %v", err)
		return Region{}, false
	}
	for name, r := range data.Regions {
		if strings.EqualFold(name, region) {
			return r, true
		}
	}
	return Region{}, false
}

// IsValidAWSRegion reports whether the cluster image is published in region.
func IsValidAWSRegion(region string) bool {
	_, ok := lookupRegion(region)
	return ok
}

func IsValidAWSInstanceType(region, instanceType string) bool {
	r, ok := lookupRegion(region)
	if !ok {
		return false
	}
	i := sort.SearchStrings(r.InstanceTypes, instanceType)
	return i < len(r.InstanceTypes) && r.InstanceTypes[i] == instanceType
}

func GetAllAWSRegions() ([]string, error) {
	data, err := getAWSData()
	if err != nil {
		return nil, err
	}
	regions := make([]string, 0, len(data.Regions))
	for name := range data.Regions {
		regions = append(regions, name)
	}
	sort.Strings(regions)
	return regions, nil
}

func GetAWSInstanceTypes(region string) ([]string, error) {
	r, ok := lookupRegion(region)
	if !ok {
		return nil, fmt.Errorf("region not found: %s", region)
	}
	return r.InstanceTypes, nil
}

// RegionDescription returns the display name of region, or "" when unknown.
func RegionDescription(region string) string {
	r, _ := lookupRegion(region)
	return r.Name
}
