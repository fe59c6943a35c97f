package internal_aws

import (
	"embed"
)

//go:generate sh -c "cd ../../.. && go run ./internal/generate_cloud_data.go"

//go:embed aws_data.yaml
var awsData embed.FS

func GetAWSData() ([]byte, error) {
	data, err := awsData.ReadFile("aws_data.yaml")
	if err != nil {
		return nil, err
	}
	return data, nil
}
