package models

// StackSummary is one row of the list report.
type StackSummary struct {
	Name   string `json:"name"   yaml:"name"`
	Status string `json:"status" yaml:"status"`
}

type InstanceInfo struct {
	ID        string `json:"id"         yaml:"id"`
	PrivateIP string `json:"private_ip" yaml:"private_ip"`
	PublicIP  string `json:"public_ip"  yaml:"public_ip"`
}

// ClusterDetails is the show report. Only URL and Instances are part of the
// machine readable payload.
type ClusterDetails struct {
	Name         string         `json:"-"         yaml:"-"`
	URL          string         `json:"url"       yaml:"url"`
	AWSCname     string         `json:"-"         yaml:"-"`
	ClusterCname string         `json:"-"         yaml:"-"`
	AutoDNS      bool           `json:"-"         yaml:"-"`
	GroupName    string         `json:"-"         yaml:"-"`
	Instances    []InstanceInfo `json:"Instances" yaml:"Instances"`
}

// NeedsManualCNAME reports whether the operator must create the cluster
// CNAME record by hand.
func (d *ClusterDetails) NeedsManualCNAME() bool {
	return !d.AutoDNS && d.ClusterCname != ""
}
