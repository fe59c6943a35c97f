package validate

import (
	"bytes"
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/yasmagic/elasticrtc-tools/pkg/config"
	"github.com/yasmagic/elasticrtc-tools/pkg/models"
)

const wildcardPrefix = "*."

var sslUsage = config.OptionUsage(config.OptSSLCert, config.OptSSLKey)

// ParseCertificate reads the PEM certificate and private key files and
// checks that the key belongs to the certificate.
func ParseCertificate(certPath, keyPath string) (*models.Certificate, error) {
	if certPath == "" {
		return nil, nil
	}
	if keyPath == "" {
		return nil, models.NewUsageError(sslUsage, "Private Key must be provided with SSL certificate")
	}

	certPEM, err := os.ReadFile(certPath)
	if err != nil {
		return nil, models.NewUsageError(sslUsage, "SSL certificate not found or unable to open: %s", certPath)
	}
	keyPEM, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, models.NewUsageError(sslUsage, "SSL private key not found or unable to open: %s", keyPath)
	}

	cert, err := decodeCertificate(certPEM)
	if err != nil {
		return nil, models.NewUsageError(sslUsage, "Unable to load SSL certificate %s: %v", certPath, err)
	}
	key, err := decodePrivateKey(keyPEM)
	if err != nil {
		return nil, models.NewUsageError(sslUsage, "Unable to load SSL private key %s: %v", keyPath, err)
	}
	if !publicKeysMatch(cert.PublicKey, key.Public()) {
		return nil, models.NewUsageError(sslUsage, "SSL private key does not match certificate: %s", certPath)
	}

	cn := cert.Subject.CommonName
	if cn == "" {
		return nil, models.NewUsageError(sslUsage, "SSL certificate has no common name: %s", certPath)
	}
	return &models.Certificate{
		PEM:        string(certPEM),
		KeyPEM:     string(keyPEM),
		CommonName: cn,
		FQDN:       strings.TrimLeft(strings.TrimLeft(cn, "*"), "."),
		Wildcard:   strings.HasPrefix(cn, wildcardPrefix),
	}, nil
}

func decodeCertificate(data []byte) (*x509.Certificate, error) {
	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			return nil, errors.New("no PEM certificate found")
		}
		if block.Type == "CERTIFICATE" {
			return x509.ParseCertificate(block.Bytes)
		}
	}
}

func decodePrivateKey(data []byte) (crypto.Signer, error) {
	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			return nil, errors.New("no PEM private key found")
		}
		switch block.Type {
		case "RSA PRIVATE KEY":
			return x509.ParsePKCS1PrivateKey(block.Bytes)
		case "EC PRIVATE KEY":
			return x509.ParseECPrivateKey(block.Bytes)
		case "PRIVATE KEY":
			key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
			if err != nil {
				return nil, err
			}
			signer, ok := key.(crypto.Signer)
			if !ok {
				return nil, fmt.Errorf("unsupported private key type %T", key)
			}
			return signer, nil
		}
	}
}

func publicKeysMatch(a, b crypto.PublicKey) bool {
	da, err := x509.MarshalPKIXPublicKey(a)
	if err != nil {
		return false
	}
	db, err := x509.MarshalPKIXPublicKey(b)
	if err != nil {
		return false
	}
	return bytes.Equal(da, db)
}

// MatchHostedZone checks that the certificate can serve names in zone. A
// wildcard certificate must be issued for the zone itself, any other for a
// host directly under the zone.
func MatchHostedZone(cert *models.Certificate, zone string) error {
	if cert == nil || zone == "" {
		return nil
	}
	expected := cert.FQDN
	if !cert.Wildcard {
		expected = parentDomain(cert.FQDN)
	}
	if zone != expected {
		return models.NewUsageError(
			config.OptionUsage(config.OptHostedZoneID),
			"SSL certificate name does not match hosted zone FQDN\n\n  SSL common name   : %s\n  Hosted zone domain: %s",
			cert.CommonName, zone,
		)
	}
	return nil
}

func parentDomain(fqdn string) string {
	if i := strings.Index(fqdn, "."); i > 0 {
		return fqdn[i+1:]
	}
	return fqdn
}

// ClusterFQDN picks the public name of the cluster.
func ClusterFQDN(stackName, zone string, cert *models.Certificate) string {
	switch {
	case cert != nil && !cert.Wildcard:
		return cert.FQDN
	case zone != "":
		return stackName + "." + zone
	case cert != nil:
		return stackName + "." + cert.FQDN
	default:
		return ""
	}
}
