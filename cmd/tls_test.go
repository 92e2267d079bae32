package main

import (
	"crypto/x509"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"foundernet/pkg/config"
)

func TestGenerateSelfSignedCert(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cert, err := generateSelfSignedCert(now)
	require.NoError(t, err)
	require.Len(t, cert.Certificate, 1)

	parsed, err := x509.ParseCertificate(cert.Certificate[0])
	require.NoError(t, err)
	require.Equal(t, "localhost", parsed.Subject.CommonName)
	require.Contains(t, parsed.DNSNames, "localhost")
	require.True(t, parsed.NotAfter.After(now.Add(364*24*time.Hour)))
}

func TestBuildTLSConfig_SelfSignedOnlyOutsideProduction(t *testing.T) {
	t.Setenv("TLS_CERT", "")
	t.Setenv("TLS_KEY", "")

	cfg, certFile, keyFile, err := buildTLSConfig(config.TLSConfig{Enabled: true, AllowSelfSigned: true}, false)
	require.NoError(t, err)
	require.Empty(t, certFile)
	require.Empty(t, keyFile)
	require.Len(t, cfg.Certificates, 1)

	_, _, _, err = buildTLSConfig(config.TLSConfig{Enabled: true, AllowSelfSigned: true}, true)
	require.Error(t, err)

	_, _, _, err = buildTLSConfig(config.TLSConfig{Enabled: true}, false)
	require.Error(t, err)
}

func TestBuildTLSConfig_MissingFiles(t *testing.T) {
	_, _, _, err := buildTLSConfig(config.TLSConfig{CertPath: "/nonexistent/cert.pem", KeyPath: "/nonexistent/key.pem"}, true)
	require.Error(t, err)
}
