// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package security

import (
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCertificateUser(t *testing.T) {
	cert := &x509.Certificate{Subject: pkix.Name{
		CommonName: "node2",
		Names: []pkix.AttributeTypeAndValue{
			{Type: oidUserID, Value: "replicant"},
		},
	}}
	state := &tls.ConnectionState{PeerCertificates: []*x509.Certificate{cert}}

	name, err := CertificateUser(state, CertFieldCommonName)
	require.NoError(t, err)
	require.Equal(t, "node2", name)

	name, err = CertificateUser(state, CertFieldUserID)
	require.NoError(t, err)
	require.Equal(t, "replicant", name)

	name, err = CertificateUser(state, CertFieldNone)
	require.NoError(t, err)
	require.Empty(t, name)

	_, err = CertificateUser(&tls.ConnectionState{}, CertFieldCommonName)
	require.ErrorIs(t, err, ErrNoPeerCertificate)

	bare := &tls.ConnectionState{PeerCertificates: []*x509.Certificate{{}}}
	_, err = CertificateUser(bare, CertFieldUserID)
	require.Error(t, err)
}
