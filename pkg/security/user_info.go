// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package security

import (
	"crypto/tls"
	"encoding/asn1"
	"fmt"

	"github.com/cockroachdb/errors"
)

// oidUserID is the LDAP userId attribute (RFC 4519).
var oidUserID = asn1.ObjectIdentifier{0, 9, 2342, 19200300, 100, 1, 1}

// ErrNoPeerCertificate is returned when the connection carries no client
// certificate to map.
var ErrNoPeerCertificate = errors.New("no peer certificate")

// CertificateUser returns the identity named by the given field of the leaf
// peer certificate of an established TLS connection.
func CertificateUser(state *tls.ConnectionState, field CertField) (string, error) {
	if state == nil || len(state.PeerCertificates) == 0 {
		return "", ErrNoPeerCertificate
	}
	subject := state.PeerCertificates[0].Subject
	switch field {
	case CertFieldNone:
		return "", nil
	case CertFieldCommonName:
		if subject.CommonName == "" {
			return "", errors.New("peer certificate has no common name")
		}
		return subject.CommonName, nil
	case CertFieldUserID:
		for _, atv := range subject.Names {
			if atv.Type.Equal(oidUserID) {
				return fmt.Sprint(atv.Value), nil
			}
		}
		return "", errors.New("peer certificate has no userId attribute")
	default:
		return "", errors.AssertionFailedf("unknown certificate field %d", field)
	}
}
