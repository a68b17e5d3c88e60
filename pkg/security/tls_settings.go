// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package security

import (
	"github.com/maxwellito/comdb2/pkg/settings"
)

// SSLMode is the level of transport security required from a peer. Modes are
// ordered: each mode implies the checks of the ones before it.
type SSLMode int64

const (
	SSLDisable SSLMode = iota
	// SSLUnknown is the "optional" mode: TLS is used if both ends are
	// configured for it.
	SSLUnknown
	SSLAllow
	SSLRequire
	SSLVerifyCA
	SSLVerifyHostname
	SSLVerifyDBName
)

var sslModeNames = map[int64]string{
	int64(SSLDisable):        "disable",
	int64(SSLUnknown):        "optional",
	int64(SSLAllow):          "allow",
	int64(SSLRequire):        "require",
	int64(SSLVerifyCA):       "verify_ca",
	int64(SSLVerifyHostname): "verify_hostname",
	int64(SSLVerifyDBName):   "verify_dbname",
}

func (m SSLMode) String() string {
	if s, ok := sslModeNames[int64(m)]; ok {
		return s
	}
	return "unknown"
}

// RequiresTLS returns whether plaintext peers are rejected.
func (m SSLMode) RequiresTLS() bool { return m >= SSLRequire }

// VerifiesPeer returns whether the peer certificate must chain to a trusted
// CA.
func (m SSLMode) VerifiesPeer() bool { return m >= SSLVerifyCA }

// CertField selects the certificate attribute mapped to a peer identity.
type CertField int64

const (
	CertFieldNone CertField = iota
	CertFieldCommonName
	CertFieldUserID
)

var clientSSLMode = settings.RegisterEnumSetting(
	"server.ssl.client_mode",
	"transport security required from SQL clients",
	"optional", sslModeNames)

var replicantSSLMode = settings.RegisterEnumSetting(
	"server.ssl.replicant_mode",
	"transport security required from replicant nodes forwarding offloaded transactions",
	"optional", sslModeNames)

var userCertField = settings.RegisterEnumSetting(
	"server.ssl.user_cert_field",
	"certificate attribute that names the peer of an authenticated connection",
	"cn", map[int64]string{
		int64(CertFieldNone):       "none",
		int64(CertFieldCommonName): "cn",
		int64(CertFieldUserID):     "uid",
	})

var allowLocalhost = settings.RegisterBoolSetting(
	"server.ssl.allow_localhost",
	"accept plaintext connections from the loopback interface regardless of the ssl mode",
	true)

// AllowLocalhost returns whether loopback peers are exempt from RequiresTLS.
func AllowLocalhost(sv *settings.Values) bool {
	return allowLocalhost.Get(sv)
}

// ClientSSLMode returns the mode required from SQL clients.
func ClientSSLMode(sv *settings.Values) SSLMode {
	return SSLMode(clientSSLMode.Get(sv))
}

// ReplicantSSLMode returns the mode required from replicant nodes.
func ReplicantSSLMode(sv *settings.Values) SSLMode {
	return SSLMode(replicantSSLMode.Get(sv))
}

// UserCertField returns the certificate attribute that names a peer.
func UserCertField(sv *settings.Values) CertField {
	return CertField(userCertField.Get(sv))
}
