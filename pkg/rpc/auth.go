// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rpc

import (
	"context"
	"net"

	"github.com/cockroachdb/errors"
	"github.com/maxwellito/comdb2/pkg/security"
	"github.com/maxwellito/comdb2/pkg/settings"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/peer"
)

var errPeerInfoMissing = errors.New("peer info is not available in request context")

// PeerIdentity returns the name of the node on the other end of an
// established connection. On a TLS connection it is read from the peer
// certificate as configured by server.ssl.user_cert_field; otherwise, and
// when no field is configured, the host part of the peer address is used.
//
// When the replicant SSL mode verifies peers, a TLS connection whose
// certificate does not name the peer is rejected.
func PeerIdentity(ctx context.Context, sv *settings.Values) (string, error) {
	p, ok := peer.FromContext(ctx)
	if !ok {
		return "", errPeerInfoMissing
	}
	mode := security.ReplicantSSLMode(sv)
	tlsInfo, isTLS := p.AuthInfo.(credentials.TLSInfo)
	if !isTLS && mode.RequiresTLS() && !(security.AllowLocalhost(sv) && isLoopback(p.Addr)) {
		return "", errors.Newf("plaintext connection from %s rejected by ssl mode %s", p.Addr, mode)
	}
	if isTLS {
		if field := security.UserCertField(sv); field != security.CertFieldNone {
			name, err := security.CertificateUser(&tlsInfo.State, field)
			if err == nil {
				return name, nil
			}
			if mode.VerifiesPeer() {
				return "", errors.Wrapf(err, "identifying peer %s", p.Addr)
			}
		}
	}
	if p.Addr == nil {
		return "", errPeerInfoMissing
	}
	host, _, err := net.SplitHostPort(p.Addr.String())
	if err != nil {
		return p.Addr.String(), nil
	}
	return host, nil
}

func isLoopback(addr net.Addr) bool {
	tcp, ok := addr.(*net.TCPAddr)
	return ok && tcp.IP.IsLoopback()
}
