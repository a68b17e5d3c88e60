// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rpc

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"net"
	"testing"

	"github.com/maxwellito/comdb2/pkg/security"
	"github.com/maxwellito/comdb2/pkg/settings"
	"github.com/maxwellito/comdb2/pkg/settings/cluster"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/peer"
)

func setReplicantMode(t *testing.T, sv *settings.Values, mode security.SSLMode) {
	s, ok := settings.Lookup("server.ssl.replicant_mode")
	require.True(t, ok)
	require.NoError(t, s.Set(context.Background(), sv, mode.String()))
}

func TestPeerIdentity(t *testing.T) {
	ctx := context.Background()
	st := cluster.MakeTestingClusterSettings()
	addr := &net.TCPAddr{IP: net.ParseIP("10.0.0.7"), Port: 19000}

	_, err := PeerIdentity(ctx, &st.SV)
	require.Error(t, err)

	plain := peer.NewContext(ctx, &peer.Peer{Addr: addr})
	name, err := PeerIdentity(plain, &st.SV)
	require.NoError(t, err)
	require.Equal(t, "10.0.0.7", name)

	cert := &x509.Certificate{Subject: pkix.Name{CommonName: "node3"}}
	secure := peer.NewContext(ctx, &peer.Peer{
		Addr: addr,
		AuthInfo: credentials.TLSInfo{
			State: tls.ConnectionState{PeerCertificates: []*x509.Certificate{cert}},
		},
	})
	name, err = PeerIdentity(secure, &st.SV)
	require.NoError(t, err)
	require.Equal(t, "node3", name)

	setReplicantMode(t, &st.SV, security.SSLRequire)
	_, err = PeerIdentity(plain, &st.SV)
	require.ErrorContains(t, err, "rejected by ssl mode require")

	local := peer.NewContext(ctx, &peer.Peer{Addr: &net.TCPAddr{IP: net.ParseIP("127.0.0.1"), Port: 19000}})
	name, err = PeerIdentity(local, &st.SV)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1", name)

	setReplicantMode(t, &st.SV, security.SSLVerifyCA)
	anonymous := peer.NewContext(ctx, &peer.Peer{
		Addr:     addr,
		AuthInfo: credentials.TLSInfo{State: tls.ConnectionState{}},
	})
	_, err = PeerIdentity(anonymous, &st.SV)
	require.Error(t, err)
}
