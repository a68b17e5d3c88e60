// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

/*
Package osql coordinates offloaded write transactions.

A write transaction executing on a replicant node is captured as an ordered
stream of operations and forwarded to the node that applies transactions.
On the applying side every such transaction is an offload session: it is
created and registered by the front end, fed operations by the network
receive path, handed to the transaction-application component once the
stream is done, and finally closed.

Locking

Three lock domains exist and are always acquired in this order:

  1. Registry.mu, guarding the identity to session map.
  2. Session.mu, the session monitor. Its condition variable wakes closers
     waiting for clients to drain and goroutines awaiting an outcome.
  3. completion.mu, guarding the terminal outcome of a session.

The completion lock may be taken without the session lock, which keeps
SetComplete and Summary from contending with operation delivery.

Lifetime

Any goroutine that uses a session it did not create holds a client
reference (AddClient/RemoveClient). A session found in the registry is
returned with a client reference already added under the registry lock, so
a concurrent close cannot free it between lookup and use. Close unlinks the
session first and then waits for the client count to drain.
*/
package osql
