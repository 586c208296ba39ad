// Package repokit holds the driver-free types repositories are written against
package repokit

import "postfilter/internal/platform/store"

type (
	// Queryer is the read and write surface a repo binds to, a pool or a tx
	Queryer = store.RowQuerier

	// TxRunner can also run a function inside a transaction
	TxRunner = store.TxRunner
)
