package ledger

import (
	"context"

	"github.com/eric6923/finTrack-sub000/internal/domain/ledger"
	"github.com/eric6923/finTrack-sub000/internal/domain/reference"
	"github.com/eric6923/finTrack-sub000/internal/domain/shareholding"
)

// TransactionScope runs a unit of work atomically. Every repository handed to
// fn shares the same database transaction: either every write made through
// them commits or none does.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories bound to one transaction
type TransactionalRepositories interface {
	Entries() ledger.EntryRepository
	Balances() ledger.AccountBalanceRepository
	Profiles() shareholding.ProfileRepository
	Distributions() shareholding.DistributionRepository
	Buses() reference.BusRepository
	Operators() reference.OperatorRepository
	Agents() reference.AgentRepository
	Categories() reference.CategoryRepository
}
