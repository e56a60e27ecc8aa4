package scanner

import (
	"context"
	"time"

	"lendpool/core"
	"lendpool/worker"

	"github.com/fox-one/pkg/logger"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Scanner sweeps every borrower, re-evaluates their health factor and
// persists the result for liquidators to query. Accounts with stale
// prices are skipped, never written with a guessed value.
type Scanner struct {
	worker.TickWorker
	positionStore core.IPositionStore
	accountStore  core.IAccountStore
	healthSrv     core.IHealthService
	capacity      int64
}

// New new scanner worker
func New(
	positionStore core.IPositionStore,
	accountStore core.IAccountStore,
	healthSrv core.IHealthService,
	capacity int64,
) *Scanner {
	if capacity <= 0 {
		capacity = 8
	}

	return &Scanner{
		TickWorker: worker.TickWorker{
			Delay: 30 * time.Second,
		},
		positionStore: positionStore,
		accountStore:  accountStore,
		healthSrv:     healthSrv,
		capacity:      capacity,
	}
}

// Run run worker
func (w *Scanner) Run(ctx context.Context) error {
	return w.StartTick(ctx, func(ctx context.Context) error {
		return w.onWork(ctx)
	})
}

func (w *Scanner) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "scanner")

	users, err := w.positionStore.Borrowers(ctx)
	if err != nil {
		log.WithError(err).Errorln("positions.Borrowers")
		return err
	}

	if len(users) == 0 {
		return worker.ErrIdle
	}

	now := time.Now()
	sem := semaphore.NewWeighted(w.capacity)
	g := errgroup.Group{}

	for idx := range users {
		userID := users[idx]

		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}

		g.Go(func() error {
			defer sem.Release(1)

			if err := w.scanUser(ctx, userID, now); err != nil {
				log.WithError(err).Debugln("scan user", userID)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	return worker.ErrIdle
}

func (w *Scanner) scanUser(ctx context.Context, userID string, now time.Time) error {
	snapshot, err := w.healthSrv.Snapshot(ctx, userID, now, nil)
	if err != nil {
		return err
	}

	account, err := w.accountStore.Find(ctx, userID)
	if err != nil {
		return err
	}

	account.UserID = userID
	account.HealthFactor = w.healthSrv.HealthFactor(snapshot)
	account.CollateralValue = w.healthSrv.CollateralValue(snapshot)
	account.DebtValue = w.healthSrv.DebtValue(snapshot)

	return w.accountStore.Save(ctx, account)
}
