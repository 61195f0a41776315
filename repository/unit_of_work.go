package repository

import (
	"context"
	"fmt"

	"sportsbook/events"
	"sportsbook/service"
)

// unitOfWork implements the UnitOfWork interface.
// It serializes calls through the store lock. Pool writes land as they are
// made; Rollback releases the lock and drops pending events without undoing them.
type unitOfWork struct {
	store            *Store
	ctx              context.Context
	active           bool
	transactionalBus *events.TransactionalBus
	wagerRepo        service.WagerRepository
	accountRepo      service.AccountRepository
	eventRepo        service.EventRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(store *Store, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		store:    store,
		eventBus: eventBus,
	}
}

type unitOfWorkFactory struct {
	store    *Store
	eventBus *events.Bus
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		store:            f.store,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin waits for exclusive access to the store
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.active {
		return fmt.Errorf("unit of work already started")
	}

	if err := u.store.acquire(ctx); err != nil {
		return err
	}

	u.active = true
	u.ctx = ctx

	u.wagerRepo = NewWagerRepository(u.store)
	u.accountRepo = NewAccountRepository(u.store)
	u.eventRepo = NewEventRepository(u.store)

	return nil
}

// Commit releases the store and flushes pending events
func (u *unitOfWork) Commit() error {
	if !u.active {
		return fmt.Errorf("no unit of work to commit")
	}

	u.active = false
	u.store.release()

	if u.transactionalBus != nil {
		u.transactionalBus.Flush(u.ctx)
	}

	return nil
}

// Rollback releases the store and discards pending events
func (u *unitOfWork) Rollback() error {
	if !u.active {
		return nil
	}

	u.active = false
	u.store.release()

	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	return nil
}

// WagerRepository returns the wager repository for this unit of work
func (u *unitOfWork) WagerRepository() service.WagerRepository {
	if u.wagerRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.wagerRepo
}

// AccountRepository returns the account repository for this unit of work
func (u *unitOfWork) AccountRepository() service.AccountRepository {
	if u.accountRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.accountRepo
}

// EventRepository returns the event repository for this unit of work
func (u *unitOfWork) EventRepository() service.EventRepository {
	if u.eventRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.eventRepo
}

// IDAllocator returns the shared id allocator
func (u *unitOfWork) IDAllocator() service.IDAllocator {
	if !u.active {
		panic("unit of work not started - call Begin() first")
	}
	return u.store.IDs
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.transactionalBus == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalBus
}
