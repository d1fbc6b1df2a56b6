// Package registry implements the edition registry's state-transition
// engine: series lifecycle, edition minting and burning, ownership and
// approval transfer, royalty payouts and randomized mint bundles.
//
// Every operation runs to completion against the full registry state
// inside a single store transaction: a failure aborts the whole call and
// the state afterwards is identical to the state before it. Value
// movements and events are queued during the transaction and dispatched
// only after it commits, so a failed call pays and logs nothing.
package registry

import (
	"fmt"
	"sync"
	"time"

	"github.com/mintregorg/libmintreg-go"
	"github.com/mintregorg/libmintreg-go/event"
	"github.com/mintregorg/libmintreg-go/host"
	"github.com/mintregorg/libmintreg-go/store"
)

// Registry is the issuance and transfer engine over one shared store.
// Callers are expected to be serialized; the internal mutex only guards
// against accidental concurrent use, it is not a throughput feature.
type Registry struct {
	mu       sync.Mutex
	store    store.Store
	events   event.Sink
	rail     host.PaymentRail
	rent     host.RentAccountant
	notifier host.ReceiverNotifier
	rand     host.RandomSource
	now      func() time.Time
}

// Options configures a Registry.
type Options struct {
	// Owner administers bundles and the treasury setting. Required when
	// the store has not been initialized before.
	Owner string

	// Treasury receives the platform fee from every sale. Required when
	// the store has not been initialized before.
	Treasury string

	// Events receives a record for every state transition. Defaults to a
	// sink that discards them.
	Events event.Sink

	// Rail executes value movements. Defaults to a rail that discards
	// them.
	Rail host.PaymentRail

	// Rent prices storage growth. Defaults to waiving rent.
	Rent host.RentAccountant

	// Notifier delivers transfer and approval notifications. Required
	// only for TransferWithNotification and message-carrying approvals.
	Notifier host.ReceiverNotifier

	// Rand supplies bundle selection draws. Defaults to an entropy-seeded
	// source.
	Rand host.RandomSource
}

// New opens a registry over st. On a fresh store the owner and treasury
// accounts from opts are persisted; on an existing store the persisted
// accounts win and opts.Owner/opts.Treasury may be left empty.
func New(st store.Store, opts Options) (*Registry, error) {
	r := &Registry{
		store:    st,
		events:   opts.Events,
		rail:     opts.Rail,
		rent:     opts.Rent,
		notifier: opts.Notifier,
		rand:     opts.Rand,
		now:      time.Now,
	}
	if r.events == nil {
		r.events = event.NopSink{}
	}
	if r.rail == nil {
		r.rail = host.NopRail{}
	}
	if r.rent == nil {
		r.rent = host.NopAccountant{}
	}
	if r.rand == nil {
		rnd, err := host.NewEntropyRand()
		if err != nil {
			return nil, fmt.Errorf("registry: seed random source: %w", err)
		}
		r.rand = rnd
	}

	err := st.Update(func(tx store.Txn) error {
		owner, err := tx.Meta().Owner()
		if err != nil {
			return err
		}
		if owner == "" {
			if !mintreg.ValidAccountID(opts.Owner) {
				return errInvalidInput("owner account %q", opts.Owner)
			}
			if !mintreg.ValidAccountID(opts.Treasury) {
				return errInvalidInput("treasury account %q", opts.Treasury)
			}
			if err := tx.Meta().SetOwner(opts.Owner); err != nil {
				return err
			}
			return tx.Meta().SetTreasury(opts.Treasury)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Owner returns the registry owner account.
func (r *Registry) Owner() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var owner string
	err := r.store.View(func(tx store.Txn) error {
		var err error
		owner, err = tx.Meta().Owner()
		return err
	})
	return owner, err
}

// Treasury returns the treasury account.
func (r *Registry) Treasury() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var treasury string
	err := r.store.View(func(tx store.Txn) error {
		var err error
		treasury, err = tx.Meta().Treasury()
		return err
	})
	return treasury, err
}

// SetTreasury changes the treasury account. Registry owner only.
func (r *Registry) SetTreasury(caller, treasury string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !mintreg.ValidAccountID(treasury) {
		return errInvalidInput("treasury account %q", treasury)
	}
	return r.store.Update(func(tx store.Txn) error {
		if err := requireOwner(tx, caller); err != nil {
			return err
		}
		return tx.Meta().SetTreasury(treasury)
	})
}

// requireOwner fails unless caller is the registry owner.
func requireOwner(tx store.Txn, caller string) error {
	owner, err := tx.Meta().Owner()
	if err != nil {
		return err
	}
	if caller != owner {
		return errUnauthorized("account %q is not the registry owner", caller)
	}
	return nil
}

// outcome accumulates the side effects of one operation; they are
// dispatched only after the store transaction commits.
type outcome struct {
	payments []host.Payment
	events   []event.Record
}

func (o *outcome) pay(to string, amount uint64) {
	o.payments = append(o.payments, host.Payment{To: to, Amount: amount})
}

func (o *outcome) emit(rec event.Record) {
	o.events = append(o.events, rec)
}

// dispatch fires the queued payments and events.
func (r *Registry) dispatch(o *outcome) {
	for _, p := range o.payments {
		r.rail.TransferValue(p.To, p.Amount)
	}
	for _, rec := range o.events {
		r.events.Emit(rec)
	}
}

// settleRent prices the transaction's storage growth and queues the
// refund of whatever the attached value exceeds it by.
func (r *Registry) settleRent(tx store.Txn, o *outcome, caller string, attached, sidePayment uint64) error {
	refund, err := r.rent.Settle(tx.StorageDelta(), attached, sidePayment)
	if err != nil {
		return err
	}
	if refund > 0 {
		o.pay(caller, refund)
	}
	return nil
}
