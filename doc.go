// Package mintreg holds the shared vocabulary of the edition registry:
// the error taxonomy every subpackage reports through, the wire format
// constants for edition identifiers and derived titles, and account id
// validation.
//
// The registry itself lives in the registry subpackage. Persistence
// implementations live in store, payout arithmetic in royalty, host
// collaborator ports in host, and structured event records in event.
package mintreg
