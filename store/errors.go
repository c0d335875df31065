package store

import "errors"

// Sentinel errors for the store.
var (
	// ErrNoSlices is returned when a store is constructed with an empty
	// slice list.
	ErrNoSlices = errors.New("store requires at least one slice")

	// ErrEmptySliceName is returned when a slice definition has no name.
	ErrEmptySliceName = errors.New("slice name cannot be empty")

	// ErrDuplicateSlice is returned when two slice definitions share a name.
	ErrDuplicateSlice = errors.New("duplicate slice name")

	// ErrNilHandler is returned when a slice definition has no handler.
	ErrNilHandler = errors.New("slice handler cannot be nil")

	// ErrEmptyActionType is returned when an action with an empty type is
	// dispatched.
	ErrEmptyActionType = errors.New("action type cannot be empty")

	// ErrNilSelector is returned when subscribing with a nil selector.
	ErrNilSelector = errors.New("selector cannot be nil")

	// ErrNilRecipient is returned when subscribing with a nil recipient.
	ErrNilRecipient = errors.New("recipient cannot be nil")

	// ErrSelectorFailed is returned when a selector fails its initial
	// evaluation at subscribe time.
	ErrSelectorFailed = errors.New("selector failed initial evaluation")

	// ErrSubscriptionNotFound is returned when unsubscribing an unknown id.
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrMailboxDisabled is returned when mailbox operations are used on a
	// store constructed without WithMailbox.
	ErrMailboxDisabled = errors.New("mailbox is not enabled")

	// ErrMailboxFull is returned when the inbound mailbox cannot accept
	// another action.
	ErrMailboxFull = errors.New("mailbox is full")

	// ErrNotRunning is returned when the mailbox loop is not running.
	ErrNotRunning = errors.New("store mailbox is not running")

	// ErrAlreadyRunning is returned when Start is called twice.
	ErrAlreadyRunning = errors.New("store mailbox is already running")

	// ErrUnknownSlice is returned when rate rules reference an
	// unregistered slice.
	ErrUnknownSlice = errors.New("unknown slice")
)
