package cart

// State is the persistence lifecycle of the cart. Writes to the persisted
// store are only issued once the store is Ready, so an empty initial cart can
// never clobber a saved one.
type State int32

const (
	StateUninitialized State = iota
	StateHydrating
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateHydrating:
		return "hydrating"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}
