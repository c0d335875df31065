// Package action defines the immutable intent values dispatched through
// a session store.
//
// An Action carries a routing type, an arbitrary payload, and an ordered
// metadata map. Dot segments in the type ("user.reload") carry routing
// information: the segment before the first dot is the routing prefix.
// Metadata may name explicit reducer targets, override the routing
// prefix, mark the action asynchronous, or attach a cancellation token.
package action
