package store

import "github.com/dshills/statestorm/action"

// routed pairs a selected slice with the action form its handler sees.
// The action is prefix-stripped only for inferred-prefix matches.
type routed struct {
	slice *slice
	act   action.Action
}

// routeResult is the router's output for one action.
type routeResult struct {
	selected []routed

	// missing holds explicit target names with no registered slice.
	// A diagnostic, not an error.
	missing []string
}

// route selects the slices an action should reach.
//
// Priority: an explicit target list wins outright, with no prefix
// handling and no stripping. Otherwise the routing prefix is the
// explicit meta override if set, else the segment before the first dot
// in the type, else none. With no prefix every slice is eligible and
// sees the action unmodified. With a prefix, a slice is eligible when
// its own prefix matches or is empty (catch-all); only inferred-prefix
// matches see a stripped type, catch-alls always get the original.
func (r *registry) route(a action.Action) routeResult {
	if targets := a.Targets(); len(targets) > 0 {
		var res routeResult
		for _, name := range targets {
			sl, ok := r.slices[name]
			if !ok {
				res.missing = append(res.missing, name)
				continue
			}
			res.selected = append(res.selected, routed{slice: sl, act: a})
		}
		return res
	}

	prefix, overridden := a.PrefixOverride()
	local := a.Type
	if !overridden {
		prefix, local = action.Split(a.Type)
	}

	var res routeResult
	for _, name := range r.order {
		sl := r.slices[name]
		switch {
		case prefix == "":
			// No routing prefix: everything is eligible, unstripped.
			res.selected = append(res.selected, routed{slice: sl, act: a})
		case sl.prefix == "":
			// Catch-all slices see the original type.
			res.selected = append(res.selected, routed{slice: sl, act: a})
		case sl.prefix == prefix:
			if overridden {
				// Override routing carries the type through unchanged.
				res.selected = append(res.selected, routed{slice: sl, act: a})
			} else {
				res.selected = append(res.selected, routed{slice: sl, act: a.Local(local)})
			}
		}
	}
	return res
}
