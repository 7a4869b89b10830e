package service

// commitOptimistic snapshots *state, applies mutate locally, then runs
// commit. When commit fails the snapshot is restored and the error is
// returned, so callers observe either the fully applied mutation or the
// exact pre-update state.
func commitOptimistic[S any](state *S, mutate func(*S), commit func() error) error {
	snapshot := *state
	mutate(state)
	if err := commit(); err != nil {
		*state = snapshot
		return err
	}
	return nil
}
