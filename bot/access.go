package bot

// allowed reports whether the user may talk to the bot. The
// allow-list is enforced only when the machine was configured for it
// (production environment with a non-empty list).
func (m *Machine) allowed(userID int64) bool {
	if !m.cfg.EnforceAllowList {
		return true
	}
	_, ok := m.allowList[userID]
	return ok
}

func buildAllowList(ids []int64) map[int64]struct{} {
	list := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		list[id] = struct{}{}
	}
	return list
}
