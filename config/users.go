package config

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseUserList parses a comma separated list of telegram user IDs,
// e.g. "123456789, 987654321". Empty entries are skipped.
func ParseUserList(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid user id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
