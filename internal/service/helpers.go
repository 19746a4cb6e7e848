package service

import (
	"log"
	"strings"

	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/model"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/pkg/apperror"
)

// requireAdmin is the single capability check every privileged operation
// runs before touching anything. A failed check has no side effect, not
// even an audit entry.
func requireAdmin(actor *model.User) error {
	if actor == nil || actor.Role.Name != model.RoleAdmin {
		return apperror.ErrForbidden
	}
	return nil
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}

	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}

	result := trimmed
	return &result
}

func logAuditFailure(action string, err error) {
	log.Printf("Failed to write audit entry for %s: %v", action, err)
}
