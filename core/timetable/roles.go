package timetable

import "strings"

// ClassifyRole maps a user's campus roles onto a timetable role.
// Student roles win over staff roles.
func ClassifyRole(campusRoles, studentRoles, staffRoles []string) (Role, error) {
	if len(campusRoles) == 0 {
		return "", ErrProfileNotSetUp
	}
	if intersects(campusRoles, studentRoles) {
		return RoleStudent, nil
	}
	if intersects(campusRoles, staffRoles) {
		return RoleStaff, nil
	}
	return "", ErrRoleUndetermined
}

func intersects(a, b []string) bool {
	set := make(map[string]struct{}, len(b))
	for _, s := range b {
		if s = strings.TrimSpace(s); s != "" {
			set[s] = struct{}{}
		}
	}
	for _, s := range a {
		if _, ok := set[strings.TrimSpace(s)]; ok {
			return true
		}
	}
	return false
}
