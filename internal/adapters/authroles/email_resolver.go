package authroles

import (
	domainauth "github.com/parkease/parkeased/internal/domain/auth"
)

// EmailListResolver derives roles from static email allow-lists.
// Matching is exact and case-sensitive against the email as supplied.
// The admin list is checked first: an email present in both lists
// (misconfiguration) resolves to admin.
//
// Allow-lists only scale to a handful of bootstrap accounts; a real
// deployment would source roles from provider claims or a permission table.
type EmailListResolver struct {
	AdminEmails     []string
	InspectorEmails []string
}

func (r EmailListResolver) Resolve(email string) domainauth.Role {
	for _, e := range r.AdminEmails {
		if e != "" && e == email {
			return domainauth.RoleAdmin
		}
	}
	for _, e := range r.InspectorEmails {
		if e != "" && e == email {
			return domainauth.RoleInspector
		}
	}
	return domainauth.RoleUser
}
