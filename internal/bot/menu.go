package bot

import (
	"strings"

	"github.com/numpanel/apiserver/types"
)

const startMenu = "🔹 Menu 🔹\nChoose category:\n1. Numbers (add/del/list)\n2. Users\n3. Admins\n4. Resellers\n\nUse commands like /sudo addnumber"

// menuForRole renders the capability list a role is allowed to see.
func menuForRole(role string) string {
	items := []string{"• Add Number", "• Del Number", "• List Number"}
	if role == types.RoleAdmin {
		items = append(items,
			"• Add User", "• Del User", "• List User",
			"• Add Admin", "• Del Admin", "• List Admin",
		)
	}
	if role == types.RoleReseller || role == types.RoleAdmin {
		items = append(items, "• Reseller Add/Del")
	}
	return "Menu (" + role + "):\n" + strings.Join(items, "\n")
}
