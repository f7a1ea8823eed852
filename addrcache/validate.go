package addrcache

import (
	"strings"

	"github.com/stellar/go/strkey"
)

// ValidPublicKey reports whether s is a valid G address.
func ValidPublicKey(s string) bool {
	return strkey.IsValidEd25519PublicKey(s)
}

// ValidAccount reports whether s is a federation address or a G address.
func ValidAccount(s string) bool {
	return IsFederationAddress(s) || ValidPublicKey(s)
}

// IsFederationAddress reports whether s has the form name*domain.
func IsFederationAddress(s string) bool {
	name, domain, ok := strings.Cut(s, "*")
	return ok && name != "" && domain != "" && !strings.Contains(domain, "*")
}

// UsernameAddress returns the federation address of a user of the agent at
// host.
func UsernameAddress(username, host string) string {
	return username + "*" + host
}

// ValidRecipient reports whether recipient is a valid account to pay from
// the wallet of username at host. Paying oneself is not valid.
func ValidRecipient(username, host, recipient string) bool {
	if recipient == UsernameAddress(username, host) {
		return false
	}
	return ValidAccount(recipient)
}
