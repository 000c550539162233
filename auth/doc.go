// Copyright (c) 2026 Wiz Bikini.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth validates the admin credential for settings mutation.

# Bearer Tokens

BearerToken extracts the credential from the Authorization header:

	token, err := auth.BearerToken(r)

ValidateAdminToken compares it against the server-held secret:

	err := auth.ValidateAdminToken(token, cfg.AdminToken)

The comparison uses hmac.Equal so it runs in constant time regardless of
where the strings differ. A server configured with an empty secret rejects
every credential, including an empty one.

Webhook authentication lives elsewhere: provider signatures are verified in
the payments package against the raw request body.
*/
package auth
