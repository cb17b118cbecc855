// Package adminsdk is a Go client for the admindesk HTTP API.
//
// The wire types in this package are shared with the server handlers, so a
// field rename here changes the JSON contract for the browser client too.
//
//	c := adminsdk.NewClient("http://localhost:8080")
//	resp, _ := c.Login(ctx, "admin", "admin123", "")
//	if resp.SetupRequired {
//		// show resp.QRCode, ask for a code, then log in again with it
//	}
//	sess, err := c.Authenticate(ctx, "admin", "admin123", code)
//	contacts, err := sess.ListContacts(ctx)
package adminsdk
