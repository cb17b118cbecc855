package domain

// Provisioning is a freshly enrolled two-factor secret together with the
// otpauth:// URI an authenticator app scans.
type Provisioning struct {
	Secret  string
	URI     string
	Issuer  string
	Account string
}
